package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, handler *Handler) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &TelegramBot{
		bot:     bot,
		handler: handler,
		chatID:  chatID,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			slog.Info("Handling command", "command", update.Message.Command(), "chat", update.Message.Chat.ID)
			msg := t.handler.HandleCommand(ctx, update)
			if _, err := t.bot.Send(msg); err != nil {
				slog.Error("Error sending message", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Telegram rejects messages longer than this.
const maxMessageLen = 4096

// SendMessage posts text to the configured chat, split on line boundaries
// when it is too long for one message.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		slog.Error("Chat ID not set")
		return fmt.Errorf("chat ID not set")
	}

	for _, chunk := range splitMessage(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		msg.ParseMode = "Markdown"
		if _, err := t.bot.Send(msg); err != nil {
			slog.Error("Error sending message", "error", err)
			return err
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if sb.Len() > 0 {
				chunks = append(chunks, sb.String())
				sb.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if sb.Len()+len(line) > limit {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		sb.WriteString(line)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
