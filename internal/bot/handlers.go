package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/rotobot/internal/models"
)

// Reporter is the report surface the bot and the scheduler need.
// *service.FantasyService implements it.
type Reporter interface {
	GetStandings(ctx context.Context, projected bool) (string, error)
	GetGaps(ctx context.Context, teamKey string) (string, error)
	GetSafetyMargins(ctx context.Context) (string, error)
	GetTradeSuggestions(ctx context.Context, teamKey string) (string, error)
	GetTradePartners(ctx context.Context, teamKey string) (string, error)
	GetTeamRoster(ctx context.Context, teamKey string) (string, error)
	WhoHas(ctx context.Context, playerName string) (string, error)
	Refresh()
}

const helpText = "Available commands:\n" +
	"/standings - Current Roto standings\n" +
	"/projected - Standings projected to the end of the season\n" +
	"/gaps <team> - Distance to the next team in every category\n" +
	"/margins - How safe each category lead is\n" +
	"/trades <team> - Best one-for-one trades for a team\n" +
	"/partners [team] - Teams with complementary needs\n" +
	"/team <team> - Roster with per-game averages\n" +
	"/whohas <player> - Check which team has a player\n" +
	"/refresh - Fetch fresh league data"

type Handler struct {
	reporter Reporter
	// used when a team command is sent without arguments
	defaultTeam string
}

func NewHandler(reporter Reporter, defaultTeam string) *Handler {
	return &Handler{reporter: reporter, defaultTeam: defaultTeam}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to RotoBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "standings":
		msg.Text = reply(h.reporter.GetStandings(ctx, false))
	case "projected":
		msg.Text = reply(h.reporter.GetStandings(ctx, true))
	case "margins":
		msg.Text = reply(h.reporter.GetSafetyMargins(ctx))
	case "gaps":
		msg.Text = h.teamCommand(ctx, command, args, h.reporter.GetGaps)
	case "trades":
		msg.Text = h.teamCommand(ctx, command, args, h.reporter.GetTradeSuggestions)
	case "team":
		msg.Text = h.teamCommand(ctx, command, args, h.reporter.GetTeamRoster)
	case "partners":
		// no team means every pairing in the league
		msg.Text = reply(h.reporter.GetTradePartners(ctx, args))
	case "whohas":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /whohas <player name>"
			break
		}
		msg.Text = reply(h.reporter.WhoHas(ctx, args))
	case "refresh":
		h.reporter.Refresh()
		msg.Text = "League data will be refetched on the next command."
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) teamCommand(ctx context.Context, command, args string, report func(context.Context, string) (string, error)) string {
	if args == "" {
		args = h.defaultTeam
	}
	text, err := report(ctx, args)
	switch {
	case errors.Is(err, models.ErrTeamNotSpecified):
		return fmt.Sprintf("Please provide a team name. Usage: /%s <team name>", command)
	case errors.Is(err, models.ErrTeamNotFound):
		return fmt.Sprintf("No team found matching '%s'.", args)
	}
	return reply(text, err)
}

func reply(text string, err error) string {
	if errors.Is(err, models.ErrDataUnavailable) {
		return "League data is unavailable right now. Try again later."
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return text
}
