package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/omarshaarawi/rotobot/internal/bot"
	"github.com/omarshaarawi/rotobot/internal/metrics"
	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/scheduler"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, weekly reports and the health/metrics server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.TelegramBot.Token == "" {
		return fmt.Errorf("%w: TELEGRAM_TOKEN is required to serve", models.ErrInvalidConfiguration)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	handler := bot.NewHandler(a.service, cfg.Analysis.TeamKey)
	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, handler)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(a.service, telegramBot.SendMessage, cfg.Schedule, cfg.Analysis.TeamKey)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a.metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", healthCheckHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthCheckHandler).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
