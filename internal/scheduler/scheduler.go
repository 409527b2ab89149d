package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/rotobot/internal/bot"
	"github.com/omarshaarawi/rotobot/internal/config"
)

type Scheduler struct {
	s           gocron.Scheduler
	reporter    bot.Reporter
	sendMessage func(string) error
	cfg         config.Schedule
	teamKey     string
}

func NewScheduler(reporter bot.Reporter, sendMessage func(string) error, cfg config.Schedule, teamKey string) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.Location, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reporter:    reporter,
		sendMessage: sendMessage,
		cfg:         cfg,
		teamKey:     teamKey,
	}, nil
}

func (s *Scheduler) Start() error {
	// Standings and category leads
	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.Standings, false),
		gocron.NewTask(s.sendStandings),
		gocron.WithName("standings"),
	)
	if err != nil {
		return fmt.Errorf("failed to create standings job: %w", err)
	}

	// Trade ideas for the configured team, or league-wide partners without one
	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.Trades, false),
		gocron.NewTask(s.sendTrades),
		gocron.WithName("trades"),
	)
	if err != nil {
		return fmt.Errorf("failed to create trades job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) Jobs() []gocron.Job {
	return s.s.Jobs()
}

func (s *Scheduler) sendStandings() {
	ctx := context.Background()
	standings, err := s.reporter.GetStandings(ctx, false)
	if err != nil {
		slog.Error("Failed to get standings", "error", err)
		return
	}
	s.send(standings)

	margins, err := s.reporter.GetSafetyMargins(ctx)
	if err != nil {
		slog.Error("Failed to get safety margins", "error", err)
		return
	}
	s.send(margins)
}

func (s *Scheduler) sendTrades() {
	ctx := context.Background()
	// pick up roster moves made since the last report
	s.reporter.Refresh()

	if s.teamKey == "" {
		partners, err := s.reporter.GetTradePartners(ctx, "")
		if err != nil {
			slog.Error("Failed to get trade partners", "error", err)
			return
		}
		s.send(partners)
		return
	}

	trades, err := s.reporter.GetTradeSuggestions(ctx, s.teamKey)
	if err != nil {
		slog.Error("Failed to get trade suggestions", "team", s.teamKey, "error", err)
		return
	}
	s.send(trades)
}

func (s *Scheduler) send(text string) {
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send scheduled report", "error", err)
	}
}
