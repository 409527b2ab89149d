package config

import (
	"fmt"
	"math"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Analysis    Analysis
	Schedule    Schedule
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":80"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type ESPNAPI struct {
	Year         string        `envconfig:"YEAR"`
	LeagueID     string        `envconfig:"LEAGUE_ID"`
	SWID         string        `envconfig:"SWID"`
	ESPNS2       string        `envconfig:"ESPN_S2"`
	SnapshotFile string        `envconfig:"SNAPSHOT_FILE"`
	SnapshotTTL  time.Duration `envconfig:"SNAPSHOT_TTL" default:"6h"`
	RequestsPerS float64       `envconfig:"ESPN_RPS" default:"2"`
	MaxRetries   int           `envconfig:"ESPN_MAX_RETRIES" default:"3"`
}

type Analysis struct {
	RemainingGames     float64 `envconfig:"REMAINING_GAMES" default:"30"`
	TeamKey            string  `envconfig:"TEAM_KEY"`
	TopTrades          int     `envconfig:"TOP_TRADES" default:"5"`
	SafetyThreshold    float64 `envconfig:"SAFETY_THRESHOLD" default:"0.10"`
	TieBreak           string  `envconfig:"TIE_BREAK" default:"team_id"`
	SynergyMax         float64 `envconfig:"SYNERGY_MAX" default:"10"`
	SynergyScale       float64 `envconfig:"SYNERGY_SCALE" default:"2"`
	StrengthPercentile float64 `envconfig:"STRENGTH_PERCENTILE" default:"75"`
	WeaknessPercentile float64 `envconfig:"WEAKNESS_PERCENTILE" default:"25"`
}

type Schedule struct {
	Location string `envconfig:"TIMEZONE" default:"America/Chicago"`
	// Standard 5-field cron expressions.
	Standings string `envconfig:"STANDINGS_CRON" default:"30 7 * * 3"`
	Trades    string `envconfig:"TRADES_CRON" default:"30 7 * * 0"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configurations the analysis cannot run with. It does not
// check Telegram settings; the serve command does that itself.
func (c *Config) Validate() error {
	if c.ESPNAPI.SnapshotFile == "" && (c.ESPNAPI.LeagueID == "" || c.ESPNAPI.Year == "") {
		return fmt.Errorf("%w: LEAGUE_ID and YEAR are required unless SNAPSHOT_FILE is set", models.ErrInvalidConfiguration)
	}
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	for name, spec := range map[string]string{"STANDINGS_CRON": c.Schedule.Standings, "TRADES_CRON": c.Schedule.Trades} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%w: %s %q: %v", models.ErrInvalidConfiguration, name, spec, err)
		}
	}
	return nil
}

func (a Analysis) Validate() error {
	if !(a.RemainingGames > 0) || math.IsInf(a.RemainingGames, 0) {
		return fmt.Errorf("%w: remaining games must be positive, got %v", models.ErrInvalidConfiguration, a.RemainingGames)
	}
	if a.TopTrades <= 0 {
		return fmt.Errorf("%w: top trades must be positive, got %d", models.ErrInvalidConfiguration, a.TopTrades)
	}
	if a.SafetyThreshold < 0 || a.SafetyThreshold >= 1 {
		return fmt.Errorf("%w: safety threshold must be in [0, 1), got %v", models.ErrInvalidConfiguration, a.SafetyThreshold)
	}
	switch a.TieBreak {
	case "team_id", "team_name", "input_order":
	default:
		return fmt.Errorf("%w: unknown tie break %q", models.ErrInvalidConfiguration, a.TieBreak)
	}
	if a.SynergyMax <= 0 || a.SynergyScale <= 0 {
		return fmt.Errorf("%w: synergy max and scale must be positive", models.ErrInvalidConfiguration)
	}
	if a.WeaknessPercentile < 0 || a.StrengthPercentile > 100 || a.WeaknessPercentile >= a.StrengthPercentile {
		return fmt.Errorf("%w: percentile thresholds must satisfy 0 <= weakness < strength <= 100", models.ErrInvalidConfiguration)
	}
	return nil
}
