package commands

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/rotobot/internal/api/espn"
	"github.com/omarshaarawi/rotobot/internal/api/fantasy"
	"github.com/omarshaarawi/rotobot/internal/api/file"
	"github.com/omarshaarawi/rotobot/internal/config"
	"github.com/omarshaarawi/rotobot/internal/metrics"
	"github.com/omarshaarawi/rotobot/internal/repository/memory"
	"github.com/omarshaarawi/rotobot/internal/service"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile         string
	snapshotFile    string
	leagueID        string
	year            string
	remainingGames  float64
	topTrades       int
	safetyThreshold float64
	tieBreak        string
	teamFlag        string
	verbose         bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rotobot",
	Short: "Roto fantasy basketball standings, category gaps and trade ideas",
	Long: `rotobot reads an ESPN fantasy basketball league (or a YAML/JSON snapshot)
and reports Roto standings, per-category gaps, safety margins, simulated
one-for-one trades and complementary trade partners.

Examples:
  rotobot standings --projected
  rotobot gaps "Dunk Tank"
  rotobot trades --team 3 --top 10
  rotobot partners --snapshot league.yaml
  rotobot serve`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file to load environment variables from")
	rootCmd.PersistentFlags().StringVar(&snapshotFile, "snapshot", "", "read the league from a YAML or JSON snapshot instead of ESPN (SNAPSHOT_FILE)")
	rootCmd.PersistentFlags().StringVar(&leagueID, "league-id", "", "ESPN league ID (LEAGUE_ID)")
	rootCmd.PersistentFlags().StringVar(&year, "year", "", "ESPN season year (YEAR)")
	rootCmd.PersistentFlags().Float64Var(&remainingGames, "remaining-games", 30, "games left per player for ROS projection (REMAINING_GAMES)")
	rootCmd.PersistentFlags().IntVar(&topTrades, "top", 5, "number of trade candidates to show (TOP_TRADES)")
	rootCmd.PersistentFlags().Float64Var(&safetyThreshold, "safety-threshold", 0.10, "lead, as a fraction of the category range, considered safe (SAFETY_THRESHOLD)")
	rootCmd.PersistentFlags().StringVar(&tieBreak, "tie-break", "team_id", "order for teams with equal scores: team_id, team_name or input_order (TIE_BREAK)")
	rootCmd.PersistentFlags().StringVar(&teamFlag, "team", "", "your team name or ID (TEAM_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if err := godotenv.Load(envFile); err != nil {
		if cmd.Flags().Changed("env-file") {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		slog.Debug("No .env file loaded", "file", envFile, "error", err)
	}

	c, err := config.New()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("snapshot") {
		c.ESPNAPI.SnapshotFile = snapshotFile
	}
	if flags.Changed("league-id") {
		c.ESPNAPI.LeagueID = leagueID
	}
	if flags.Changed("year") {
		c.ESPNAPI.Year = year
	}
	if flags.Changed("remaining-games") {
		c.Analysis.RemainingGames = remainingGames
	}
	if flags.Changed("top") {
		c.Analysis.TopTrades = topTrades
	}
	if flags.Changed("safety-threshold") {
		c.Analysis.SafetyThreshold = safetyThreshold
	}
	if flags.Changed("tie-break") {
		c.Analysis.TieBreak = tieBreak
	}
	if flags.Changed("team") {
		c.Analysis.TeamKey = teamFlag
	}

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

type app struct {
	service *service.FantasyService
	metrics *metrics.Metrics
}

func newApp(c *config.Config) (*app, error) {
	m := metrics.New()

	var source fantasy.Source
	if c.ESPNAPI.SnapshotFile != "" {
		source = file.NewSource(c.ESPNAPI.SnapshotFile)
	} else {
		source = espn.NewAPI(espn.NewClient(c.ESPNAPI))
	}

	api := fantasy.NewAPI(source, memory.NewRepository(), c.ESPNAPI.SnapshotTTL)
	api.OnFetch = m.ObserveFetch

	svc, err := service.NewFantasyService(api, c.Analysis, m)
	if err != nil {
		return nil, err
	}
	return &app{service: svc, metrics: m}, nil
}
