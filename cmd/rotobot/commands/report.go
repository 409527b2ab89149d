package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var projected bool

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Current (or projected) Roto standings",
	Args:  cobra.NoArgs,
	RunE: report(func(ctx context.Context, svc *service.FantasyService, _ *cobra.Command, _ []string) (string, error) {
		return svc.GetStandings(ctx, projected)
	}),
}

var gapsCmd = &cobra.Command{
	Use:   "gaps [team]",
	Short: "Distance to the next team up and down in every category",
	RunE:  teamReport((*service.FantasyService).GetGaps),
}

var marginsCmd = &cobra.Command{
	Use:   "margins",
	Short: "How safe each category leader's lead is",
	Args:  cobra.NoArgs,
	RunE: report(func(ctx context.Context, svc *service.FantasyService, _ *cobra.Command, _ []string) (string, error) {
		return svc.GetSafetyMargins(ctx)
	}),
}

var tradesCmd = &cobra.Command{
	Use:   "trades [team]",
	Short: "Best one-for-one trades for a team by projected standings gain",
	RunE:  teamReport((*service.FantasyService).GetTradeSuggestions),
}

var partnersCmd = &cobra.Command{
	Use:   "partners [team]",
	Short: "Teams with complementary category needs; every pairing without a team",
	RunE: report(func(ctx context.Context, svc *service.FantasyService, _ *cobra.Command, args []string) (string, error) {
		return svc.GetTradePartners(ctx, strings.Join(args, " "))
	}),
}

var rosterCmd = &cobra.Command{
	Use:   "roster [team]",
	Short: "A team's roster with per-game averages",
	RunE:  teamReport((*service.FantasyService).GetTeamRoster),
}

var whoHasCmd = &cobra.Command{
	Use:   "whohas <player>",
	Short: "Which team has a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: report(func(ctx context.Context, svc *service.FantasyService, _ *cobra.Command, args []string) (string, error) {
		return svc.WhoHas(ctx, strings.Join(args, " "))
	}),
}

func init() {
	rootCmd.AddCommand(standingsCmd, gapsCmd, marginsCmd, tradesCmd, partnersCmd, rosterCmd, whoHasCmd)

	standingsCmd.Flags().BoolVar(&projected, "projected", false, "rank season totals plus rest-of-season projections")
}

type reportFunc func(ctx context.Context, svc *service.FantasyService, cmd *cobra.Command, args []string) (string, error)

func report(fn reportFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		out, err := fn(cmd.Context(), a.service, cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
}

func teamReport(fn func(*service.FantasyService, context.Context, string) (string, error)) func(*cobra.Command, []string) error {
	return report(func(ctx context.Context, svc *service.FantasyService, cmd *cobra.Command, args []string) (string, error) {
		key, err := teamKey(cmd, args)
		if err != nil {
			return "", err
		}
		return fn(svc, ctx, key)
	})
}

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// teamKey picks the team from the arguments, then --team or TEAM_KEY, and
// only asks for one when stdin is a terminal.
func teamKey(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if cfg.Analysis.TeamKey != "" {
		return cfg.Analysis.TeamKey, nil
	}
	if !isTerminal() {
		return "", fmt.Errorf("%w: pass a team argument, --team or TEAM_KEY", models.ErrTeamNotSpecified)
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Team (name or ID): ")
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if key := strings.TrimSpace(line); key != "" {
		return key, nil
	}
	return "", models.ErrTeamNotSpecified
}
