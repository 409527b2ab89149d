package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/rotobot/internal/api/fantasy"
	"github.com/omarshaarawi/rotobot/internal/config"
	"github.com/omarshaarawi/rotobot/internal/metrics"
	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/roto"
	"github.com/omarshaarawi/rotobot/internal/trade"
)

const (
	teamMatchThreshold   = 0.6
	playerMatchThreshold = 0.7
)

type FantasyService struct {
	api      *fantasy.API
	tieBreak roto.TieBreak
	trades   trade.Config
	synergy  trade.SynergyConfig
	safety   float64
	metrics  *metrics.Metrics
}

// NewFantasyService builds the report layer. m may be nil.
func NewFantasyService(api *fantasy.API, cfg config.Analysis, m *metrics.Metrics) (*FantasyService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tb, err := roto.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}
	return &FantasyService{
		api:      api,
		tieBreak: tb,
		trades: trade.Config{
			RemainingGames: cfg.RemainingGames,
			TopTrades:      cfg.TopTrades,
			TieBreak:       tb,
		},
		synergy: trade.SynergyConfig{
			Max:                cfg.SynergyMax,
			Scale:              cfg.SynergyScale,
			StrengthPercentile: cfg.StrengthPercentile,
			WeaknessPercentile: cfg.WeaknessPercentile,
		},
		safety:  cfg.SafetyThreshold,
		metrics: m,
	}, nil
}

func (s *FantasyService) time(report string) func() {
	if s.metrics == nil {
		return func() {}
	}
	return s.metrics.Time(report)
}

func (s *FantasyService) league(ctx context.Context) (*models.League, error) {
	league, err := s.api.League(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching league: %w", err)
	}
	return league, nil
}

func (s *FantasyService) standings(league *models.League, projected bool) roto.Standings {
	var aggs []roto.TeamAggregate
	if projected {
		// validated in NewFantasyService
		p, _ := roto.NewProjector(s.trades.RemainingGames)
		aggs = p.ProjectLeague(league)
	} else {
		aggs = roto.AggregateLeague(league)
	}
	return roto.Rank(aggs, league.Categories, teamNames(league), s.tieBreak)
}

func teamNames(league *models.League) map[string]string {
	names := make(map[string]string, len(league.Teams))
	for _, t := range league.Teams {
		names[t.ID] = t.Name
	}
	return names
}

// ResolveTeam finds a team by ID, by exact name or manager, and finally by
// the closest name within the match threshold.
func (s *FantasyService) ResolveTeam(ctx context.Context, key string) (models.Team, error) {
	league, err := s.league(ctx)
	if err != nil {
		return models.Team{}, err
	}
	return resolveTeam(league, key)
}

func resolveTeam(league *models.League, key string) (models.Team, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.Team{}, models.ErrTeamNotSpecified
	}
	if t, ok := league.Team(key); ok {
		return *t, nil
	}
	for _, t := range league.Teams {
		if strings.EqualFold(t.Name, key) || strings.EqualFold(t.Manager, key) {
			return t, nil
		}
	}

	var best *models.Team
	bestScore := teamMatchThreshold
	for i, t := range league.Teams {
		score := similarity(key, t.Name)
		if score > bestScore {
			bestScore = score
			best = &league.Teams[i]
		}
	}
	if best == nil {
		return models.Team{}, &models.TeamNotFoundError{Key: key}
	}
	slog.Info("Resolved team by name", "key", key, "team", best.Name, "similarity", bestScore)
	return *best, nil
}

func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := float64(max(len(a), len(b)))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/maxLen
}

func (s *FantasyService) GetStandings(ctx context.Context, projected bool) (string, error) {
	defer s.time("standings")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	st := s.standings(league, projected)

	var sb strings.Builder
	if projected {
		sb.WriteString(fmt.Sprintf("🔮 *Projected Standings* (%g games left)\n\n", s.trades.RemainingGames))
	} else {
		sb.WriteString("🏆 *Current Standings*\n\n")
	}
	for _, row := range st.Rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* - %s pts\n", row.Rank, row.TeamName, formatPoints(row.Score)))
		var parts []string
		for _, c := range league.Categories {
			v := row.Values[c.ID]
			if !v.Defined {
				parts = append(parts, fmt.Sprintf("%s n/a", c.Label))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %s (%s)", c.Label, formatValue(c, v.Amount), formatPoints(row.Points[c.ID])))
		}
		sb.WriteString("   " + strings.Join(parts, " · ") + "\n")
	}
	return sb.String(), nil
}

// GetGaps lists the team's distance to the next team up and down in every
// category, easiest rank gains first.
func (s *FantasyService) GetGaps(ctx context.Context, teamKey string) (string, error) {
	defer s.time("gaps")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	team, err := resolveTeam(league, teamKey)
	if err != nil {
		return "", err
	}
	st := s.standings(league, false)
	gaps := roto.Gaps(st, team.ID)
	roto.ByOpportunity(gaps)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📏 *Category gaps for %s*\n\n", team.Name))
	for _, g := range gaps {
		c := g.Category
		if g.Undefined {
			sb.WriteString(fmt.Sprintf("*%s*: n/a\n", c.Label))
			continue
		}
		up := "leading"
		if g.HasUp {
			up = fmt.Sprintf("%s to gain", formatGap(c, g.Up))
		}
		down := "last"
		if g.HasDown {
			down = fmt.Sprintf("%s cushion", formatGap(c, g.Down))
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s (%s pts) · %s · %s\n", c.Label, formatValue(c, g.Value), formatPoints(g.Points), up, down))
	}
	return sb.String(), nil
}

func (s *FantasyService) GetSafetyMargins(ctx context.Context) (string, error) {
	defer s.time("margins")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	margins := roto.SafetyMargins(s.standings(league, false), s.safety)

	var sb strings.Builder
	sb.WriteString("🛡️ *Category Leaders*\n\n")
	if len(margins) == 0 {
		sb.WriteString("No category has a sole leader.")
		return sb.String(), nil
	}
	for _, m := range margins {
		status := "✅ safe"
		if !m.Safe {
			status = "⚠️ at risk"
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s leads by %s (%.0f%% of range) %s\n",
			m.Category.Label, league.TeamName(m.TeamID), formatGap(m.Category, m.Lead), m.Margin*100, status))
	}
	return sb.String(), nil
}

func (s *FantasyService) GetTradeSuggestions(ctx context.Context, teamKey string) (string, error) {
	defer s.time("trades")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	team, err := resolveTeam(league, teamKey)
	if err != nil {
		return "", err
	}
	sim, err := trade.NewSimulator(league, s.trades)
	if err != nil {
		return "", err
	}
	if s.metrics != nil {
		sim.OnSimulate = s.metrics.ObserveSimulation
	}
	candidates, err := sim.BestTrades(team.ID)
	if err != nil {
		return "", fmt.Errorf("error simulating trades: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔁 *Trade ideas for %s*\n\n", team.Name))
	if len(candidates) == 0 {
		sb.WriteString("No one-for-one trades to simulate.")
		return sb.String(), nil
	}
	for i, c := range candidates {
		partner := league.TeamName(c.TeamB)
		sb.WriteString(fmt.Sprintf("%d. Give *%s* for *%s* (%s)\n", i+1, c.PlayerA.Name, c.PlayerB.Name, partner))
		sb.WriteString(fmt.Sprintf("   %s: %s → %s (%s)\n", team.Name, formatPoints(c.OldScoreA), formatPoints(c.NewScoreA), formatDelta(c.DeltaA)))
		sb.WriteString(fmt.Sprintf("   %s: %s → %s (%s)\n", partner, formatPoints(c.OldScoreB), formatPoints(c.NewScoreB), formatDelta(c.DeltaB)))
		if c.MutualBenefit {
			sb.WriteString("   🤝 both teams gain\n")
		}
		if c.ZeroGamesA {
			sb.WriteString(fmt.Sprintf("   ⚠️ %s: no games\n", c.PlayerA.Name))
		}
		if c.ZeroGamesB {
			sb.WriteString(fmt.Sprintf("   ⚠️ %s: no games\n", c.PlayerB.Name))
		}
	}
	return sb.String(), nil
}

// GetTradePartners ranks complementary teams. With an empty key every pairing
// in the league is listed.
func (s *FantasyService) GetTradePartners(ctx context.Context, teamKey string) (string, error) {
	defer s.time("partners")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	scorer, err := trade.NewScorer(roto.AggregateLeague(league), league.Categories, s.synergy)
	if err != nil {
		return "", err
	}

	var pairings []trade.Pairing
	var sb strings.Builder
	if strings.TrimSpace(teamKey) == "" {
		pairings = scorer.Pairings()
		sb.WriteString("🤝 *Trade Partners*\n\n")
	} else {
		team, err := resolveTeam(league, teamKey)
		if err != nil {
			return "", err
		}
		if pairings, err = scorer.PartnersFor(team.ID); err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("🤝 *Trade Partners for %s*\n\n", team.Name))
	}

	for _, p := range pairings {
		a, b := league.TeamName(p.TeamA), league.TeamName(p.TeamB)
		sb.WriteString(fmt.Sprintf("*%s + %s* (score %.1f)\n", a, b, p.Score))
		if len(p.AGets) == 0 && len(p.BGets) == 0 {
			sb.WriteString("   no complementary categories\n")
			continue
		}
		if len(p.AGets) > 0 {
			sb.WriteString(fmt.Sprintf("   %s needs %s\n", a, complementLabels(p.AGets)))
		}
		if len(p.BGets) > 0 {
			sb.WriteString(fmt.Sprintf("   %s needs %s\n", b, complementLabels(p.BGets)))
		}
	}
	return sb.String(), nil
}

func complementLabels(cs []trade.Complement) string {
	labels := make([]string, len(cs))
	for i, c := range cs {
		labels[i] = c.Category.Label
	}
	return strings.Join(labels, ", ")
}

// GetTeamRoster shows per-game averages, with ratio categories broken into
// their made and attempted totals.
func (s *FantasyService) GetTeamRoster(ctx context.Context, teamKey string) (string, error) {
	defer s.time("roster")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}
	team, err := resolveTeam(league, teamKey)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s's Roster*", team.Name))
	if team.Manager != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", team.Manager))
	}
	sb.WriteString("\n\n")
	for _, p := range team.Roster {
		sb.WriteString(fmt.Sprintf("▫️ %s %s (%s)", p.Position, p.Name, p.NBATeam))
		if p.GamesPlayed <= 0 {
			sb.WriteString(" - no games\n")
			continue
		}
		sb.WriteString(fmt.Sprintf(" - %d GP\n", p.GamesPlayed))
		sb.WriteString("   " + playerLine(p, league.Categories) + "\n")
	}
	return sb.String(), nil
}

func playerLine(p models.Player, cats []models.Category) string {
	gp := float64(p.GamesPlayed)
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		if c.IsRatio() {
			made, att := p.Totals[c.Made], p.Totals[c.Attempted]
			if att == 0 {
				parts = append(parts, fmt.Sprintf("%s n/a", c.Label))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %s (%.0f/%.0f)", c.Label, formatValue(c, made/att), made, att))
			continue
		}
		parts = append(parts, fmt.Sprintf("%.1f %s", p.Totals[c.ID]/gp, c.Label))
	}
	return strings.Join(parts, " · ")
}

// WhoHas finds the rostered player whose name best matches playerName.
func (s *FantasyService) WhoHas(ctx context.Context, playerName string) (string, error) {
	defer s.time("whohas")()

	league, err := s.league(ctx)
	if err != nil {
		return "", err
	}

	player, teamID, ok := searchPlayers(league, playerName)
	if !ok {
		return fmt.Sprintf("🔍 No rostered player found matching '%s'.", playerName), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", player.Name, player.Position, player.NBATeam))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("*%s*\n", league.TeamName(teamID)))
	if player.GamesPlayed <= 0 {
		sb.WriteString("no games\n")
	} else {
		sb.WriteString(fmt.Sprintf("%d GP · %s\n", player.GamesPlayed, playerLine(player, league.Categories)))
	}
	return sb.String(), nil
}

// searchPlayers prefers names containing the query's letters in order, closest
// first, and falls back to edit distance on the full name for typos.
func searchPlayers(league *models.League, query string) (models.Player, string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Player{}, "", false
	}

	var names []string
	var ids []string
	for _, t := range league.Teams {
		for _, p := range t.Roster {
			names = append(names, p.Name)
			ids = append(ids, p.ID)
		}
	}

	if ranks := fuzzy.RankFindNormalizedFold(query, names); len(ranks) > 0 {
		sort.Stable(ranks)
		return league.FindPlayer(ids[ranks[0].OriginalIndex])
	}

	best := -1
	bestScore := playerMatchThreshold
	for i, name := range names {
		if score := similarity(query, name); score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return models.Player{}, "", false
	}
	return league.FindPlayer(ids[best])
}

func formatValue(c models.Category, v float64) string {
	if c.IsRatio() {
		return fmt.Sprintf("%.3f", v)
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func formatGap(c models.Category, v float64) string {
	if c.IsRatio() {
		return fmt.Sprintf("%.4f", v)
	}
	return formatValue(c, v)
}

func formatPoints(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f", p)
	}
	return fmt.Sprintf("%.1f", p)
}

func formatDelta(d float64) string {
	if d > 0 {
		return "+" + formatPoints(d)
	}
	return formatPoints(d)
}

// Refresh drops the cached snapshot so the next report fetches fresh data.
func (s *FantasyService) Refresh() {
	s.api.Refresh()
	slog.Info("League snapshot invalidated")
}
