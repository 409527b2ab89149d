package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omarshaarawi/rotobot/internal/api/fantasy"
	"github.com/omarshaarawi/rotobot/internal/api/file"
	"github.com/omarshaarawi/rotobot/internal/config"
	"github.com/omarshaarawi/rotobot/internal/metrics"
	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	fantasy.Source
	calls int
}

func (c *countingSource) FetchLeague(ctx context.Context) (*models.League, error) {
	c.calls++
	return c.Source.FetchLeague(ctx)
}

type failingSource struct{}

func (failingSource) FetchLeague(context.Context) (*models.League, error) {
	return nil, errors.New("connection refused")
}

func analysis() config.Analysis {
	return config.Analysis{
		RemainingGames:     30,
		TopTrades:          5,
		SafetyThreshold:    0.10,
		TieBreak:           "team_id",
		SynergyMax:         10,
		SynergyScale:       2,
		StrengthPercentile: 75,
		WeaknessPercentile: 25,
	}
}

func newService(t *testing.T, cfg config.Analysis) (*FantasyService, *countingSource) {
	t.Helper()
	src := &countingSource{Source: file.NewSource(filepath.Join("testdata", "league.yaml"))}
	svc, err := NewFantasyService(fantasy.NewAPI(src, memory.NewRepository(), 0), cfg, nil)
	require.NoError(t, err)
	return svc, src
}

func TestNewFantasyServiceRejectsBadConfig(t *testing.T) {
	cfg := analysis()
	cfg.RemainingGames = 0
	_, err := NewFantasyService(nil, cfg, nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestResolveTeam(t *testing.T) {
	svc, _ := newService(t, analysis())
	ctx := context.Background()

	for _, key := range []string{"1", "dunk tank", "Sam Lee", "Dunk Tnk"} {
		team, err := svc.ResolveTeam(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, "1", team.ID, key)
	}

	_, err := svc.ResolveTeam(ctx, "Lakers")
	assert.ErrorIs(t, err, models.ErrTeamNotFound)
	var notFound *models.TeamNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Lakers", notFound.Key)

	_, err = svc.ResolveTeam(ctx, "  ")
	assert.ErrorIs(t, err, models.ErrTeamNotSpecified)
}

func TestGetStandings(t *testing.T) {
	svc, src := newService(t, analysis())

	out, err := svc.GetStandings(context.Background(), false)
	require.NoError(t, err)

	assert.Contains(t, out, "1. *Glass Cleaners* - 9 pts")
	assert.Contains(t, out, "2. *Triple Threat* - 8 pts")
	assert.Contains(t, out, "3. *Dunk Tank* - 7 pts")
	assert.Contains(t, out, "FG% 0.528 (1)")

	_, err = svc.GetStandings(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls, "snapshot is fetched once per run")
}

func TestGetProjectedStandings(t *testing.T) {
	svc, _ := newService(t, analysis())

	out, err := svc.GetStandings(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, out, "Projected Standings* (30 games left)")
	assert.Contains(t, out, "*Glass Cleaners*")
}

func TestGetGapsSortedByOpportunity(t *testing.T) {
	svc, _ := newService(t, analysis())

	out, err := svc.GetGaps(context.Background(), "Dunk Tank")
	require.NoError(t, err)

	fg := strings.Index(out, "*FG%*")
	reb := strings.Index(out, "*REB*")
	pts := strings.Index(out, "*PTS*")
	to := strings.Index(out, "*TO*")
	require.True(t, fg >= 0 && reb >= 0 && pts >= 0 && to >= 0, out)
	assert.True(t, fg < reb && reb < pts && pts < to, out)
	assert.Contains(t, out, "*REB*: 700 (2 pts) · 30 to gain · 188 cushion")
}

func TestGetGapsNeedsTeam(t *testing.T) {
	svc, _ := newService(t, analysis())

	_, err := svc.GetGaps(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrTeamNotSpecified)
}

func TestGetSafetyMargins(t *testing.T) {
	cfg := analysis()
	cfg.SafetyThreshold = 0.2
	svc, _ := newService(t, cfg)

	out, err := svc.GetSafetyMargins(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out, "*PTS*: Glass Cleaners leads by 366 (51% of range) ✅ safe")
	assert.Contains(t, out, "*REB*: Glass Cleaners leads by 30 (14% of range) ⚠️ at risk")
}

func TestGetTradeSuggestions(t *testing.T) {
	cfg := analysis()
	cfg.TopTrades = 8
	svc, _ := newService(t, cfg)

	out, err := svc.GetTradeSuggestions(context.Background(), "Dunk Tank")
	require.NoError(t, err)

	assert.Contains(t, out, "Trade ideas for Dunk Tank")
	assert.Equal(t, 8, strings.Count(out, "Give *"))
	assert.Contains(t, out, "Tyrese Haliburton: no games")
	assert.Contains(t, out, "→")
}

func TestGetTradePartners(t *testing.T) {
	svc, _ := newService(t, analysis())
	ctx := context.Background()

	out, err := svc.GetTradePartners(ctx, "Triple Threat")
	require.NoError(t, err)
	first := strings.Index(out, "*Triple Threat + Glass Cleaners* (score 7.8)")
	second := strings.Index(out, "*Triple Threat + Dunk Tank* (score 3.9)")
	require.True(t, first >= 0 && second >= 0, out)
	assert.Less(t, first, second)
	assert.Contains(t, out, "Triple Threat needs PTS, REB")
	assert.Contains(t, out, "Glass Cleaners needs TO")

	all, err := svc.GetTradePartners(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, all, "*Dunk Tank + Glass Cleaners* (score 0.0)\n   no complementary categories")
}

func TestGetTeamRoster(t *testing.T) {
	svc, _ := newService(t, analysis())

	out, err := svc.GetTeamRoster(context.Background(), "2")
	require.NoError(t, err)

	assert.Contains(t, out, "*Triple Threat's Roster* (Alex Kim)")
	assert.Contains(t, out, "C Nikola Jokic (DEN) - 41 GP")
	assert.Contains(t, out, "FG% 0.577 (450/780) · 29.0 PTS · 12.5 REB")
	assert.Contains(t, out, "PG Tyrese Haliburton (IND) - no games")
}

func TestWhoHas(t *testing.T) {
	svc, _ := newService(t, analysis())
	ctx := context.Background()

	tests := map[string]string{
		"jokic":         "Triple Threat",
		"Stephen Crury": "Dunk Tank",
		"sabonis":       "Glass Cleaners",
	}
	for query, team := range tests {
		out, err := svc.WhoHas(ctx, query)
		require.NoError(t, err)
		assert.Contains(t, out, "*"+team+"*", query)
	}

	out, err := svc.WhoHas(ctx, "Wembanyama")
	require.NoError(t, err)
	assert.Contains(t, out, "No rostered player found")
}

func TestDataUnavailable(t *testing.T) {
	m := metrics.New()
	api := fantasy.NewAPI(failingSource{}, memory.NewRepository(), 0)
	api.OnFetch = m.ObserveFetch
	svc, err := NewFantasyService(api, analysis(), m)
	require.NoError(t, err)

	_, err = svc.GetStandings(context.Background(), false)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeagueFetches.WithLabelValues("error")))
}
