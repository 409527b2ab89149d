package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLeagueFromYAML(t *testing.T) {
	league, err := NewSource(filepath.Join("..", "..", "service", "testdata", "league.yaml")).FetchLeague(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "21454", league.ID)
	require.Len(t, league.Categories, 4)
	assert.Equal(t, models.Ratio, league.Categories[0].Kind)
	assert.Equal(t, models.StatID("FGA"), league.Categories[0].Attempted)
	assert.Equal(t, models.LowerBetter, league.Categories[3].Direction)

	require.Len(t, league.Teams, 3)
	assert.Equal(t, "Sam Lee", league.Teams[0].Manager)
	assert.Equal(t, 40, league.Teams[0].Roster[0].GamesPlayed)
	assert.Equal(t, 760.0, league.Teams[0].Roster[0].Totals["FGA"])
}

func TestParseJSON(t *testing.T) {
	league, err := Parse([]byte(`{"leagueId": "7", "categories": [{"id": "PTS"}], "teams": [{"teamId": "a", "roster": [{"playerId": "x", "gamesPlayed": 3, "totals": {"PTS": 30}}]}]}`))
	require.NoError(t, err)

	assert.Equal(t, "PTS", league.Categories[0].Label)
	assert.Equal(t, 30.0, league.Teams[0].Roster[0].Totals["PTS"])
}

func TestParseRejectsInvalidSnapshots(t *testing.T) {
	tests := map[string]string{
		"unknown direction":        `{categories: [{id: TO, direction: sideways}]}`,
		"ratio without components": `{categories: [{id: FG%, kind: ratio}]}`,
		"player on two teams":      `{teams: [{teamId: a, roster: [{playerId: x}]}, {teamId: b, roster: [{playerId: x}]}]}`,
		"missing team id":          `{teams: [{name: nobody}]}`,
		"missing player id":        `{teams: [{teamId: a, roster: [{name: ghost}]}]}`,
		"negative games":           `{teams: [{teamId: a, roster: [{playerId: x, gamesPlayed: -1}]}]}`,
		"duplicate team id":        `{teams: [{teamId: a, roster: [{playerId: x, totals: {PTS: 100}}]}, {teamId: a, roster: [{playerId: y, totals: {PTS: 50}}]}, {teamId: b}]}`,
		"duplicate category id":    `{categories: [{id: PTS}, {id: REB}, {id: PTS}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestFetchLeagueMissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "missing.yaml")).FetchLeague(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
