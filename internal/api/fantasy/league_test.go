package fantasy

import (
	"context"
	"testing"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	league *models.League
	calls  int
}

func (s *staticSource) FetchLeague(context.Context) (*models.League, error) {
	s.calls++
	return s.league, nil
}

func pointsLeague(teamIDs ...string) *models.League {
	league := &models.League{
		ID:         "7",
		Categories: []models.Category{{ID: "PTS", Label: "PTS"}},
	}
	for _, id := range teamIDs {
		league.Teams = append(league.Teams, models.Team{ID: id, Name: id})
	}
	return league
}

func TestLeagueIsCached(t *testing.T) {
	src := &staticSource{league: pointsLeague("a", "b")}
	api := NewAPI(src, memory.NewRepository(), 0)

	for i := 0; i < 3; i++ {
		league, err := api.League(context.Background())
		require.NoError(t, err)
		assert.Len(t, league.Teams, 2)
	}
	assert.Equal(t, 1, src.calls)

	api.Refresh()
	_, err := api.League(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestLeagueRejectsUnusableSnapshots(t *testing.T) {
	dupCategory := pointsLeague("a", "b")
	dupCategory.Categories = append(dupCategory.Categories, models.Category{ID: "PTS", Label: "PTS"})

	tests := map[string]*models.League{
		"nil league":         nil,
		"no teams":           pointsLeague(),
		"no categories":      {ID: "7", Teams: []models.Team{{ID: "a"}}},
		"duplicate team":     pointsLeague("a", "a", "b"),
		"duplicate category": dupCategory,
	}
	for name, league := range tests {
		t.Run(name, func(t *testing.T) {
			api := NewAPI(&staticSource{league: league}, memory.NewRepository(), 0)
			_, err := api.League(context.Background())
			assert.ErrorIs(t, err, models.ErrDataUnavailable)
		})
	}
}
