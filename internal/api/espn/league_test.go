package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omarshaarawi/rotobot/internal/config"
	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leagueJSON = `{
  "id": 21454,
  "seasonId": 2025,
  "settings": {
    "name": "Hoops Roto",
    "scoringSettings": {
      "scoringType": "ROTO",
      "scoringItems": [
        {"statId": 19, "isReverseItem": false},
        {"statId": 0, "isReverseItem": false},
        {"statId": 11, "isReverseItem": true}
      ]
    }
  },
  "members": [{"id": "{M1}", "displayName": "hooper", "firstName": "Sam", "lastName": "Lee"}],
  "teams": [
    {
      "id": 1, "abbrev": "SAM", "name": "Sam's Squad", "primaryOwner": "{M1}",
      "roster": {"entries": [
        {"playerId": 3975, "lineupSlotId": 0, "playerPoolEntry": {"id": 3975, "onTeamId": 1, "player": {
          "id": 3975, "fullName": "Stephen Curry", "defaultPositionId": 1, "proTeamId": 9,
          "stats": [
            {"id": "102025", "seasonId": 2025, "statSourceId": 1, "statSplitTypeId": 0, "stats": {"0": 9999}},
            {"id": "002025", "seasonId": 2025, "statSourceId": 0, "statSplitTypeId": 0,
             "stats": {"0": 1200, "11": 140, "13": 420, "14": 900, "19": 0.467, "42": 48}}
          ]
        }}}
      ]}
    },
    {"id": 2, "location": "Team", "nickname": "Two", "roster": {"entries": []}}
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.ESPNAPI{Year: "2025", LeagueID: "21454", RequestsPerS: 1000, MaxRetries: 2})
	c.BaseURL = srv.URL
	c.backoff = time.Millisecond
	return NewAPI(c)
}

func TestFetchLeague(t *testing.T) {
	api := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2025/segments/0/leagues/21454", r.URL.Path)
		assert.ElementsMatch(t, []string{"mSettings", "mTeam", "mRoster"}, r.URL.Query()["view"])
		assert.Empty(t, r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(leagueJSON))
	})

	league, err := api.FetchLeague(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "21454", league.ID)
	assert.Equal(t, "Hoops Roto", league.Name)
	require.Len(t, league.Categories, 3)

	fg := league.Categories[0]
	assert.Equal(t, "FG%", fg.Label)
	assert.Equal(t, models.Ratio, fg.Kind)
	assert.Equal(t, models.StatID("13"), fg.Made)
	assert.Equal(t, models.StatID("14"), fg.Attempted)
	assert.Equal(t, models.LowerBetter, league.Categories[2].Direction)

	require.Len(t, league.Teams, 2)
	team := league.Teams[0]
	assert.Equal(t, "Sam's Squad", team.Name)
	assert.Equal(t, "Sam Lee", team.Manager)
	require.Len(t, team.Roster, 1)

	curry := team.Roster[0]
	assert.Equal(t, "Stephen Curry", curry.Name)
	assert.Equal(t, "PG", curry.Position)
	assert.Equal(t, "GSW", curry.NBATeam)
	assert.Equal(t, 48, curry.GamesPlayed)
	assert.Equal(t, 1200.0, curry.Totals["0"], "projected split must be ignored")
	assert.Equal(t, 900.0, curry.Totals["14"])

	assert.Equal(t, "Team Two", league.Teams[1].Name)
}

func TestDefaultCategories(t *testing.T) {
	cats := categories(nil)
	require.Len(t, cats, 9)
	assert.Equal(t, "TO", cats[8].Label)
	assert.Equal(t, models.LowerBetter, cats[8].Direction)
	assert.Equal(t, models.Ratio, cats[1].Kind)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	api := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(leagueJSON))
	})

	_, err := api.FetchLeague(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetryAuthErrors(t *testing.T) {
	var calls int32
	api := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := api.FetchLeague(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAuthErrorsDoNotTripBreaker(t *testing.T) {
	var calls int32
	api := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	for i := 0; i < 8; i++ {
		_, err := api.FetchLeague(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Contains(t, err.Error(), "401")
	}
	assert.Equal(t, int32(8), atomic.LoadInt32(&calls))
}

func TestServerErrorsTripBreaker(t *testing.T) {
	api := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	var err error
	for i := 0; i < 3; i++ {
		_, err = api.FetchLeague(context.Background())
	}
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCookiesForPrivateLeagues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SWID={abc}; espn_s2=token", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(leagueJSON))
	}))
	defer srv.Close()

	c := NewClient(config.ESPNAPI{Year: "2025", LeagueID: "21454", SWID: "{abc}", ESPNS2: "token", RequestsPerS: 1000})
	c.BaseURL = srv.URL

	_, err := NewAPI(c).FetchLeague(context.Background())
	require.NoError(t, err)
}
