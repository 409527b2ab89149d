package espn

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/rotobot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// ESPN basketball stat IDs.
const (
	statPTS  = 0
	statBLK  = 1
	statSTL  = 2
	statAST  = 3
	statOREB = 4
	statDREB = 5
	statREB  = 6
	statTO   = 11
	statFGM  = 13
	statFGA  = 14
	statFTM  = 15
	statFTA  = 16
	stat3PM  = 17
	stat3PA  = 18
	statFGP  = 19
	statFTP  = 20
	stat3PP  = 21
	statMIN  = 40
	statGP   = 42
)

var statLabels = map[int]string{
	statPTS: "PTS", statBLK: "BLK", statSTL: "STL", statAST: "AST",
	statOREB: "OREB", statDREB: "DREB", statREB: "REB", statTO: "TO",
	statFGM: "FGM", statFGA: "FGA", statFTM: "FTM", statFTA: "FTA",
	stat3PM: "3PTM", stat3PA: "3PTA", statFGP: "FG%", statFTP: "FT%",
	stat3PP: "3PT%", statMIN: "MIN", statGP: "GP",
}

var ratioComponents = map[int][2]int{
	statFGP: {statFGM, statFGA},
	statFTP: {statFTM, statFTA},
	stat3PP: {stat3PM, stat3PA},
}

// Standard nine-category Roto, used when the league reports no scoring items.
var defaultScoring = []models.ScoringItem{
	{StatID: statFGP}, {StatID: statFTP}, {StatID: stat3PM}, {StatID: statPTS},
	{StatID: statREB}, {StatID: statAST}, {StatID: statSTL}, {StatID: statBLK},
	{StatID: statTO, IsReverseItem: true},
}

func statKey(id int) models.StatID {
	return models.StatID(strconv.Itoa(id))
}

// FetchLeague pulls settings, teams and rosters with season stats in one
// request and converts them into a league snapshot.
func (a *API) FetchLeague(ctx context.Context) (*models.League, error) {
	var resp models.LeagueResponse
	endpoint := fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
	params := map[string]string{
		"view": "mSettings,mTeam,mRoster",
	}

	if err := a.client.Get(ctx, endpoint, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching league %s: %w", a.client.Config.LeagueID, err)
	}

	return toLeague(resp), nil
}

func toLeague(resp models.LeagueResponse) *models.League {
	league := &models.League{
		ID:         strconv.Itoa(resp.ID),
		Name:       resp.Settings.Name,
		Season:     resp.SeasonID,
		Categories: categories(resp.Settings.ScoringSettings.ScoringItems),
		FetchedAt:  time.Now(),
	}

	managers := make(map[string]string, len(resp.Members))
	for _, m := range resp.Members {
		name := m.DisplayName
		if full := strings.TrimSpace(m.FirstName + " " + m.LastName); full != "" {
			name = full
		}
		managers[m.ID] = name
	}

	for _, t := range resp.Teams {
		team := models.Team{
			ID:      strconv.Itoa(t.ID),
			Name:    teamName(t),
			Manager: managers[t.PrimaryOwner],
		}
		if team.Manager == "" && len(t.Owners) > 0 {
			team.Manager = managers[t.Owners[0]]
		}
		for _, entry := range t.Roster.Entries {
			team.Roster = append(team.Roster, toPlayer(entry.PlayerPoolEntry.Player, resp.SeasonID))
		}
		league.Teams = append(league.Teams, team)
	}
	return league
}

func teamName(t models.ESPNTeam) string {
	if t.Name != "" {
		return t.Name
	}
	if name := strings.TrimSpace(t.Location + " " + t.Nickname); name != "" {
		return name
	}
	return t.Abbreviation
}

func categories(items []models.ScoringItem) []models.Category {
	if len(items) == 0 {
		items = defaultScoring
	}
	cats := make([]models.Category, 0, len(items))
	for _, item := range items {
		label, ok := statLabels[item.StatID]
		if !ok {
			label = fmt.Sprintf("Stat %d", item.StatID)
		}
		c := models.Category{ID: statKey(item.StatID), Label: label}
		if item.IsReverseItem {
			c.Direction = models.LowerBetter
		}
		if comp, ok := ratioComponents[item.StatID]; ok {
			c.Kind = models.Ratio
			c.Made = statKey(comp[0])
			c.Attempted = statKey(comp[1])
		}
		cats = append(cats, c)
	}
	return cats
}

// seasonTotals picks the actual full-season split for the given season.
func seasonTotals(p models.ESPNPlayer, season int) map[string]float64 {
	for _, s := range p.Stats {
		if s.StatSourceID == 0 && s.StatSplitTypeID == 0 && (season == 0 || s.SeasonID == season) {
			return s.Stats
		}
	}
	return nil
}

func toPlayer(p models.ESPNPlayer, season int) models.Player {
	player := models.Player{
		ID:       strconv.Itoa(p.ID),
		Name:     p.FullName,
		Position: getPositionString(p.DefaultPositionID),
		NBATeam:  getProTeamString(p.ProTeamID),
		Totals:   make(map[models.StatID]float64),
	}
	for k, v := range seasonTotals(p, season) {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if id == statGP {
			player.GamesPlayed = int(v)
			continue
		}
		player.Totals[statKey(id)] = v
	}
	return player
}

func getPositionString(positionID int) string {
	positions := map[int]string{
		1: "PG", 2: "SG", 3: "SF", 4: "PF", 5: "C",
	}
	if pos, ok := positions[positionID]; ok {
		return pos
	}
	return "Unknown"
}

func getProTeamString(proTeamID int) string {
	teams := map[int]string{
		0: "FA", 1: "ATL", 2: "BOS", 3: "NOP", 4: "CHI", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
		9: "GSW", 10: "HOU", 11: "IND", 12: "LAC", 13: "LAL", 14: "MIA", 15: "MIL", 16: "MIN",
		17: "BKN", 18: "NYK", 19: "ORL", 20: "PHI", 21: "PHX", 22: "POR", 23: "SAC", 24: "SAS",
		25: "OKC", 26: "UTA", 27: "WAS", 28: "TOR", 29: "MEM", 30: "CHA",
	}

	if team, ok := teams[proTeamID]; ok {
		return team
	}

	return "Unknown"
}
