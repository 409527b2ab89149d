package roto

import (
	"fmt"
	"sort"

	"github.com/omarshaarawi/rotobot/internal/models"
)

// TieBreak orders teams with equal Roto scores. Requirements leave this open,
// so it is a caller choice; every option is deterministic.
type TieBreak int

const (
	TieBreakTeamID TieBreak = iota
	TieBreakTeamName
	TieBreakInputOrder
)

func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "team_id":
		return TieBreakTeamID, nil
	case "team_name":
		return TieBreakTeamName, nil
	case "input_order":
		return TieBreakInputOrder, nil
	}
	return 0, fmt.Errorf("%w: unknown tie break %q", models.ErrInvalidConfiguration, s)
}

// RankedEntry is one team's place in a category, best first.
type RankedEntry struct {
	TeamID   string
	Value    float64
	Points   float64
	Position int
}

type CategoryRanking struct {
	Category models.Category
	Entries  []RankedEntry
	// Teams with an undefined value in this category. They score zero points.
	Excluded []string
}

type StandingsRow struct {
	TeamID    string
	TeamName  string
	Points    map[models.StatID]float64
	Values    map[models.StatID]Value
	Undefined []models.StatID
	Score     float64
	Rank      int
}

type Standings struct {
	Categories []CategoryRanking
	Rows       []StandingsRow
}

func (s Standings) Row(teamID string) (StandingsRow, bool) {
	for _, r := range s.Rows {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return StandingsRow{}, false
}

func (s Standings) Score(teamID string) float64 {
	r, _ := s.Row(teamID)
	return r.Score
}

func (s Standings) Category(id models.StatID) (CategoryRanking, bool) {
	for _, c := range s.Categories {
		if c.Category.ID == id {
			return c, true
		}
	}
	return CategoryRanking{}, false
}

// Rank scores every team in every category. names maps team IDs to display
// names and may be nil.
func Rank(aggs []TeamAggregate, cats []models.Category, names map[string]string, tb TieBreak) Standings {
	order := make(map[string]int, len(aggs))
	rows := make([]StandingsRow, len(aggs))
	for i, a := range aggs {
		order[a.TeamID] = i
		rows[i] = StandingsRow{
			TeamID:   a.TeamID,
			TeamName: names[a.TeamID],
			Points:   make(map[models.StatID]float64, len(cats)),
			Values:   a.Values,
		}
	}

	standings := Standings{Categories: make([]CategoryRanking, 0, len(cats))}
	for _, c := range cats {
		cr := rankCategory(aggs, c, order)
		for _, e := range cr.Entries {
			rows[order[e.TeamID]].Points[c.ID] = e.Points
		}
		for _, id := range cr.Excluded {
			row := &rows[order[id]]
			row.Points[c.ID] = 0
			row.Undefined = append(row.Undefined, c.ID)
		}
		standings.Categories = append(standings.Categories, cr)
	}

	for i := range rows {
		for _, c := range cats {
			rows[i].Score += rows[i].Points[c.ID]
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		switch tb {
		case TieBreakTeamName:
			if rows[i].TeamName != rows[j].TeamName {
				return rows[i].TeamName < rows[j].TeamName
			}
			return rows[i].TeamID < rows[j].TeamID
		case TieBreakInputOrder:
			return order[rows[i].TeamID] < order[rows[j].TeamID]
		default:
			return rows[i].TeamID < rows[j].TeamID
		}
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	standings.Rows = rows
	return standings
}

// rankCategory awards 1..M points worst to best among the M teams with a
// defined value. Tied teams share the average of the positions they occupy,
// which keeps the per-category total at M*(M+1)/2.
func rankCategory(aggs []TeamAggregate, c models.Category, order map[string]int) CategoryRanking {
	cr := CategoryRanking{Category: c}
	for _, a := range aggs {
		v, ok := a.Values[c.ID]
		if !ok || !v.Defined {
			cr.Excluded = append(cr.Excluded, a.TeamID)
			continue
		}
		cr.Entries = append(cr.Entries, RankedEntry{TeamID: a.TeamID, Value: v.Amount})
	}

	entries := cr.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return c.Better(entries[i].Value, entries[j].Value)
		}
		return order[entries[i].TeamID] < order[entries[j].TeamID]
	})

	m := len(entries)
	for i := 0; i < m; {
		j := i + 1
		for j < m && entries[j].Value == entries[i].Value {
			j++
		}
		var sum float64
		for k := i; k < j; k++ {
			sum += float64(m - k)
		}
		avg := sum / float64(j-i)
		for k := i; k < j; k++ {
			entries[k].Points = avg
			entries[k].Position = i + 1
		}
		i = j
	}
	return cr
}
