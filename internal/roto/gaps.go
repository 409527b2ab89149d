package roto

import (
	"math"
	"sort"

	"github.com/omarshaarawi/rotobot/internal/models"
)

const DefaultSafetyThreshold = 0.10

// Gap describes how far a team sits from its neighbours in one category.
// Up is the value change that draws level with the nearest team holding a
// strictly better value; any further change overtakes it. Down is how much
// the team can give back before the nearest strictly worse team draws level.
type Gap struct {
	TeamID   string
	Category models.Category
	Value    float64
	Points   float64
	Position int
	Up       float64
	HasUp    bool
	Down     float64
	HasDown  bool
	// Undefined is set when the team has no value in the category (a ratio
	// with no attempts); every other field except Category is then zero.
	Undefined bool
}

// Gaps returns the team's gap in every category, in category order.
func Gaps(s Standings, teamID string) []Gap {
	gaps := make([]Gap, 0, len(s.Categories))
	for _, cr := range s.Categories {
		idx := -1
		for i, e := range cr.Entries {
			if e.TeamID == teamID {
				idx = i
				break
			}
		}
		if idx < 0 {
			gaps = append(gaps, Gap{TeamID: teamID, Category: cr.Category, Undefined: true})
			continue
		}

		e := cr.Entries[idx]
		g := Gap{TeamID: teamID, Category: cr.Category, Value: e.Value, Points: e.Points, Position: e.Position}
		for i := idx - 1; i >= 0; i-- {
			if cr.Entries[i].Value != e.Value {
				g.Up = math.Abs(cr.Entries[i].Value - e.Value)
				g.HasUp = true
				break
			}
		}
		for i := idx + 1; i < len(cr.Entries); i++ {
			if cr.Entries[i].Value != e.Value {
				g.Down = math.Abs(e.Value - cr.Entries[i].Value)
				g.HasDown = true
				break
			}
		}
		gaps = append(gaps, g)
	}
	return gaps
}

// ByOpportunity sorts gaps so the cheapest rank gains come first; categories
// the team already leads (or cannot rank in) go last.
func ByOpportunity(gaps []Gap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].HasUp != gaps[j].HasUp {
			return gaps[i].HasUp
		}
		if !gaps[i].HasUp {
			return false
		}
		return relative(gaps[i].Up, gaps[i].Value) < relative(gaps[j].Up, gaps[j].Value)
	})
}

// relative compares gaps across categories with different scales.
func relative(gap, value float64) float64 {
	if value == 0 {
		return gap
	}
	return gap / math.Abs(value)
}

type SafetyMargin struct {
	TeamID   string
	Category models.Category
	Lead     float64
	// Margin is Lead as a fraction of the league-wide value range.
	Margin float64
	Safe   bool
}

// SafetyMargins reports the lead of each sole category leader. A lead above
// threshold (as a fraction of the category range) is considered safe.
// Categories where the lead is shared or fewer than two teams rank are skipped.
func SafetyMargins(s Standings, threshold float64) []SafetyMargin {
	var out []SafetyMargin
	for _, cr := range s.Categories {
		if len(cr.Entries) < 2 {
			continue
		}
		best := cr.Entries[0]
		next := cr.Entries[1]
		worst := cr.Entries[len(cr.Entries)-1]
		if best.Value == next.Value {
			continue
		}
		spread := math.Abs(best.Value - worst.Value)
		lead := math.Abs(best.Value - next.Value)
		margin := lead / spread
		out = append(out, SafetyMargin{
			TeamID:   best.TeamID,
			Category: cr.Category,
			Lead:     lead,
			Margin:   margin,
			Safe:     margin > threshold,
		})
	}
	return out
}
