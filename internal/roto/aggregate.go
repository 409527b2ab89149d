package roto

import "github.com/omarshaarawi/rotobot/internal/models"

// StatLine holds counting totals keyed by stat ID. Ratio categories never
// live in a StatLine; they are derived from its components.
type StatLine map[models.StatID]float64

func (s StatLine) Clone() StatLine {
	out := make(StatLine, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Value is a team's value in one category. Defined is false when a ratio
// category has a zero summed denominator.
type Value struct {
	Amount  float64
	Defined bool
}

type TeamAggregate struct {
	TeamID     string
	Components StatLine
	Values     map[models.StatID]Value
}

func (a TeamAggregate) Clone() TeamAggregate {
	values := make(map[models.StatID]Value, len(a.Values))
	for k, v := range a.Values {
		values[k] = v
	}
	return TeamAggregate{TeamID: a.TeamID, Components: a.Components.Clone(), Values: values}
}

// Sum adds lines stat by stat, in argument order.
func Sum(lines ...StatLine) StatLine {
	out := make(StatLine)
	for _, line := range lines {
		for id, v := range line {
			out[id] += v
		}
	}
	return out
}

// SeasonLine extracts the season-to-date totals a player carries for ids.
// Missing stats count as zero.
func SeasonLine(p models.Player, ids []models.StatID) StatLine {
	line := make(StatLine, len(ids))
	for _, id := range ids {
		line[id] = p.Totals[id]
	}
	return line
}

// Derive turns summed components into category values.
func Derive(teamID string, line StatLine, cats []models.Category) TeamAggregate {
	agg := TeamAggregate{
		TeamID:     teamID,
		Components: line,
		Values:     make(map[models.StatID]Value, len(cats)),
	}
	for _, c := range cats {
		if !c.IsRatio() {
			agg.Values[c.ID] = Value{Amount: line[c.ID], Defined: true}
			continue
		}
		attempted := line[c.Attempted]
		if attempted == 0 {
			agg.Values[c.ID] = Value{}
			continue
		}
		agg.Values[c.ID] = Value{Amount: line[c.Made] / attempted, Defined: true}
	}
	return agg
}

// AggregateTeam folds season totals across the roster. Percentages reported
// per player are ignored: ratios come from the summed components only.
func AggregateTeam(t models.Team, cats []models.Category) TeamAggregate {
	ids := models.ComponentIDs(cats)
	lines := make([]StatLine, len(t.Roster))
	for i, p := range t.Roster {
		lines[i] = SeasonLine(p, ids)
	}
	return Derive(t.ID, Total(ids, lines), cats)
}

func AggregateLeague(l *models.League) []TeamAggregate {
	aggs := make([]TeamAggregate, len(l.Teams))
	for i, t := range l.Teams {
		aggs[i] = AggregateTeam(t, l.Categories)
	}
	return aggs
}

// Total sums lines in slice order so that two rosters holding the same
// players in the same slots always produce bit-identical totals.
func Total(ids []models.StatID, lines []StatLine) StatLine {
	out := make(StatLine, len(ids))
	for _, id := range ids {
		var total float64
		for _, line := range lines {
			total += line[id]
		}
		out[id] = total
	}
	return out
}
