package models

import (
	"strings"
	"time"
)

type StatID string

type Direction int

const (
	HigherBetter Direction = iota
	LowerBetter
)

func (d Direction) String() string {
	if d == LowerBetter {
		return "lower-better"
	}
	return "higher-better"
}

type Kind int

const (
	Counting Kind = iota
	Ratio
)

func (k Kind) String() string {
	if k == Ratio {
		return "ratio"
	}
	return "counting"
}

// Category is one scored Roto statistic. Ratio categories carry the IDs of the
// two counting components they are derived from.
type Category struct {
	ID        StatID
	Label     string
	Direction Direction
	Kind      Kind
	Made      StatID
	Attempted StatID
}

func (c Category) IsRatio() bool {
	return c.Kind == Ratio
}

// Better reports whether value a ranks ahead of value b in this category.
func (c Category) Better(a, b float64) bool {
	if c.Direction == LowerBetter {
		return a < b
	}
	return a > b
}

type Player struct {
	ID          string
	Name        string
	Position    string
	NBATeam     string
	GamesPlayed int
	Totals      map[StatID]float64
}

func (p Player) Clone() Player {
	totals := make(map[StatID]float64, len(p.Totals))
	for k, v := range p.Totals {
		totals[k] = v
	}
	p.Totals = totals
	return p
}

type Team struct {
	ID      string
	Name    string
	Manager string
	Roster  []Player
}

func (t Team) Clone() Team {
	roster := make([]Player, len(t.Roster))
	for i, p := range t.Roster {
		roster[i] = p.Clone()
	}
	t.Roster = roster
	return t
}

// PlayerIndex returns the roster slot of the player, or -1.
func (t Team) PlayerIndex(playerID string) int {
	for i, p := range t.Roster {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

type League struct {
	ID         string
	Name       string
	Season     int
	Categories []Category
	Teams      []Team
	FetchedAt  time.Time
}

func (l *League) Clone() *League {
	out := *l
	out.Categories = append([]Category(nil), l.Categories...)
	out.Teams = make([]Team, len(l.Teams))
	for i, t := range l.Teams {
		out.Teams[i] = t.Clone()
	}
	return &out
}

func (l *League) Team(id string) (*Team, bool) {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i], true
		}
	}
	return nil, false
}

func (l *League) TeamName(id string) string {
	if t, ok := l.Team(id); ok {
		return t.Name
	}
	return id
}

// StatIDs lists every counting stat the categories need: counting categories
// themselves plus both components of every ratio category, in category order.
func (l *League) StatIDs() []StatID {
	return ComponentIDs(l.Categories)
}

func ComponentIDs(cats []Category) []StatID {
	seen := make(map[StatID]bool)
	var ids []StatID
	add := func(id StatID) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, c := range cats {
		if c.IsRatio() {
			add(c.Made)
			add(c.Attempted)
			continue
		}
		add(c.ID)
	}
	return ids
}

// FindPlayer looks a player up by ID across all rosters.
func (l *League) FindPlayer(playerID string) (Player, string, bool) {
	for _, t := range l.Teams {
		if i := t.PlayerIndex(playerID); i >= 0 {
			return t.Roster[i], t.ID, true
		}
	}
	return Player{}, "", false
}

func (l *League) CategoryLabels() string {
	labels := make([]string, len(l.Categories))
	for i, c := range l.Categories {
		labels[i] = c.Label
	}
	return strings.Join(labels, ", ")
}
