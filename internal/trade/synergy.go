package trade

import (
	"fmt"
	"math"
	"sort"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/roto"
)

// SynergyConfig tunes the complementary-needs heuristic.
//
// A pairing scores Max * (1 - exp(-G/Scale)) where G sums, over every
// complementary category, the percentile distance between the two teams
// divided by 100. The score is 0 with no complementary categories, grows with
// both their count and their size, and stays below Max.
type SynergyConfig struct {
	Max                float64
	Scale              float64
	StrengthPercentile float64
	WeaknessPercentile float64
}

func DefaultSynergyConfig() SynergyConfig {
	return SynergyConfig{Max: 10, Scale: 2, StrengthPercentile: 75, WeaknessPercentile: 25}
}

func (c SynergyConfig) validate() error {
	if c.Max <= 0 || c.Scale <= 0 {
		return fmt.Errorf("%w: synergy max and scale must be positive", models.ErrInvalidConfiguration)
	}
	if c.WeaknessPercentile < 0 || c.StrengthPercentile > 100 || c.WeaknessPercentile >= c.StrengthPercentile {
		return fmt.Errorf("%w: percentile thresholds must satisfy 0 <= weakness < strength <= 100", models.ErrInvalidConfiguration)
	}
	return nil
}

// Percentiles gives each team's 0-100 standing per category among teams with
// a defined value. Ties take the midpoint rank: a team counts every strictly
// worse team plus half of the teams tied with it. A team ranking alone gets 50.
func Percentiles(aggs []roto.TeamAggregate, cats []models.Category) map[string]map[models.StatID]float64 {
	out := make(map[string]map[models.StatID]float64, len(aggs))
	for _, a := range aggs {
		out[a.TeamID] = make(map[models.StatID]float64, len(cats))
	}
	for _, c := range cats {
		type tv struct {
			team  string
			value float64
		}
		var defined []tv
		for _, a := range aggs {
			if v, ok := a.Values[c.ID]; ok && v.Defined {
				defined = append(defined, tv{a.TeamID, v.Amount})
			}
		}
		m := len(defined)
		for _, t := range defined {
			if m == 1 {
				out[t.team][c.ID] = 50
				continue
			}
			var worse, tied float64
			for _, o := range defined {
				switch {
				case o.team == t.team:
				case o.value == t.value:
					tied++
				case c.Better(t.value, o.value):
					worse++
				}
			}
			out[t.team][c.ID] = 100 * (worse + tied/2) / float64(m-1)
		}
	}
	return out
}

type TeamProfile struct {
	TeamID     string
	Strengths  []models.StatID
	Weaknesses []models.StatID
}

// Complement is one category where one side of a pairing is weak and the
// other strong. Gap is the percentile distance between them.
type Complement struct {
	Category models.Category
	Gap      float64
}

type Pairing struct {
	TeamA string
	TeamB string
	// Categories TeamA would improve in, drawing on TeamB's strength.
	AGets []Complement
	// Categories TeamB would improve in, drawing on TeamA's strength.
	BGets []Complement
	Score float64
}

// TwoWay reports whether both sides have something to gain.
func (p Pairing) TwoWay() bool {
	return len(p.AGets) > 0 && len(p.BGets) > 0
}

type Scorer struct {
	cfg      SynergyConfig
	cats     []models.Category
	aggs     []roto.TeamAggregate
	pct      map[string]map[models.StatID]float64
	profiles map[string]TeamProfile
}

func NewScorer(aggs []roto.TeamAggregate, cats []models.Category, cfg SynergyConfig) (*Scorer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		cfg:      cfg,
		cats:     cats,
		aggs:     aggs,
		pct:      Percentiles(aggs, cats),
		profiles: make(map[string]TeamProfile, len(aggs)),
	}
	for _, a := range aggs {
		p := TeamProfile{TeamID: a.TeamID}
		for _, c := range cats {
			v, ok := s.pct[a.TeamID][c.ID]
			if !ok {
				continue
			}
			switch {
			case v >= cfg.StrengthPercentile:
				p.Strengths = append(p.Strengths, c.ID)
			case v <= cfg.WeaknessPercentile:
				p.Weaknesses = append(p.Weaknesses, c.ID)
			}
		}
		s.profiles[a.TeamID] = p
	}
	return s, nil
}

func (s *Scorer) Profile(teamID string) (TeamProfile, bool) {
	p, ok := s.profiles[teamID]
	return p, ok
}

func (s *Scorer) Percentile(teamID string, id models.StatID) (float64, bool) {
	v, ok := s.pct[teamID][id]
	return v, ok
}

func (s *Scorer) isStrong(team string, id models.StatID) bool {
	v, ok := s.pct[team][id]
	return ok && v >= s.cfg.StrengthPercentile
}

func (s *Scorer) isWeak(team string, id models.StatID) bool {
	v, ok := s.pct[team][id]
	return ok && v <= s.cfg.WeaknessPercentile
}

// Pair scores one unordered team pairing.
func (s *Scorer) Pair(teamA, teamB string) Pairing {
	p := Pairing{TeamA: teamA, TeamB: teamB}
	var total float64
	for _, c := range s.cats {
		switch {
		case s.isWeak(teamA, c.ID) && s.isStrong(teamB, c.ID):
			gap := s.pct[teamB][c.ID] - s.pct[teamA][c.ID]
			p.AGets = append(p.AGets, Complement{Category: c, Gap: gap})
			total += gap / 100
		case s.isWeak(teamB, c.ID) && s.isStrong(teamA, c.ID):
			gap := s.pct[teamA][c.ID] - s.pct[teamB][c.ID]
			p.BGets = append(p.BGets, Complement{Category: c, Gap: gap})
			total += gap / 100
		}
	}
	p.Score = s.cfg.Max * (1 - math.Exp(-total/s.cfg.Scale))
	return p
}

// Pairings scores every unordered pair, best first. Pairs with equal scores
// keep league order.
func (s *Scorer) Pairings() []Pairing {
	var out []Pairing
	for i := range s.aggs {
		for j := i + 1; j < len(s.aggs); j++ {
			out = append(out, s.Pair(s.aggs[i].TeamID, s.aggs[j].TeamID))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// PartnersFor returns the pairings involving teamID, oriented so that TeamA
// is teamID.
func (s *Scorer) PartnersFor(teamID string) ([]Pairing, error) {
	if _, ok := s.profiles[teamID]; !ok {
		return nil, &models.TeamNotFoundError{Key: teamID}
	}
	var out []Pairing
	for _, a := range s.aggs {
		if a.TeamID == teamID {
			continue
		}
		out = append(out, s.Pair(teamID, a.TeamID))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
