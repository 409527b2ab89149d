package trade

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/roto"
)

const DefaultTopTrades = 5

type Config struct {
	RemainingGames float64
	TopTrades      int
	TieBreak       roto.TieBreak
}

func DefaultConfig() Config {
	return Config{RemainingGames: roto.DefaultRemainingGames, TopTrades: DefaultTopTrades}
}

// Candidate is one simulated one-for-one swap: PlayerA leaves TeamA for
// TeamB and PlayerB goes the other way.
type Candidate struct {
	PlayerA models.Player
	TeamA   string
	PlayerB models.Player
	TeamB   string

	OldScoreA float64
	NewScoreA float64
	DeltaA    float64
	OldScoreB float64
	NewScoreB float64
	DeltaB    float64

	MutualBenefit bool
	// Set when the player has no games played and so no ROS projection.
	ZeroGamesA bool
	ZeroGamesB bool
}

// Simulator evaluates trades against one immutable league snapshot. Basis
// totals (season plus ROS) and the baseline standings are computed once.
type Simulator struct {
	league    *models.League
	cfg       Config
	projector roto.Projector
	ids       []models.StatID
	names     map[string]string
	// basis lines per team, slot-aligned with the roster.
	basis    map[string][]roto.StatLine
	aggs     []roto.TeamAggregate
	teamIdx  map[string]int
	baseline roto.Standings

	// OnSimulate, when set, is called after every evaluated candidate.
	OnSimulate func()
}

func NewSimulator(league *models.League, cfg Config) (*Simulator, error) {
	projector, err := roto.NewProjector(cfg.RemainingGames)
	if err != nil {
		return nil, err
	}
	if cfg.TopTrades <= 0 {
		return nil, fmt.Errorf("%w: top trades must be positive, got %d", models.ErrInvalidConfiguration, cfg.TopTrades)
	}

	s := &Simulator{
		league:    league,
		cfg:       cfg,
		projector: projector,
		ids:       league.StatIDs(),
		names:     make(map[string]string, len(league.Teams)),
		basis:     make(map[string][]roto.StatLine, len(league.Teams)),
		aggs:      make([]roto.TeamAggregate, len(league.Teams)),
		teamIdx:   make(map[string]int, len(league.Teams)),
	}
	for i, t := range league.Teams {
		s.names[t.ID] = t.Name
		s.teamIdx[t.ID] = i
		lines := make([]roto.StatLine, len(t.Roster))
		for j, p := range t.Roster {
			lines[j] = projector.Basis(p, s.ids)
		}
		s.basis[t.ID] = lines
		s.aggs[i] = s.derive(t.ID, lines)
	}
	s.baseline = roto.Rank(s.aggs, league.Categories, s.names, cfg.TieBreak)
	return s, nil
}

// Baseline is the projected standings before any trade.
func (s *Simulator) Baseline() roto.Standings {
	return s.baseline
}

func (s *Simulator) Aggregates() []roto.TeamAggregate {
	out := make([]roto.TeamAggregate, len(s.aggs))
	for i, a := range s.aggs {
		out[i] = a.Clone()
	}
	return out
}

func (s *Simulator) derive(teamID string, lines []roto.StatLine) roto.TeamAggregate {
	return roto.Derive(teamID, roto.Total(s.ids, lines), s.league.Categories)
}

// Simulate swaps playerA (on teamA) with playerB (on teamB) and re-ranks the
// whole league. Only the two teams' totals change, but every team's points
// may move because ranking is relative.
func (s *Simulator) Simulate(playerA, teamA, playerB, teamB string) (Candidate, error) {
	ia, slotA, err := s.locate(playerA, teamA)
	if err != nil {
		return Candidate{}, err
	}
	ib, slotB, err := s.locate(playerB, teamB)
	if err != nil {
		return Candidate{}, err
	}
	if teamA == teamB {
		return Candidate{}, fmt.Errorf("%w: both players are on %s", models.ErrInvalidConfiguration, teamA)
	}

	linesA := append([]roto.StatLine(nil), s.basis[teamA]...)
	linesB := append([]roto.StatLine(nil), s.basis[teamB]...)
	linesA[slotA], linesB[slotB] = linesB[slotB], linesA[slotA]

	aggs := make([]roto.TeamAggregate, len(s.aggs))
	copy(aggs, s.aggs)
	aggs[ia] = s.derive(teamA, linesA)
	aggs[ib] = s.derive(teamB, linesB)

	after := roto.Rank(aggs, s.league.Categories, s.names, s.cfg.TieBreak)

	pa := s.league.Teams[ia].Roster[slotA]
	pb := s.league.Teams[ib].Roster[slotB]
	c := Candidate{
		PlayerA:    pa,
		TeamA:      teamA,
		PlayerB:    pb,
		TeamB:      teamB,
		OldScoreA:  s.baseline.Score(teamA),
		NewScoreA:  after.Score(teamA),
		OldScoreB:  s.baseline.Score(teamB),
		NewScoreB:  after.Score(teamB),
		ZeroGamesA: pa.GamesPlayed <= 0,
		ZeroGamesB: pb.GamesPlayed <= 0,
	}
	c.DeltaA = c.NewScoreA - c.OldScoreA
	c.DeltaB = c.NewScoreB - c.OldScoreB
	c.MutualBenefit = c.DeltaA > 0 && c.DeltaB > 0

	if s.OnSimulate != nil {
		s.OnSimulate()
	}
	return c, nil
}

func (s *Simulator) locate(playerID, teamID string) (teamIndex, slot int, err error) {
	ti, ok := s.teamIdx[teamID]
	if !ok {
		return 0, 0, &models.TeamNotFoundError{Key: teamID}
	}
	slot = s.league.Teams[ti].PlayerIndex(playerID)
	if slot < 0 {
		return 0, 0, fmt.Errorf("%w: %s on %s", models.ErrPlayerNotOnTeam, playerID, teamID)
	}
	return ti, slot, nil
}

// BestTrades simulates every pairing of a player from teamID with a player
// from each opponent and returns the top candidates by teamID's score delta.
// Candidates that change nothing are kept; no effect is still an answer.
func (s *Simulator) BestTrades(teamID string) ([]Candidate, error) {
	ti, ok := s.teamIdx[teamID]
	if !ok {
		return nil, &models.TeamNotFoundError{Key: teamID}
	}
	mine := s.league.Teams[ti]

	var all []Candidate
	for _, opp := range s.league.Teams {
		if opp.ID == teamID {
			continue
		}
		for _, own := range mine.Roster {
			for _, theirs := range opp.Roster {
				c, err := s.Simulate(own.ID, teamID, theirs.ID, opp.ID)
				if err != nil {
					return nil, err
				}
				all = append(all, c)
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].DeltaA != all[j].DeltaA {
			return all[i].DeltaA > all[j].DeltaA
		}
		return all[i].DeltaB > all[j].DeltaB
	})

	slog.Info("Simulated trades", "team", teamID, "candidates", len(all))
	if len(all) > s.cfg.TopTrades {
		all = all[:s.cfg.TopTrades]
	}
	return all, nil
}

// Swap returns a copy of the league with the trade applied. Each player takes
// the other's roster slot, so swapping back restores the original order.
func Swap(league *models.League, playerA, teamA, playerB, teamB string) (*models.League, error) {
	if teamA == teamB {
		return nil, fmt.Errorf("%w: both players are on %s", models.ErrInvalidConfiguration, teamA)
	}
	out := league.Clone()
	ta, ok := out.Team(teamA)
	if !ok {
		return nil, &models.TeamNotFoundError{Key: teamA}
	}
	tb, ok := out.Team(teamB)
	if !ok {
		return nil, &models.TeamNotFoundError{Key: teamB}
	}
	sa := ta.PlayerIndex(playerA)
	if sa < 0 {
		return nil, fmt.Errorf("%w: %s on %s", models.ErrPlayerNotOnTeam, playerA, teamA)
	}
	sb := tb.PlayerIndex(playerB)
	if sb < 0 {
		return nil, fmt.Errorf("%w: %s on %s", models.ErrPlayerNotOnTeam, playerB, teamB)
	}
	ta.Roster[sa], tb.Roster[sb] = tb.Roster[sb], ta.Roster[sa]
	return out, nil
}
