package roto

import (
	"fmt"
	"math"

	"github.com/omarshaarawi/rotobot/internal/models"
)

const DefaultRemainingGames = 30

type Projector struct {
	remainingGames float64
}

func NewProjector(remainingGames float64) (Projector, error) {
	if !(remainingGames > 0) || math.IsInf(remainingGames, 0) {
		return Projector{}, fmt.Errorf("%w: remaining games must be positive, got %v", models.ErrInvalidConfiguration, remainingGames)
	}
	return Projector{remainingGames: remainingGames}, nil
}

func (p Projector) RemainingGames() float64 {
	return p.remainingGames
}

// ROS projects a player's rest-of-season output as per-game rate times the
// remaining games estimate. A player with no games played has no rate, so the
// projection is an all-zero line and ok is false.
func (p Projector) ROS(player models.Player, ids []models.StatID) (line StatLine, ok bool) {
	line = make(StatLine, len(ids))
	if player.GamesPlayed <= 0 {
		for _, id := range ids {
			line[id] = 0
		}
		return line, false
	}
	games := float64(player.GamesPlayed)
	for _, id := range ids {
		line[id] = player.Totals[id] / games * p.remainingGames
	}
	return line, true
}

// Basis is season-to-date plus the ROS projection.
func (p Projector) Basis(player models.Player, ids []models.StatID) StatLine {
	ros, _ := p.ROS(player, ids)
	season := SeasonLine(player, ids)
	for id, v := range ros {
		season[id] += v
	}
	return season
}

// ProjectTeam aggregates basis lines over the roster.
func (p Projector) ProjectTeam(t models.Team, cats []models.Category) TeamAggregate {
	ids := models.ComponentIDs(cats)
	lines := make([]StatLine, len(t.Roster))
	for i, pl := range t.Roster {
		lines[i] = p.Basis(pl, ids)
	}
	return Derive(t.ID, Total(ids, lines), cats)
}

func (p Projector) ProjectLeague(l *models.League) []TeamAggregate {
	aggs := make([]TeamAggregate, len(l.Teams))
	for i, t := range l.Teams {
		aggs[i] = p.ProjectTeam(t, l.Categories)
	}
	return aggs
}
