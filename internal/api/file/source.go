// Package file reads a league snapshot from a YAML or JSON document, for
// offline analysis and tests.
package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/omarshaarawi/rotobot/internal/models"
	"gopkg.in/yaml.v3"
)

type snapshot struct {
	LeagueID   string     `yaml:"leagueId"`
	Name       string     `yaml:"name"`
	Season     int        `yaml:"season"`
	Categories []category `yaml:"categories" validate:"unique=ID,dive"`
	Teams      []team     `yaml:"teams" validate:"unique=TeamID,dive"`
}

type category struct {
	ID         string      `yaml:"id" validate:"required"`
	Label      string      `yaml:"label"`
	Direction  string      `yaml:"direction" validate:"omitempty,oneof=higher-better lower-better"`
	Kind       string      `yaml:"kind" validate:"omitempty,oneof=counting ratio"`
	Components *components `yaml:"components"`
}

type components struct {
	Made      string `yaml:"made"`
	Attempted string `yaml:"attempted"`
}

type team struct {
	TeamID  string   `yaml:"teamId" validate:"required"`
	Name    string   `yaml:"name"`
	Manager string   `yaml:"manager"`
	Roster  []player `yaml:"roster" validate:"dive"`
}

type player struct {
	PlayerID    string             `yaml:"playerId" validate:"required"`
	Name        string             `yaml:"name"`
	Position    string             `yaml:"position"`
	NBATeam     string             `yaml:"nbaTeam"`
	GamesPlayed int                `yaml:"gamesPlayed" validate:"gte=0"`
	Totals      map[string]float64 `yaml:"totals"`
}

var validate = validator.New()

type Source struct {
	Path string
}

func NewSource(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) FetchLeague(ctx context.Context) (*models.League, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Parse(b)
}

// Parse decodes a snapshot. JSON input works too since YAML is a superset.
func Parse(b []byte) (*models.League, error) {
	var snap snapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := validate.Struct(&snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	league := &models.League{
		ID:        snap.LeagueID,
		Name:      snap.Name,
		Season:    snap.Season,
		FetchedAt: time.Now(),
	}
	for _, c := range snap.Categories {
		cat, err := c.toModel()
		if err != nil {
			return nil, err
		}
		league.Categories = append(league.Categories, cat)
	}

	seen := make(map[string]string)
	for _, t := range snap.Teams {
		mt := models.Team{ID: t.TeamID, Name: t.Name, Manager: t.Manager}
		for _, p := range t.Roster {
			if owner, dup := seen[p.PlayerID]; dup {
				return nil, fmt.Errorf("player %s is on both %s and %s", p.PlayerID, owner, t.TeamID)
			}
			seen[p.PlayerID] = t.TeamID
			totals := make(map[models.StatID]float64, len(p.Totals))
			for k, v := range p.Totals {
				totals[models.StatID(k)] = v
			}
			mt.Roster = append(mt.Roster, models.Player{
				ID:          p.PlayerID,
				Name:        p.Name,
				Position:    p.Position,
				NBATeam:     p.NBATeam,
				GamesPlayed: p.GamesPlayed,
				Totals:      totals,
			})
		}
		league.Teams = append(league.Teams, mt)
	}
	return league, nil
}

func (c category) toModel() (models.Category, error) {
	cat := models.Category{ID: models.StatID(c.ID), Label: c.Label}
	if cat.Label == "" {
		cat.Label = c.ID
	}
	switch c.Direction {
	case "", "higher-better":
	case "lower-better":
		cat.Direction = models.LowerBetter
	default:
		return cat, fmt.Errorf("category %s: unknown direction %q", c.ID, c.Direction)
	}
	switch c.Kind {
	case "", "counting":
	case "ratio":
		if c.Components == nil || c.Components.Made == "" || c.Components.Attempted == "" {
			return cat, fmt.Errorf("category %s: ratio needs made and attempted components", c.ID)
		}
		cat.Kind = models.Ratio
		cat.Made = models.StatID(c.Components.Made)
		cat.Attempted = models.StatID(c.Components.Attempted)
	default:
		return cat, fmt.Errorf("category %s: unknown kind %q", c.ID, c.Kind)
	}
	return cat, nil
}
