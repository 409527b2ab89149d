package fantasy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarshaarawi/rotobot/internal/models"
	"github.com/omarshaarawi/rotobot/internal/repository/memory"
)

// Source supplies an already-parsed league snapshot. Retries, rate limits and
// authentication are the source's own business.
type Source interface {
	FetchLeague(ctx context.Context) (*models.League, error)
}

// API fronts a Source with the run's snapshot cache so repeated analysis
// never re-fetches.
type API struct {
	source Source
	repo   *memory.Repository
	ttl    time.Duration
	// serialises fetches so concurrent reports share one request
	mu sync.Mutex

	// OnFetch, when set, observes every fetch attempt.
	OnFetch func(err error)
}

func NewAPI(source Source, repo *memory.Repository, ttl time.Duration) *API {
	return &API{source: source, repo: repo, ttl: ttl}
}

// League returns the cached snapshot or fetches a new one. Any fetch failure
// is reported as models.ErrDataUnavailable.
func (a *API) League(ctx context.Context) (*models.League, error) {
	if league := a.repo.GetLeague(a.ttl); league != nil {
		return league, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if league := a.repo.GetLeague(a.ttl); league != nil {
		return league, nil
	}

	league, err := a.source.FetchLeague(ctx)
	if a.OnFetch != nil {
		a.OnFetch(err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
	}
	if err := checkLeague(league); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
	}

	slog.Info("Fetched league snapshot", "league", league.ID, "teams", len(league.Teams), "categories", league.CategoryLabels())
	a.repo.SaveLeague(league)
	return league, nil
}

// checkLeague rejects snapshots that would rank into garbled standings.
func checkLeague(league *models.League) error {
	if league == nil {
		return errors.New("source returned no league")
	}
	if len(league.Teams) == 0 || len(league.Categories) == 0 {
		return fmt.Errorf("league %s has no teams or categories", league.ID)
	}
	teams := make(map[string]bool, len(league.Teams))
	for _, t := range league.Teams {
		if teams[t.ID] {
			return fmt.Errorf("league %s: duplicate team id %q", league.ID, t.ID)
		}
		teams[t.ID] = true
	}
	cats := make(map[models.StatID]bool, len(league.Categories))
	for _, c := range league.Categories {
		if cats[c.ID] {
			return fmt.Errorf("league %s: duplicate category %q", league.ID, c.ID)
		}
		cats[c.ID] = true
	}
	return nil
}

// Refresh drops the cached snapshot so the next call fetches again.
func (a *API) Refresh() {
	a.repo.Invalidate()
}
