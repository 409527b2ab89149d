package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/rotobot/internal/models"
)

// Repository holds the league snapshot for the current run. The snapshot is
// treated as immutable once saved.
type Repository struct {
	league  *models.League
	savedAt time.Time
	mu      sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveLeague(league *models.League) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.league = league
	r.savedAt = time.Now()
}

// GetLeague returns the cached snapshot, or nil if none was saved or it is
// older than maxAge. A non-positive maxAge never expires.
func (r *Repository) GetLeague(maxAge time.Duration) *models.League {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.league == nil {
		return nil
	}
	if maxAge > 0 && time.Since(r.savedAt) > maxAge {
		return nil
	}
	return r.league
}

func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.league = nil
}
