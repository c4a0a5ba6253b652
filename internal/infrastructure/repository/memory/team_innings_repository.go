package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type TeamInningsRepository struct {
	mu    sync.RWMutex
	items []innings.TeamInnings
}

func NewTeamInningsRepository(seed []innings.TeamInnings) *TeamInningsRepository {
	r := &TeamInningsRepository{}
	r.items = append(r.items, seed...)
	return r
}

func (r *TeamInningsRepository) Insert(_ context.Context, rec innings.TeamInnings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, rec)
	return nil
}

func (r *TeamInningsRepository) ExistingKeys(_ context.Context, from time.Time) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for _, rec := range r.items {
		if rec.StartDate.Before(from) {
			continue
		}
		out[rec.Key()] = struct{}{}
	}
	return out, nil
}

func (r *TeamInningsRepository) ListAll(_ context.Context) ([]innings.TeamInnings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]innings.TeamInnings, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *TeamInningsRepository) LatestStartDate(_ context.Context) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest time.Time
	for _, rec := range r.items {
		if rec.StartDate.After(latest) {
			latest = rec.StartDate
		}
	}
	if latest.IsZero() {
		return time.Time{}, false, nil
	}
	return latest, true, nil
}
