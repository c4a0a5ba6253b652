package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type BowlingInningsRepository struct {
	mu    sync.RWMutex
	items []innings.BowlingInnings
}

func NewBowlingInningsRepository(seed []innings.BowlingInnings) *BowlingInningsRepository {
	r := &BowlingInningsRepository{}
	r.items = append(r.items, seed...)
	return r
}

func (r *BowlingInningsRepository) Insert(_ context.Context, rec innings.BowlingInnings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, rec)
	return nil
}

func (r *BowlingInningsRepository) ExistingKeys(_ context.Context, from time.Time) (map[string]struct{}, error) {
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

func (r *BowlingInningsRepository) ListAll(_ context.Context) ([]innings.BowlingInnings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]innings.BowlingInnings, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *BowlingInningsRepository) LatestStartDate(_ context.Context) (time.Time, bool, error) {
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

func (r *BowlingInningsRepository) DistinctPlayers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.items))
	out := make([]string, 0, len(r.items))
	for _, rec := range r.items {
		if _, ok := seen[rec.Player]; ok {
			continue
		}
		seen[rec.Player] = struct{}{}
		out = append(out, rec.Player)
	}
	return out, nil
}
