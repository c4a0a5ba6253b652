package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type BattingInningsRepository struct {
	mu    sync.RWMutex
	items []innings.BattingInnings
}

func NewBattingInningsRepository(seed []innings.BattingInnings) *BattingInningsRepository {
	r := &BattingInningsRepository{}
	r.items = append(r.items, seed...)
	return r
}

func (r *BattingInningsRepository) Insert(_ context.Context, rec innings.BattingInnings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, rec)
	return nil
}

func (r *BattingInningsRepository) ExistingKeys(_ context.Context, from time.Time) (map[string]struct{}, error) {
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

func (r *BattingInningsRepository) ListAll(_ context.Context) ([]innings.BattingInnings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]innings.BattingInnings, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *BattingInningsRepository) LatestStartDate(_ context.Context) (time.Time, bool, error) {
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

func (r *BattingInningsRepository) DistinctPlayers(_ context.Context) ([]string, error) {
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
