package innings

import (
	"context"
	"time"
)

type TeamRepository interface {
	Insert(ctx context.Context, rec TeamInnings) error
	ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error)
	ListAll(ctx context.Context) ([]TeamInnings, error)
	LatestStartDate(ctx context.Context) (time.Time, bool, error)
}

type BattingRepository interface {
	Insert(ctx context.Context, rec BattingInnings) error
	ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error)
	ListAll(ctx context.Context) ([]BattingInnings, error)
	LatestStartDate(ctx context.Context) (time.Time, bool, error)
	DistinctPlayers(ctx context.Context) ([]string, error)
}

type BowlingRepository interface {
	Insert(ctx context.Context, rec BowlingInnings) error
	ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error)
	ListAll(ctx context.Context) ([]BowlingInnings, error)
	LatestStartDate(ctx context.Context) (time.Time, bool, error)
	DistinctPlayers(ctx context.Context) ([]string, error)
}
