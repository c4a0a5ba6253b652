package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type RefreshInput struct {
	// Datasets narrows the run; empty means all three.
	Datasets   []string
	Since      *time.Time
	MaxWorkers int
}

type RefreshResult struct {
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Tasks        []RefreshTaskResult `json:"tasks"`
}

type RefreshTaskResult struct {
	Dataset    string `json:"dataset"`
	Status     string `json:"status"`
	Inserted   int    `json:"inserted"`
	Duplicate  int    `json:"duplicate"`
	Failed     int    `json:"failed"`
	Total      int    `json:"total"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
)

// RefreshService fans a single refresh trigger out into one ingestion
// run per dataset. The ingestion service serialises the runs internally,
// so the pool here bounds the amount of queued work rather than the
// write concurrency.
type RefreshService struct {
	ingestion  *IngestionService
	maxWorkers int
}

func NewRefreshService(ingestion *IngestionService, maxWorkers int) *RefreshService {
	return &RefreshService{ingestion: ingestion, maxWorkers: maxWorkers}
}

func (s *RefreshService) Refresh(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Refresh")
	defer span.End()

	datasets, err := normalizeRefreshDatasets(input.Datasets)
	if err != nil {
		return RefreshResult{}, err
	}

	workerCount := normalizeRefreshWorkerCount(firstPositive(input.MaxWorkers, s.maxWorkers), len(datasets))
	result := RefreshResult{
		TaskCount:   len(datasets),
		WorkerCount: workerCount,
		Tasks:       make([]RefreshTaskResult, 0, len(datasets)),
	}

	results := make(chan RefreshTaskResult, len(datasets))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, dataset := range datasets {
		dataset := dataset
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{Dataset: string(dataset)}

			report, err := s.ingestion.Ingest(ctx, string(dataset), input.Since)
			if err != nil {
				row.Status = refreshStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = refreshStatusSuccess
				row.Inserted = report.Inserted
				row.Duplicate = report.Duplicate
				row.Failed = report.Failed
				row.Total = report.Total
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Dataset < result.Tasks[j].Dataset
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func normalizeRefreshDatasets(raw []string) ([]innings.Dataset, error) {
	if len(raw) == 0 {
		return []innings.Dataset{innings.DatasetTeam, innings.DatasetBatting, innings.DatasetBowling}, nil
	}

	seen := make(map[innings.Dataset]struct{}, len(raw))
	out := make([]innings.Dataset, 0, len(raw))
	for _, item := range raw {
		ds, ok := innings.ParseDataset(item)
		if !ok {
			return nil, fmt.Errorf("%w: unknown dataset %q", ErrInvalidInput, item)
		}
		if _, exists := seen[ds]; exists {
			continue
		}
		seen[ds] = struct{}{}
		out = append(out, ds)
	}
	return out, nil
}

func normalizeRefreshWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
