package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

// RowSource delivers raw table rows for one dataset, starting from the
// given date.
type RowSource interface {
	FetchRows(ctx context.Context, dataset innings.Dataset, since time.Time) ([][]string, error)
}

// IngestReport summarises one ingestion run for a dataset.
type IngestReport struct {
	Dataset   innings.Dataset
	Inserted  int
	Duplicate int
	Failed    int
	Total     int
}

type IngestionService struct {
	mu           sync.Mutex
	source       RowSource
	teamRepo     innings.TeamRepository
	battingRepo  innings.BattingRepository
	bowlingRepo  innings.BowlingRepository
	normalizer   *Normalizer
	defaultSince time.Time
	logger       *slog.Logger
}

func NewIngestionService(
	source RowSource,
	teamRepo innings.TeamRepository,
	battingRepo innings.BattingRepository,
	bowlingRepo innings.BowlingRepository,
	defaultSince time.Time,
	logger *slog.Logger,
) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		source:       source,
		teamRepo:     teamRepo,
		battingRepo:  battingRepo,
		bowlingRepo:  bowlingRepo,
		normalizer:   NewNormalizer(logger),
		defaultSince: defaultSince,
		logger:       logger,
	}
}

// Ingest scrapes one dataset from its resolved start date, normalizes the
// rows and inserts the records that are not already stored. A nil since
// resumes from the day of the latest stored record, falling back to the
// configured default for an empty table. Runs are serialised so two
// concurrent calls cannot race the duplicate check.
func (s *IngestionService) Ingest(ctx context.Context, dataset string, since *time.Time) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	ds, ok := innings.ParseDataset(dataset)
	if !ok {
		return IngestReport{}, fmt.Errorf("%w: unknown dataset %q", ErrInvalidInput, dataset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.resolveSince(ctx, ds, since)
	if err != nil {
		return IngestReport{}, err
	}

	rows, err := s.source.FetchRows(ctx, ds, from)
	if err != nil {
		return IngestReport{}, fmt.Errorf("fetch %s rows: %w", ds, err)
	}

	report := IngestReport{Dataset: ds}
	var stats NormalizeStats
	switch ds {
	case innings.DatasetTeam:
		var records []innings.TeamInnings
		records, stats = s.normalizer.NormalizeTeam(rows)
		report.Inserted, report.Duplicate, report.Failed, err = s.ingestTeam(ctx, records)
	case innings.DatasetBatting:
		var records []innings.BattingInnings
		records, stats = s.normalizer.NormalizeBatting(rows)
		report.Inserted, report.Duplicate, report.Failed, err = s.ingestBatting(ctx, records)
	case innings.DatasetBowling:
		var records []innings.BowlingInnings
		records, stats = s.normalizer.NormalizeBowling(rows)
		report.Inserted, report.Duplicate, report.Failed, err = s.ingestBowling(ctx, records)
	}
	if err != nil {
		return IngestReport{}, err
	}
	report.Total = report.Inserted + report.Duplicate + report.Failed

	s.logger.InfoContext(ctx, "ingestion run complete",
		"dataset", ds,
		"since", from.Format("2006-01-02"),
		"inserted", report.Inserted,
		"duplicate", report.Duplicate,
		"failed", report.Failed,
		"dropped", stats.Dropped,
		"total", report.Total,
	)
	return report, nil
}

func (s *IngestionService) resolveSince(ctx context.Context, ds innings.Dataset, override *time.Time) (time.Time, error) {
	if override != nil {
		return *override, nil
	}
	var (
		latest time.Time
		found  bool
		err    error
	)
	switch ds {
	case innings.DatasetTeam:
		latest, found, err = s.teamRepo.LatestStartDate(ctx)
	case innings.DatasetBatting:
		latest, found, err = s.battingRepo.LatestStartDate(ctx)
	case innings.DatasetBowling:
		latest, found, err = s.bowlingRepo.LatestStartDate(ctx)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve %s start date: %w", ds, err)
	}
	if !found {
		return s.defaultSince, nil
	}
	return latest, nil
}

// earliestStartDate bounds the existing-keys lookup to the window the
// scrape could overlap.
func earliestStartDate[T interface{ innings.TeamInnings | innings.BattingInnings | innings.BowlingInnings }](records []T, date func(T) time.Time) time.Time {
	var min time.Time
	for i, rec := range records {
		if d := date(rec); i == 0 || d.Before(min) {
			min = d
		}
	}
	return min
}

func (s *IngestionService) ingestTeam(ctx context.Context, records []innings.TeamInnings) (inserted, duplicate, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, 0, nil
	}
	from := earliestStartDate(records, func(r innings.TeamInnings) time.Time { return r.StartDate })
	existing, err := s.teamRepo.ExistingKeys(ctx, from)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("load existing team keys: %w", err)
	}
	for _, rec := range records {
		key := rec.Key()
		if _, ok := existing[key]; ok {
			duplicate++
			continue
		}
		if err := s.teamRepo.Insert(ctx, rec); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "insert team innings", "team", rec.Team, "venue", rec.Venue, "error", err)
			continue
		}
		existing[key] = struct{}{}
		inserted++
	}
	return inserted, duplicate, failed, nil
}

func (s *IngestionService) ingestBatting(ctx context.Context, records []innings.BattingInnings) (inserted, duplicate, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, 0, nil
	}
	from := earliestStartDate(records, func(r innings.BattingInnings) time.Time { return r.StartDate })
	existing, err := s.battingRepo.ExistingKeys(ctx, from)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("load existing batting keys: %w", err)
	}
	for _, rec := range records {
		key := rec.Key()
		if _, ok := existing[key]; ok {
			duplicate++
			continue
		}
		if err := s.battingRepo.Insert(ctx, rec); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "insert batting innings", "player", rec.Player, "venue", rec.Venue, "error", err)
			continue
		}
		existing[key] = struct{}{}
		inserted++
	}
	return inserted, duplicate, failed, nil
}

func (s *IngestionService) ingestBowling(ctx context.Context, records []innings.BowlingInnings) (inserted, duplicate, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, 0, nil
	}
	from := earliestStartDate(records, func(r innings.BowlingInnings) time.Time { return r.StartDate })
	existing, err := s.bowlingRepo.ExistingKeys(ctx, from)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("load existing bowling keys: %w", err)
	}
	for _, rec := range records {
		key := rec.Key()
		if _, ok := existing[key]; ok {
			duplicate++
			continue
		}
		if err := s.bowlingRepo.Insert(ctx, rec); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "insert bowling innings", "player", rec.Player, "venue", rec.Venue, "error", err)
			continue
		}
		existing[key] = struct{}{}
		inserted++
	}
	return inserted, duplicate, failed, nil
}
