package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
	qb "github.com/riskibarqy/cricket-analytics/internal/platform/querybuilder"
)

type BowlingInningsRepository struct {
	db *sqlx.DB
}

func NewBowlingInningsRepository(db *sqlx.DB) *BowlingInningsRepository {
	return &BowlingInningsRepository{db: db}
}

func (r *BowlingInningsRepository) Insert(ctx context.Context, rec innings.BowlingInnings) error {
	insertModel := bowlingInningsInsertModel{
		Player:     rec.Player,
		Team:       rec.Team,
		Opposition: rec.Opposition,
		Overs:      rec.Overs,
		Maidens:    rec.Maidens,
		Runs:       rec.Runs,
		Wickets:    rec.Wickets,
		Economy:    rec.Economy,
		Inns:       rec.Inns,
		Venue:      rec.Venue,
		StartDate:  truncateToDay(rec.StartDate),
	}
	query, args, err := qb.InsertModel("bowling_innings", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert bowling innings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bowling innings: %w", err)
	}
	return nil
}

func (r *BowlingInningsRepository) ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error) {
	query, args, err := qb.Select("player", "overs", "maidens", "runs", "wickets", "venue", "start_date").
		From("bowling_innings").
		Where(qb.Expr("start_date >= ?", truncateToDay(from))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bowling innings keys query: %w", err)
	}

	var rows []struct {
		Player    string    `db:"player"`
		Overs     float64   `db:"overs"`
		Maidens   int       `db:"maidens"`
		Runs      int       `db:"runs"`
		Wickets   int       `db:"wickets"`
		Venue     string    `db:"venue"`
		StartDate time.Time `db:"start_date"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bowling innings keys: %w", err)
	}

	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[innings.BowlingKey(row.Player, row.Overs, row.Maidens, row.Runs, row.Wickets, row.Venue, truncateToDay(row.StartDate))] = struct{}{}
	}
	return out, nil
}

func (r *BowlingInningsRepository) ListAll(ctx context.Context) ([]innings.BowlingInnings, error) {
	query, args, err := qb.Select("*").From("bowling_innings").OrderBy("start_date", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bowling innings query: %w", err)
	}

	var rows []bowlingInningsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bowling innings: %w", err)
	}

	out := make([]innings.BowlingInnings, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BowlingInningsRepository) LatestStartDate(ctx context.Context) (time.Time, bool, error) {
	query, args, err := qb.Select("MAX(start_date) AS latest").From("bowling_innings").ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build select latest bowling start date query: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		if isNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("select latest bowling start date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return truncateToDay(latest.Time), true, nil
}

func (r *BowlingInningsRepository) DistinctPlayers(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("DISTINCT player").From("bowling_innings").OrderBy("player").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select distinct bowling players query: %w", err)
	}

	var players []string
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("select distinct bowling players: %w", err)
	}
	return players, nil
}
