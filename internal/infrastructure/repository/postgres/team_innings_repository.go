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

type TeamInningsRepository struct {
	db *sqlx.DB
}

func NewTeamInningsRepository(db *sqlx.DB) *TeamInningsRepository {
	return &TeamInningsRepository{db: db}
}

func (r *TeamInningsRepository) Insert(ctx context.Context, rec innings.TeamInnings) error {
	insertModel := teamInningsInsertModel{
		Team:       rec.Team,
		Opposition: rec.Opposition,
		Score:      rec.Score,
		Wickets:    rec.Wickets,
		Declared:   rec.Declared,
		Overs:      rec.Overs,
		RunRate:    rec.RunRate,
		Lead:       rec.Lead,
		Inns:       rec.Inns,
		Result:     rec.Result,
		Venue:      rec.Venue,
		StartDate:  truncateToDay(rec.StartDate),
	}
	query, args, err := qb.InsertModel("team_innings", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert team innings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team innings: %w", err)
	}
	return nil
}

// ExistingKeys loads the natural keys of every stored row on or after
// from, in one query. The keys are rebuilt in Go with the same key
// function ingestion uses, so SQL text formatting of numerics can never
// disagree with the duplicate check.
func (r *TeamInningsRepository) ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error) {
	query, args, err := qb.Select("team", "score", "venue", "start_date").
		From("team_innings").
		Where(qb.Expr("start_date >= ?", truncateToDay(from))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team innings keys query: %w", err)
	}

	var rows []struct {
		Team      string    `db:"team"`
		Score     int       `db:"score"`
		Venue     string    `db:"venue"`
		StartDate time.Time `db:"start_date"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team innings keys: %w", err)
	}

	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[innings.TeamKey(row.Team, row.Score, row.Venue, truncateToDay(row.StartDate))] = struct{}{}
	}
	return out, nil
}

func (r *TeamInningsRepository) ListAll(ctx context.Context) ([]innings.TeamInnings, error) {
	query, args, err := qb.Select("*").From("team_innings").OrderBy("start_date", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team innings query: %w", err)
	}

	var rows []teamInningsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team innings: %w", err)
	}

	out := make([]innings.TeamInnings, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamInningsRepository) LatestStartDate(ctx context.Context) (time.Time, bool, error) {
	query, args, err := qb.Select("MAX(start_date) AS latest").From("team_innings").ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build select latest team start date query: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		if isNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("select latest team start date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return truncateToDay(latest.Time), true, nil
}
