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

type BattingInningsRepository struct {
	db *sqlx.DB
}

func NewBattingInningsRepository(db *sqlx.DB) *BattingInningsRepository {
	return &BattingInningsRepository{db: db}
}

func (r *BattingInningsRepository) Insert(ctx context.Context, rec innings.BattingInnings) error {
	insertModel := battingInningsInsertModel{
		Player:     rec.Player,
		Team:       rec.Team,
		Opposition: rec.Opposition,
		Runs:       rec.Runs,
		NotOut:     rec.NotOut,
		BallsFaced: rec.BallsFaced,
		Fours:      rec.Fours,
		Sixes:      rec.Sixes,
		StrikeRate: rec.StrikeRate,
		Inns:       rec.Inns,
		Venue:      rec.Venue,
		StartDate:  truncateToDay(rec.StartDate),
	}
	query, args, err := qb.InsertModel("batting_innings", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert batting innings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batting innings: %w", err)
	}
	return nil
}

func (r *BattingInningsRepository) ExistingKeys(ctx context.Context, from time.Time) (map[string]struct{}, error) {
	query, args, err := qb.Select("player", "runs", "venue", "start_date").
		From("batting_innings").
		Where(qb.Expr("start_date >= ?", truncateToDay(from))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select batting innings keys query: %w", err)
	}

	var rows []struct {
		Player    string    `db:"player"`
		Runs      int       `db:"runs"`
		Venue     string    `db:"venue"`
		StartDate time.Time `db:"start_date"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select batting innings keys: %w", err)
	}

	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[innings.BattingKey(row.Player, row.Runs, row.Venue, truncateToDay(row.StartDate))] = struct{}{}
	}
	return out, nil
}

func (r *BattingInningsRepository) ListAll(ctx context.Context) ([]innings.BattingInnings, error) {
	query, args, err := qb.Select("*").From("batting_innings").OrderBy("start_date", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select batting innings query: %w", err)
	}

	var rows []battingInningsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select batting innings: %w", err)
	}

	out := make([]innings.BattingInnings, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BattingInningsRepository) LatestStartDate(ctx context.Context) (time.Time, bool, error) {
	query, args, err := qb.Select("MAX(start_date) AS latest").From("batting_innings").ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build select latest batting start date query: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		if isNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("select latest batting start date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return truncateToDay(latest.Time), true, nil
}

func (r *BattingInningsRepository) DistinctPlayers(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("DISTINCT player").From("batting_innings").OrderBy("player").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select distinct batting players query: %w", err)
	}

	var players []string
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("select distinct batting players: %w", err)
	}
	return players, nil
}
