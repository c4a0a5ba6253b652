package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type teamInningsTableModel struct {
	ID         int64     `db:"id"`
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Score      int       `db:"score"`
	Wickets    int       `db:"wickets"`
	Declared   bool      `db:"declared"`
	Overs      float64   `db:"overs"`
	RunRate    float64   `db:"run_rate"`
	Lead       int       `db:"lead"`
	Inns       int       `db:"inns"`
	Result     string    `db:"result"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type teamInningsInsertModel struct {
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Score      int       `db:"score"`
	Wickets    int       `db:"wickets"`
	Declared   bool      `db:"declared"`
	Overs      float64   `db:"overs"`
	RunRate    float64   `db:"run_rate"`
	Lead       int       `db:"lead"`
	Inns       int       `db:"inns"`
	Result     string    `db:"result"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
}

func (m teamInningsTableModel) toDomain() innings.TeamInnings {
	return innings.TeamInnings{
		Team:       m.Team,
		Opposition: m.Opposition,
		Score:      m.Score,
		Wickets:    m.Wickets,
		Declared:   m.Declared,
		Overs:      m.Overs,
		RunRate:    m.RunRate,
		Lead:       m.Lead,
		Inns:       m.Inns,
		Result:     m.Result,
		Venue:      m.Venue,
		StartDate:  truncateToDay(m.StartDate),
	}
}

// truncateToDay discards any time component a driver attaches to a DATE
// column. Identity resolution joins on exact date equality, so the
// truncation has to match what ingestion wrote.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
