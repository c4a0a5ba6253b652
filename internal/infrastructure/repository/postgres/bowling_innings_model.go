package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type bowlingInningsTableModel struct {
	ID         int64     `db:"id"`
	Player     string    `db:"player"`
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Overs      float64   `db:"overs"`
	Maidens    int       `db:"maidens"`
	Runs       int       `db:"runs"`
	Wickets    int       `db:"wickets"`
	Economy    float64   `db:"economy"`
	Inns       int       `db:"inns"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type bowlingInningsInsertModel struct {
	Player     string    `db:"player"`
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Overs      float64   `db:"overs"`
	Maidens    int       `db:"maidens"`
	Runs       int       `db:"runs"`
	Wickets    int       `db:"wickets"`
	Economy    float64   `db:"economy"`
	Inns       int       `db:"inns"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
}

func (m bowlingInningsTableModel) toDomain() innings.BowlingInnings {
	return innings.BowlingInnings{
		Player:     m.Player,
		Team:       m.Team,
		Opposition: m.Opposition,
		Overs:      m.Overs,
		Maidens:    m.Maidens,
		Runs:       m.Runs,
		Wickets:    m.Wickets,
		Economy:    m.Economy,
		Inns:       m.Inns,
		Venue:      m.Venue,
		StartDate:  truncateToDay(m.StartDate),
	}
}
