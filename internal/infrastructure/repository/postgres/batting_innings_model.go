package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

type battingInningsTableModel struct {
	ID         int64     `db:"id"`
	Player     string    `db:"player"`
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Runs       int       `db:"runs"`
	NotOut     bool      `db:"not_out"`
	BallsFaced int       `db:"balls_faced"`
	Fours      int       `db:"fours"`
	Sixes      int       `db:"sixes"`
	StrikeRate float64   `db:"strike_rate"`
	Inns       int       `db:"inns"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type battingInningsInsertModel struct {
	Player     string    `db:"player"`
	Team       string    `db:"team"`
	Opposition string    `db:"opposition"`
	Runs       int       `db:"runs"`
	NotOut     bool      `db:"not_out"`
	BallsFaced int       `db:"balls_faced"`
	Fours      int       `db:"fours"`
	Sixes      int       `db:"sixes"`
	StrikeRate float64   `db:"strike_rate"`
	Inns       int       `db:"inns"`
	Venue      string    `db:"venue"`
	StartDate  time.Time `db:"start_date"`
}

func (m battingInningsTableModel) toDomain() innings.BattingInnings {
	return innings.BattingInnings{
		Player:     m.Player,
		Team:       m.Team,
		Opposition: m.Opposition,
		Runs:       m.Runs,
		NotOut:     m.NotOut,
		BallsFaced: m.BallsFaced,
		Fours:      m.Fours,
		Sixes:      m.Sixes,
		StrikeRate: m.StrikeRate,
		Inns:       m.Inns,
		Venue:      m.Venue,
		StartDate:  truncateToDay(m.StartDate),
	}
}
