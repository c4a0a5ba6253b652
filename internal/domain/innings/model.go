package innings

import (
	"strconv"
	"strings"
	"time"
)

// Dataset names one of the three scraped innings tables.
type Dataset string

const (
	DatasetTeam    Dataset = "team"
	DatasetBatting Dataset = "batting"
	DatasetBowling Dataset = "bowling"
)

// ParseDataset validates a dataset name coming from the outside.
func ParseDataset(s string) (Dataset, bool) {
	switch Dataset(strings.ToLower(strings.TrimSpace(s))) {
	case DatasetTeam:
		return DatasetTeam, true
	case DatasetBatting:
		return DatasetBatting, true
	case DatasetBowling:
		return DatasetBowling, true
	}
	return "", false
}

type TeamInnings struct {
	Team       string
	Opposition string
	Score      int
	Wickets    int
	Declared   bool
	Overs      float64
	RunRate    float64
	Lead       int
	Inns       int
	Result     string
	Venue      string
	StartDate  time.Time
}

type BattingInnings struct {
	Player     string
	Team       string
	Opposition string
	Runs       int
	NotOut     bool
	BallsFaced int
	Fours      int
	Sixes      int
	StrikeRate float64
	Inns       int
	Venue      string
	StartDate  time.Time
}

type BowlingInnings struct {
	Player     string
	Team       string
	Opposition string
	Overs      float64
	Maidens    int
	Runs       int
	Wickets    int
	Economy    float64
	Inns       int
	Venue      string
	StartDate  time.Time
}

// Dedup keys mirror the existence checks used at insert time: a record is
// a duplicate when the identifying columns below already exist for the
// same venue and start date.

func TeamKey(team string, score int, venue string, startDate time.Time) string {
	return strings.Join([]string{
		team,
		strconv.Itoa(score),
		venue,
		startDate.Format("2006-01-02"),
	}, "|")
}

func BattingKey(player string, runs int, venue string, startDate time.Time) string {
	return strings.Join([]string{
		player,
		strconv.Itoa(runs),
		venue,
		startDate.Format("2006-01-02"),
	}, "|")
}

func BowlingKey(player string, overs float64, maidens, runs, wickets int, venue string, startDate time.Time) string {
	return strings.Join([]string{
		player,
		strconv.FormatFloat(overs, 'f', -1, 64),
		strconv.Itoa(maidens),
		strconv.Itoa(runs),
		strconv.Itoa(wickets),
		venue,
		startDate.Format("2006-01-02"),
	}, "|")
}

func (t TeamInnings) Key() string {
	return TeamKey(t.Team, t.Score, t.Venue, t.StartDate)
}

func (b BattingInnings) Key() string {
	return BattingKey(b.Player, b.Runs, b.Venue, b.StartDate)
}

func (b BowlingInnings) Key() string {
	return BowlingKey(b.Player, b.Overs, b.Maidens, b.Runs, b.Wickets, b.Venue, b.StartDate)
}
