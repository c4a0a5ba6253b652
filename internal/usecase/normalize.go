package usecase

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
)

// Scraped column layouts, in source order. The blank column is a spacer
// the stats tables carry between the innings number and the opposition.
const (
	teamColTeam = iota
	teamColScore
	teamColOvers
	teamColRunRate
	teamColLead
	teamColInns
	teamColResult
	teamColBlank
	teamColOpposition
	teamColGround
	teamColStartDate
	teamColumnCount
)

const (
	battingColPlayer = iota
	battingColRuns
	battingColMins
	battingColBallsFaced
	battingColFours
	battingColSixes
	battingColStrikeRate
	battingColInns
	battingColBlank
	battingColOpposition
	battingColGround
	battingColStartDate
	battingColumnCount
)

const (
	bowlingColPlayer = iota
	bowlingColOvers
	bowlingColMaidens
	bowlingColRuns
	bowlingColWickets
	bowlingColEconomy
	bowlingColInns
	bowlingColBlank
	bowlingColOpposition
	bowlingColGround
	bowlingColStartDate
	bowlingColumnCount
)

const startDateLayout = "2 Jan 2006"

// NormalizeStats summarises one normalization pass.
type NormalizeStats struct {
	Kept    int
	Dropped int
}

// Normalizer turns raw scraped table rows into typed innings records.
// Rows that are structurally broken (too few cells, unparseable start
// date or score, non-participation sentinels) are dropped and counted;
// secondary numeric cells that fail to parse are clamped to zero with a
// warning so one bad cell does not discard the row.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

func (n *Normalizer) NormalizeTeam(rows [][]string) ([]innings.TeamInnings, NormalizeStats) {
	var stats NormalizeStats
	out := make([]innings.TeamInnings, 0, len(rows))
	for _, row := range rows {
		if len(row) < teamColumnCount {
			stats.Dropped++
			continue
		}
		startDate, err := time.Parse(startDateLayout, strings.TrimSpace(row[teamColStartDate]))
		if err != nil {
			stats.Dropped++
			continue
		}
		score, wickets, declared, err := innings.ParseScore(row[teamColScore])
		if err != nil {
			n.logger.Warn("drop team row with unparseable score", "score", row[teamColScore])
			stats.Dropped++
			continue
		}
		rec := innings.TeamInnings{
			Team:       innings.TeamName(strings.TrimSpace(row[teamColTeam])),
			Opposition: innings.CleanOpposition(row[teamColOpposition]),
			Score:      score,
			Wickets:    wickets,
			Declared:   declared,
			Overs:      n.oversOrZero(row[teamColOvers]),
			RunRate:    n.floatOrZero("run rate", row[teamColRunRate]),
			Lead:       n.intOrZero("lead", row[teamColLead]),
			Inns:       n.intOrZero("inns", row[teamColInns]),
			Result:     strings.TrimSpace(row[teamColResult]),
			Venue:      strings.TrimSpace(row[teamColGround]),
			StartDate:  startDate,
		}
		out = append(out, rec)
		stats.Kept++
	}
	return out, stats
}

func (n *Normalizer) NormalizeBatting(rows [][]string) ([]innings.BattingInnings, NormalizeStats) {
	var stats NormalizeStats
	out := make([]innings.BattingInnings, 0, len(rows))
	for _, row := range rows {
		if len(row) < battingColumnCount {
			stats.Dropped++
			continue
		}
		if innings.IsSentinel(row[battingColRuns]) {
			stats.Dropped++
			continue
		}
		startDate, err := time.Parse(startDateLayout, strings.TrimSpace(row[battingColStartDate]))
		if err != nil {
			stats.Dropped++
			continue
		}
		runs, notOut, err := innings.ParseRuns(row[battingColRuns])
		if err != nil {
			n.logger.Warn("drop batting row with unparseable runs", "runs", row[battingColRuns])
			stats.Dropped++
			continue
		}
		player, team := innings.SplitPlayerTeam(row[battingColPlayer])
		rec := innings.BattingInnings{
			Player:     player,
			Team:       team,
			Opposition: innings.CleanOpposition(row[battingColOpposition]),
			Runs:       runs,
			NotOut:     notOut,
			BallsFaced: n.intOrZero("balls faced", row[battingColBallsFaced]),
			Fours:      n.intOrZero("fours", row[battingColFours]),
			Sixes:      n.intOrZero("sixes", row[battingColSixes]),
			StrikeRate: n.floatOrZero("strike rate", row[battingColStrikeRate]),
			Inns:       n.intOrZero("inns", row[battingColInns]),
			Venue:      strings.TrimSpace(row[battingColGround]),
			StartDate:  startDate,
		}
		out = append(out, rec)
		stats.Kept++
	}
	return out, stats
}

func (n *Normalizer) NormalizeBowling(rows [][]string) ([]innings.BowlingInnings, NormalizeStats) {
	var stats NormalizeStats
	out := make([]innings.BowlingInnings, 0, len(rows))
	for _, row := range rows {
		if len(row) < bowlingColumnCount {
			stats.Dropped++
			continue
		}
		if innings.IsSentinel(row[bowlingColWickets]) || innings.IsSentinel(row[bowlingColOvers]) {
			stats.Dropped++
			continue
		}
		startDate, err := time.Parse(startDateLayout, strings.TrimSpace(row[bowlingColStartDate]))
		if err != nil {
			stats.Dropped++
			continue
		}
		player, team := innings.SplitPlayerTeam(row[bowlingColPlayer])
		rec := innings.BowlingInnings{
			Player:     player,
			Team:       team,
			Opposition: innings.CleanOpposition(row[bowlingColOpposition]),
			Overs:      n.oversOrZero(row[bowlingColOvers]),
			Maidens:    n.intOrZero("maidens", innings.NumberOrZero(row[bowlingColMaidens])),
			Runs:       n.intOrZero("runs", innings.NumberOrZero(row[bowlingColRuns])),
			Wickets:    n.intOrZero("wickets", innings.NumberOrZero(row[bowlingColWickets])),
			Economy:    n.floatOrZero("economy", innings.NumberOrZero(row[bowlingColEconomy])),
			Inns:       parseInns(row[bowlingColInns]),
			Venue:      strings.TrimSpace(row[bowlingColGround]),
			StartDate:  startDate,
		}
		out = append(out, rec)
		stats.Kept++
	}
	return out, stats
}

func (n *Normalizer) oversOrZero(cell string) float64 {
	v, err := innings.ParseOvers(cell)
	if err != nil {
		n.logger.Warn("unparseable overs cell, keeping row with zero overs", "overs", cell)
		return 0
	}
	return v
}

func (n *Normalizer) floatOrZero(field, cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n.logger.Warn("unparseable numeric cell, clamping to zero", "field", field, "value", cell)
		return 0
	}
	return v
}

func (n *Normalizer) intOrZero(field, cell string) int {
	s := strings.TrimSpace(cell)
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		n.logger.Warn("unparseable numeric cell, clamping to zero", "field", field, "value", cell)
		return 0
	}
	return v
}

// parseInns tolerates innings cells with trailing annotations by taking
// the leading numeric token, defaulting to 1.
func parseInns(cell string) int {
	fields := strings.Fields(cell)
	if len(fields) == 0 {
		return 1
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 1
	}
	return v
}
