package innings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// teamNames maps the country codes used in scraped player cells to full
// team names. Unknown codes pass through unchanged.
var teamNames = map[string]string{
	"IND": "India",
	"PAK": "Pakistan",
	"AUS": "Australia",
	"ENG": "England",
	"BAN": "Bangladesh",
	"AFG": "Afghanistan",
	"IRE": "Ireland",
	"SA":  "South Africa",
	"SL":  "Sri Lanka",
	"NZ":  "New Zealand",
	"WI":  "West Indies",
	"ZIM": "Zimbabwe",
}

// TeamName resolves a scraped country code to a full team name.
func TeamName(code string) string {
	if name, ok := teamNames[code]; ok {
		return name
	}
	return code
}

var playerTeamPattern = regexp.MustCompile(`\((.*?)\)`)

// SplitPlayerTeam separates a scraped player cell such as "JE Root (ENG)"
// into the bare player name and the resolved team name. Cells without a
// parenthesised code return an empty team.
func SplitPlayerTeam(cell string) (player, team string) {
	if m := playerTeamPattern.FindStringSubmatch(cell); m != nil {
		team = TeamName(m[1])
	}
	player = strings.TrimSpace(playerTeamPattern.ReplaceAllString(cell, ""))
	return player, team
}

// ParseScore decodes a team score cell. "175/4" yields score 175 with 4
// wickets, "320d" marks a declared innings, and a bare "450" implies all
// ten wickets fell.
func ParseScore(raw string) (score, wickets int, declared bool, err error) {
	s := strings.TrimSpace(raw)
	wickets = 10
	if strings.Contains(s, "d") {
		declared = true
		s = strings.ReplaceAll(s, "d", "")
	}
	if runs, wkts, ok := strings.Cut(s, "/"); ok {
		score, err = strconv.Atoi(runs)
		if err != nil {
			return 0, 0, false, fmt.Errorf("parse score %q: %w", raw, err)
		}
		wickets, err = strconv.Atoi(wkts)
		if err != nil {
			return 0, 0, false, fmt.Errorf("parse score %q: %w", raw, err)
		}
		return score, wickets, declared, nil
	}
	score, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, false, fmt.Errorf("parse score %q: %w", raw, err)
	}
	return score, wickets, declared, nil
}

// ParseOvers converts the cricket overs notation to a decimal over count:
// the digits after the dot are balls out of six, so "12.3" is 12.5 overs.
func ParseOvers(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if whole, balls, ok := strings.Cut(s, "."); ok {
		w, err := strconv.Atoi(whole)
		if err != nil {
			return 0, fmt.Errorf("parse overs %q: %w", raw, err)
		}
		b, err := strconv.Atoi(balls)
		if err != nil {
			return 0, fmt.Errorf("parse overs %q: %w", raw, err)
		}
		return float64(w) + float64(b)/6, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse overs %q: %w", raw, err)
	}
	return v, nil
}

// ParseRuns decodes a batting runs cell, where a trailing asterisk marks
// a not-out innings.
func ParseRuns(raw string) (runs int, notOut bool, err error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "*") {
		notOut = true
		s = strings.ReplaceAll(s, "*", "")
	}
	runs, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("parse runs %q: %w", raw, err)
	}
	return runs, notOut, nil
}

// CleanOpposition strips the "v " prefix from scraped opposition cells.
func CleanOpposition(cell string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), "v "))
}

// IsSentinel reports whether a cell carries one of the non-participation
// markers used in place of a statistic.
func IsSentinel(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "dnb", "absent", "sub":
		return true
	}
	return false
}

// NumberOrZero maps the "-" placeholder to "0" so the cell can be parsed
// as a number.
func NumberOrZero(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "-" {
		return "0"
	}
	return s
}
