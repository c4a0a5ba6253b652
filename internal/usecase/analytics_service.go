package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
	"github.com/riskibarqy/cricket-analytics/internal/domain/match"
)

// analyticsDateFloor excludes the sparse pre-1985 historical rows from
// every analytical pass.
var analyticsDateFloor = time.Date(1985, time.January, 1, 0, 0, 0, 0, time.UTC)

type CountryBattingSplit struct {
	Country       string
	Average       float64
	TotalRuns     int
	TimesOut      int
	MatchesPlayed int
}

type BattingByCountryResult struct {
	Player    string
	Team      string
	Countries []CountryBattingSplit
}

type CountryBowlingSplit struct {
	Country       string
	Average       *float64
	RunsConceded  int
	Wickets       int
	MatchesPlayed int
}

type BowlingByCountryResult struct {
	Player    string
	Team      string
	Countries []CountryBowlingSplit
}

type BatsmanVsBowlerResult struct {
	Batsman              string
	BatsmanTeam          string
	Bowler               string
	BowlerTeam           string
	OverallAverage       float64
	AverageWithBowler    *float64
	AverageWithoutBowler float64
	InningsVsOpposition  int
	InningsWithBowler    int
	InningsWithoutBowler int
	RunsOverall          int
	RunsWithBowler       int
	RunsWithoutBowler    int
	OutsOverall          int
	OutsWithBowler       int
	OutsWithoutBowler    int
}

type OutcomeResult struct {
	Player            string
	Team              string
	Threshold         int
	TotalMatches      int
	MatchesWon        int
	MatchesLost       int
	MatchesDrawn      int
	WinningPercentage float64
	LosingPercentage  float64
	DrawingPercentage float64
}

type SeriesPoint struct {
	Year                   int
	CumulativeAverage      float64
	CumulativeRuns         int
	CumulativeOuts         int
	CumulativeMatches      int
	CumulativeHighestScore int
}

// AnalyticsService answers cross-table queries over the stored innings.
// Every call re-reads the full tables: the data set is small and the
// queries are rare enough that a shared cache would buy complexity, not
// speed.
type AnalyticsService struct {
	teamRepo    innings.TeamRepository
	battingRepo innings.BattingRepository
	bowlingRepo innings.BowlingRepository
	logger      *slog.Logger
}

func NewAnalyticsService(
	teamRepo innings.TeamRepository,
	battingRepo innings.BattingRepository,
	bowlingRepo innings.BowlingRepository,
	logger *slog.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		teamRepo:    teamRepo,
		battingRepo: battingRepo,
		bowlingRepo: bowlingRepo,
		logger:      logger,
	}
}

// analyticsSet is one query's private working copy of the three tables,
// tagged with match identities and host nations.
type analyticsSet struct {
	team    []innings.TeamInnings
	batting []innings.BattingInnings
	bowling []innings.BowlingInnings

	teamMatchIDs    []string
	battingMatchIDs []string
	bowlingMatchIDs []string

	// matchHost maps a match identity to the host nation of its venue,
	// via the first team row observed for that match.
	matchHost map[string]string
}

func (s *AnalyticsService) loadSet(ctx context.Context) (*analyticsSet, error) {
	set := &analyticsSet{}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		rows, err := s.teamRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load team innings: %w", err)
		}
		set.team = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.battingRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load batting innings: %w", err)
		}
		set.batting = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.bowlingRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("load bowling innings: %w", err)
		}
		set.bowling = rows
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	set.team = filterTeam(set.team)
	set.batting = filterBatting(set.batting)
	set.bowling = filterBowling(set.bowling)

	set.teamMatchIDs = make([]string, len(set.team))
	for i, rec := range set.team {
		set.teamMatchIDs[i] = match.Identity(rec.Venue, rec.StartDate)
	}
	set.battingMatchIDs = make([]string, len(set.batting))
	for i, rec := range set.batting {
		set.battingMatchIDs[i] = match.Identity(rec.Venue, rec.StartDate)
	}
	set.bowlingMatchIDs = make([]string, len(set.bowling))
	for i, rec := range set.bowling {
		set.bowlingMatchIDs[i] = match.Identity(rec.Venue, rec.StartDate)
	}

	set.matchHost = hostNations(set.team, set.teamMatchIDs)
	return set, nil
}

func filterTeam(rows []innings.TeamInnings) []innings.TeamInnings {
	out := rows[:0]
	for _, rec := range rows {
		if rec.StartDate.Before(analyticsDateFloor) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func filterBatting(rows []innings.BattingInnings) []innings.BattingInnings {
	out := rows[:0]
	for _, rec := range rows {
		if rec.StartDate.Before(analyticsDateFloor) {
			continue
		}
		// Zero runs off zero balls is a did-not-bat placeholder.
		if rec.Runs == 0 && rec.BallsFaced == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func filterBowling(rows []innings.BowlingInnings) []innings.BowlingInnings {
	out := rows[:0]
	for _, rec := range rows {
		if rec.StartDate.Before(analyticsDateFloor) {
			continue
		}
		if rec.Wickets == 0 && rec.Runs == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// hostNations derives the host nation per venue (the side appearing most
// often at that venue, ties broken in first-seen order) and projects it
// onto each match identity through the first team row for that match.
func hostNations(team []innings.TeamInnings, matchIDs []string) map[string]string {
	type venueCount struct {
		counts map[string]int
		order  []string
	}
	venues := make(map[string]*venueCount)
	for _, rec := range team {
		vc, ok := venues[rec.Venue]
		if !ok {
			vc = &venueCount{counts: make(map[string]int)}
			venues[rec.Venue] = vc
		}
		for _, side := range []string{rec.Team, rec.Opposition} {
			if _, seen := vc.counts[side]; !seen {
				vc.order = append(vc.order, side)
			}
			vc.counts[side]++
		}
	}

	venueHost := make(map[string]string, len(venues))
	for venue, vc := range venues {
		best, bestCount := "", -1
		for _, side := range vc.order {
			if vc.counts[side] > bestCount {
				best, bestCount = side, vc.counts[side]
			}
		}
		venueHost[venue] = best
	}

	matchHost := make(map[string]string)
	for i, rec := range team {
		if _, ok := matchHost[matchIDs[i]]; !ok {
			matchHost[matchIDs[i]] = venueHost[rec.Venue]
		}
	}
	return matchHost
}

// battingTeam returns the team attached to the player's first stored
// batting row, which is the team attribution the splits report.
func battingTeam(rows []innings.BattingInnings, player string) (string, bool) {
	for _, rec := range rows {
		if rec.Player == player {
			return rec.Team, true
		}
	}
	return "", false
}

func bowlingTeam(rows []innings.BowlingInnings, player string) (string, bool) {
	for _, rec := range rows {
		if rec.Player == player {
			return rec.Team, true
		}
	}
	return "", false
}

func (s *AnalyticsService) BattingByCountry(ctx context.Context, player string) (BattingByCountryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BattingByCountry")
	defer span.End()

	if player == "" {
		return BattingByCountryResult{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return BattingByCountryResult{}, err
	}
	team, ok := battingTeam(set.batting, player)
	if !ok {
		return BattingByCountryResult{}, fmt.Errorf("%w: player %q has no batting innings", ErrNotFound, player)
	}

	type agg struct {
		runs    int
		outs    int
		matches map[string]struct{}
	}
	totals := make(map[string]*agg)
	var order []string
	for i, rec := range set.batting {
		if rec.Player != player {
			continue
		}
		matchID := set.battingMatchIDs[i]
		host, ok := set.matchHost[matchID]
		if !ok {
			continue
		}
		a, ok := totals[host]
		if !ok {
			a = &agg{matches: make(map[string]struct{})}
			totals[host] = a
			order = append(order, host)
		}
		a.runs += rec.Runs
		if !rec.NotOut {
			a.outs++
		}
		a.matches[matchID] = struct{}{}
	}

	result := BattingByCountryResult{Player: player, Team: team}
	for _, country := range order {
		a := totals[country]
		avg := 0.0
		if a.outs > 0 {
			avg = float64(a.runs) / float64(a.outs)
		}
		result.Countries = append(result.Countries, CountryBattingSplit{
			Country:       country,
			Average:       avg,
			TotalRuns:     a.runs,
			TimesOut:      a.outs,
			MatchesPlayed: len(a.matches),
		})
	}
	sort.SliceStable(result.Countries, func(i, j int) bool {
		return result.Countries[i].Average > result.Countries[j].Average
	})
	return result, nil
}

func (s *AnalyticsService) BowlingByCountry(ctx context.Context, player string) (BowlingByCountryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BowlingByCountry")
	defer span.End()

	if player == "" {
		return BowlingByCountryResult{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return BowlingByCountryResult{}, err
	}
	team, ok := bowlingTeam(set.bowling, player)
	if !ok {
		return BowlingByCountryResult{}, fmt.Errorf("%w: player %q has no bowling innings", ErrNotFound, player)
	}

	type agg struct {
		runs    int
		wickets int
		matches map[string]struct{}
	}
	totals := make(map[string]*agg)
	var order []string
	for i, rec := range set.bowling {
		if rec.Player != player {
			continue
		}
		matchID := set.bowlingMatchIDs[i]
		host, ok := set.matchHost[matchID]
		if !ok {
			continue
		}
		a, ok := totals[host]
		if !ok {
			a = &agg{matches: make(map[string]struct{})}
			totals[host] = a
			order = append(order, host)
		}
		a.runs += rec.Runs
		a.wickets += rec.Wickets
		a.matches[matchID] = struct{}{}
	}

	result := BowlingByCountryResult{Player: player, Team: team}
	for _, country := range order {
		a := totals[country]
		split := CountryBowlingSplit{
			Country:       country,
			RunsConceded:  a.runs,
			Wickets:       a.wickets,
			MatchesPlayed: len(a.matches),
		}
		if a.wickets > 0 {
			avg := float64(a.runs) / float64(a.wickets)
			split.Average = &avg
		}
		result.Countries = append(result.Countries, split)
	}
	// Ascending average; countries with no wickets (undefined average)
	// sort last.
	sort.SliceStable(result.Countries, func(i, j int) bool {
		a, b := result.Countries[i].Average, result.Countries[j].Average
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return result, nil
}

func (s *AnalyticsService) BatsmanVsBowler(ctx context.Context, batsman, bowler string) (BatsmanVsBowlerResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BatsmanVsBowler")
	defer span.End()

	if batsman == "" {
		return BatsmanVsBowlerResult{}, fmt.Errorf("%w: batsman is required", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return BatsmanVsBowlerResult{}, err
	}
	batsmanTeam, ok := battingTeam(set.batting, batsman)
	if !ok {
		return BatsmanVsBowlerResult{}, fmt.Errorf("%w: batsman %q has no batting innings", ErrNotFound, batsman)
	}

	result := BatsmanVsBowlerResult{
		Batsman:     batsman,
		BatsmanTeam: batsmanTeam,
		Bowler:      bowler,
	}

	bowlerMatches := make(map[string]struct{})
	if bowler != "" {
		team, ok := bowlingTeam(set.bowling, bowler)
		if !ok {
			return BatsmanVsBowlerResult{}, fmt.Errorf("%w: bowler %q has no bowling innings", ErrNotFound, bowler)
		}
		result.BowlerTeam = team
		for i, rec := range set.bowling {
			if rec.Player == bowler {
				bowlerMatches[set.bowlingMatchIDs[i]] = struct{}{}
			}
		}
	}

	for i, rec := range set.batting {
		if rec.Player != batsman {
			continue
		}
		// With a bowler named, only innings against the bowler's team
		// count.
		if result.BowlerTeam != "" && rec.Opposition != result.BowlerTeam {
			continue
		}
		out := 0
		if !rec.NotOut {
			out = 1
		}
		result.InningsVsOpposition++
		result.RunsOverall += rec.Runs
		result.OutsOverall += out

		if bowler == "" {
			result.InningsWithoutBowler++
			result.RunsWithoutBowler += rec.Runs
			result.OutsWithoutBowler += out
			continue
		}
		if _, with := bowlerMatches[set.battingMatchIDs[i]]; with {
			result.InningsWithBowler++
			result.RunsWithBowler += rec.Runs
			result.OutsWithBowler += out
		} else {
			result.InningsWithoutBowler++
			result.RunsWithoutBowler += rec.Runs
			result.OutsWithoutBowler += out
		}
	}

	if result.OutsOverall > 0 {
		result.OverallAverage = float64(result.RunsOverall) / float64(result.OutsOverall)
	}
	if result.OutsWithoutBowler > 0 {
		result.AverageWithoutBowler = float64(result.RunsWithoutBowler) / float64(result.OutsWithoutBowler)
	}
	// "No shared matches" and "average of zero" are different answers:
	// the with-bowler average stays nil when the subset is empty.
	if result.InningsWithBowler > 0 {
		avg := 0.0
		if result.OutsWithBowler > 0 {
			avg = float64(result.RunsWithBowler) / float64(result.OutsWithBowler)
		}
		result.AverageWithBowler = &avg
	}
	return result, nil
}

func (s *AnalyticsService) BattingOutcomes(ctx context.Context, player string, minRuns int) (OutcomeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BattingOutcomes")
	defer span.End()

	if player == "" {
		return OutcomeResult{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if minRuns < 0 {
		return OutcomeResult{}, fmt.Errorf("%w: threshold must be a non-negative integer", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return OutcomeResult{}, err
	}
	team, ok := battingTeam(set.batting, player)
	if !ok {
		return OutcomeResult{}, fmt.Errorf("%w: player %q has no batting innings", ErrNotFound, player)
	}

	qualifying := make(map[string]struct{})
	for i, rec := range set.batting {
		if rec.Player == player && rec.Runs >= minRuns {
			qualifying[set.battingMatchIDs[i]] = struct{}{}
		}
	}
	return s.outcomes(set, player, team, minRuns, qualifying), nil
}

func (s *AnalyticsService) BowlingOutcomes(ctx context.Context, player string, minWickets int) (OutcomeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BowlingOutcomes")
	defer span.End()

	if player == "" {
		return OutcomeResult{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if minWickets < 0 {
		return OutcomeResult{}, fmt.Errorf("%w: threshold must be a non-negative integer", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return OutcomeResult{}, err
	}
	team, ok := bowlingTeam(set.bowling, player)
	if !ok {
		return OutcomeResult{}, fmt.Errorf("%w: player %q has no bowling innings", ErrNotFound, player)
	}

	qualifying := make(map[string]struct{})
	for i, rec := range set.bowling {
		if rec.Player == player && rec.Wickets >= minWickets {
			qualifying[set.bowlingMatchIDs[i]] = struct{}{}
		}
	}
	return s.outcomes(set, player, team, minWickets, qualifying), nil
}

func (s *AnalyticsService) outcomes(set *analyticsSet, player, team string, threshold int, qualifying map[string]struct{}) OutcomeResult {
	result := OutcomeResult{
		Player:       player,
		Team:         team,
		Threshold:    threshold,
		TotalMatches: len(qualifying),
	}
	won := make(map[string]struct{})
	lost := make(map[string]struct{})
	drawn := make(map[string]struct{})
	for i, rec := range set.team {
		matchID := set.teamMatchIDs[i]
		if _, ok := qualifying[matchID]; !ok || rec.Team != team {
			continue
		}
		switch rec.Result {
		case "won":
			won[matchID] = struct{}{}
		case "lost":
			lost[matchID] = struct{}{}
		case "draw":
			drawn[matchID] = struct{}{}
		}
	}
	result.MatchesWon = len(won)
	result.MatchesLost = len(lost)
	result.MatchesDrawn = len(drawn)
	if result.TotalMatches > 0 {
		total := float64(result.TotalMatches)
		result.WinningPercentage = float64(result.MatchesWon) / total * 100
		result.LosingPercentage = float64(result.MatchesLost) / total * 100
		result.DrawingPercentage = float64(result.MatchesDrawn) / total * 100
	}
	return result
}

func (s *AnalyticsService) BattingSeries(ctx context.Context, player string) ([]SeriesPoint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BattingSeries")
	defer span.End()

	if player == "" {
		return nil, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	set, err := s.loadSet(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := battingTeam(set.batting, player); !ok {
		return nil, fmt.Errorf("%w: player %q has no batting innings", ErrNotFound, player)
	}

	type yearAgg struct {
		runs    int
		outs    int
		matches map[string]struct{}
		highest int
	}
	years := make(map[int]*yearAgg)
	for i, rec := range set.batting {
		if rec.Player != player {
			continue
		}
		year := rec.StartDate.Year()
		a, ok := years[year]
		if !ok {
			a = &yearAgg{matches: make(map[string]struct{})}
			years[year] = a
		}
		a.runs += rec.Runs
		if !rec.NotOut {
			a.outs++
		}
		a.matches[set.battingMatchIDs[i]] = struct{}{}
		if rec.Runs > a.highest {
			a.highest = rec.Runs
		}
	}

	ordered := make([]int, 0, len(years))
	for year := range years {
		ordered = append(ordered, year)
	}
	sort.Ints(ordered)

	points := make([]SeriesPoint, 0, len(ordered))
	var cumRuns, cumOuts, cumMatches, cumHighest int
	for _, year := range ordered {
		a := years[year]
		cumRuns += a.runs
		cumOuts += a.outs
		cumMatches += len(a.matches)
		if a.highest > cumHighest {
			cumHighest = a.highest
		}
		avg := 0.0
		if cumOuts > 0 {
			avg = float64(cumRuns) / float64(cumOuts)
		}
		points = append(points, SeriesPoint{
			Year:                   year,
			CumulativeAverage:      avg,
			CumulativeRuns:         cumRuns,
			CumulativeOuts:         cumOuts,
			CumulativeMatches:      cumMatches,
			CumulativeHighestScore: cumHighest,
		})
	}
	return points, nil
}

// ListPlayers returns the distinct player names of the batting or
// bowling table in storage order.
func (s *AnalyticsService) ListPlayers(ctx context.Context, kind string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ListPlayers")
	defer span.End()

	switch innings.Dataset(kind) {
	case innings.DatasetBatting:
		players, err := s.battingRepo.DistinctPlayers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list batting players: %w", err)
		}
		return players, nil
	case innings.DatasetBowling:
		players, err := s.bowlingRepo.DistinctPlayers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bowling players: %w", err)
		}
		return players, nil
	}
	return nil, fmt.Errorf("%w: unknown player kind %q", ErrInvalidInput, kind)
}
