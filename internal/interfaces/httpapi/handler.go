package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/cricket-analytics/internal/usecase"
)

const sinceDateLayout = "2006-01-02"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	ingestionService *usecase.IngestionService
	analyticsService *usecase.AnalyticsService
	refreshService   *usecase.RefreshService
	health           HealthChecker
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	analyticsService *usecase.AnalyticsService,
	refreshService *usecase.RefreshService,
	health HealthChecker,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		ingestionService: ingestionService,
		analyticsService: analyticsService,
		refreshService:   refreshService,
		health:           health,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.health != nil {
		if err := h.health.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: database ping failed", usecase.ErrDependencyUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) IngestDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestDataset")
	defer span.End()

	dataset := strings.TrimSpace(r.PathValue("dataset"))

	var req ingestRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	since, err := parseSinceDate(req.Since)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.Ingest(ctx, dataset, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest failed", "dataset", dataset, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestReportDTO{
		Dataset:   string(report.Dataset),
		Inserted:  report.Inserted,
		Duplicate: report.Duplicate,
		Failed:    report.Failed,
		Total:     report.Total,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Refresh")
	defer span.End()

	var req refreshRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	since, err := parseSinceDate(req.Since)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.refreshService.Refresh(ctx, usecase.RefreshInput{
		Datasets:   req.Datasets,
		Since:      since,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	kind := strings.TrimSpace(r.PathValue("kind"))
	players, err := h.analyticsService.ListPlayers(ctx, kind)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerListDTO{Kind: kind, Players: players})
}

func (h *Handler) GetBattingByCountry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingByCountry")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if err := h.validateRequest(ctx, playerQueryRequest{Player: player}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.analyticsService.BattingByCountry(ctx, player)
	if err != nil {
		h.logger.WarnContext(ctx, "batting by country failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, battingByCountryToDTO(ctx, result))
}

func (h *Handler) GetBowlingByCountry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBowlingByCountry")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if err := h.validateRequest(ctx, playerQueryRequest{Player: player}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.analyticsService.BowlingByCountry(ctx, player)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling by country failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bowlingByCountryToDTO(ctx, result))
}

func (h *Handler) GetBatsmanVsBowler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBatsmanVsBowler")
	defer span.End()

	batsman := strings.TrimSpace(r.URL.Query().Get("batsman"))
	bowler := strings.TrimSpace(r.URL.Query().Get("bowler"))
	if err := h.validateRequest(ctx, batsmanVsBowlerRequest{Batsman: batsman}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.analyticsService.BatsmanVsBowler(ctx, batsman, bowler)
	if err != nil {
		h.logger.WarnContext(ctx, "batsman vs bowler failed", "batsman", batsman, "bowler", bowler, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, batsmanVsBowlerToDTO(ctx, result))
}

func (h *Handler) GetBattingOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingOutcomes")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if err := h.validateRequest(ctx, playerQueryRequest{Player: player}); err != nil {
		writeError(ctx, w, err)
		return
	}
	minRuns, err := parseThreshold(r.URL.Query().Get("min_runs"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.analyticsService.BattingOutcomes(ctx, player, minRuns)
	if err != nil {
		h.logger.WarnContext(ctx, "batting outcomes failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(ctx, result))
}

func (h *Handler) GetBowlingOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBowlingOutcomes")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if err := h.validateRequest(ctx, playerQueryRequest{Player: player}); err != nil {
		writeError(ctx, w, err)
		return
	}
	minWickets, err := parseThreshold(r.URL.Query().Get("min_wickets"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.analyticsService.BowlingOutcomes(ctx, player, minWickets)
	if err != nil {
		h.logger.WarnContext(ctx, "bowling outcomes failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(ctx, result))
}

func (h *Handler) GetBattingSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattingSeries")
	defer span.End()

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if err := h.validateRequest(ctx, playerQueryRequest{Player: player}); err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.analyticsService.BattingSeries(ctx, player)
	if err != nil {
		h.logger.WarnContext(ctx, "batting series failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seriesPointDTO, 0, len(points))
	for _, point := range points {
		items = append(items, seriesPointDTO{
			Year:                   point.Year,
			CumulativeAverage:      point.CumulativeAverage,
			CumulativeRuns:         point.CumulativeRuns,
			CumulativeOuts:         point.CumulativeOuts,
			CumulativeMatches:      point.CumulativeMatches,
			CumulativeHighestScore: point.CumulativeHighestScore,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, battingSeriesDTO{Player: player, Points: items})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeOptionalBody decodes a JSON body into dst, treating an absent or
// empty body as the zero request.
func decodeOptionalBody(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseSinceDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(sinceDateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: since must be a %s date: %v", usecase.ErrInvalidInput, sinceDateLayout, err)
	}
	return &parsed, nil
}

func parseThreshold(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: threshold must be an integer: %v", usecase.ErrInvalidInput, err)
	}
	return parsed, nil
}

type ingestRequest struct {
	Since string `json:"since" validate:"omitempty,datetime=2006-01-02"`
}

type refreshRequest struct {
	Datasets   []string `json:"datasets" validate:"omitempty,dive,oneof=team batting bowling"`
	Since      string   `json:"since" validate:"omitempty,datetime=2006-01-02"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=32"`
}

type playerQueryRequest struct {
	Player string `validate:"required"`
}

type batsmanVsBowlerRequest struct {
	Batsman string `validate:"required"`
}

type ingestReportDTO struct {
	Dataset   string `json:"dataset"`
	Inserted  int    `json:"inserted"`
	Duplicate int    `json:"duplicate"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

type playerListDTO struct {
	Kind    string   `json:"kind"`
	Players []string `json:"players"`
}

type countryBattingSplitDTO struct {
	Country       string  `json:"country"`
	Average       float64 `json:"average"`
	TotalRuns     int     `json:"total_runs"`
	TimesOut      int     `json:"times_out"`
	MatchesPlayed int     `json:"matches_played"`
}

type battingByCountryDTO struct {
	Player    string                   `json:"player"`
	Team      string                   `json:"team"`
	Countries []countryBattingSplitDTO `json:"countries"`
}

type countryBowlingSplitDTO struct {
	Country       string   `json:"country"`
	Average       *float64 `json:"average"`
	RunsConceded  int      `json:"runs_conceded"`
	Wickets       int      `json:"wickets"`
	MatchesPlayed int      `json:"matches_played"`
}

type bowlingByCountryDTO struct {
	Player    string                   `json:"player"`
	Team      string                   `json:"team"`
	Countries []countryBowlingSplitDTO `json:"countries"`
}

type batsmanVsBowlerDTO struct {
	Batsman              string   `json:"batsman"`
	BatsmanTeam          string   `json:"batsman_team"`
	Bowler               string   `json:"bowler,omitempty"`
	BowlerTeam           string   `json:"bowler_team,omitempty"`
	OverallAverage       float64  `json:"overall_average"`
	AverageWithBowler    *float64 `json:"average_with_bowler"`
	AverageWithoutBowler float64  `json:"average_without_bowler"`
	InningsVsOpposition  int      `json:"innings_vs_opposition"`
	InningsWithBowler    int      `json:"innings_with_bowler"`
	InningsWithoutBowler int      `json:"innings_without_bowler"`
}

type outcomeDTO struct {
	Player            string  `json:"player"`
	Team              string  `json:"team"`
	Threshold         int     `json:"threshold"`
	TotalMatches      int     `json:"total_matches"`
	MatchesWon        int     `json:"matches_won"`
	MatchesLost       int     `json:"matches_lost"`
	MatchesDrawn      int     `json:"matches_drawn"`
	WinningPercentage float64 `json:"winning_percentage"`
	LosingPercentage  float64 `json:"losing_percentage"`
	DrawingPercentage float64 `json:"drawing_percentage"`
}

type seriesPointDTO struct {
	Year                   int     `json:"year"`
	CumulativeAverage      float64 `json:"cumulative_average"`
	CumulativeRuns         int     `json:"cumulative_runs"`
	CumulativeOuts         int     `json:"cumulative_outs"`
	CumulativeMatches      int     `json:"cumulative_matches"`
	CumulativeHighestScore int     `json:"cumulative_highest_score"`
}

type battingSeriesDTO struct {
	Player string           `json:"player"`
	Points []seriesPointDTO `json:"points"`
}

func battingByCountryToDTO(ctx context.Context, v usecase.BattingByCountryResult) battingByCountryDTO {
	ctx, span := startSpan(ctx, "httpapi.battingByCountryToDTO")
	defer span.End()

	countries := make([]countryBattingSplitDTO, 0, len(v.Countries))
	for _, split := range v.Countries {
		countries = append(countries, countryBattingSplitDTO{
			Country:       split.Country,
			Average:       split.Average,
			TotalRuns:     split.TotalRuns,
			TimesOut:      split.TimesOut,
			MatchesPlayed: split.MatchesPlayed,
		})
	}

	return battingByCountryDTO{
		Player:    v.Player,
		Team:      v.Team,
		Countries: countries,
	}
}

func bowlingByCountryToDTO(ctx context.Context, v usecase.BowlingByCountryResult) bowlingByCountryDTO {
	ctx, span := startSpan(ctx, "httpapi.bowlingByCountryToDTO")
	defer span.End()

	countries := make([]countryBowlingSplitDTO, 0, len(v.Countries))
	for _, split := range v.Countries {
		countries = append(countries, countryBowlingSplitDTO{
			Country:       split.Country,
			Average:       split.Average,
			RunsConceded:  split.RunsConceded,
			Wickets:       split.Wickets,
			MatchesPlayed: split.MatchesPlayed,
		})
	}

	return bowlingByCountryDTO{
		Player:    v.Player,
		Team:      v.Team,
		Countries: countries,
	}
}

func batsmanVsBowlerToDTO(ctx context.Context, v usecase.BatsmanVsBowlerResult) batsmanVsBowlerDTO {
	ctx, span := startSpan(ctx, "httpapi.batsmanVsBowlerToDTO")
	defer span.End()

	return batsmanVsBowlerDTO{
		Batsman:              v.Batsman,
		BatsmanTeam:          v.BatsmanTeam,
		Bowler:               v.Bowler,
		BowlerTeam:           v.BowlerTeam,
		OverallAverage:       v.OverallAverage,
		AverageWithBowler:    v.AverageWithBowler,
		AverageWithoutBowler: v.AverageWithoutBowler,
		InningsVsOpposition:  v.InningsVsOpposition,
		InningsWithBowler:    v.InningsWithBowler,
		InningsWithoutBowler: v.InningsWithoutBowler,
	}
}

func outcomeToDTO(ctx context.Context, v usecase.OutcomeResult) outcomeDTO {
	ctx, span := startSpan(ctx, "httpapi.outcomeToDTO")
	defer span.End()

	return outcomeDTO{
		Player:            v.Player,
		Team:              v.Team,
		Threshold:         v.Threshold,
		TotalMatches:      v.TotalMatches,
		MatchesWon:        v.MatchesWon,
		MatchesLost:       v.MatchesLost,
		MatchesDrawn:      v.MatchesDrawn,
		WinningPercentage: v.WinningPercentage,
		LosingPercentage:  v.LosingPercentage,
		DrawingPercentage: v.DrawingPercentage,
	}
}
