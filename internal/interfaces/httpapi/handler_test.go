package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
	"github.com/riskibarqy/cricket-analytics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-analytics/internal/usecase"
)

type stubSource struct {
	rows map[innings.Dataset][][]string
}

func (s *stubSource) FetchRows(_ context.Context, dataset innings.Dataset, _ time.Time) ([][]string, error) {
	return s.rows[dataset], nil
}

type stubHealth struct {
	err error
}

func (h stubHealth) Ping(context.Context) error { return h.err }

type testEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, health HealthChecker) http.Handler {
	t.Helper()

	lords := time.Date(2012, 7, 5, 0, 0, 0, 0, time.UTC)
	teamRepo := memory.NewTeamInningsRepository([]innings.TeamInnings{
		{Team: "England", Opposition: "Sri Lanka", Score: 390, Result: "won", Venue: "Lord's", StartDate: lords},
		{Team: "Sri Lanka", Opposition: "England", Score: 260, Result: "lost", Venue: "Lord's", StartDate: lords},
	})
	battingRepo := memory.NewBattingInningsRepository([]innings.BattingInnings{
		{Player: "KC Sangakkara", Team: "Sri Lanka", Opposition: "England", Runs: 70, BallsFaced: 110, Venue: "Lord's", StartDate: lords},
	})
	bowlingRepo := memory.NewBowlingInningsRepository([]innings.BowlingInnings{
		{Player: "JM Anderson", Team: "England", Opposition: "Sri Lanka", Overs: 25, Runs: 80, Wickets: 3, Venue: "Lord's", StartDate: lords},
	})

	source := &stubSource{rows: map[innings.Dataset][][]string{
		innings.DatasetTeam: {
			{"IND", "175/4", "52.3", "3.34", "50", "2", "won", "", "v England", "Mumbai", "23 Feb 2023"},
			{"ENG", "210", "70.0", "3.00", "-50", "1", "lost", "", "v India", "Mumbai", "23 Feb 2023"},
		},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ingestionService := usecase.NewIngestionService(source, teamRepo, battingRepo, bowlingRepo,
		time.Date(2022, 8, 13, 0, 0, 0, 0, time.UTC), logger)
	analyticsService := usecase.NewAnalyticsService(teamRepo, battingRepo, bowlingRepo, logger)
	refreshService := usecase.NewRefreshService(ingestionService, 2)

	handler := NewHandler(ingestionService, analyticsService, refreshService, health, logger)
	return NewRouter(handler, logger, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "2.0", envelope.APIVersion)
	return rec, envelope
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, envelope.Error)
	require.JSONEq(t, `{"status":"ok"}`, string(envelope.Data))
}

func TestHandler_Healthz_DatabaseDown(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{err: errors.New("connection refused")})
	rec, envelope := doRequest(t, router, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, envelope.Error)
	require.Equal(t, "UNAVAILABLE", envelope.Error.Status)
}

func TestHandler_IngestDataset(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/ingest/team", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, envelope.Error)

	var report ingestReportDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &report))
	require.Equal(t, "team", report.Dataset)
	require.Equal(t, 2, report.Inserted)
	require.Equal(t, 2, report.Total)
}

func TestHandler_IngestDataset_BadSince(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/ingest/team", `{"since":"13 Aug 2022"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
	require.Equal(t, "INVALID_ARGUMENT", envelope.Error.Status)
}

func TestHandler_IngestDataset_UnknownBodyField(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/ingest/team", `{"from":"2022-08-13"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_IngestDataset_UnknownDataset(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/ingest/fielding", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_ARGUMENT", envelope.Error.Status)
}

func TestHandler_Refresh(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/refresh", `{"datasets":["team"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, envelope.Error)

	var result usecase.RefreshResult
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Equal(t, 1, result.TaskCount)
	require.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Tasks, 1)
	require.Equal(t, "team", result.Tasks[0].Dataset)
}

func TestHandler_ListPlayers(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet, "/v1/players/batting", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var list playerListDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &list))
	require.Equal(t, "batting", list.Kind)
	require.Equal(t, []string{"KC Sangakkara"}, list.Players)
}

func TestHandler_GetBattingByCountry(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/analysis/batting-by-country?player=KC+Sangakkara", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result battingByCountryDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Equal(t, "KC Sangakkara", result.Player)
	require.Equal(t, "Sri Lanka", result.Team)
	require.Len(t, result.Countries, 1)
	require.Equal(t, "England", result.Countries[0].Country)
	require.Equal(t, 70, result.Countries[0].TotalRuns)
}

func TestHandler_GetBattingByCountry_MissingPlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet, "/v1/analysis/batting-by-country", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_ARGUMENT", envelope.Error.Status)
}

func TestHandler_GetBattingByCountry_UnknownPlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/analysis/batting-by-country?player=Nobody", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", envelope.Error.Status)
}

func TestHandler_GetBatsmanVsBowler(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/analysis/batsman-vs-bowler?batsman=KC+Sangakkara&bowler=JM+Anderson", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result batsmanVsBowlerDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Equal(t, "England", result.BowlerTeam)
	require.Equal(t, 1, result.InningsWithBowler)
	require.NotNil(t, result.AverageWithBowler)
	require.InDelta(t, 70, *result.AverageWithBowler, 1e-9)
}

func TestHandler_GetBattingOutcomes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/analysis/batting-outcomes?player=KC+Sangakkara&min_runs=50", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result outcomeDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Equal(t, 50, result.Threshold)
	require.Equal(t, 1, result.TotalMatches)
	require.Equal(t, 1, result.MatchesLost)
	require.InDelta(t, 100, result.LosingPercentage, 1e-9)
}

func TestHandler_GetBattingSeries(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, stubHealth{})
	rec, envelope := doRequest(t, router, http.MethodGet,
		"/v1/analysis/batting-series?player=KC+Sangakkara", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result battingSeriesDTO
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Len(t, result.Points, 1)
	require.Equal(t, 2012, result.Points[0].Year)
	require.Equal(t, 70, result.Points[0].CumulativeRuns)
}
