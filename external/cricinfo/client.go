package cricinfo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-analytics/internal/domain/innings"
	"github.com/riskibarqy/cricket-analytics/internal/platform/logging"
	"github.com/riskibarqy/cricket-analytics/internal/platform/resilience"
	"github.com/riskibarqy/cricket-analytics/internal/usecase"
)

const (
	defaultBaseURL  = "https://stats.espncricinfo.com"
	defaultMaxPages = 50

	// The stats engine takes its filters as semicolon-separated path
	// parameters. The span is left open-ended; the lower bound is the
	// caller's start date.
	queryTemplate = "/ci/engine/stats/index.html?class=1;home_or_away=1;home_or_away=2;home_or_away=3;page=%d;result=1;result=2;result=3;result=4;spanmin1=%s;spanmax1=13+Aug+2050;spanval1=span;template=results;type=%s;view=innings"
)

// paginationRowRegex matches the "Page 1 of 2018" filler rows the stats
// tables embed between data rows.
var paginationRowRegex = regexp.MustCompile(`^Page\d+of\d+$`)

var errCricinfoTransient = crerr.New("cricinfo transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	MaxPages       int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client walks the paginated innings tables of the public stats engine
// and returns the raw cell text per row. It implements
// usecase.RowSource.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	maxPages       int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		maxPages:       maxPages,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchRows walks the dataset's result pages starting at since and
// returns every data row's cell texts. The walk stops at the first page
// without data rows, and is hard-capped at MaxPages so a mis-detected
// "next page" can never loop forever.
func (c *Client) FetchRows(ctx context.Context, dataset innings.Dataset, since time.Time) ([][]string, error) {
	datasetType, err := datasetQueryType(dataset)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for page := 1; page <= c.maxPages; page++ {
		fullURL := c.baseURL + fmt.Sprintf(queryTemplate, page, formatSpanDate(since), datasetType)

		raw, err := c.doHTML(ctx, fullURL)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", dataset, page, err)
		}

		rows, err := parseInningsTable(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s page %d: %w", dataset, page, err)
		}
		if len(rows) == 0 {
			break
		}
		out = append(out, rows...)

		c.logger.DebugContext(ctx, "scraped stats page",
			"dataset", string(dataset),
			"page", page,
			"rows", len(rows),
		)
	}
	return out, nil
}

func datasetQueryType(dataset innings.Dataset) (string, error) {
	switch dataset {
	case innings.DatasetTeam, innings.DatasetBatting, innings.DatasetBowling:
		return string(dataset), nil
	}
	return "", fmt.Errorf("unknown dataset %q", dataset)
}

// formatSpanDate renders a date the way the stats engine expects its
// span parameters: "13+Aug+2022".
func formatSpanDate(t time.Time) string {
	return strings.ReplaceAll(t.Format("02 Jan 2006"), " ", "+")
}

// parseInningsTable extracts the cell texts of each data row from a
// result page, skipping header and pagination filler rows.
func parseInningsTable(raw []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows [][]string
	doc.Find("table.engineTable tr.data1").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) <= 1 {
			return
		}
		if paginationRowRegex.MatchString(strings.ReplaceAll(cells[0], " ", "")) {
			return
		}
		rows = append(rows, cells)
	})
	return rows, nil
}

func (c *Client) doHTML(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricinfo circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats source is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errCricinfoTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCricinfoTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errCricinfoTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: stats source status=%d", errCricinfoTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("stats source status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("stats source request failed")
	}
	c.logger.WarnContext(ctx, "cricinfo request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
