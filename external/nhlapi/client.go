package nhlapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crease-analytics/rinkline/internal/platform/logging"
	"github.com/crease-analytics/rinkline/internal/platform/resilience"
	"github.com/crease-analytics/rinkline/internal/usecase"
)

const (
	defaultAPIBaseURL     = "https://api-web.nhle.com"
	defaultStatsBaseURL   = "https://api.nhle.com/stats/rest/en"
	defaultReportsBaseURL = "https://www.nhl.com/scores/htmlreports"

	defaultReportWorkers = 2
	maxResponseBytes     = 8 << 20
)

var errNHLTransient = crerr.New("nhl api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	APIBaseURL     string
	StatsBaseURL   string
	ReportsBaseURL string
	Timeout        time.Duration
	MaxRetries     int
	ReportWorkers  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the three NHL data surfaces: the api-web JSON API, the
// stats REST API (shift charts, franchises), and the legacy HTML report
// site. It implements usecase.GameDataProvider and usecase.CatalogProvider.
type Client struct {
	httpClient     *http.Client
	apiBaseURL     string
	statsBaseURL   string
	reportsBaseURL string
	maxRetries     int
	reportWorkers  int
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
		httpClient.Timeout = 20 * time.Second
	}
	if httpClient.Transport == nil {
		httpClient.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	workers := cfg.ReportWorkers
	if workers < 1 {
		workers = defaultReportWorkers
	}

	return &Client{
		httpClient:     httpClient,
		apiBaseURL:     baseOrDefault(cfg.APIBaseURL, defaultAPIBaseURL),
		statsBaseURL:   baseOrDefault(cfg.StatsBaseURL, defaultStatsBaseURL),
		reportsBaseURL: baseOrDefault(cfg.ReportsBaseURL, defaultReportsBaseURL),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		reportWorkers:  workers,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func baseOrDefault(value, fallback string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// doJSON fetches one URL through the breaker and singleflight, retrying
// transient failures, and decodes the body into target.
func (c *Client) doJSON(ctx context.Context, fullURL string, query map[string]string, target any) error {
	raw, err := c.fetch(ctx, fullURL, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode nhl payload from %s: %w", fullURL, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, fullURL string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nhl circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: nhl api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, value)
		}
		fullURL += "?" + values.Encode()
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errNHLTransient) {
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
		req.Header.Set("accept", "application/json, text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errNHLTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errNHLTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errNHLTransient, "nhl status=%d url=%s", resp.StatusCode, fullURL)
			default:
				return nil, fmt.Errorf("nhl status=%d url=%s", resp.StatusCode, fullURL)
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
		lastErr = stderrors.New("nhl request failed")
	}
	c.logger.WarnContext(ctx, "nhl request failed", "url", fullURL, "error", lastErr.Error())
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
