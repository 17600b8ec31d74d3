package riot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/capao/capitascore/internal/observability"
	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/platform/resilience"
	"github.com/capao/capitascore/internal/usecase"
)

const (
	defaultBaseURL = "https://americas.api.riotgames.com"
	apiKeyHeader   = "X-Riot-Token"

	maxResponseBytes = 6 << 20
)

var errRiotTransient = crerr.New("riot transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client calls the Riot match-v5 API. Transient upstream statuses (429 and
// 5xx) are retried with linear backoff, failures feed the circuit breaker,
// and identical in-flight requests are deduplicated.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
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

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListMatchIDs returns the [start, start+count) window of the player's
// match history in upstream order, newest first.
func (c *Client) ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	puuid = strings.TrimSpace(puuid)
	if puuid == "" {
		return nil, fmt.Errorf("puuid is required")
	}
	if start < 0 {
		return nil, fmt.Errorf("start must be >= 0")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be > 0")
	}

	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))
	query := map[string]string{
		"start": strconv.Itoa(start),
		"count": strconv.Itoa(count),
	}

	var ids []string
	if _, err := c.doJSON(ctx, path, query, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FetchMatch returns the parsed match detail document.
func (c *Client) FetchMatch(ctx context.Context, matchID string) (usecase.ExternalMatch, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatch{}, fmt.Errorf("match id is required")
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	var envelope matchEnvelope
	if _, err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalMatch{}, err
	}

	return mapMatchEnvelope(envelope), nil
}

// FetchRawTimeline returns the timeline document verbatim. The body is
// stored as-is; parsing happens later in the metrics job.
func (c *Client) FetchRawTimeline(ctx context.Context, matchID string) ([]byte, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID) + "/timeline"
	return c.doRaw(ctx, path, nil)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	raw, err := c.doRaw(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode riot payload: %w", err)
	}
	return raw, nil
}

func (c *Client) doRaw(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, path, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isRiotCircuitFailure(reqErr) {
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

func (c *Client) executeRequest(ctx context.Context, path, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errRiotTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			observability.UpstreamRequests.WithLabelValues(endpointLabel(path), strconv.Itoa(resp.StatusCode)).Inc()
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errRiotTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: riot status=%d body=%s", errRiotTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("riot status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("riot request failed")
	}
	c.logger.WarnContext(ctx, "riot request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// endpointLabel keeps the metric cardinality bounded: match ids and puuids
// are collapsed into the route shape.
func endpointLabel(path string) string {
	switch {
	case strings.Contains(path, "/by-puuid/"):
		return "match_ids"
	case strings.HasSuffix(path, "/timeline"):
		return "match_timeline"
	default:
		return "match_detail"
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isRiotCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errRiotTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
