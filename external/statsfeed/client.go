// Package statsfeed pulls raw match statistics from the upstream rugby data
// provider.
package statsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
	"github.com/tryline/fantasy-rugby/internal/platform/logging"
	"github.com/tryline/fantasy-rugby/internal/platform/resilience"
	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "https://feed.tryline.example.com/v1"

var errFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	timeout        time.Duration
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

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     &fasthttp.Client{},
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchGameweekStats pulls the per-player stat lines for one round.
// Concurrent fetches for the same round collapse into a single request.
func (c *Client) FetchGameweekStats(ctx context.Context, round int) ([]stats.GameweekStats, error) {
	if round < 0 {
		return nil, fmt.Errorf("round must not be negative")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("stats feed is temporarily unavailable: %w", err)
		}
	}

	fullURL := c.baseURL + "/rounds/" + strconv.Itoa(round) + "/player-stats"

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errFeedTransient) {
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

	var envelope statsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}

	rows := make([]stats.GameweekStats, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if strings.TrimSpace(item.PlayerID) == "" {
			continue
		}
		rows = append(rows, item.toDomain())
	}

	return rows, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			return nil, err
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
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "stats feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case isRetryableStatus(status):
		return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(body))
	default:
		return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(body))
	}
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "...(truncated)"
}

type statsEnvelope struct {
	Data []feedStatRow `json:"data"`
}

type feedStatRow struct {
	PlayerID string `json:"playerId"`
	Played   bool   `json:"played"`

	Metres         int `json:"metres"`
	Carries        int `json:"carries"`
	Tackles        int `json:"tackles"`
	MarkerTackles  int `json:"markerTackles"`
	Offloads       int `json:"offloads"`
	RunsFromDH     int `json:"runsFromDummyHalf"`
	AttackingKicks int `json:"attackingKicks"`
	Tries          int `json:"tries"`
	TryAssists     int `json:"tryAssists"`
	Goals          int `json:"goals"`
	DropGoals      int `json:"dropGoals"`
	TackleBusts    int `json:"tackleBusts"`
	CleanBreaks    int `json:"cleanBreaks"`
	FortyTwenty    int `json:"fortyTwenty"`
	Errors         int `json:"errors"`
	Penalties      int `json:"penalties"`
	YellowCards    int `json:"yellowCards"`
	RedCards       int `json:"redCards"`
}

func (r feedStatRow) toDomain() stats.GameweekStats {
	return stats.GameweekStats{
		PlayerID:       r.PlayerID,
		Played:         r.Played,
		Metres:         r.Metres,
		Carries:        r.Carries,
		Tackles:        r.Tackles,
		MarkerTackles:  r.MarkerTackles,
		Offloads:       r.Offloads,
		RunsFromDH:     r.RunsFromDH,
		AttackingKicks: r.AttackingKicks,
		Tries:          r.Tries,
		TryAssists:     r.TryAssists,
		Goals:          r.Goals,
		DropGoals:      r.DropGoals,
		TackleBusts:    r.TackleBusts,
		CleanBreaks:    r.CleanBreaks,
		FortyTwenty:    r.FortyTwenty,
		Errors:         r.Errors,
		Penalties:      r.Penalties,
		YellowCards:    r.YellowCards,
		RedCards:       r.RedCards,
	}
}
