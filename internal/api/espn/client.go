package espn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/omarshaarawi/rotobot/internal/config"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const baseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/fba"

type Client struct {
	httpClient *http.Client
	Config     config.ESPNAPI
	BaseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg config.ESPNAPI) *Client {
	rps := cfg.RequestsPerS
	if rps <= 0 {
		rps = 2
	}
	settings := gobreaker.Settings{
		Name:    "espn",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// non-retryable 4xx responses do not count as failures
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return !se.retryable()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		Config:     cfg,
		BaseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// statusError is a non-200 response. 4xx responses other than 429 are not
// retried.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Get fetches endpoint and decodes the JSON body into result, retrying
// transient failures with exponential backoff.
func (c *Client) Get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	delay := c.backoff
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying ESPN request", "endpoint", endpoint, "attempt", attempt, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}

		if err = c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		_, err = c.breaker.Execute(func() (interface{}, error) {
			return nil, c.do(ctx, endpoint, params, headers, result)
		})
		if err == nil {
			return nil
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		values := strings.Split(value, ",")
		for _, v := range values {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	c.setCookies(req)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// Public leagues need no cookies.
func (c *Client) setCookies(req *http.Request) {
	if c.Config.SWID == "" && c.Config.ESPNS2 == "" {
		return
	}
	cookie := fmt.Sprintf("SWID=%s; espn_s2=%s", c.Config.SWID, c.Config.ESPNS2)
	req.Header.Set("Cookie", cookie)
}
