package resilience

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const maxBodyBytes = 8 << 20

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

type ClientConfig struct {
	Name            string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	UserAgent       string
	Breaker         *BreakerConfig
	Metrics         *observability.Metrics
}

func DefaultClientConfig(name string) ClientConfig {
	return ClientConfig{
		Name:            name,
		Timeout:         15 * time.Second,
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		UserAgent:       "go-hazard-watch/1.0",
	}
}

// Client performs upstream requests for one named source. Every failure is
// reported as *models.NetworkError.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	def := DefaultClientConfig(cfg.Name)
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	bc := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		bc = *cfg.Breaker
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker(bc),
	}
}

func (c *Client) Name() string { return c.cfg.Name }

func (c *Client) State() gobreaker.State { return c.breaker.State() }

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, v any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, header, nil)
	if err != nil {
		return err
	}
	return c.decode(body, v)
}

// PostJSON sends in as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	header := http.Header{"Content-Type": []string{"application/json"}}

	body, err := c.do(ctx, http.MethodPost, rawURL, header, payload)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *Client) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &models.NetworkError{Source: c.cfg.Name, Err: fmt.Errorf("error decoding response: %w", err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, header http.Header, payload []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() { c.cfg.Metrics.ObserveUpstream(c.cfg.Name, start, err) }()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	var body []byte
	operation := func() error {
		b, err := c.breaker.Execute(func() ([]byte, error) {
			return c.attempt(ctx, method, rawURL, header, payload)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)
	if err = backoff.Retry(operation, policy); err != nil {
		return nil, c.networkError(err)
	}
	return body, nil
}

func (c *Client) attempt(ctx context.Context, method, rawURL string, header http.Header, payload []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("error creating request: %w", err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) networkError(err error) *models.NetworkError {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	var se *StatusError
	if errors.As(err, &se) {
		return &models.NetworkError{Source: c.cfg.Name, StatusCode: se.StatusCode, Err: se}
	}
	return &models.NetworkError{Source: c.cfg.Name, Err: err}
}
