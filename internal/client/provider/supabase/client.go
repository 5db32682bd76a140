package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/venuehub/internal/client/metrics"
	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
	"github.com/dmitrijs2005/venuehub/internal/common"
	"github.com/dmitrijs2005/venuehub/internal/logging"
)

const (
	serviceAuth    = "auth"
	serviceRest    = "rest"
	serviceStorage = "storage"

	maxErrorBody = 4 << 10
)

// SessionStore persists the session between runs.
type SessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

// Client talks to one project. It implements provider.Identity,
// provider.Profiles and provider.Storage.
type Client struct {
	base     *url.URL
	anonKey  string
	sessions SessionStore

	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  logging.Logger
	now     func() time.Time

	// opMu serializes operations that replace the session.
	opMu sync.Mutex

	mu      sync.RWMutex
	session *models.Session
	loaded  bool
}

var (
	_ provider.Identity = (*Client)(nil)
	_ provider.Profiles = (*Client)(nil)
	_ provider.Storage  = (*Client)(nil)
)

type Option func(*Client)

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTransport replaces the underlying round tripper. Bearer tokens are
// still added on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = &oauth2.Transport{Source: tokenSource{c}, Base: rt}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the project at baseURL.
func New(baseURL, anonKey string, sessions SessionStore, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("provider url is required")
	}
	if anonKey == "" {
		return nil, errors.New("anon key is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("provider url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:     u,
		anonKey:  anonKey,
		sessions: sessions,
		limiter:  rate.NewLimiter(rate.Inf, 0),
		logger:   logging.Nop(),
		now:      time.Now,
	}
	c.http = &http.Client{
		Transport: &oauth2.Transport{Source: tokenSource{c}, Base: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// tokenSource authorizes requests with the session's access token while it
// is valid and with the anon key otherwise.
type tokenSource struct {
	c *Client
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	ts.c.mu.RLock()
	s := ts.c.session
	ts.c.mu.RUnlock()

	if s != nil && !s.Expired(ts.c.now(), 0) {
		return s.Token(), nil
	}
	return &oauth2.Token{AccessToken: ts.c.anonKey, TokenType: "Bearer"}, nil
}

type request struct {
	service string
	method  string
	path    []string
	query   url.Values
	header  http.Header
	body    io.Reader
	size    int64
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// do sends r and decodes a successful JSON response into out when out is not
// nil. Non-2xx responses become *provider.StatusError.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
	}

	u := c.base.JoinPath(r.path...)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(common.APIKeyHeaderName, c.anonKey)
	req.Header.Set(common.ClientInfoHeaderName, common.ClientInfo)
	if r.size > 0 {
		req.ContentLength = r.size
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.Observe(r.service, r.method, 0, c.now().Sub(start))
		c.logger.Debug(ctx, "provider request failed", "service", r.service, "method", r.method, "error", err)
		return fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.Observe(r.service, r.method, resp.StatusCode, c.now().Sub(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.service, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil {
		for _, m := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
			if m != "" {
				msg = m
				break
			}
		}
	}
	return &provider.StatusError{Code: resp.StatusCode, Message: msg}
}
