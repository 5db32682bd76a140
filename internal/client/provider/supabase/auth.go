package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
)

// expiryLeeway refreshes tokens slightly before they expire.
const expiryLeeway = 30 * time.Second

var authTokenPath = []string{"auth", "v1", "token"}

// GetSession returns the persisted session, refreshing it once when the
// access token has expired. A refresh token the server no longer accepts
// ends the session and yields (nil, nil).
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	s, err := c.current(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Expired(c.now(), expiryLeeway) {
		return s, nil
	}

	refreshed, err := c.refresh(ctx, s)
	if err != nil {
		if errors.Is(err, provider.ErrUnauthorized) || errors.Is(err, provider.ErrRejected) {
			c.logger.Info(ctx, "session refresh rejected, signing out locally", "error", err)
			c.forget(ctx)
			return nil, nil
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return refreshed, nil
}

// SignInWithPassword exchanges credentials for a session and persists it.
func (c *Client) SignInWithPassword(ctx context.Context, email string, password []byte) (*models.Session, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	body, err := jsonBody(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}

	var s models.Session
	err = c.do(ctx, request{
		service: serviceAuth,
		method:  http.MethodPost,
		path:    authTokenPath,
		query:   url.Values{"grant_type": {"password"}},
		header:  http.Header{"Content-Type": {"application/json"}},
		body:    body,
	}, &s)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := c.adopt(ctx, &s); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return c.snapshot(), nil
}

// SignOut revokes the session server-side and forgets it locally. Sessions
// the server already considers invalid are forgotten without error.
func (c *Client) SignOut(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	s, err := c.current(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}

	if s.Expired(c.now(), expiryLeeway) {
		if _, err := c.refresh(ctx, s); err != nil {
			if errors.Is(err, provider.ErrUnauthorized) || errors.Is(err, provider.ErrRejected) {
				c.forget(ctx)
				return nil
			}
			return fmt.Errorf("sign out: %w", err)
		}
	}

	err = c.do(ctx, request{
		service: serviceAuth,
		method:  http.MethodPost,
		path:    []string{"auth", "v1", "logout"},
	}, nil)
	if err != nil && !errors.Is(err, provider.ErrUnauthorized) && !errors.Is(err, provider.ErrNotFound) {
		return fmt.Errorf("sign out: %w", err)
	}

	c.forget(ctx)
	return nil
}

func (c *Client) refresh(ctx context.Context, s *models.Session) (*models.Session, error) {
	if s.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", provider.ErrUnauthorized)
	}

	body, err := jsonBody(map[string]string{"refresh_token": s.RefreshToken})
	if err != nil {
		return nil, err
	}

	var next models.Session
	err = c.do(ctx, request{
		service: serviceAuth,
		method:  http.MethodPost,
		path:    authTokenPath,
		query:   url.Values{"grant_type": {"refresh_token"}},
		header:  http.Header{"Content-Type": {"application/json"}},
		body:    body,
	}, &next)
	if err != nil {
		return nil, err
	}

	if err := c.adopt(ctx, &next); err != nil {
		return nil, err
	}
	return c.snapshot(), nil
}

// current returns a copy of the in-memory session, loading the persisted one
// on first use.
func (c *Client) current(ctx context.Context) (*models.Session, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if !loaded && c.sessions != nil {
		s, err := c.sessions.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		c.mu.Lock()
		c.session, c.loaded = s, true
		c.mu.Unlock()
	}
	return c.snapshot(), nil
}

func (c *Client) snapshot() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// adopt validates s, makes it current and persists it. Persistence failures
// are logged: the session stays usable for this run.
func (c *Client) adopt(ctx context.Context, s *models.Session) error {
	if err := c.complete(s); err != nil {
		return err
	}

	c.mu.Lock()
	c.session, c.loaded = s, true
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Save(ctx, s); err != nil {
			c.logger.Warn(ctx, "failed to persist session", "error", err)
		}
	}
	return nil
}

func (c *Client) forget(ctx context.Context) {
	c.mu.Lock()
	c.session, c.loaded = nil, true
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Clear(ctx); err != nil {
			c.logger.Error(ctx, "failed to clear persisted session", "error", err)
		}
	}
}

// complete fills the expiry and user id from the access token claims when
// the response omitted them, and checks that the user id is well formed.
func (c *Client) complete(s *models.Session) error {
	if s.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", provider.ErrUnauthorized)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, &claims); err != nil {
		return fmt.Errorf("%w: malformed access token: %v", provider.ErrRejected, err)
	}

	if s.ExpiresAt == 0 {
		switch {
		case claims.ExpiresAt != nil:
			s.ExpiresAt = claims.ExpiresAt.Unix()
		case s.ExpiresIn > 0:
			s.ExpiresAt = c.now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
		}
	}

	switch {
	case s.User.ID == "":
		s.User.ID = claims.Subject
	case claims.Subject != "" && claims.Subject != s.User.ID:
		return fmt.Errorf("%w: token subject does not match user", provider.ErrRejected)
	}
	if _, err := uuid.Parse(s.User.ID); err != nil {
		return fmt.Errorf("%w: invalid user id %q", provider.ErrRejected, s.User.ID)
	}
	return nil
}
