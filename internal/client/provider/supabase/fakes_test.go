package supabase

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
)

const (
	testAnonKey = "anon-key"
	testUserID  = "7f1d3c52-8a4e-4a6b-9a57-1c1f0c2d5e11"
)

type memSessions struct {
	mu      sync.Mutex
	s       *models.Session
	loadErr error
	saves   int
	clears  int
}

func (m *memSessions) Load(context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.s == nil {
		return nil, nil
	}
	s := *m.s
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.s = &cp
	m.saves++
	return nil
}

func (m *memSessions) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	m.clears++
	return nil
}

func (m *memSessions) stored() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

func makeToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func sessionFor(t *testing.T, exp time.Time, refresh string) *models.Session {
	t.Helper()
	return &models.Session{
		AccessToken:  makeToken(t, testUserID, exp),
		TokenType:    "bearer",
		RefreshToken: refresh,
		ExpiresAt:    exp.Unix(),
		User:         models.User{ID: testUserID, Email: "ann@example.com"},
	}
}

func newTestClient(t *testing.T, r chi.Router, sessions SessionStore, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, testAnonKey, sessions, opts...)
	require.NoError(t, err)
	return c
}
