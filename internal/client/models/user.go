package models

import (
	"time"

	"golang.org/x/oauth2"
)

// User is the identity record issued by the identity provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`

	// UserMetadata holds free-form attributes set at sign-up.
	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	CreatedAt  time.Time `json:"created_at,omitempty"`
	LastSignIn time.Time `json:"last_sign_in_at,omitempty"`
}

// Session is an authenticated session: the tokens issued by the identity
// provider and the user they were issued for.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the access token expiry as unix seconds.
	ExpiresAt int64 `json:"expires_at,omitempty"`
	ExpiresIn int64 `json:"expires_in,omitempty"`

	User User `json:"user"`
}

// Expiry returns the access token expiry, or the zero time when unknown.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// Expired reports whether the access token is expired at now, allowing for
// leeway of clock skew. Sessions without a known expiry never expire.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	exp := s.Expiry()
	if exp.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(exp)
}

// Token converts the session to an oauth2 token for HTTP transports.
func (s *Session) Token() *oauth2.Token {
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    tokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
	}
}
