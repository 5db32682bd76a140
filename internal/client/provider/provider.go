package provider

import (
	"context"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
)

// Identity issues and invalidates user sessions.
type Identity interface {
	// GetSession returns the current session, or (nil, nil) when nobody is
	// signed in.
	GetSession(ctx context.Context) (*models.Session, error)

	// SignInWithPassword creates a session for the given credentials.
	SignInWithPassword(ctx context.Context, email string, password []byte) (*models.Session, error)

	// SignOut invalidates the current session.
	SignOut(ctx context.Context) error
}

// Profiles reads and writes rows of the "profiles" collection.
type Profiles interface {
	// GetProfile returns the single profile whose id equals userID,
	// projecting models.ProfileColumns.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile applies a partial update to the profile keyed by userID.
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error
}

// Storage stores binary objects in buckets and resolves their public URLs.
type Storage interface {
	Upload(ctx context.Context, bucket, path string, avatar models.Avatar) error

	// PublicURL returns the durable public URL for an object. It does not
	// check that the object exists.
	PublicURL(bucket, path string) string
}
