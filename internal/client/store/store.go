package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
	"github.com/dmitrijs2005/venuehub/internal/logging"
)

const (
	// AvatarBucket is the storage bucket avatars are uploaded to.
	AvatarBucket = "avatars"
	// AvatarPrefix is prepended to every avatar object path.
	AvatarPrefix = "avatars/"
)

var (
	// ErrNotAuthenticated is returned by write operations when nobody is
	// signed in. No remote call is made in that case.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyUpdate is returned by UpdateProfile for an update without fields.
	ErrEmptyUpdate = errors.New("empty profile update")
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, which is used to build avatar object names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAvatarBucket overrides AvatarBucket.
func WithAvatarBucket(bucket string) Option {
	return func(s *Store) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

// WithClearOnSignOutFailure makes SignOut drop the local user and profile
// even when the provider rejects the sign-out. By default state is kept.
func WithClearOnSignOutFailure(clear bool) Option {
	return func(s *Store) { s.clearOnSignOutFailure = clear }
}

// Store is the session/profile state container. It is safe for concurrent
// use, but its operations are meant to be awaited one after another: two
// overlapping writes race at the provider, not in the store.
type Store struct {
	identity provider.Identity
	profiles provider.Profiles
	storage  provider.Storage
	logger   logging.Logger

	now                   func() time.Time
	bucket                string
	clearOnSignOutFailure bool

	mu       sync.RWMutex
	state    State
	inFlight int

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

var _ View = (*Store)(nil)

// New returns a store with every field at its zero value: no user, no
// profile, not hydrated, modal hidden.
func New(identity provider.Identity, profiles provider.Profiles, storage provider.Storage, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		identity: identity,
		profiles: profiles,
		storage:  storage,
		logger:   logger.With("component", "auth_store"),
		now:      time.Now,
		bucket:   AvatarBucket,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init hydrates the store from the identity provider's current session and,
// when there is one, loads the user's profile. Hydrated is true once Init
// returns, whether or not it succeeded.
func (s *Store) Init(ctx context.Context) error {
	s.begin()
	defer s.end()
	defer s.mutate(func(st *State) { st.Hydrated = true })

	session, err := s.identity.GetSession(ctx)
	if err != nil {
		s.logger.Error(ctx, "auth initialization failed", "error", err)
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		s.logger.Debug(ctx, "no session to restore")
		s.clearUser()
		return nil
	}

	s.setUser(session.User)
	return s.FetchUserProfile(ctx)
}

// SignIn creates a session with email and password, hides the auth modal and
// loads the user's profile.
func (s *Store) SignIn(ctx context.Context, email string, password []byte) error {
	s.begin()
	defer s.end()

	session, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Error(ctx, "sign in failed", "email", email, "error", err)
		return fmt.Errorf("sign in: %w", err)
	}

	s.setUser(session.User)
	s.mutate(func(st *State) { st.Modal = false })
	return s.FetchUserProfile(ctx)
}

// FetchUserProfile replaces the profile with the one stored for the signed-in
// user. Without a user it does nothing. On failure the current profile is
// kept.
func (s *Store) FetchUserProfile(ctx context.Context) error {
	userID, ok := s.currentUserID()
	if !ok {
		return nil
	}

	s.begin()
	defer s.end()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "fetch user profile failed", "user_id", userID, "error", err)
		return fmt.Errorf("fetch profile: %w", err)
	}

	s.mutate(func(st *State) {
		// the user may have signed out while the request was in flight
		if st.User == nil || st.User.ID != userID {
			return
		}
		p := *profile
		st.Profile = &p
	})
	return nil
}

// UpdateProfile writes a partial update to the signed-in user's profile and
// then re-reads the whole profile. A failed re-read is logged but does not
// fail the update.
func (s *Store) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	userID, ok := s.currentUserID()
	if !ok {
		return ErrNotAuthenticated
	}
	if update.IsEmpty() {
		return ErrEmptyUpdate
	}

	if err := s.profiles.UpdateProfile(ctx, userID, update.Normalized()); err != nil {
		s.logger.Error(ctx, "update profile failed", "user_id", userID, "error", err)
		return fmt.Errorf("update profile: %w", err)
	}

	_ = s.FetchUserProfile(ctx)
	return nil
}

// UploadAvatar stores avatar under a name unique to the user and the current
// time, then points the profile's avatar URL at its public URL.
//
// When the upload succeeds but the profile update fails, the public URL is
// returned together with the error so the caller can retry the update.
func (s *Store) UploadAvatar(ctx context.Context, avatar models.Avatar) (string, error) {
	userID, ok := s.currentUserID()
	if !ok {
		return "", ErrNotAuthenticated
	}

	path := s.avatarPath(userID, avatar)

	if err := s.storage.Upload(ctx, s.bucket, path, avatar); err != nil {
		s.logger.Error(ctx, "upload avatar failed", "user_id", userID, "path", path, "error", err)
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	url := s.storage.PublicURL(s.bucket, path)

	if err := s.UpdateProfile(ctx, models.ProfileUpdate{AvatarURL: &url}); err != nil {
		return url, fmt.Errorf("set avatar url: %w", err)
	}
	return url, nil
}

// SignOut ends the session at the identity provider and clears the user and
// profile. If the provider call fails the local state is kept, unless the
// store was built WithClearOnSignOutFailure(true).
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.identity.SignOut(ctx); err != nil {
		s.logger.Error(ctx, "sign out failed", "error", err)
		if s.clearOnSignOutFailure {
			s.clearUser()
		}
		return fmt.Errorf("sign out: %w", err)
	}

	s.clearUser()
	return nil
}

// ToggleModal flips the auth modal's visibility and returns the new value.
func (s *Store) ToggleModal() bool {
	var v bool
	s.mutate(func(st *State) {
		st.Modal = !st.Modal
		v = st.Modal
	})
	return v
}

// SetModal shows or hides the auth modal.
func (s *Store) SetModal(visible bool) {
	s.mutate(func(st *State) { st.Modal = visible })
}

func (s *Store) avatarPath(userID string, avatar models.Avatar) string {
	name := fmt.Sprintf("%s-%d", userID, s.now().UnixMilli())
	if ext := avatar.Ext(); ext != "" {
		name += "." + ext
	}
	return AvatarPrefix + name
}

func (s *Store) currentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil || s.state.User.ID == "" {
		return "", false
	}
	return s.state.User.ID, true
}

func (s *Store) setUser(u models.User) {
	s.mutate(func(st *State) {
		if st.User == nil || st.User.ID != u.ID {
			st.Profile = nil
		}
		st.User = &u
	})
}

func (s *Store) clearUser() {
	s.mutate(func(st *State) {
		st.User = nil
		st.Profile = nil
	})
}

func (s *Store) begin() {
	s.mutate(func(st *State) {
		s.inFlight++
		st.Loading = true
	})
}

func (s *Store) end() {
	s.mutate(func(st *State) {
		s.inFlight--
		st.Loading = s.inFlight > 0
	})
}

// mutate applies fn under the write lock and notifies subscribers.
func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
}
