package store

import "github.com/dmitrijs2005/venuehub/internal/client/models"

// State is a point-in-time copy of the store's fields.
type State struct {
	Modal    bool
	Hydrated bool
	User     *models.User
	Profile  *models.Profile
	Loading  bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// clone deep-copies the pointer fields so callers cannot mutate the store.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}

// View is the read-only face of the store handed to UI layers.
type View interface {
	Snapshot() State
	User() *models.User
	Profile() *models.Profile
	Modal() bool
	Hydrated() bool
	Loading() bool

	// Subscribe registers fn to receive a snapshot after every state change.
	// fn runs on the goroutine that made the change and must not block.
	Subscribe(fn func(State)) (cancel func())
}
