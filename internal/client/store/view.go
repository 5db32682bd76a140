package store

import "github.com/dmitrijs2005/venuehub/internal/client/models"

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *models.User {
	return s.Snapshot().User
}

// Profile returns a copy of the loaded profile, or nil.
func (s *Store) Profile() *models.Profile {
	return s.Snapshot().Profile
}

func (s *Store) Modal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Modal
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Hydrated
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}
