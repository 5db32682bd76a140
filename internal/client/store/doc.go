// Package store holds the client's session and profile state and keeps it in
// sync with the remote identity, profiles and storage providers.
//
// A Store is built once at application start and handed to the UI layer,
// which reads it through the View interface and changes it only through the
// Store's action methods:
//
//	st := store.New(identity, profiles, storage, logger)
//	_ = st.Init(ctx)                 // hydrate from the persisted session
//	_ = st.UpdateProfile(ctx, upd)   // write, then re-read the profile
//	url, err := st.UploadAvatar(ctx, avatar)
//	_ = st.SignOut(ctx)
//
// # Errors
//
// Every remote failure is logged and returned as an error value; the store's
// state stays consistent whatever the outcome. Read paths (Init,
// FetchUserProfile) leave the previous state in place on failure. Write
// paths without a signed-in user return ErrNotAuthenticated before any
// remote call is made.
//
// # State invariants
//
//   - Profile is non-nil only while User is non-nil.
//   - Hydrated turns true when the first Init returns, successful or not.
//   - Loading is true only while a session or profile request is in flight.
package store
