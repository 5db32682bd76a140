// Package cli provides the interactive venuehub command-line client.
//
// It wires configuration, the local session cache, the remote providers and
// the session/profile store, then runs a REPL over the store. Typical flow:
// restore the cached session, prompt for credentials when nobody is signed
// in, and execute user commands.
//
// Key features:
//   - Login / Logout
//   - Show and edit the profile, upload an avatar
//   - Toggle the sign-in modal flag
//   - Provider request statistics
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
