// Package models defines the client-side records exchanged with the identity
// and storage provider: the signed-in user, the session that carries its
// tokens, the user's profile, and avatar uploads.
package models
