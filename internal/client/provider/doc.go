// Package provider declares the contracts the client needs from the external
// identity-and-storage service and the sentinel errors implementations map
// their failures to.
//
// Implementations:
//
//   - supabase: REST client for auth, profiles and storage
//   - s3store:  S3-compatible object storage for avatars
//   - pgprofiles: profiles read and written straight from Postgres
//
// Callers match failures with errors.Is against ErrUnavailable,
// ErrUnauthorized, ErrNotFound and ErrRejected.
package provider
