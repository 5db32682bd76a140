// Package supabase implements the provider contracts over the hosted
// backend's REST surface: the GoTrue auth endpoints, the PostgREST profiles
// table and the storage object API.
package supabase
