// Package common contains small helpers and constants shared by the
// VenueHub client packages.
package common
