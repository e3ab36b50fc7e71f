package domain

import (
	"strings"
	"time"
)

// Record is a single entry of the URL to-do list.
//
// A Record is uniquely identified by its ID, and its URL is unique
// across the whole list.
type Record struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on insert and never reused.
	ID int64

	// URL is the address to read later.
	// Example: https://go.dev/blog/
	URL string

	// ─────────────────────────────
	// User metadata
	// ─────────────────────────────

	// Description is free text, may be empty.
	Description string

	// Category groups records, may be empty. Matching is exact.
	Category string

	// ─────────────────────────────
	// Progress
	// ─────────────────────────────

	// Read is the status flag. false means unread.
	Read bool

	// Timestamp is the creation time, set by the store, in UTC.
	Timestamp time.Time
}

// StatusLabel returns the human readable status.
func (r *Record) StatusLabel() string {
	if r.Read {
		return "Read"
	}
	return "Unread"
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Description *string
	Read        *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Read == nil
}

// ParseStatus converts user or file input into a status flag.
// Only "true" (any letter case, surrounding spaces ignored) means read.
func ParseStatus(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// FormatStatus is the inverse of ParseStatus.
func FormatStatus(read bool) string {
	if read {
		return "true"
	}
	return "false"
}

// Stats summarises the list.
type Stats struct {
	Total  int
	Read   int
	Unread int
}
