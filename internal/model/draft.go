// Package model defines core data structures and types for the blog platform.
package model

import (
	"strings"
	"time"
)

type DraftID string

type UserID string

// Status is the lifecycle state of a draft. It is set explicitly on every
// save, never derived.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Draft is the post document under edit. ID stays empty until the creating
// save assigns it; Owner is immutable once set.
type Draft struct {
	ID    DraftID
	Owner UserID

	Title string
	Body  string
	Tags  []string

	// ImageRef references an uploaded asset. Its lifecycle is independent of
	// the draft's save cycle: clearing it does not delete the asset.
	ImageRef string

	Status Status

	CreatedDate  time.Time
	ModifiedDate time.Time

	// LastSyncedAt records the most recent successful persistence.
	// Observability only.
	LastSyncedAt time.Time
}

// Persisted reports whether the draft has ever been saved.
func (d *Draft) Persisted() bool {
	return d.ID != ""
}

// HasTitle reports whether the title is non-blank.
func (d *Draft) HasTitle() bool {
	return strings.TrimSpace(d.Title) != ""
}

// Clone returns a deep copy of the draft, safe to hand to a persistence
// call while the original keeps mutating.
func (d *Draft) Clone() Draft {
	c := *d
	c.Tags = append([]string(nil), d.Tags...)
	return c
}
