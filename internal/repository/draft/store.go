// Package draft persists in-progress and published post documents.
//
// The store is the authoritative owner check: every mutating call takes the
// acting identity and re-verifies ownership server-side, independently of
// the editor's client-side guard.
package draft

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/model"
)

var (
	ErrNotFound        = errors.New("draft not found")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrValidation      = errors.New("draft validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Store interface {
	// Create persists a never-saved draft and returns its assigned ID.
	// The draft's Owner must match the acting identity.
	Create(ctx context.Context, actor model.UserID, d *model.Draft) (model.DraftID, error)

	// Update persists changes to an existing draft keyed by its ID.
	Update(ctx context.Context, actor model.UserID, d *model.Draft) error

	// Delete removes a draft.
	Delete(ctx context.Context, actor model.UserID, id model.DraftID) error

	// Fetch loads a draft for editing. Only the owner may fetch.
	Fetch(ctx context.Context, actor model.UserID, id model.DraftID) (*model.Draft, error)

	// ListByOwner returns all drafts belonging to the acting identity,
	// newest first.
	ListByOwner(ctx context.Context, actor model.UserID) ([]model.Draft, error)
}

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// validate applies the persistence-level field rules: a non-blank title and
// a body with visible content. strip maps a body to its markup-free text.
func validate(d *model.Draft, strip func(string) string) error {
	if !d.HasTitle() {
		return ErrValidation
	}
	if strip(d.Body) == "" {
		return ErrValidation
	}
	if d.Status != model.StatusDraft && d.Status != model.StatusPublished {
		return ErrValidation
	}
	return nil
}
