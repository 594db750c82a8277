package model

import (
	"html/template"
	"time"
)

type PostID = DraftID

// Post is the published, reader-facing view of a draft.
type Post struct {
	ID PostID

	Title   string
	Content template.HTML

	// Used for cache busting.
	// We cannot use the content hash because the content is already rendered.
	MDContentHash string

	Markdown []byte
	Tags     []string
	ImageRef string

	CreatedDate  time.Time
	ModifiedDate time.Time

	Owner UserID
}
