// Package assets stores uploaded images, independently of the draft save
// cycle. An upload that succeeds before a failed save leaves an orphaned
// asset; that is accepted, not reconciled.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/inkwell-blog/inkwell/internal/util"
)

var (
	// ErrPayloadTooLarge means the upload exceeds the configured ceiling.
	ErrPayloadTooLarge = errors.New("upload exceeds size limit")

	// ErrUnsupportedType means the upload is not an image media type.
	ErrUnsupportedType = errors.New("unsupported media type")
)

// Backend persists validated image bytes under a name and returns a
// reference the client can embed.
type Backend interface {
	Put(ctx context.Context, name string, contentType string, data []byte) (string, error)
}

type Store struct {
	backend  Backend
	maxBytes int64
	log      zerolog.Logger
}

func NewStore(backend Backend, maxBytes int64, log zerolog.Logger) *Store {
	return &Store{
		backend:  backend,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Put validates and stores an upload. The content type is sniffed from the
// bytes, never trusted from the request. Names are content-addressed, so
// re-uploading identical bytes is idempotent.
func (s *Store) Put(ctx context.Context, r io.Reader) (string, error) {
	// Read one byte past the limit to distinguish "exactly at" from "over".
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrPayloadTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrUnsupportedType
	}

	name := util.ContentHash(data) + mtype.Extension()

	ref, err := s.backend.Put(ctx, name, mtype.String(), data)
	if err != nil {
		return "", fmt.Errorf("error storing upload: %w", err)
	}

	s.log.Info().
		Str("ref", ref).
		Str("content_type", mtype.String()).
		Int("bytes", len(data)).
		Msg("Image stored")

	return ref, nil
}
