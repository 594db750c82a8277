package draft

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/util"
	"github.com/inkwell-blog/inkwell/internal/util/compression"
)

type SQLStore struct { // implements Store
	db         db.DB
	compressor compression.Compressor
	strip      func(string) string
}

func NewSQLStore(database db.DB, compressor compression.Compressor) *SQLStore {
	return &SQLStore{
		db:         database,
		compressor: compressor,
		strip:      render.StripMarkup,
	}
}

func (s *SQLStore) Create(ctx context.Context, actor model.UserID, d *model.Draft) (model.DraftID, error) {
	if actor == "" {
		return "", ErrUnauthenticated
	}
	if err := validate(d, s.strip); err != nil {
		return "", err
	}

	id := model.DraftID(uuid.New().String())
	now := time.Now().UTC()

	compressed, err := s.compressor.Compress([]byte(d.Body))
	if err != nil {
		return "", fmt.Errorf("error compressing body: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (id, owner_id, title, body, body_hash, tags, image_ref, status, created_at, modified_at, synced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, actor, d.Title, compressed, util.ContentHash(compressed),
		util.JoinTagList(d.Tags), d.ImageRef, d.Status, now, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("error creating draft: %w", err)
	}

	storeLogger.Debug().Str("draft_id", string(id)).Str("owner", string(actor)).Msg("Draft created")
	return id, nil
}

func (s *SQLStore) Update(ctx context.Context, actor model.UserID, d *model.Draft) error {
	owner, err := s.ownerOf(d.ID)
	if err != nil {
		return err
	}
	if owner != actor {
		return ErrNotAuthorized
	}
	if err := validate(d, s.strip); err != nil {
		return err
	}

	now := time.Now().UTC()

	compressed, err := s.compressor.Compress([]byte(d.Body))
	if err != nil {
		return fmt.Errorf("error compressing body: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE drafts SET title = ?, body = ?, body_hash = ?, tags = ?, image_ref = ?, status = ?, modified_at = ?, synced_at = ? WHERE id = ?`,
		d.Title, compressed, util.ContentHash(compressed),
		util.JoinTagList(d.Tags), d.ImageRef, d.Status, now, now, d.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating draft: %w", err)
	}

	storeLogger.Debug().Str("draft_id", string(d.ID)).Msg("Draft updated")
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, actor model.UserID, id model.DraftID) error {
	owner, err := s.ownerOf(id)
	if err != nil {
		return err
	}
	if owner != actor {
		return ErrNotAuthorized
	}

	if _, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting draft: %w", err)
	}

	storeLogger.Debug().Str("draft_id", string(id)).Msg("Draft deleted")
	return nil
}

func (s *SQLStore) Fetch(ctx context.Context, actor model.UserID, id model.DraftID) (*model.Draft, error) {
	row := s.db.QueryRow(
		`SELECT id, owner_id, title, body, tags, image_ref, status, created_at, modified_at, synced_at FROM drafts WHERE id = ?`,
		id,
	)

	d, err := s.scanDraft(row.Scan)
	if err != nil {
		return nil, err
	}
	if d.Owner != actor {
		return nil, ErrNotAuthorized
	}

	return d, nil
}

func (s *SQLStore) ListByOwner(ctx context.Context, actor model.UserID) ([]model.Draft, error) {
	rows, err := s.db.Query(
		`SELECT id, owner_id, title, body, tags, image_ref, status, created_at, modified_at, synced_at FROM drafts WHERE owner_id = ? ORDER BY modified_at DESC`,
		actor,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying drafts: %w", err)
	}
	defer rows.Close()

	var drafts []model.Draft
	for rows.Next() {
		d, err := s.scanDraft(rows.Scan)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}

	return drafts, rows.Err()
}

func (s *SQLStore) ownerOf(id model.DraftID) (model.UserID, error) {
	var owner model.UserID
	err := s.db.QueryRow(`SELECT owner_id FROM drafts WHERE id = ?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error looking up draft owner: %w", err)
	}
	return owner, nil
}

type scanFunc func(dest ...any) error

func (s *SQLStore) scanDraft(scan scanFunc) (*model.Draft, error) {
	var d model.Draft
	var compressed []byte
	var tags string
	var syncedAt sql.NullTime

	err := scan(&d.ID, &d.Owner, &d.Title, &compressed, &tags, &d.ImageRef, &d.Status,
		&d.CreatedDate, &d.ModifiedDate, &syncedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning draft: %w", err)
	}

	body, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing body: %w", err)
	}

	d.Body = string(body)
	d.Tags = util.ParseTagList(tags)
	if syncedAt.Valid {
		d.LastSyncedAt = syncedAt.Time
	}

	return &d, nil
}
