package draft

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
)

// MemoryStore keeps drafts in process memory. Used for ephemeral deployments
// and as the store double in editor tests.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[model.DraftID]model.Draft
	strip  func(string) string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[model.DraftID]model.Draft),
		strip:  render.StripMarkup,
	}
}

func (m *MemoryStore) Create(ctx context.Context, actor model.UserID, d *model.Draft) (model.DraftID, error) {
	if actor == "" {
		return "", ErrUnauthenticated
	}
	if err := validate(d, m.strip); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()

	stored := d.Clone()
	stored.ID = model.DraftID(uuid.New().String())
	stored.Owner = actor
	stored.CreatedDate = now
	stored.ModifiedDate = now
	stored.LastSyncedAt = now

	m.drafts[stored.ID] = stored
	return stored.ID, nil
}

func (m *MemoryStore) Update(ctx context.Context, actor model.UserID, d *model.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.drafts[d.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Owner != actor {
		return ErrNotAuthorized
	}
	if err := validate(d, m.strip); err != nil {
		return err
	}

	now := time.Now().UTC()

	stored := d.Clone()
	stored.Owner = existing.Owner
	stored.CreatedDate = existing.CreatedDate
	stored.ModifiedDate = now
	stored.LastSyncedAt = now

	m.drafts[stored.ID] = stored
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, actor model.UserID, id model.DraftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.drafts[id]
	if !ok {
		return ErrNotFound
	}
	if existing.Owner != actor {
		return ErrNotAuthorized
	}

	delete(m.drafts, id)
	return nil
}

func (m *MemoryStore) Fetch(ctx context.Context, actor model.UserID, id model.DraftID) (*model.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if existing.Owner != actor {
		return nil, ErrNotAuthorized
	}

	d := existing.Clone()
	return &d, nil
}

func (m *MemoryStore) ListByOwner(ctx context.Context, actor model.UserID) ([]model.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var drafts []model.Draft
	for _, d := range m.drafts {
		if d.Owner == actor {
			drafts = append(drafts, d.Clone())
		}
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].ModifiedDate.After(drafts[j].ModifiedDate)
	})

	return drafts, nil
}
