package draft

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/util/compression"
)

func stripForTest(body string) string {
	var b strings.Builder
	inTag := false
	for _, r := range body {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func setupSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	database := db.NewSQLite(":memory:")
	if err := database.Init(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	// A pooled :memory: connection per goroutine would each see an empty
	// database; pin the pool to the one that ran the schema.
	database.Get().SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	compressor, err := compression.ForName("zstd")
	if err != nil {
		t.Fatalf("Failed to create compressor: %v", err)
	}

	store := NewSQLStore(database, compressor)
	store.strip = stripForTest
	return store
}

func validDraft() *model.Draft {
	return &model.Draft{
		Title:  "First post",
		Body:   "<p>Some actual content</p>",
		Tags:   []string{"go", "blogging"},
		Status: model.StatusDraft,
	}
}

func TestSQLStoreCreateAndFetch(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "user-1", validDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a non-empty draft ID")
	}

	got, err := store.Fetch(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if got.Title != "First post" {
		t.Errorf("Title = %q, want %q", got.Title, "First post")
	}
	if got.Body != "<p>Some actual content</p>" {
		t.Errorf("Body round-trip failed: %q", got.Body)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "blogging" {
		t.Errorf("Tags round-trip failed: %v", got.Tags)
	}
	if got.Owner != "user-1" {
		t.Errorf("Owner = %q, want user-1", got.Owner)
	}
	if got.Status != model.StatusDraft {
		t.Errorf("Status = %q, want draft", got.Status)
	}
	if got.LastSyncedAt.IsZero() {
		t.Error("Expected synced_at to be set")
	}
}

func TestSQLStoreCreateRequiresIdentity(t *testing.T) {
	store := setupSQLStore(t)

	_, err := store.Create(context.Background(), "", validDraft())
	if err != ErrUnauthenticated {
		t.Errorf("Create with empty actor = %v, want ErrUnauthenticated", err)
	}
}

func TestSQLStoreValidation(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	blankTitle := validDraft()
	blankTitle.Title = "   "
	if _, err := store.Create(ctx, "user-1", blankTitle); err != ErrValidation {
		t.Errorf("blank title: err = %v, want ErrValidation", err)
	}

	markupOnly := validDraft()
	markupOnly.Body = "<p>  </p><br>"
	if _, err := store.Create(ctx, "user-1", markupOnly); err != ErrValidation {
		t.Errorf("markup-only body: err = %v, want ErrValidation", err)
	}

	badStatus := validDraft()
	badStatus.Status = "archived"
	if _, err := store.Create(ctx, "user-1", badStatus); err != ErrValidation {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
}

func TestSQLStoreUpdateEnforcesOwnership(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "user-1", validDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	d, err := store.Fetch(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	d.Title = "Stolen"
	if err := store.Update(ctx, "user-2", d); err != ErrNotAuthorized {
		t.Errorf("Update by non-owner = %v, want ErrNotAuthorized", err)
	}

	d.Title = "Edited"
	d.Status = model.StatusPublished
	if err := store.Update(ctx, "user-1", d); err != nil {
		t.Fatalf("Update by owner failed: %v", err)
	}

	got, err := store.Fetch(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Fetch after update failed: %v", err)
	}
	if got.Title != "Edited" || got.Status != model.StatusPublished {
		t.Errorf("Update not applied: title=%q status=%q", got.Title, got.Status)
	}
}

func TestSQLStoreUpdateUnknownDraft(t *testing.T) {
	store := setupSQLStore(t)

	d := validDraft()
	d.ID = "no-such-draft"
	if err := store.Update(context.Background(), "user-1", d); err != ErrNotFound {
		t.Errorf("Update of unknown draft = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreDelete(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "user-1", validDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, "user-2", id); err != ErrNotAuthorized {
		t.Errorf("Delete by non-owner = %v, want ErrNotAuthorized", err)
	}

	if err := store.Delete(ctx, "user-1", id); err != nil {
		t.Fatalf("Delete by owner failed: %v", err)
	}

	if _, err := store.Fetch(ctx, "user-1", id); err != ErrNotFound {
		t.Errorf("Fetch after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "user-1", id); err != ErrNotFound {
		t.Errorf("Second delete = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreFetchIsOwnerOnly(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "user-1", validDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Fetch(ctx, "user-2", id); err != ErrNotAuthorized {
		t.Errorf("Fetch by non-owner = %v, want ErrNotAuthorized", err)
	}
	if _, err := store.Fetch(ctx, "user-1", "missing"); err != ErrNotFound {
		t.Errorf("Fetch of unknown draft = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreListByOwner(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	first := validDraft()
	first.Title = "Older"
	if _, err := store.Create(ctx, "user-1", first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// ensure distinct modified_at timestamps
	time.Sleep(10 * time.Millisecond)

	second := validDraft()
	second.Title = "Newer"
	if _, err := store.Create(ctx, "user-1", second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	other := validDraft()
	other.Title = "Someone else's"
	if _, err := store.Create(ctx, "user-2", other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	drafts, err := store.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}

	if len(drafts) != 2 {
		t.Fatalf("ListByOwner returned %d drafts, want 2", len(drafts))
	}
	if drafts[0].Title != "Newer" || drafts[1].Title != "Older" {
		t.Errorf("Wrong order: %q, %q", drafts[0].Title, drafts[1].Title)
	}
}

func TestMemoryStoreMirrorsSQLSemantics(t *testing.T) {
	store := NewMemoryStore()
	store.strip = stripForTest
	ctx := context.Background()

	if _, err := store.Create(ctx, "", validDraft()); err != ErrUnauthenticated {
		t.Errorf("Create with empty actor = %v, want ErrUnauthenticated", err)
	}

	id, err := store.Create(ctx, "user-1", validDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Fetch(ctx, "user-2", id); err != ErrNotAuthorized {
		t.Errorf("Fetch by non-owner = %v, want ErrNotAuthorized", err)
	}

	d, err := store.Fetch(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// The fetched draft is a copy; mutating it must not touch the store.
	d.Title = "Local edit"
	again, _ := store.Fetch(ctx, "user-1", id)
	if again.Title != "First post" {
		t.Errorf("Fetch returned a shared reference, Title = %q", again.Title)
	}

	d.Status = model.StatusPublished
	if err := store.Update(ctx, "user-2", d); err != ErrNotAuthorized {
		t.Errorf("Update by non-owner = %v, want ErrNotAuthorized", err)
	}
	if err := store.Update(ctx, "user-1", d); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := store.Delete(ctx, "user-2", id); err != ErrNotAuthorized {
		t.Errorf("Delete by non-owner = %v, want ErrNotAuthorized", err)
	}
	if err := store.Delete(ctx, "user-1", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Fetch(ctx, "user-1", id); err != ErrNotFound {
		t.Errorf("Fetch after delete = %v, want ErrNotFound", err)
	}
}
