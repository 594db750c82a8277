package model

import (
	"testing"
	"time"
)

func TestDraftPersisted(t *testing.T) {
	d := Draft{}
	if d.Persisted() {
		t.Error("A draft without an ID is not persisted")
	}

	d.ID = "some-id"
	if !d.Persisted() {
		t.Error("A draft with an ID is persisted")
	}
}

func TestDraftHasTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Hello", true},
		{"  padded  ", true},
	}

	for _, tc := range cases {
		d := Draft{Title: tc.title}
		if d.HasTitle() != tc.want {
			t.Errorf("HasTitle(%q) = %v, want %v", tc.title, !tc.want, tc.want)
		}
	}
}

func TestDraftClone(t *testing.T) {
	original := Draft{
		ID:           "draft-1",
		Owner:        "user-1",
		Title:        "Title",
		Body:         "Body",
		Tags:         []string{"go", "blogging"},
		Status:       StatusDraft,
		ModifiedDate: time.Now(),
	}

	clone := original.Clone()
	clone.Tags[0] = "changed"
	clone.Title = "Changed"

	if original.Tags[0] != "go" {
		t.Error("Clone shares the tags slice with the original")
	}
	if original.Title != "Title" {
		t.Error("Clone shares fields with the original")
	}
}

func TestStatusValues(t *testing.T) {
	if StatusDraft != "draft" || StatusPublished != "published" {
		t.Errorf("Unexpected status values: %q, %q", StatusDraft, StatusPublished)
	}
}
