package db

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewSQLite(t *testing.T) {
	database := NewSQLite(":memory:")

	if database == nil {
		t.Fatal("Expected non-nil SQLite instance")
	}
	if database.conn != nil {
		t.Error("Expected connection to be nil before Init")
	}
}

func TestSQLiteInitCreatesSchema(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	database := NewSQLite(":memory:")
	defer database.Close()

	if err := database.Init(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	database.Get().SetMaxOpenConns(1)

	// Both tables exist and accept rows.
	if _, err := database.Exec(`INSERT INTO users (id, username) VALUES ('u1', 'alice')`); err != nil {
		t.Errorf("Failed to insert user: %v", err)
	}
	if _, err := database.Exec(
		`INSERT INTO drafts (id, owner_id, title, status) VALUES ('d1', 'u1', 'Test', 'draft')`,
	); err != nil {
		t.Errorf("Failed to insert draft: %v", err)
	}

	var status string
	if err := database.QueryRow(`SELECT status FROM drafts WHERE id = 'd1'`).Scan(&status); err != nil {
		t.Fatalf("Failed to query draft: %v", err)
	}
	if status != "draft" {
		t.Errorf("Expected status 'draft', got %q", status)
	}

	// Init is idempotent.
	if err := database.Init(); err != nil {
		t.Errorf("Second Init failed: %v", err)
	}
}
