package assets

import (
	"context"
	"os"
	"path/filepath"
)

// FSBackend writes uploads to a local directory served under /uploads/.
type FSBackend struct { // implements Backend
	dir string
}

func NewFSBackend(dir string) (*FSBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSBackend{dir: dir}, nil
}

func (b *FSBackend) Put(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(b.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// Dir returns the directory uploads are written to.
func (b *FSBackend) Dir() string {
	return b.dir
}
