// Package blob stores uploaded files on the local filesystem.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type FileStore struct {
	root   string
	logger *zap.Logger
}

func NewFileStore(root string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &FileStore{root: root, logger: logger.With(zap.String("component", "blob"))}, nil
}

// Put writes data to root/key through a temp file and rename, so readers never see a partial
// file and a second Put for the same key replaces the first. The reference is the key itself.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}

	s.logger.Debug("blob stored",
		zap.String("key", clean),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)),
	)
	return clean, nil
}

// Open returns the stored bytes for a reference returned by Put.
func (s *FileStore) Open(ref string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.Clean("/" + ref)[1:]))
}

var _ ports.BlobStore = (*FileStore)(nil)
