package evidence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/filex"
)

// FileStore keeps blobs under a root directory on the local disk.
type FileStore struct {
	root string
}

func NewFileStore(dir string) (*FileStore, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare evidence dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o770); err != nil {
		return fmt.Errorf("failed to put evidence %s: %w", key, err)
	}
	if err := filex.WriteFileAtomic(p, data, 0o600); err != nil {
		return fmt.Errorf("failed to put evidence %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence %s: %w", key, err)
	}
	return data, nil
}
