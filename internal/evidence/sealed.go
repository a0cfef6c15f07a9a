package evidence

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tikbook/internal/cryptox"
)

// SealedStore encrypts blobs with AES-GCM before handing them to the
// wrapped store.
type SealedStore struct {
	inner Store
	key   []byte
}

func NewSealedStore(inner Store, key []byte) *SealedStore {
	return &SealedStore{inner: inner, key: key}
}

func (s *SealedStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	sealed, err := cryptox.Seal(data, s.key)
	if err != nil {
		return fmt.Errorf("failed to seal evidence %s: %w", key, err)
	}
	return s.inner.Put(ctx, key, sealed, "application/octet-stream")
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence %s: %w", key, err)
	}
	return data, nil
}
