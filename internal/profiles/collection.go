package profiles

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

// CollectionStore persists every user in a single slot.
type CollectionStore struct {
	mu      sync.Mutex
	repo    slots.Repository
	latency time.Duration
}

// NewCollectionStore returns a store over repo. ListAll waits latency before
// answering; zero disables the delay.
func NewCollectionStore(repo slots.Repository, latency time.Duration) *CollectionStore {
	return &CollectionStore{repo: repo, latency: latency}
}

func (s *CollectionStore) load(ctx context.Context) ([]*models.User, error) {
	users, err := slots.LoadList[*models.User](ctx, s.repo, slots.KeyAllUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (s *CollectionStore) save(ctx context.Context, users []*models.User) error {
	if err := slots.SaveJSON(ctx, s.repo, slots.KeyAllUsers, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

func indexOf(users []*models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *CollectionStore) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.ID == "" {
		return nil, fmt.Errorf("%w: user id", common.ErrValidationMissing)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var stored *models.User
	if i := indexOf(users, u.ID); i >= 0 {
		users[i].MergeFrom(u)
		stored = users[i]
	} else {
		stored = u.WithDefaults()
		users = append(users, stored)
	}

	if err := s.save(ctx, users); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (s *CollectionStore) ListAll(ctx context.Context) ([]*models.User, error) {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *CollectionStore) Get(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	return users[i], nil
}

func (s *CollectionStore) Patch(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(u *models.User) error {
		p.Apply(u)
		return nil
	})
}

func (s *CollectionStore) Credit(ctx context.Context, id string, amount int64) (*models.User, error) {
	return s.update(ctx, id, func(u *models.User) error {
		if u.Balance+amount < 0 {
			return common.ErrInsufficientBalance
		}
		u.Balance += amount
		return nil
	})
}

// update runs fn on the record with id and persists the collection. Nothing
// is written when fn fails.
func (s *CollectionStore) update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id)
	if i < 0 {
		return nil, common.ErrNotFound
	}

	u := users[i]
	if err := fn(u); err != nil {
		return nil, err
	}

	if err := s.save(ctx, users); err != nil {
		return nil, err
	}
	return u.Clone(), nil
}
