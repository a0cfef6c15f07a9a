package services

import (
	"context"

	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

// Snapshot is everything a screen renders from, reloaded on each
// navigation.
type Snapshot struct {
	Users                []*models.User
	Posts                []models.Post
	Rooms                []models.Room
	Stories              []models.Story
	Notifications        []models.Notification
	VerificationRequests []models.VerificationRequest
	WithdrawalRequests   []models.WithdrawalRequest
}

// Refresh reloads every cached list from storage. There is no incremental
// invalidation.
func (c *Coordinator) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		s   Snapshot
		err error
	)
	if s.Users, err = c.store.ListAll(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Posts, err = slots.LoadList[models.Post](ctx, c.slots, slots.KeyPosts); err != nil {
		return Snapshot{}, err
	}
	if s.Rooms, err = slots.LoadList[models.Room](ctx, c.slots, slots.KeyRooms); err != nil {
		return Snapshot{}, err
	}
	if s.Stories, err = slots.LoadList[models.Story](ctx, c.slots, slots.KeyStories); err != nil {
		return Snapshot{}, err
	}
	if s.Notifications, err = slots.LoadList[models.Notification](ctx, c.slots, slots.KeyNotifications); err != nil {
		return Snapshot{}, err
	}
	if s.VerificationRequests, err = slots.LoadList[models.VerificationRequest](ctx, c.slots, slots.KeyVerificationRequests); err != nil {
		return Snapshot{}, err
	}
	if s.WithdrawalRequests, err = slots.LoadList[models.WithdrawalRequest](ctx, c.slots, slots.KeyWithdrawalRequests); err != nil {
		return Snapshot{}, err
	}

	c.cache = s
	return s, nil
}

// Notifications returns the cached notifications addressed to userID,
// newest first. Call Refresh to reload.
func (c *Coordinator) Notifications(userID string) []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []models.Notification{}
	for _, n := range c.cache.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
