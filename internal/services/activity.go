package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

func (c *Coordinator) addActivity(ctx context.Context, recipient string, from *models.User, typ models.ActivityType, thumb, text string) (models.ActivityItem, error) {
	item := models.ActivityItem{
		ID:             c.opts.NewID(),
		UserID:         recipient,
		Type:           typ,
		FromUserID:     from.ID,
		FromUserName:   from.Name,
		FromUserAvatar: from.Avatar,
		PostThumb:      thumb,
		Text:           text,
		Timestamp:      c.now(),
	}
	if _, err := prepend(ctx, c.slots, slots.KeyActivities, item); err != nil {
		return models.ActivityItem{}, fmt.Errorf("failed to save activities: %w", err)
	}
	c.logger.Debug(ctx, "activity added", "user_id", recipient, "type", typ)
	return item, nil
}

// Activities returns the signed-in user's feed, newest first.
func (c *Coordinator) Activities(ctx context.Context, sess *Session) ([]models.ActivityItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	all, err := slots.LoadList[models.ActivityItem](ctx, c.slots, slots.KeyActivities)
	if err != nil {
		return nil, err
	}

	mine := []models.ActivityItem{}
	for _, a := range all {
		if a.UserID == u.ID {
			mine = append(mine, a)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Timestamp.After(mine[j].Timestamp)
	})
	return mine, nil
}

// ClearActivities removes the signed-in user's feed and nobody else's.
func (c *Coordinator) ClearActivities(ctx context.Context, sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return err
	}
	_, err = c.filterActivities(ctx, func(a models.ActivityItem) bool {
		return a.UserID != u.ID
	})
	return err
}

// PruneActivities drops every activity item older than before and reports
// how many were removed.
func (c *Coordinator) PruneActivities(ctx context.Context, before time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.filterActivities(ctx, func(a models.ActivityItem) bool {
		return !a.Timestamp.Before(before)
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.logger.Info(ctx, "activities pruned", "removed", removed, "before", before)
	}
	return removed, nil
}

func (c *Coordinator) filterActivities(ctx context.Context, keep func(models.ActivityItem) bool) (int, error) {
	all, err := slots.LoadList[models.ActivityItem](ctx, c.slots, slots.KeyActivities)
	if err != nil {
		return 0, err
	}
	kept := make([]models.ActivityItem, 0, len(all))
	for _, a := range all {
		if keep(a) {
			kept = append(kept, a)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyActivities, kept); err != nil {
		return 0, fmt.Errorf("failed to save activities: %w", err)
	}
	return removed, nil
}
