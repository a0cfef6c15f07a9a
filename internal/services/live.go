package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/live"
	"github.com/dmitrijs2005/tikbook/internal/models"
)

// SendGift debits exactly gift.Price from the signed-in user and posts a
// gift message to room. The balance is untouched on failure.
func (c *Coordinator) SendGift(ctx context.Context, sess *Session, room *live.Room, gift models.Gift) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room", common.ErrValidationMissing)
	}
	if gift.Price <= 0 {
		return nil, common.ErrInvalidAmount
	}

	// the session copy may predate an admin credit
	u, err := c.store.Get(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	if u.Balance < gift.Price {
		c.logger.Debug(ctx, "gift refused", "user_id", u.ID, "price", gift.Price, "balance", u.Balance)
		return nil, common.ErrInsufficientBalance
	}

	updated, err := c.store.Credit(ctx, u.ID, -gift.Price)
	if err != nil {
		return nil, err
	}
	if err := c.setCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}

	room.Post(models.ChatMessage{
		ID:        c.opts.NewID(),
		User:      updated.Name,
		Text:      fmt.Sprintf("sent a gift: %s", gift.Icon),
		Level:     updated.SupporterLevel,
		IsGift:    true,
		Timestamp: c.now(),
	})

	c.logger.Info(ctx, "gift sent", "user_id", u.ID, "room_id", room.Info().ID, "gift", gift.ID, "amount", gift.Price)
	return updated.Clone(), nil
}

// SendMessage posts a chat message to room as the signed-in user.
func (c *Coordinator) SendMessage(ctx context.Context, sess *Session, room *live.Room, text string) (models.ChatMessage, error) {
	u, err := requireUser(sess)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if room == nil {
		return models.ChatMessage{}, fmt.Errorf("%w: room", common.ErrValidationMissing)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: message text", common.ErrValidationMissing)
	}

	level := u.SupporterLevel
	if level < 1 {
		level = 1
	}
	m := models.ChatMessage{
		ID:        c.opts.NewID(),
		User:      u.Name,
		Text:      text,
		Level:     level,
		Timestamp: c.now(),
	}
	room.Post(m)
	return m, nil
}
