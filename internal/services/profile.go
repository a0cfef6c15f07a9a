package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
)

// privileged reports whether p touches a field only admins may set.
func privileged(p models.UserPatch) bool {
	return p.Role != nil || p.Balance != nil || p.Earnings != nil ||
		p.IsVerified != nil || p.VerificationStatus != nil || p.SupporterLevel != nil ||
		p.Followers != nil || p.Following != nil || p.Likes != nil
}

// UpdateCurrentUser patches the signed-in user. Non-admins may only change
// their profile fields.
func (c *Coordinator) UpdateCurrentUser(ctx context.Context, sess *Session, p models.UserPatch) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if privileged(p) && !u.IsAdmin() {
		return nil, fmt.Errorf("%w: field requires admin", common.ErrForbidden)
	}
	return c.patch(ctx, sess, u.ID, p)
}

// UpdateUser lets an admin patch any user.
func (c *Coordinator) UpdateUser(ctx context.Context, sess *Session, id string, p models.UserPatch) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return c.patch(ctx, sess, id, p)
}

func (c *Coordinator) patch(ctx context.Context, sess *Session, id string, p models.UserPatch) (*models.User, error) {
	updated, err := c.store.Patch(ctx, id, p)
	if err != nil {
		c.logger.Debug(ctx, "patch refused", "user_id", id, "error", err)
		return nil, err
	}
	if err := c.syncCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "user updated", "user_id", id)
	return updated.Clone(), nil
}

// ChargeCoins adds purchased coins to the signed-in user's wallet.
func (c *Coordinator) ChargeCoins(ctx context.Context, sess *Session, amount int64) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	updated, err := c.store.Credit(ctx, u.ID, amount)
	if err != nil {
		c.logger.Error(ctx, "failed to credit coins", "user_id", u.ID, "amount", amount, "error", err)
		return nil, err
	}
	if err := c.setCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "coins charged", "user_id", u.ID, "amount", amount)
	return updated.Clone(), nil
}
