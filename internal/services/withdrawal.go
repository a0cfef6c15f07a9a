package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

// RequestWithdrawal debits amount from the signed-in user's balance and
// queues a pending withdrawal. The debit happens now so the same coins
// cannot back two requests; a rejected request is refunded.
func (c *Coordinator) RequestWithdrawal(ctx context.Context, sess *Session, amount int64, method string) (*models.WithdrawalRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("%w: method", common.ErrValidationMissing)
	}

	updated, err := c.store.Credit(ctx, u.ID, -amount)
	if err != nil {
		c.logger.Debug(ctx, "withdrawal refused", "user_id", u.ID, "amount", amount, "error", err)
		return nil, err
	}

	req := models.WithdrawalRequest{
		ID:        c.opts.NewID(),
		UserID:    u.ID,
		Amount:    amount,
		Method:    method,
		Status:    models.RequestPending,
		Timestamp: c.now(),
	}
	list, err := prepend(ctx, c.slots, slots.KeyWithdrawalRequests, req)
	if err != nil {
		if _, rerr := c.store.Credit(ctx, u.ID, amount); rerr != nil {
			c.logger.Error(ctx, "failed to refund withdrawal", "user_id", u.ID, "amount", amount, "error", rerr)
		}
		return nil, fmt.Errorf("failed to save withdrawal requests: %w", err)
	}
	c.cache.WithdrawalRequests = list

	if err := c.setCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "withdrawal requested", "user_id", u.ID, "request_id", req.ID, "amount", amount)
	return &req, nil
}

// ResolveWithdrawal completes or rejects a pending withdrawal. Admin only.
func (c *Coordinator) ResolveWithdrawal(ctx context.Context, sess *Session, requestID string, outcome models.RequestStatus) (*models.WithdrawalRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if !models.ValidWithdrawalOutcome(outcome) {
		return nil, fmt.Errorf("%w: outcome %q", common.ErrInvalidTransition, outcome)
	}

	requests, err := slots.LoadList[models.WithdrawalRequest](ctx, c.slots, slots.KeyWithdrawalRequests)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range requests {
		if requests[i].ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, common.ErrNotFound
	}
	req := &requests[idx]
	if req.Status != models.RequestPending {
		return nil, common.ErrInvalidTransition
	}

	if outcome == models.RequestRejected {
		refunded, err := c.store.Credit(ctx, req.UserID, req.Amount)
		if err != nil {
			return nil, err
		}
		if err := c.syncCurrent(ctx, sess, refunded); err != nil {
			return nil, err
		}
	}

	req.Status = outcome
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyWithdrawalRequests, requests); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal requests: %w", err)
	}
	c.cache.WithdrawalRequests = requests

	switch outcome {
	case models.RequestCompleted:
		_, err = c.notify(ctx, req.UserID, models.NotificationReward,
			"Your earnings were transferred",
			fmt.Sprintf("An amount of %d was sent to your wallet successfully.", req.Amount))
	case models.RequestRejected:
		_, err = c.notify(ctx, req.UserID, models.NotificationSecurity,
			"Withdrawal request failed",
			"Sorry, the withdrawal could not be completed and the amount was returned to your balance. Please contact support.")
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "withdrawal resolved", "user_id", req.UserID, "request_id", req.ID, "outcome", outcome, "amount", req.Amount)
	out := *req
	return &out, nil
}
