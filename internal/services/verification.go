package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/evidence"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

// VerificationSubmission is a badge application with its three images.
type VerificationSubmission struct {
	Category string
	Reason   string
	IDFront  []byte
	IDBack   []byte
	Selfie   []byte
}

func (s VerificationSubmission) validate() error {
	switch {
	case strings.TrimSpace(s.Category) == "":
		return fmt.Errorf("%w: category", common.ErrValidationMissing)
	case strings.TrimSpace(s.Reason) == "":
		return fmt.Errorf("%w: reason", common.ErrValidationMissing)
	case len(s.IDFront) == 0:
		return fmt.Errorf("%w: id front image", common.ErrValidationMissing)
	case len(s.IDBack) == 0:
		return fmt.Errorf("%w: id back image", common.ErrValidationMissing)
	case len(s.Selfie) == 0:
		return fmt.Errorf("%w: selfie image", common.ErrValidationMissing)
	}
	return nil
}

// SubmitVerification files a badge application for the signed-in user and
// marks them pending. A user has at most one pending application.
func (c *Coordinator) SubmitVerification(ctx context.Context, sess *Session, s VerificationSubmission) (*models.VerificationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	u, err := c.store.Get(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	if u.VerificationStatus == models.VerificationPending {
		return nil, common.ErrAlreadyPending
	}

	requests, err := slots.LoadList[models.VerificationRequest](ctx, c.slots, slots.KeyVerificationRequests)
	if err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.UserID == u.ID && r.Status == models.RequestPending {
			return nil, common.ErrAlreadyPending
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	req := models.VerificationRequest{
		ID:        c.opts.NewID(),
		UserID:    u.ID,
		UserName:  u.Name,
		Category:  strings.TrimSpace(s.Category),
		Reason:    strings.TrimSpace(s.Reason),
		Status:    models.RequestPending,
		Timestamp: c.now(),
	}
	req.Evidence = models.Evidence{
		IDFront: evidence.Key(u.ID, req.ID, "id_front"),
		IDBack:  evidence.Key(u.ID, req.ID, "id_back"),
		Selfie:  evidence.Key(u.ID, req.ID, "selfie"),
	}

	for key, data := range map[string][]byte{
		req.Evidence.IDFront: s.IDFront,
		req.Evidence.IDBack:  s.IDBack,
		req.Evidence.Selfie:  s.Selfie,
	} {
		if err := c.evidence.Put(ctx, key, data, "image/jpeg"); err != nil {
			c.logger.Error(ctx, "failed to store evidence", "user_id", u.ID, "request_id", req.ID, "error", err)
			return nil, err
		}
	}

	requests = append([]models.VerificationRequest{req}, requests...)
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyVerificationRequests, requests); err != nil {
		return nil, fmt.Errorf("failed to save verification requests: %w", err)
	}
	c.cache.VerificationRequests = requests

	updated, err := c.store.Patch(ctx, u.ID, models.UserPatch{VerificationStatus: models.Ptr(models.VerificationPending)})
	if err != nil {
		return nil, err
	}
	if err := c.setCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "verification submitted", "user_id", u.ID, "request_id", req.ID)
	return &req, nil
}

// ResolveVerification closes a pending application. Approval grants the
// badge; rejection records reason (or DefaultRejectReason). Admin only.
func (c *Coordinator) ResolveVerification(ctx context.Context, sess *Session, requestID string, outcome models.RequestStatus, reason string) (*models.VerificationRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if !models.ValidVerificationOutcome(outcome) {
		return nil, fmt.Errorf("%w: outcome %q", common.ErrInvalidTransition, outcome)
	}

	requests, err := slots.LoadList[models.VerificationRequest](ctx, c.slots, slots.KeyVerificationRequests)
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

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}

	var p models.UserPatch
	switch outcome {
	case models.RequestApproved:
		p = models.UserPatch{
			IsVerified:         models.Ptr(true),
			VerificationStatus: models.Ptr(models.VerificationNone),
		}
	case models.RequestRejected:
		p = models.UserPatch{VerificationStatus: models.Ptr(models.VerificationRejected)}
		req.RejectReason = reason
	}

	updated, err := c.store.Patch(ctx, req.UserID, p)
	if err != nil {
		return nil, err
	}
	if err := c.syncCurrent(ctx, sess, updated); err != nil {
		return nil, err
	}

	req.Status = outcome
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyVerificationRequests, requests); err != nil {
		return nil, fmt.Errorf("failed to save verification requests: %w", err)
	}
	c.cache.VerificationRequests = requests

	switch outcome {
	case models.RequestApproved:
		_, err = c.notify(ctx, req.UserID, models.NotificationReward,
			"Congratulations! Your account is verified",
			"Your documents were reviewed and you have been granted the verified badge.")
	case models.RequestRejected:
		_, err = c.notify(ctx, req.UserID, models.NotificationSecurity,
			"Verification request rejected",
			"Sorry, your request was rejected for the following reason: "+reason)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "verification resolved", "user_id", req.UserID, "request_id", req.ID, "outcome", outcome)
	out := *req
	return &out, nil
}

// Evidence returns one stored verification image by key.
func (c *Coordinator) Evidence(ctx context.Context, sess *Session, key string) ([]byte, error) {
	if _, err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return c.evidence.Get(ctx, key)
}
