package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) verificationRequests(t *testing.T) []models.VerificationRequest {
	t.Helper()
	list, err := slots.LoadList[models.VerificationRequest](context.Background(), f.repo, slots.KeyVerificationRequests)
	require.NoError(t, err)
	return list
}

func TestSubmitVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u := f.signup(t, "ann")

	req, err := f.c.SubmitVerification(ctx, sess, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, u.ID, req.UserID)

	cur, err := f.c.CurrentUser(sess)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, cur.VerificationStatus)
	assert.Equal(t, models.VerificationPending, f.user(t, u.ID).VerificationStatus)

	selfie, err := f.ev.Get(ctx, req.Evidence.Selfie)
	require.NoError(t, err)
	assert.Equal(t, []byte("selfie"), selfie)

	list := f.verificationRequests(t)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
}

func TestSubmitVerification_RejectsSecondPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u := f.signup(t, "ann")

	_, err := f.c.SubmitVerification(ctx, sess, validSubmission())
	require.NoError(t, err)

	_, err = f.c.SubmitVerification(ctx, sess, validSubmission())
	require.ErrorIs(t, err, common.ErrAlreadyPending)
	assert.Len(t, f.verificationRequests(t), 1)

	// a pending request blocks even if the user's status was reset
	_, err = f.store.Patch(ctx, u.ID, models.UserPatch{VerificationStatus: models.Ptr(models.VerificationNone)})
	require.NoError(t, err)
	_, err = f.c.SubmitVerification(ctx, sess, validSubmission())
	require.ErrorIs(t, err, common.ErrAlreadyPending)
	assert.Len(t, f.verificationRequests(t), 1)
}

func TestSubmitVerification_MissingFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u := f.signup(t, "ann")

	cases := map[string]func(s *VerificationSubmission){
		"reason":   func(s *VerificationSubmission) { s.Reason = " " },
		"category": func(s *VerificationSubmission) { s.Category = "" },
		"front":    func(s *VerificationSubmission) { s.IDFront = nil },
		"back":     func(s *VerificationSubmission) { s.IDBack = nil },
		"selfie":   func(s *VerificationSubmission) { s.Selfie = []byte{} },
	}
	for name, mutate := range cases {
		s := validSubmission()
		mutate(&s)
		_, err := f.c.SubmitVerification(ctx, sess, s)
		require.ErrorIs(t, err, common.ErrValidationMissing, name)
	}

	assert.Empty(t, f.verificationRequests(t))
	assert.Equal(t, models.VerificationNone, f.user(t, u.ID).VerificationStatus)

	_, err := f.c.SubmitVerification(ctx, NewSession(), validSubmission())
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestResolveVerification_Approved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u := f.signup(t, "ann")
	admin := f.admin(t)

	req, err := f.c.SubmitVerification(ctx, sess, validSubmission())
	require.NoError(t, err)

	got, err := f.c.ResolveVerification(ctx, admin, req.ID, models.RequestApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)

	stored := f.user(t, u.ID)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, models.VerificationNone, stored.VerificationStatus)

	notifs := f.notificationsFor(t, u.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationReward, notifs[0].Type)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, u.ID, f.pub.events[0].UserID)
	assert.Equal(t, models.NotificationReward, f.pub.events[0].Type)

	assert.Equal(t, models.RequestApproved, f.verificationRequests(t)[0].Status)
}

func TestResolveVerification_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)

	for _, tc := range []struct {
		name, reason, want string
	}{
		{"with reason", "photo is blurry", "photo is blurry"},
		{"default reason", "", DefaultRejectReason},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sess, u := f.signup(t, "user-"+tc.name)
			_, err := f.store.Patch(ctx, u.ID, models.UserPatch{IsVerified: models.Ptr(true)})
			require.NoError(t, err)

			req, err := f.c.SubmitVerification(ctx, sess, validSubmission())
			require.NoError(t, err)

			got, err := f.c.ResolveVerification(ctx, admin, req.ID, models.RequestRejected, tc.reason)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.RejectReason)

			stored := f.user(t, u.ID)
			assert.Equal(t, models.VerificationRejected, stored.VerificationStatus)
			assert.True(t, stored.IsVerified, "rejection leaves isVerified untouched")

			notifs := f.notificationsFor(t, u.ID)
			require.Len(t, notifs, 1)
			assert.Equal(t, models.NotificationSecurity, notifs[0].Type)
			assert.Contains(t, notifs[0].Description, tc.want)
		})
	}
}

func TestResolveVerification_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.signup(t, "ann")
	admin := f.admin(t)

	req, err := f.c.SubmitVerification(ctx, sess, validSubmission())
	require.NoError(t, err)

	_, err = f.c.ResolveVerification(ctx, sess, req.ID, models.RequestApproved, "")
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.c.ResolveVerification(ctx, admin, "missing", models.RequestApproved, "")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.c.ResolveVerification(ctx, admin, req.ID, models.RequestCompleted, "")
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	_, err = f.c.ResolveVerification(ctx, admin, req.ID, models.RequestApproved, "")
	require.NoError(t, err)
	_, err = f.c.ResolveVerification(ctx, admin, req.ID, models.RequestRejected, "")
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	assert.Len(t, f.pub.events, 1)
}

func TestEvidence_AdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.signup(t, "ann")
	admin := f.admin(t)

	req, err := f.c.SubmitVerification(ctx, sess, validSubmission())
	require.NoError(t, err)

	_, err = f.c.Evidence(ctx, sess, req.Evidence.IDFront)
	require.ErrorIs(t, err, common.ErrForbidden)

	data, err := f.c.Evidence(ctx, admin, req.Evidence.IDFront)
	require.NoError(t, err)
	assert.Equal(t, []byte("front"), data)
}
