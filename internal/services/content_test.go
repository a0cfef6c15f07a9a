package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u := f.signup(t, "ann")

	p1, err := f.c.UploadPost(ctx, sess, models.Post{MediaURL: "https://cdn/1.mp4"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, p1.UserID)
	assert.NotEmpty(t, p1.ID)
	_, err = f.c.UploadPost(ctx, sess, models.Post{ID: "p2", MediaURL: "https://cdn/2.mp4"})
	require.NoError(t, err)

	_, err = f.c.UploadPost(ctx, sess, models.Post{ID: "p3"})
	require.ErrorIs(t, err, common.ErrValidationMissing)

	_, err = f.c.AddStory(ctx, sess, models.Story{MediaURL: "https://cdn/s.jpg"})
	require.NoError(t, err)
	_, err = f.c.AddStory(ctx, sess, models.Story{})
	require.ErrorIs(t, err, common.ErrValidationMissing)

	room, err := f.c.StartLive(ctx, sess, models.Room{Title: "Evening talk"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, room.Info().HostID)
	_, err = f.c.StartLive(ctx, sess, models.Room{})
	require.ErrorIs(t, err, common.ErrValidationMissing)

	joined, err := f.c.JoinRoom(ctx, room.Info().ID)
	require.NoError(t, err)
	assert.Equal(t, "Evening talk", joined.Info().Title)
	_, err = f.c.JoinRoom(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	snap, err := f.c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "p2", snap.Posts[0].ID)
	assert.Len(t, snap.Stories, 1)
	assert.Len(t, snap.Rooms, 1)
	assert.Len(t, snap.Users, 1)
}

func TestComment_CreatesActivityForOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annSess, ann := f.signup(t, "ann")
	bobSess, _ := f.signup(t, "bob")

	post, err := f.c.UploadPost(ctx, annSess, models.Post{MediaURL: "u", Thumbnail: "thumb.jpg"})
	require.NoError(t, err)

	item, err := f.c.Comment(ctx, bobSess, post.ID, "nice!")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, ann.ID, item.UserID)
	assert.Equal(t, models.ActivityComment, item.Type)
	assert.Equal(t, "thumb.jpg", item.PostThumb)

	own, err := f.c.Comment(ctx, annSess, post.ID, "thanks")
	require.NoError(t, err)
	assert.Nil(t, own)

	_, err = f.c.Comment(ctx, bobSess, post.ID, " ")
	require.ErrorIs(t, err, common.ErrValidationMissing)
	_, err = f.c.Comment(ctx, bobSess, "missing", "x")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.c.Like(ctx, bobSess, post.ID)
	require.NoError(t, err)

	snap, err := f.c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Posts[0].Comments)
	assert.Equal(t, int64(1), snap.Posts[0].Likes)

	feed, err := f.c.Activities(ctx, annSess)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, models.ActivityLike, feed[0].Type)
	assert.Equal(t, models.ActivityComment, feed[1].Type)

	bobFeed, err := f.c.Activities(ctx, bobSess)
	require.NoError(t, err)
	assert.Empty(t, bobFeed)
}

func TestFollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annSess, ann := f.signup(t, "ann")
	bobSess, bob := f.signup(t, "bob")

	require.NoError(t, f.c.Follow(ctx, bobSess, ann.ID))
	assert.Equal(t, int64(1), f.user(t, ann.ID).Followers)
	assert.Equal(t, int64(1), f.user(t, bob.ID).Following)

	me, err := f.c.CurrentUser(bobSess)
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.Following)

	feed, err := f.c.Activities(ctx, annSess)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, models.ActivityFollow, feed[0].Type)

	require.ErrorIs(t, f.c.Follow(ctx, bobSess, bob.ID), common.ErrInvalidPatch)
	require.ErrorIs(t, f.c.Follow(ctx, bobSess, "ghost"), common.ErrNotFound)
}

func TestClearAndPruneActivities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annSess, _ := f.signup(t, "ann")
	bobSess, _ := f.signup(t, "bob")

	annPost, err := f.c.UploadPost(ctx, annSess, models.Post{MediaURL: "a"})
	require.NoError(t, err)
	bobPost, err := f.c.UploadPost(ctx, bobSess, models.Post{MediaURL: "b"})
	require.NoError(t, err)
	_, err = f.c.Comment(ctx, bobSess, annPost.ID, "hi ann")
	require.NoError(t, err)
	_, err = f.c.Comment(ctx, annSess, bobPost.ID, "hi bob")
	require.NoError(t, err)

	require.NoError(t, f.c.ClearActivities(ctx, annSess))
	feed, err := f.c.Activities(ctx, annSess)
	require.NoError(t, err)
	assert.Empty(t, feed)
	feed, err = f.c.Activities(ctx, bobSess)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	removed, err := f.c.PruneActivities(ctx, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = f.c.PruneActivities(ctx, time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	feed, err = f.c.Activities(ctx, bobSess)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestRefreshAndNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annSess, ann := f.signup(t, "ann")
	bobSess, bob := f.signup(t, "bob")
	admin := f.admin(t)

	annReq, err := f.c.SubmitVerification(ctx, annSess, validSubmission())
	require.NoError(t, err)
	bobReq, err := f.c.SubmitVerification(ctx, bobSess, validSubmission())
	require.NoError(t, err)
	_, err = f.c.ResolveVerification(ctx, admin, annReq.ID, models.RequestApproved, "")
	require.NoError(t, err)
	_, err = f.c.ResolveVerification(ctx, admin, bobReq.ID, models.RequestRejected, "")
	require.NoError(t, err)

	snap, err := f.c.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Notifications, 2)
	require.Len(t, snap.VerificationRequests, 2)
	assert.Equal(t, bobReq.ID, snap.VerificationRequests[0].ID)
	assert.Empty(t, snap.WithdrawalRequests)

	annN := f.c.Notifications(ann.ID)
	require.Len(t, annN, 1)
	assert.Equal(t, models.NotificationReward, annN[0].Type)
	bobN := f.c.Notifications(bob.ID)
	require.Len(t, bobN, 1)
	assert.Equal(t, models.NotificationSecurity, bobN[0].Type)
	assert.Empty(t, f.c.Notifications("nobody"))
}
