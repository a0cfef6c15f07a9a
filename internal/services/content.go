package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/live"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

// UploadPost stores p newest first. Owner and timestamp default to the
// signed-in user and now.
func (c *Coordinator) UploadPost(ctx context.Context, sess *Session, p models.Post) (models.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return models.Post{}, err
	}
	if p.ID == "" {
		p.ID = c.opts.NewID()
	}
	if strings.TrimSpace(p.MediaURL) == "" {
		return models.Post{}, fmt.Errorf("%w: media url", common.ErrValidationMissing)
	}
	if p.UserID == "" {
		p.UserID, p.UserName = u.ID, u.Username
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = c.now()
	}

	list, err := prepend(ctx, c.slots, slots.KeyPosts, p)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to save posts: %w", err)
	}
	c.cache.Posts = list
	c.logger.Info(ctx, "post uploaded", "user_id", u.ID, "post_id", p.ID)
	return p, nil
}

// StartLive stores room r and returns its transient live state.
func (c *Coordinator) StartLive(ctx context.Context, sess *Session, r models.Room) (*live.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("%w: room title", common.ErrValidationMissing)
	}
	if r.ID == "" {
		r.ID = c.opts.NewID()
	}
	if r.HostID == "" {
		r.HostID, r.HostName = u.ID, u.Name
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = c.now()
	}

	list, err := prepend(ctx, c.slots, slots.KeyRooms, r)
	if err != nil {
		return nil, fmt.Errorf("failed to save rooms: %w", err)
	}
	c.cache.Rooms = list
	c.logger.Info(ctx, "live started", "user_id", u.ID, "room_id", r.ID)
	return live.NewRoom(r), nil
}

// JoinRoom opens the live state of a stored room.
func (c *Coordinator) JoinRoom(ctx context.Context, roomID string) (*live.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := slots.LoadList[models.Room](ctx, c.slots, slots.KeyRooms)
	if err != nil {
		return nil, err
	}
	for _, r := range rooms {
		if r.ID == roomID {
			return live.NewRoom(r), nil
		}
	}
	return nil, common.ErrNotFound
}

func (c *Coordinator) AddStory(ctx context.Context, sess *Session, s models.Story) (models.Story, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return models.Story{}, err
	}
	if strings.TrimSpace(s.MediaURL) == "" {
		return models.Story{}, fmt.Errorf("%w: media url", common.ErrValidationMissing)
	}
	if s.ID == "" {
		s.ID = c.opts.NewID()
	}
	if s.UserID == "" {
		s.UserID, s.UserName = u.ID, u.Username
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = c.now()
	}

	list, err := prepend(ctx, c.slots, slots.KeyStories, s)
	if err != nil {
		return models.Story{}, fmt.Errorf("failed to save stories: %w", err)
	}
	c.cache.Stories = list
	return s, nil
}

// Comment counts a comment on postID and, when the post belongs to someone
// else, adds a comment item to the owner's activity feed.
func (c *Coordinator) Comment(ctx context.Context, sess *Session, postID, text string) (*models.ActivityItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text", common.ErrValidationMissing)
	}
	return c.interact(ctx, sess, postID, models.ActivityComment, text, func(p *models.Post) {
		p.Comments++
	})
}

// Like counts a like on postID and notifies the owner's activity feed.
func (c *Coordinator) Like(ctx context.Context, sess *Session, postID string) (*models.ActivityItem, error) {
	return c.interact(ctx, sess, postID, models.ActivityLike, "", func(p *models.Post) {
		p.Likes++
	})
}

func (c *Coordinator) interact(ctx context.Context, sess *Session, postID string, typ models.ActivityType, text string, bump func(p *models.Post)) (*models.ActivityItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	posts, err := slots.LoadList[models.Post](ctx, c.slots, slots.KeyPosts)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range posts {
		if posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, common.ErrNotFound
	}
	post := &posts[idx]

	bump(post)
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyPosts, posts); err != nil {
		return nil, fmt.Errorf("failed to save posts: %w", err)
	}
	c.cache.Posts = posts

	if post.UserID == "" || post.UserID == u.ID {
		return nil, nil
	}
	item, err := c.addActivity(ctx, post.UserID, u, typ, post.Thumbnail, text)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Follow records that the signed-in user follows userID.
func (c *Coordinator) Follow(ctx context.Context, sess *Session, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := requireUser(sess)
	if err != nil {
		return err
	}
	if userID == u.ID {
		return fmt.Errorf("%w: cannot follow yourself", common.ErrInvalidPatch)
	}

	target, err := c.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := c.store.Patch(ctx, target.ID, models.UserPatch{Followers: models.Ptr(target.Followers + 1)}); err != nil {
		return err
	}
	self, err := c.store.Get(ctx, u.ID)
	if err != nil {
		return err
	}
	me, err := c.store.Patch(ctx, u.ID, models.UserPatch{Following: models.Ptr(self.Following + 1)})
	if err != nil {
		return err
	}
	if err := c.setCurrent(ctx, sess, me); err != nil {
		return err
	}

	_, err = c.addActivity(ctx, target.ID, me, models.ActivityFollow, "", "")
	return err
}
