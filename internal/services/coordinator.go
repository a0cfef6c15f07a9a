package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/events"
	"github.com/dmitrijs2005/tikbook/internal/evidence"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/profiles"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
	"github.com/google/uuid"
)

const (
	DefaultSessionTTL   = 30 * 24 * time.Hour
	DefaultRejectReason = "documents are not clear"
	ReferralBonus       = 10
)

type Options struct {
	SessionSecret []byte
	SessionTTL    time.Duration

	// UniqueIdentities makes Signup refuse an email or username that is
	// already stored.
	UniqueIdentities bool

	Now   func() time.Time
	NewID func() string
}

type Coordinator struct {
	mu sync.Mutex

	slots     slots.Repository
	store     profiles.Store
	evidence  evidence.Store
	publisher events.Publisher
	logger    logging.Logger
	opts      Options

	cache Snapshot
}

func NewCoordinator(
	repo slots.Repository,
	store profiles.Store,
	ev evidence.Store,
	pub events.Publisher,
	logger logging.Logger,
	opts Options,
) *Coordinator {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Coordinator{
		slots:     repo,
		store:     store,
		evidence:  ev,
		publisher: pub,
		logger:    logger,
		opts:      opts,
	}
}

func (c *Coordinator) now() time.Time {
	return c.opts.Now().UTC()
}

func requireUser(sess *Session) (*models.User, error) {
	if !sess.Authenticated() {
		return nil, common.ErrUnauthenticated
	}
	return sess.user, nil
}

func requireAdmin(sess *Session) (*models.User, error) {
	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, common.ErrForbidden
	}
	return u, nil
}

// setCurrent makes u the signed-in user and mirrors it into the user slot.
func (c *Coordinator) setCurrent(ctx context.Context, sess *Session, u *models.User) error {
	if err := slots.SaveJSON(ctx, c.slots, slots.KeyUser, u); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	sess.user = u.Clone()
	return nil
}

// syncCurrent refreshes the session copy when u is the signed-in user.
func (c *Coordinator) syncCurrent(ctx context.Context, sess *Session, u *models.User) error {
	if !sess.Authenticated() || sess.user.ID != u.ID {
		return nil
	}
	return c.setCurrent(ctx, sess, u)
}

func prepend[T any](ctx context.Context, repo slots.Repository, key string, item T) ([]T, error) {
	items, err := slots.LoadList[T](ctx, repo, key)
	if err != nil {
		return nil, err
	}
	items = append([]T{item}, items...)
	if err := slots.SaveJSON(ctx, repo, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

// notify prepends a notification for userID and publishes it. A publish
// failure is logged, never returned.
func (c *Coordinator) notify(ctx context.Context, userID string, typ models.NotificationType, title, description string) (models.Notification, error) {
	n := models.Notification{
		ID:          c.opts.NewID(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Timestamp:   c.now(),
		Type:        typ,
	}

	list, err := prepend(ctx, c.slots, slots.KeyNotifications, n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to save notification: %w", err)
	}
	c.cache.Notifications = list

	if err := c.publisher.Publish(ctx, events.FromNotification(n)); err != nil {
		c.logger.Warn(ctx, "failed to publish notification", "user_id", userID, "notification_id", n.ID, "error", err)
	}
	return n, nil
}
