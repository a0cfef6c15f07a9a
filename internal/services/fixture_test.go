package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/events"
	"github.com/dmitrijs2005/tikbook/internal/evidence"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/profiles"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
	"github.com/stretchr/testify/require"
)

const (
	adminIdentifier = "admin@tikbook.app"
	adminPassword   = "root-pass"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	c     *Coordinator
	repo  *slots.MemoryRepository
	store *profiles.CollectionStore
	ev    *evidence.FileStore
	pub   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, Options{})
}

func newFixtureWith(t *testing.T, opts Options) *fixture {
	t.Helper()

	repo := slots.NewMemoryRepository()
	store := profiles.NewCollectionStore(repo, 0)
	ev, err := evidence.NewFileStore(t.TempDir())
	require.NoError(t, err)
	pub := &recordingPublisher{}

	var (
		mu  sync.Mutex
		seq int
		now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	)
	opts.SessionSecret = []byte("test-secret")
	opts.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	opts.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	c := NewCoordinator(repo, store, ev, pub, logging.NopLogger{}, opts)
	return &fixture{c: c, repo: repo, store: store, ev: ev, pub: pub}
}

func (f *fixture) signup(t *testing.T, username string) (*Session, *models.User) {
	t.Helper()
	sess := NewSession()
	u, err := f.c.Signup(context.Background(), sess, SignupForm{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
	})
	require.NoError(t, err)
	return sess, u
}

func (f *fixture) admin(t *testing.T) *Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewSeeder(f.store, logging.NopLogger{}).SeedAdmin(ctx, adminIdentifier, adminPassword))

	sess := NewSession()
	_, err := f.c.Login(ctx, sess, adminIdentifier, adminPassword)
	require.NoError(t, err)
	return sess
}

func (f *fixture) credit(t *testing.T, id string, amount int64) {
	t.Helper()
	_, err := f.store.Credit(context.Background(), id, amount)
	require.NoError(t, err)
}

func (f *fixture) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) notificationsFor(t *testing.T, userID string) []models.Notification {
	t.Helper()
	all, err := slots.LoadList[models.Notification](context.Background(), f.repo, slots.KeyNotifications)
	require.NoError(t, err)
	var out []models.Notification
	for _, n := range all {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func validSubmission() VerificationSubmission {
	return VerificationSubmission{
		Category: "creator",
		Reason:   "public figure",
		IDFront:  []byte("front"),
		IDBack:   []byte("back"),
		Selfie:   []byte("selfie"),
	}
}
