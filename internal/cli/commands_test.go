package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tikbook/internal/events"
	"github.com/dmitrijs2005/tikbook/internal/evidence"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/profiles"
	"github.com/dmitrijs2005/tikbook/internal/services"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	coord *services.Coordinator
	store *profiles.CollectionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	stubTerminal(t, false, nil)

	repo := slots.NewMemoryRepository()
	store := profiles.NewCollectionStore(repo, 0)
	ev, err := evidence.NewFileStore(t.TempDir())
	require.NoError(t, err)

	seq := 0
	coord := services.NewCoordinator(repo, store, ev, events.NopPublisher{}, logging.NopLogger{}, services.Options{
		SessionSecret: []byte("cli-secret"),
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	require.NoError(t, services.NewSeeder(store, logging.NopLogger{}).SeedAdmin(context.Background(), "root", "root-pass"))
	return &harness{coord: coord, store: store}
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(h.coord, nil, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, logging.NopLogger{})
	app.Run(context.Background())
	return out.String()
}

func (h *harness) userByName(t *testing.T, username string) *models.User {
	t.Helper()
	all, err := h.store.ListAll(context.Background())
	require.NoError(t, err)
	for _, u := range all {
		if u.Username == username {
			return u
		}
	}
	t.Fatalf("no user %q", username)
	return nil
}

func TestApp_SignupGiftAndWithdraw(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"signup", "Ann", "ann", "ann@example.com", "pw-ann", "",
		"whoami",
		"charge 200",
		"gift rose",
		"live Night Show",
		"gift crown",
		"gift nosuch",
		"say hello room",
		"chat",
		"seat 3",
		"seats",
		"withdraw 50 paypal",
		"withdraw 1000 paypal",
		"requests",
		"approve x",
		"exit",
	)

	assert.Contains(t, out, "Welcome, Ann!")
	assert.Contains(t, out, "Balance: 200 coins")
	assert.Contains(t, out, "error: not in a room")
	assert.Contains(t, out, "You are live in")
	assert.Contains(t, out, "Sent Crown, 101 coins left")
	assert.Contains(t, out, "error: not found")
	assert.Contains(t, out, "Ann: hello room")
	assert.Contains(t, out, " 3 Ann")
	assert.Contains(t, out, "of 50 coins is pending")
	assert.Contains(t, out, "error: insufficient")
	assert.Contains(t, out, "[withdraw]")
	assert.Contains(t, out, "admins only")

	ann := h.userByName(t, "ann")
	assert.Equal(t, int64(51), ann.Balance)
}

func TestApp_AdminResolvesRequests(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	for _, name := range []string{"front.jpg", "back.jpg", "selfie.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	}

	h.run(t,
		"signup", "Bob", "bob", "bob@example.com", "pw-bob", "",
		"verify", "creator", "I make videos",
		filepath.Join(dir, "front.jpg"), filepath.Join(dir, "back.jpg"), filepath.Join(dir, "selfie.jpg"),
		"charge 100",
		"withdraw 40 bank",
	)

	snap, err := h.coord.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.VerificationRequests, 1)
	require.Len(t, snap.WithdrawalRequests, 1)
	verID, wdID := snap.VerificationRequests[0].ID, snap.WithdrawalRequests[0].ID
	bob := h.userByName(t, "bob")

	out := h.run(t,
		"login", "root", "root-pass",
		"users",
		"evidence "+verID+" selfie "+filepath.Join(dir, "saved.jpg"),
		"evidence "+verID+" passport "+filepath.Join(dir, "x.jpg"),
		"evidence nosuch selfie "+filepath.Join(dir, "x.jpg"),
		"approve "+verID,
		"deny "+wdID,
		"setcoins "+bob.ID+" 7",
		"exit",
	)
	assert.Contains(t, out, "Signed in as")
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "Saved selfie (10 bytes)")
	assert.Contains(t, out, "Usage: evidence <request-id>")
	assert.Contains(t, out, "error: not found: request nosuch")
	saved, err := os.ReadFile(filepath.Join(dir, "saved.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("selfie.jpg"), saved)
	assert.NoFileExists(t, filepath.Join(dir, "x.jpg"))
	assert.Contains(t, out, "Request "+verID+" is now approved")
	assert.Contains(t, out, "Withdrawal "+wdID+" is now rejected")
	assert.Contains(t, out, "bob now has 7 coins")

	bob = h.userByName(t, "bob")
	assert.True(t, bob.IsVerified)

	out = h.run(t, "login", "bob", "pw-bob", "evidence "+verID+" selfie "+filepath.Join(dir, "x.jpg"))
	assert.Contains(t, out, "admins only")

	out = h.run(t, "login", "bob", "pw-bob", "notifs", "logout", "whoami")
	assert.Contains(t, out, "verified")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "Please login first")
}

func TestApp_SocialCommands(t *testing.T) {
	h := newHarness(t)
	h.run(t, "signup", "Ann", "ann", "ann@example.com", "pw-ann", "", "post https://cdn/a.mp4 my first clip")
	ann := h.userByName(t, "ann")

	snap, err := h.coord.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Posts, 1)
	postID := snap.Posts[0].ID

	out := h.run(t,
		"signup", "Bob", "bob", "bob@example.com", "pw-bob", "",
		"like "+postID,
		"comment "+postID+" great stuff",
		"follow "+ann.ID,
		"feed",
		"like",
	)
	assert.Contains(t, out, `"my first clip" likes=1 comments=1`)
	assert.Contains(t, out, "Usage: like <post-id>")

	out = h.run(t, "login", "ann", "pw-ann", "activity", "activity clear", "activity")
	assert.Contains(t, out, "[follow] Bob")
	assert.Contains(t, out, "[comment] Bob great stuff")
	assert.Contains(t, out, "[like] Bob")
	assert.Equal(t, int64(1), h.userByName(t, "ann").Followers)
}

func TestApp_RoomSeatCommands(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"signup", "Ann", "ann", "ann@example.com", "pw-ann", "",
		"leave",
		"live Late Talk",
		"mic on",
		"seat 1",
		"mic on",
		"lock 1",
		"lock 4",
		"lock 13",
		"lock",
		"seats",
		"leave",
		"leave",
		"unlock 4",
		"seats",
	)
	assert.Contains(t, out, "error: not in a room")
	assert.Contains(t, out, "error: not seated")
	assert.Contains(t, out, "Mic on")
	assert.Contains(t, out, "error: seat is taken")
	assert.Contains(t, out, "error: no such seat")
	assert.Contains(t, out, "Usage: lock <1-12>")
	assert.Contains(t, out, " 1 Ann (N1) speaking")
	assert.Contains(t, out, " 4 locked")
	assert.Contains(t, out, "You left your seat")
	assert.Equal(t, 1, strings.Count(out, " 4 locked"))

	snap, err := h.coord.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Rooms, 1)

	out = h.run(t,
		"signup", "Bob", "bob", "bob@example.com", "pw-bob", "",
		"join "+snap.Rooms[0].ID,
		"lock 5",
		"mic loud",
	)
	assert.Contains(t, out, "error: forbidden: only the host can lock seats")
	assert.Contains(t, out, "Usage: mic on|off")
}
