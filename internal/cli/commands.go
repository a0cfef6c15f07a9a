package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/filex"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/services"
)

func (a *App) commands() []command {
	return []command{
		{name: "signup", usage: "signup", help: "create an account", run: a.signup},
		{name: "login", usage: "login", help: "sign in with email or username", run: a.login},
		{name: "logout", usage: "logout", help: "sign out", access: accessUser, run: a.logout},
		{name: "whoami", usage: "whoami", help: "show your profile and wallet", access: accessUser, run: a.whoami},
		{name: "bio", usage: "bio <text>", help: "update your bio", access: accessUser, run: a.bio},
		{name: "charge", usage: "charge <coins>", help: "buy coins", access: accessUser, run: a.charge},
		{name: "feed", usage: "feed", help: "list posts, live rooms and stories", run: a.feed},
		{name: "post", usage: "post <media-url> [caption]", help: "upload a post", access: accessUser, run: a.post},
		{name: "story", usage: "story <media-url>", help: "add a story", access: accessUser, run: a.story},
		{name: "like", usage: "like <post-id>", help: "like a post", access: accessUser, run: a.like},
		{name: "comment", usage: "comment <post-id> <text>", help: "comment on a post", access: accessUser, run: a.comment},
		{name: "follow", usage: "follow <user-id>", help: "follow a user", access: accessUser, run: a.follow},
		{name: "live", usage: "live <title>", help: "start a live room", access: accessUser, run: a.startLive},
		{name: "join", usage: "join <room-id>", help: "enter a live room", run: a.join},
		{name: "seat", usage: "seat <1-12>", help: "take a seat in the room", access: accessUser, run: a.seat},
		{name: "leave", usage: "leave", help: "leave your seat", access: accessUser, run: a.leave},
		{name: "mic", usage: "mic on|off", help: "turn your seat mic on or off", access: accessUser, run: a.mic},
		{name: "lock", usage: "lock <1-12>", help: "lock an empty seat (host only)", access: accessUser, run: a.lock},
		{name: "unlock", usage: "unlock <1-12>", help: "unlock a seat (host only)", access: accessUser, run: a.unlock},
		{name: "seats", usage: "seats", help: "show the seat layout", run: a.seats},
		{name: "gifts", usage: "gifts", help: "show the gift catalog", run: a.gifts},
		{name: "gift", usage: "gift <gift-id>", help: "send a gift in the room", access: accessUser, run: a.gift},
		{name: "say", usage: "say <text>", help: "chat in the room", access: accessUser, run: a.say},
		{name: "chat", usage: "chat", help: "show recent room messages", run: a.chat},
		{name: "verify", usage: "verify", help: "apply for the verified badge", access: accessUser, run: a.verify},
		{name: "withdraw", usage: "withdraw <coins> <method>", help: "cash out coins", access: accessUser, run: a.withdraw},
		{name: "requests", usage: "requests", help: "list verification and withdrawal requests", access: accessUser, run: a.requests},
		{name: "notifs", usage: "notifs", help: "show your notifications", access: accessUser, run: a.notifs},
		{name: "activity", usage: "activity [clear]", help: "show or clear your activity feed", access: accessUser, run: a.activity},
		{name: "users", usage: "users", help: "list every user", access: accessAdmin, run: a.users},
		{name: "approve", usage: "approve <request-id>", help: "approve a verification", access: accessAdmin, run: a.approve},
		{name: "reject", usage: "reject <request-id> [reason]", help: "reject a verification", access: accessAdmin, run: a.reject},
		{name: "complete", usage: "complete <request-id>", help: "complete a withdrawal", access: accessAdmin, run: a.complete},
		{name: "deny", usage: "deny <request-id>", help: "reject a withdrawal and refund", access: accessAdmin, run: a.deny},
		{name: "evidence", usage: "evidence <request-id> <id_front|id_back|selfie> <out-path>", help: "save a verification image", access: accessAdmin, run: a.evidence},
		{name: "setcoins", usage: "setcoins <user-id> <coins>", help: "set a user's coin balance", access: accessAdmin, run: a.setCoins},
	}
}

func (a *App) prompt(label string) (string, error) {
	return GetSimpleText(a.reader, label, a.out)
}

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return n, nil
}

func (a *App) signup(ctx context.Context, _ []string) error {
	var f services.SignupForm
	var err error
	if f.Name, err = a.prompt("Enter display name"); err != nil {
		return err
	}
	if f.Username, err = a.prompt("Enter username"); err != nil {
		return err
	}
	if f.Email, err = a.prompt("Enter email"); err != nil {
		return err
	}
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	f.Password = string(pw)
	if f.ReferralCode, err = a.prompt("Referral code (optional)"); err != nil {
		return err
	}

	u, err := a.coord.Signup(ctx, a.sess, f)
	if err != nil {
		return err
	}
	a.printf("Welcome, %s! Your referral code is %s\n", u.Name, u.ReferralCode)
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	id, err := a.prompt("Enter email or username")
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.coord.Login(ctx, a.sess, id, string(pw))
	if err != nil {
		return err
	}
	a.printf("Signed in as %s\n", u.Username)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.room = nil
	if err := a.coord.Logout(ctx, a.sess); err != nil {
		return err
	}
	a.printf("Signed out\n")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	u, err := a.coord.CurrentUser(a.sess)
	if err != nil {
		return err
	}
	badge := ""
	if u.IsVerified {
		badge = " [verified]"
	}
	a.printf("%s (@%s)%s id=%s role=%s\n", u.Name, u.Username, badge, u.ID, u.Role)
	a.printf("coins=%d earnings=%d level=%d tier=%s\n", u.Balance, u.Earnings, u.SupporterLevel, models.NobleTier(u.SupporterLevel))
	a.printf("followers=%d following=%d likes=%d verification=%s\n", u.Followers, u.Following, u.Likes, u.VerificationStatus)
	return nil
}

func (a *App) bio(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	_, err := a.coord.UpdateCurrentUser(ctx, a.sess, models.UserPatch{Bio: models.Ptr(strings.Join(args, " "))})
	return err
}

func (a *App) charge(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	u, err := a.coord.ChargeCoins(ctx, a.sess, amount)
	if err != nil {
		return err
	}
	a.printf("Balance: %d coins\n", u.Balance)
	return nil
}

func (a *App) feed(ctx context.Context, _ []string) error {
	snap, err := a.coord.Refresh(ctx)
	if err != nil {
		return err
	}
	for _, r := range snap.Rooms {
		a.printf("[live] %s %q by %s\n", r.ID, r.Title, r.HostName)
	}
	for _, s := range snap.Stories {
		a.printf("[story] %s by @%s\n", s.MediaURL, s.UserName)
	}
	for _, p := range snap.Posts {
		a.printf("[post] %s @%s %q likes=%d comments=%d\n", p.ID, p.UserName, p.Caption, p.Likes, p.Comments)
	}
	if len(snap.Rooms)+len(snap.Stories)+len(snap.Posts) == 0 {
		a.printf("Nothing here yet\n")
	}
	return nil
}

func (a *App) post(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	p, err := a.coord.UploadPost(ctx, a.sess, models.Post{MediaURL: args[0], Caption: strings.Join(args[1:], " ")})
	if err != nil {
		return err
	}
	a.printf("Posted %s\n", p.ID)
	return nil
}

func (a *App) story(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	_, err := a.coord.AddStory(ctx, a.sess, models.Story{MediaURL: args[0]})
	return err
}

func (a *App) like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	_, err := a.coord.Like(ctx, a.sess, args[0])
	return err
}

func (a *App) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	_, err := a.coord.Comment(ctx, a.sess, args[0], strings.Join(args[1:], " "))
	return err
}

func (a *App) follow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return a.coord.Follow(ctx, a.sess, args[0])
}

func (a *App) startLive(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	room, err := a.coord.StartLive(ctx, a.sess, models.Room{Title: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	a.room = room
	a.printf("You are live in %s\n", room.Info().ID)
	return nil
}

func (a *App) join(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	room, err := a.coord.JoinRoom(ctx, args[0])
	if err != nil {
		return err
	}
	a.room = room
	a.printf("Joined %q\n", room.Info().Title)
	return nil
}

func (a *App) requireRoom() error {
	if a.room == nil {
		return fmt.Errorf("not in a room, use join or live first")
	}
	return nil
}

func (a *App) seat(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	u, err := a.coord.CurrentUser(a.sess)
	if err != nil {
		return err
	}
	return a.room.TakeSeat(n-1, u)
}

func (a *App) leave(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	if err := a.room.LeaveSeat(a.sess.User().ID); err != nil {
		return err
	}
	a.printf("You left your seat\n")
	return nil
}

func (a *App) mic(_ context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	if err := a.room.SetSpeaking(a.sess.User().ID, args[0] == "on"); err != nil {
		return err
	}
	a.printf("Mic %s\n", args[0])
	return nil
}

func (a *App) lock(_ context.Context, args []string) error {
	return a.setLocked(args, true)
}

func (a *App) unlock(_ context.Context, args []string) error {
	return a.setLocked(args, false)
}

// setLocked changes a seat lock; only the room host may do it.
func (a *App) setLocked(args []string, locked bool) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	if a.room.Info().HostID != a.sess.User().ID {
		return fmt.Errorf("%w: only the host can lock seats", common.ErrForbidden)
	}
	return a.room.SetLocked(n-1, locked)
}

func (a *App) seats(_ context.Context, _ []string) error {
	if err := a.requireRoom(); err != nil {
		return err
	}
	for _, s := range a.room.Seats() {
		switch {
		case s.Locked:
			a.printf("%2d locked\n", s.Index+1)
		case s.Empty():
			a.printf("%2d empty\n", s.Index+1)
		case s.Speaking:
			a.printf("%2d %s (%s) speaking\n", s.Index+1, s.UserName, models.NobleTier(s.Level))
		default:
			a.printf("%2d %s (%s)\n", s.Index+1, s.UserName, models.NobleTier(s.Level))
		}
	}
	return nil
}

func (a *App) gifts(_ context.Context, _ []string) error {
	for _, g := range models.DefaultGifts {
		a.printf("%-8s %s %-8s %d coins\n", g.ID, g.Icon, g.Name, g.Price)
	}
	return nil
}

func (a *App) gift(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	g, ok := models.FindGift(args[0])
	if !ok {
		return fmt.Errorf("%w: gift %q", common.ErrNotFound, args[0])
	}
	u, err := a.coord.SendGift(ctx, a.sess, a.room, g)
	if err != nil {
		return err
	}
	a.printf("Sent %s, %d coins left\n", g.Name, u.Balance)
	return nil
}

func (a *App) say(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := a.requireRoom(); err != nil {
		return err
	}
	_, err := a.coord.SendMessage(ctx, a.sess, a.room, strings.Join(args, " "))
	return err
}

func (a *App) chat(_ context.Context, _ []string) error {
	if err := a.requireRoom(); err != nil {
		return err
	}
	for _, m := range a.room.Messages() {
		a.printf("[%s] %s: %s\n", models.NobleTier(m.Level), m.User, m.Text)
	}
	return nil
}

func (a *App) verify(ctx context.Context, _ []string) error {
	var s services.VerificationSubmission
	var err error
	if s.Category, err = a.prompt("Category (e.g. creator, brand, public figure)"); err != nil {
		return err
	}
	if s.Reason, err = a.prompt("Why should you be verified?"); err != nil {
		return err
	}
	images := []struct {
		label string
		dst   *[]byte
	}{
		{"Path to ID front image", &s.IDFront},
		{"Path to ID back image", &s.IDBack},
		{"Path to selfie", &s.Selfie},
	}
	for _, img := range images {
		path, err := a.prompt(img.label)
		if err != nil {
			return err
		}
		if path == "" {
			continue
		}
		if *img.dst, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("failed to read image [%s]: %w", path, err)
		}
	}

	req, err := a.coord.SubmitVerification(ctx, a.sess, s)
	if err != nil {
		return err
	}
	a.printf("Verification request %s submitted\n", req.ID)
	return nil
}

func (a *App) withdraw(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	req, err := a.coord.RequestWithdrawal(ctx, a.sess, amount, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	a.printf("Withdrawal %s of %d coins is pending\n", req.ID, req.Amount)
	return nil
}

// requests shows everyone's requests to admins and only the caller's own
// to everybody else.
func (a *App) requests(ctx context.Context, _ []string) error {
	snap, err := a.coord.Refresh(ctx)
	if err != nil {
		return err
	}
	me := a.sess.User()
	for _, r := range snap.VerificationRequests {
		if a.isAdmin() || r.UserID == me.ID {
			a.printf("[verify] %s %s @%s %s %q\n", r.ID, r.Status, r.UserName, r.Category, r.Reason)
		}
	}
	for _, r := range snap.WithdrawalRequests {
		if a.isAdmin() || r.UserID == me.ID {
			a.printf("[withdraw] %s %s user=%s %d coins via %s\n", r.ID, r.Status, r.UserID, r.Amount, r.Method)
		}
	}
	return nil
}

func (a *App) notifs(ctx context.Context, _ []string) error {
	if _, err := a.coord.Refresh(ctx); err != nil {
		return err
	}
	list := a.coord.Notifications(a.sess.User().ID)
	if len(list) == 0 {
		a.printf("No notifications\n")
	}
	for _, n := range list {
		a.printf("[%s] %s: %s\n", n.Type, n.Title, n.Description)
	}
	return nil
}

func (a *App) activity(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		return a.coord.ClearActivities(ctx, a.sess)
	}
	if len(args) != 0 {
		return errUsage
	}
	items, err := a.coord.Activities(ctx, a.sess)
	if err != nil {
		return err
	}
	for _, it := range items {
		a.printf("[%s] %s %s\n", it.Type, it.FromUserName, it.Text)
	}
	return nil
}

func (a *App) users(ctx context.Context, _ []string) error {
	snap, err := a.coord.Refresh(ctx)
	if err != nil {
		return err
	}
	for _, u := range snap.Users {
		a.printf("%s @%s %s coins=%d verified=%t\n", u.ID, u.Username, u.Role, u.Balance, u.IsVerified)
	}
	return nil
}

func (a *App) resolveVerification(ctx context.Context, args []string, outcome models.RequestStatus) error {
	if len(args) == 0 {
		return errUsage
	}
	req, err := a.coord.ResolveVerification(ctx, a.sess, args[0], outcome, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	a.printf("Request %s is now %s\n", req.ID, req.Status)
	return nil
}

func (a *App) approve(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return a.resolveVerification(ctx, args, models.RequestApproved)
}

func (a *App) reject(ctx context.Context, args []string) error {
	return a.resolveVerification(ctx, args, models.RequestRejected)
}

func (a *App) resolveWithdrawal(ctx context.Context, args []string, outcome models.RequestStatus) error {
	if len(args) != 1 {
		return errUsage
	}
	req, err := a.coord.ResolveWithdrawal(ctx, a.sess, args[0], outcome)
	if err != nil {
		return err
	}
	a.printf("Withdrawal %s is now %s\n", req.ID, req.Status)
	return nil
}

func (a *App) complete(ctx context.Context, args []string) error {
	return a.resolveWithdrawal(ctx, args, models.RequestCompleted)
}

func (a *App) deny(ctx context.Context, args []string) error {
	return a.resolveWithdrawal(ctx, args, models.RequestRejected)
}

var evidenceKinds = map[string]func(models.Evidence) string{
	"id_front": func(e models.Evidence) string { return e.IDFront },
	"id_back":  func(e models.Evidence) string { return e.IDBack },
	"selfie":   func(e models.Evidence) string { return e.Selfie },
}

func (a *App) evidence(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	pick, ok := evidenceKinds[args[1]]
	if !ok {
		return errUsage
	}
	snap, err := a.coord.Refresh(ctx)
	if err != nil {
		return err
	}
	var key string
	found := false
	for _, r := range snap.VerificationRequests {
		if r.ID == args[0] {
			key, found = pick(r.Evidence), true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: request %s", common.ErrNotFound, args[0])
	}
	if key == "" {
		return fmt.Errorf("%w: no %s image on request %s", common.ErrNotFound, args[1], args[0])
	}

	data, err := a.coord.Evidence(ctx, a.sess, key)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(args[2], data, 0o600); err != nil {
		return fmt.Errorf("failed to save image [%s]: %w", args[2], err)
	}
	a.printf("Saved %s (%d bytes) to %s\n", args[1], len(data), args[2])
	return nil
}

func (a *App) setCoins(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || n < 0 {
		return common.ErrInvalidAmount
	}
	u, err := a.coord.UpdateUser(ctx, a.sess, args[0], models.UserPatch{Balance: models.Ptr(n)})
	if err != nil {
		return err
	}
	a.printf("%s now has %d coins\n", u.Username, u.Balance)
	return nil
}
