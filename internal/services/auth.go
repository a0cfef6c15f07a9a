package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/cryptox"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/session"
	"github.com/dmitrijs2005/tikbook/internal/storage/slots"
)

type SignupForm struct {
	Name         string
	Username     string
	Email        string
	Password     string
	ReferralCode string
}

func (f SignupForm) validate() error {
	fields := []struct{ name, value string }{
		{"name", f.Name},
		{"username", f.Username},
		{"email", f.Email},
		{"password", f.Password},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", common.ErrValidationMissing, field.name)
		}
	}
	return nil
}

// Login signs sess in as the stored user whose email or username equals
// identifier and whose password hash matches secret. When several records
// match, an admin record wins.
func (c *Coordinator) Login(ctx context.Context, sess *Session, identifier, secret string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, common.ErrInvalidCredentials
	}

	users, err := c.store.ListAll(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to list users", "error", err)
		return nil, err
	}

	var match *models.User
	for _, u := range users {
		if !u.MatchesIdentifier(identifier) {
			continue
		}
		ok, err := cryptox.VerifySecret([]byte(secret), u.PasswordHash)
		if err != nil {
			c.logger.Debug(ctx, "stored hash unusable", "user_id", u.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if match == nil || (u.IsAdmin() && !match.IsAdmin()) {
			match = u
		}
	}

	if match == nil {
		c.logger.Debug(ctx, "login rejected", "identifier", identifier)
		return nil, common.ErrInvalidCredentials
	}

	if err := c.signIn(ctx, sess, match); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "user logged in", "user_id", match.ID, "role", match.Role)
	return match.Clone(), nil
}

func (c *Coordinator) signIn(ctx context.Context, sess *Session, u *models.User) error {
	token, err := session.Issue(u.ID, u.Role, c.opts.SessionSecret, c.opts.SessionTTL)
	if err != nil {
		return err
	}
	if err := c.slots.Set(ctx, slots.KeySession, []byte(token)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := c.setCurrent(ctx, sess, u); err != nil {
		return err
	}
	sess.token = token
	return nil
}

// Signup creates a user and signs sess in as it. A referral code grants
// ReferralBonus coins.
func (c *Coordinator) Signup(ctx context.Context, sess *Session, f SignupForm) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := f.validate(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(f.Email)
	username := strings.TrimSpace(f.Username)

	if c.opts.UniqueIdentities {
		users, err := c.store.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.Email == email || u.Username == username {
				return nil, common.ErrDuplicateIdentity
			}
		}
	}

	var balance int64
	if strings.TrimSpace(f.ReferralCode) != "" {
		balance = ReferralBonus
	}

	ownCode, err := common.MakeReferralCode()
	if err != nil {
		return nil, fmt.Errorf("failed to make referral code: %w", err)
	}

	u := &models.User{
		ID:                 c.opts.NewID(),
		Email:              email,
		Username:           username,
		PasswordHash:       cryptox.HashSecret([]byte(f.Password)),
		Role:               models.RoleUser,
		Name:               strings.TrimSpace(f.Name),
		Balance:            balance,
		VerificationStatus: models.VerificationNone,
		SupporterLevel:     1,
		ReferralCode:       ownCode,
		CreatedAt:          c.now(),
	}

	stored, err := c.store.Upsert(ctx, u)
	if err != nil {
		c.logger.Error(ctx, "failed to store new user", "error", err)
		return nil, err
	}

	if err := c.signIn(ctx, sess, stored); err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "user signed up", "user_id", stored.ID, "amount", balance)
	return stored.Clone(), nil
}

// Logout drops the session marker and the mirrored user.
func (c *Coordinator) Logout(ctx context.Context, sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.slots.Delete(ctx, slots.KeySession); err != nil {
		return err
	}
	if err := c.slots.Delete(ctx, slots.KeyUser); err != nil {
		return err
	}
	if sess.Authenticated() {
		c.logger.Info(ctx, "user logged out", "user_id", sess.user.ID)
	}
	sess.user, sess.token = nil, ""
	return nil
}

// Restore resumes a session from the stored marker, reloading the user
// from the Profile Store.
func (c *Coordinator) Restore(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.slots.Get(ctx, slots.KeySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, common.ErrUnauthenticated
	}

	claims, err := session.Parse(string(raw), c.opts.SessionSecret)
	if err != nil {
		c.logger.Debug(ctx, "stored session rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	u, err := c.store.Get(ctx, claims.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s no longer exists", common.ErrUnauthenticated, claims.UserID)
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{token: string(raw)}
	if err := c.setCurrent(ctx, sess, u); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentUser returns a copy of the signed-in user.
func (c *Coordinator) CurrentUser(sess *Session) (*models.User, error) {
	u, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}
