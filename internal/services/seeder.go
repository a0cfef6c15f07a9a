package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/cryptox"
	"github.com/dmitrijs2005/tikbook/internal/logging"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/profiles"
)

const (
	AdminID      = "admin-root"
	AdminBalance = 1_000_000
	AdminLevel   = 50
)

// Seeder makes sure the configured administrator exists.
type Seeder struct {
	store  profiles.Store
	logger logging.Logger
	now    func() time.Time
}

func NewSeeder(store profiles.Store, logger logging.Logger) *Seeder {
	return &Seeder{store: store, logger: logger, now: time.Now}
}

// SeedAdmin creates the admin record, or repairs its role and credentials
// if it drifted, so that identifier/password always logs in as admin.
// Balance and counters of an existing record are left alone. Empty
// credentials skip seeding.
func (s *Seeder) SeedAdmin(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		s.logger.Warn(ctx, "admin seeding skipped: no credentials configured")
		return nil
	}

	email, username := identifier, "admin_root"
	if !strings.Contains(identifier, "@") {
		email, username = "", identifier
	}

	existing, err := s.store.Get(ctx, AdminID)
	if errors.Is(err, common.ErrNotFound) {
		admin := &models.User{
			ID:                 AdminID,
			Email:              email,
			Username:           username,
			PasswordHash:       cryptox.HashSecret([]byte(password)),
			Role:               models.RoleAdmin,
			Name:               "Administrator",
			Balance:            AdminBalance,
			IsVerified:         true,
			VerificationStatus: models.VerificationNone,
			SupporterLevel:     AdminLevel,
			CreatedAt:          s.now().UTC(),
		}
		if _, err := s.store.Upsert(ctx, admin); err != nil {
			return err
		}
		s.logger.Info(ctx, "admin user created", "user_id", AdminID)
		return nil
	}
	if err != nil {
		return err
	}

	var p models.UserPatch
	if existing.Role != models.RoleAdmin {
		p.Role = models.Ptr(models.RoleAdmin)
	}
	if !existing.MatchesIdentifier(identifier) {
		if email != "" {
			p.Email = models.Ptr(email)
		} else {
			p.Username = models.Ptr(username)
		}
	}
	if ok, err := cryptox.VerifySecret([]byte(password), existing.PasswordHash); err != nil || !ok {
		p.PasswordHash = models.Ptr(cryptox.HashSecret([]byte(password)))
	}
	if p.IsEmpty() {
		return nil
	}

	if _, err := s.store.Patch(ctx, AdminID, p); err != nil {
		return err
	}
	s.logger.Info(ctx, "admin user repaired", "user_id", AdminID)
	return nil
}
