package models

import (
	"fmt"

	"github.com/dmitrijs2005/tikbook/internal/common"
)

// UserPatch is a partial update of a User. Nil fields are left untouched.
// Only the fields listed here can be patched; ID and CreatedAt are fixed.
type UserPatch struct {
	Name               *string
	Username           *string
	Email              *string
	Avatar             *string
	Bio                *string
	PasswordHash       *string
	Role               *Role
	Balance            *int64
	Earnings           *int64
	IsVerified         *bool
	VerificationStatus *VerificationStatus
	SupporterLevel     *int
	Followers          *int64
	Following          *int64
	Likes              *int64
}

// Ptr returns a pointer to v. Handy for building patches:
//
//	models.UserPatch{Balance: models.Ptr[int64](40)}
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p == UserPatch{}
}

// Validate checks enum values and numeric floors. Every failure wraps
// common.ErrInvalidPatch.
func (p UserPatch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", common.ErrInvalidPatch)
	}
	return p.checkFields()
}

func (p UserPatch) checkFields() error {
	if p.Role != nil && !p.Role.Valid() {
		return fmt.Errorf("%w: role %q", common.ErrInvalidPatch, *p.Role)
	}
	if p.VerificationStatus != nil && !p.VerificationStatus.Valid() {
		return fmt.Errorf("%w: verification status %q", common.ErrInvalidPatch, *p.VerificationStatus)
	}
	if p.SupporterLevel != nil && *p.SupporterLevel < 1 {
		return fmt.Errorf("%w: supporter level %d", common.ErrInvalidPatch, *p.SupporterLevel)
	}
	if p.Email != nil && *p.Email == "" {
		return fmt.Errorf("%w: empty email", common.ErrInvalidPatch)
	}
	if p.Username != nil && *p.Username == "" {
		return fmt.Errorf("%w: empty username", common.ErrInvalidPatch)
	}
	if p.PasswordHash != nil && *p.PasswordHash == "" {
		return fmt.Errorf("%w: empty password hash", common.ErrInvalidPatch)
	}
	counters := []struct {
		name string
		v    *int64
	}{
		{"balance", p.Balance},
		{"earnings", p.Earnings},
		{"followers", p.Followers},
		{"following", p.Following},
		{"likes", p.Likes},
	}
	for _, c := range counters {
		if c.v != nil && *c.v < 0 {
			return fmt.Errorf("%w: negative %s", common.ErrInvalidPatch, c.name)
		}
	}
	return nil
}

// Apply copies every non-nil field of p onto u. It does not validate.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Balance != nil {
		u.Balance = *p.Balance
	}
	if p.Earnings != nil {
		u.Earnings = *p.Earnings
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.VerificationStatus != nil {
		u.VerificationStatus = *p.VerificationStatus
	}
	if p.SupporterLevel != nil {
		u.SupporterLevel = *p.SupporterLevel
	}
	if p.Followers != nil {
		u.Followers = *p.Followers
	}
	if p.Following != nil {
		u.Following = *p.Following
	}
	if p.Likes != nil {
		u.Likes = *p.Likes
	}
}
