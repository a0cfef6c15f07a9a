// Package models defines the records tikbook keeps in durable storage:
// users, the typed partial update applied to them, verification and
// withdrawal requests, notifications, activity items and content.
package models

import "time"

// Role is the privilege level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// VerificationStatus tracks a user's badge application. It is independent of
// User.IsVerified: an approved user goes back to "none" with IsVerified set.
type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationNone, VerificationPending, VerificationRejected:
		return true
	}
	return false
}

// User is one account record.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`

	// PasswordHash is an argon2id PHC string, see cryptox.HashSecret.
	PasswordHash string `json:"passwordHash,omitempty"`

	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`

	// Balance is the coin balance. It never goes below zero.
	Balance  int64 `json:"coins"`
	Earnings int64 `json:"earnings"`

	IsVerified         bool               `json:"isVerified"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	SupporterLevel     int                `json:"supporterLevel"`

	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Likes     int64 `json:"likes"`

	ReferralCode string    `json:"referralCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether u holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// MatchesIdentifier reports whether id is u's email or username.
func (u *User) MatchesIdentifier(id string) bool {
	return id != "" && (u.Email == id || u.Username == id)
}

// Clone returns a copy of u that shares no memory with it.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// MergeFrom copies the fields set on in onto u. Empty strings, a zero
// SupporterLevel and a zero CreatedAt count as absent and keep the value
// already on u. Counters and IsVerified are always copied.
func (u *User) MergeFrom(in *User) {
	in.asPatch().Apply(u)
	if in.ReferralCode != "" {
		u.ReferralCode = in.ReferralCode
	}
	if !in.CreatedAt.IsZero() {
		u.CreatedAt = in.CreatedAt
	}
}

// Validate checks the floors every stored record keeps: no negative
// counters, a supporter level of at least 1 and known enum values. Absent
// fields, as MergeFrom defines them, are not checked. Failures wrap
// common.ErrInvalidPatch.
func (u *User) Validate() error {
	return u.asPatch().checkFields()
}

// WithDefaults fills the absent Role, VerificationStatus and SupporterLevel
// of a record about to be inserted.
func (u *User) WithDefaults() *User {
	c := u.Clone()
	if c.Role == "" {
		c.Role = RoleUser
	}
	if c.VerificationStatus == "" {
		c.VerificationStatus = VerificationNone
	}
	if c.SupporterLevel == 0 {
		c.SupporterLevel = 1
	}
	return c
}

func (u *User) asPatch() UserPatch {
	p := UserPatch{
		Balance:    Ptr(u.Balance),
		Earnings:   Ptr(u.Earnings),
		IsVerified: Ptr(u.IsVerified),
		Followers:  Ptr(u.Followers),
		Following:  Ptr(u.Following),
		Likes:      Ptr(u.Likes),
	}
	for _, f := range []struct {
		dst **string
		v   string
	}{
		{&p.Name, u.Name},
		{&p.Username, u.Username},
		{&p.Email, u.Email},
		{&p.Avatar, u.Avatar},
		{&p.Bio, u.Bio},
		{&p.PasswordHash, u.PasswordHash},
	} {
		if f.v != "" {
			*f.dst = Ptr(f.v)
		}
	}
	if u.Role != "" {
		p.Role = Ptr(u.Role)
	}
	if u.VerificationStatus != "" {
		p.VerificationStatus = Ptr(u.VerificationStatus)
	}
	if u.SupporterLevel != 0 {
		p.SupporterLevel = Ptr(u.SupporterLevel)
	}
	return p
}

// NobleTier maps a supporter level to its badge label.
func NobleTier(level int) string {
	switch {
	case level >= 20:
		return "N20"
	case level >= 19:
		return "N19"
	case level >= 16:
		return "N16"
	case level >= 13:
		return "N13"
	case level >= 10:
		return "N10"
	case level >= 7:
		return "N7"
	case level >= 4:
		return "N4"
	default:
		return "N1"
	}
}
