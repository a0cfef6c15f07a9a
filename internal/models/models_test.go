package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNobleTier(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "N1"},
		{1, "N1"},
		{3, "N1"},
		{4, "N4"},
		{6, "N4"},
		{7, "N7"},
		{10, "N10"},
		{12, "N10"},
		{13, "N13"},
		{16, "N16"},
		{18, "N16"},
		{19, "N19"},
		{20, "N20"},
		{50, "N20"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NobleTier(tt.level), "level %d", tt.level)
	}
}

func TestUserPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   UserPatch
		wantErr bool
	}{
		{"empty", UserPatch{}, true},
		{"name only", UserPatch{Name: Ptr("Ann")}, false},
		{"balance zero", UserPatch{Balance: Ptr[int64](0)}, false},
		{"negative balance", UserPatch{Balance: Ptr[int64](-1)}, true},
		{"negative likes", UserPatch{Likes: Ptr[int64](-3)}, true},
		{"bad role", UserPatch{Role: Ptr(Role("root"))}, true},
		{"admin role", UserPatch{Role: Ptr(RoleAdmin)}, false},
		{"bad status", UserPatch{VerificationStatus: Ptr(VerificationStatus("approved"))}, true},
		{"pending status", UserPatch{VerificationStatus: Ptr(VerificationPending)}, false},
		{"level zero", UserPatch{SupporterLevel: Ptr(0)}, true},
		{"empty email", UserPatch{Email: Ptr("")}, true},
		{"empty username", UserPatch{Username: Ptr("")}, true},
		{"empty hash", UserPatch{PasswordHash: Ptr("")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidPatch)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUserPatch_Apply(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{ID: "u1", Name: "Ann", Balance: 40, Likes: 7, CreatedAt: created}

	UserPatch{Name: Ptr("Bea"), Balance: Ptr[int64](15), IsVerified: Ptr(true)}.Apply(u)

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Bea", u.Name)
	assert.Equal(t, int64(15), u.Balance)
	assert.True(t, u.IsVerified)
	assert.Equal(t, int64(7), u.Likes)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUser_MergeFrom(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	stored := &User{ID: "u1", Name: "Ann", PasswordHash: "hash", CreatedAt: created, Balance: 5}

	stored.MergeFrom(&User{ID: "u1", Name: "Bea", Balance: 9})

	assert.Equal(t, "Bea", stored.Name)
	assert.Equal(t, int64(9), stored.Balance)
	assert.Equal(t, "hash", stored.PasswordHash)
	assert.Equal(t, created, stored.CreatedAt)

	stored.MergeFrom(&User{ID: "u1", PasswordHash: "other", Avatar: "a.png"})
	assert.Equal(t, "other", stored.PasswordHash)
	assert.Equal(t, "Bea", stored.Name)
	assert.Equal(t, "a.png", stored.Avatar)
	assert.Equal(t, int64(0), stored.Balance)
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{name: "zero record", user: User{ID: "u1"}},
		{name: "full record", user: User{ID: "u1", Role: RoleAdmin, VerificationStatus: VerificationPending, SupporterLevel: 3, Balance: 9}},
		{name: "negative balance", user: User{ID: "u1", Balance: -50}, wantErr: true},
		{name: "negative earnings", user: User{ID: "u1", Earnings: -1}, wantErr: true},
		{name: "negative followers", user: User{ID: "u1", Followers: -1}, wantErr: true},
		{name: "negative following", user: User{ID: "u1", Following: -1}, wantErr: true},
		{name: "negative likes", user: User{ID: "u1", Likes: -1}, wantErr: true},
		{name: "negative level", user: User{ID: "u1", SupporterLevel: -2}, wantErr: true},
		{name: "unknown role", user: User{ID: "u1", Role: "root"}, wantErr: true},
		{name: "unknown status", user: User{ID: "u1", VerificationStatus: "maybe"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidPatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUser_WithDefaults(t *testing.T) {
	in := &User{ID: "u1"}
	got := in.WithDefaults()

	assert.Equal(t, RoleUser, got.Role)
	assert.Equal(t, VerificationNone, got.VerificationStatus)
	assert.Equal(t, 1, got.SupporterLevel)
	assert.Empty(t, in.Role)

	kept := (&User{ID: "u1", Role: RoleAdmin, SupporterLevel: 7}).WithDefaults()
	assert.Equal(t, RoleAdmin, kept.Role)
	assert.Equal(t, 7, kept.SupporterLevel)
}

func TestUser_Helpers(t *testing.T) {
	u := &User{Email: "a@x.io", Username: "ann", Role: RoleAdmin}

	assert.True(t, u.MatchesIdentifier("a@x.io"))
	assert.True(t, u.MatchesIdentifier("ann"))
	assert.False(t, u.MatchesIdentifier(""))
	assert.False(t, u.MatchesIdentifier("bob"))
	assert.True(t, u.IsAdmin())

	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.Nil(t, nilUser.Clone())

	c := u.Clone()
	c.Username = "changed"
	assert.Equal(t, "ann", u.Username)
}

func TestOutcomesAndEnums(t *testing.T) {
	assert.True(t, ValidVerificationOutcome(RequestApproved))
	assert.True(t, ValidVerificationOutcome(RequestRejected))
	assert.False(t, ValidVerificationOutcome(RequestCompleted))
	assert.False(t, ValidVerificationOutcome(RequestPending))

	assert.True(t, ValidWithdrawalOutcome(RequestCompleted))
	assert.True(t, ValidWithdrawalOutcome(RequestRejected))
	assert.False(t, ValidWithdrawalOutcome(RequestApproved))

	assert.True(t, NotificationReward.Valid())
	assert.False(t, NotificationType("info").Valid())
	assert.True(t, ActivityComment.Valid())
	assert.False(t, ActivityType("share").Valid())
	assert.False(t, Role("").Valid())
}

func TestFindGift(t *testing.T) {
	g, ok := FindGift("rose")
	require.True(t, ok)
	assert.Equal(t, int64(1), g.Price)

	_, ok = FindGift("nope")
	assert.False(t, ok)
}
