package slots

import (
	"context"
)

// Slot names used by tikbook.
const (
	KeySession              = "tikbook_session"
	KeyUser                 = "tikbook_user"
	KeyAllUsers             = "tikbook_all_users"
	KeyPosts                = "tikbook_posts"
	KeyRooms                = "tikbook_rooms"
	KeyStories              = "tikbook_stories"
	KeyNotifications        = "tikbook_notifications"
	KeyVerificationRequests = "tikbook_verification_requests"
	KeyWithdrawalRequests   = "tikbook_withdrawal_requests"
	KeyActivities           = "tikbook_activities"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
