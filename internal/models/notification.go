package models

import "time"

type NotificationType string

const (
	NotificationReward   NotificationType = "reward"
	NotificationSecurity NotificationType = "security"
)

func (t NotificationType) Valid() bool {
	return t == NotificationReward || t == NotificationSecurity
}

// Notification is addressed to one user and is never mutated after creation.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Type        NotificationType `json:"type"`
}

type ActivityType string

const (
	ActivityLike    ActivityType = "like"
	ActivityComment ActivityType = "comment"
	ActivityFollow  ActivityType = "follow"
	ActivityMention ActivityType = "mention"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLike, ActivityComment, ActivityFollow, ActivityMention:
		return true
	}
	return false
}

// ActivityItem is one entry of a user's activity feed. UserID is the
// recipient.
type ActivityItem struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	Type           ActivityType `json:"type"`
	FromUserID     string       `json:"fromUserId"`
	FromUserName   string       `json:"fromUserName"`
	FromUserAvatar string       `json:"fromUserAvatar,omitempty"`
	PostThumb      string       `json:"postThumbnail,omitempty"`
	Text           string       `json:"text,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}
