// Package events publishes side-effect events (every notification the
// coordinator creates) to an external consumer. Publishing is best effort:
// callers log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tikbook/internal/models"
)

// DefaultQueue is the durable queue notification events are sent to.
const DefaultQueue = "tikbook.notifications"

type Event struct {
	ID          string                  `json:"id"`
	Type        models.NotificationType `json:"type"`
	UserID      string                  `json:"userId"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Timestamp   time.Time               `json:"timestamp"`
}

// FromNotification converts n to its event form.
func FromNotification(n models.Notification) Event {
	return Event{
		ID:          n.ID,
		Type:        n.Type,
		UserID:      n.UserID,
		Title:       n.Title,
		Description: n.Description,
		Timestamp:   n.Timestamp,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
