package profiles

import (
	"context"

	"github.com/dmitrijs2005/tikbook/internal/models"
)

type Store interface {
	// Upsert inserts u or merges it onto the stored record with the same id
	// and returns the stored result. Empty strings, a zero SupporterLevel and
	// a zero CreatedAt leave the stored value untouched; counters and
	// IsVerified always replace it (see models.User.MergeFrom). A record
	// failing models.User.Validate is refused with common.ErrInvalidPatch
	// and nothing is written.
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Patch(ctx context.Context, id string, p models.UserPatch) (*models.User, error)
	Credit(ctx context.Context, id string, amount int64) (*models.User, error)
}
