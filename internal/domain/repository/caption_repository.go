package repository

import (
	"context"

	"github.com/captionly/captionly/internal/domain/entity"
)

// CaptionRepository defines the interface for caption persistence.
// All read and delete operations are owner-scoped: a caption owned by another
// user behaves exactly like a missing one.
type CaptionRepository interface {
	Create(ctx context.Context, c *entity.Caption) error
	GetOwned(ctx context.Context, userID, id string) (*entity.Caption, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Caption, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	DeleteOwned(ctx context.Context, userID, id string) error
}
