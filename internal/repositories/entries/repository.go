package entries

import (
	"context"

	"github.com/nkarpov/entrypad/internal/models"
)

// Repository is the record store the entry domain is built against: owner
// scoped find-by-field lookups, counts and plain CRUD, plus access to the
// optional read-later detail record.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	GetByPublicID(ctx context.Context, userID, publicID string) (*models.Entry, error)
	CountByOwner(ctx context.Context, userID string) (int64, error)
	ListByOwner(ctx context.Context, userID string, includeArchived bool) ([]*models.Entry, error)
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error

	CreateReadEntry(ctx context.Context, re *models.ReadEntry) error
	GetReadEntry(ctx context.Context, entryID string) (*models.ReadEntry, error)
	DeleteReadEntry(ctx context.Context, entryID string) error
}
