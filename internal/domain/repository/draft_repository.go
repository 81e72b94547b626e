package repository

import (
	"context"
	"errors"

	"github.com/sangkips/optica-api/internal/domain/record"
)

// ErrDraftNotFound is returned when a draft id is unknown or expired
var ErrDraftNotFound = errors.New("draft not found")

// DraftRepository stores in-progress order forms by id
type DraftRepository interface {
	Get(ctx context.Context, id string) (record.OrderRecord, error)
	Save(ctx context.Context, id string, rec record.OrderRecord) error
	Delete(ctx context.Context, id string) error
}
