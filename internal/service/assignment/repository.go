package assignment

import (
	"context"

	"github.com/crossings/gridlight/internal/domain"
)

// Writer persists finalized assignments. Replace must atomically
// delete any prior row for the spot and insert the new one, so a
// reprocessed spot never holds two rows or a half-written row.
type Writer interface {
	Replace(ctx context.Context, a *domain.Assignment) error
}
