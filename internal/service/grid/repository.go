package grid

import (
	"context"
	"time"

	"github.com/crossings/gridlight/internal/domain"
)

// Repository defines the read-only data access contract for the
// programming grid.
type Repository interface {
	// ActiveScheduleForDate returns the id of the market's active
	// schedule whose assignment date range contains airDate, picking
	// the highest priority (then most recent start) when several
	// ranges apply. Returns "" when no dated assignment matches.
	ActiveScheduleForDate(ctx context.Context, marketID string, airDate time.Time) (string, error)

	// FallbackSchedule returns the market's highest-priority active
	// schedule regardless of date range, or "" when the market has no
	// active schedule at all.
	FallbackSchedule(ctx context.Context, marketID string) (string, error)

	// BlocksForDay returns the active language blocks for one
	// schedule/day, ordered by start time.
	BlocksForDay(ctx context.Context, scheduleID, dayOfWeek string) ([]domain.LanguageBlock, error)

	// Languages returns the full broadcast-language catalog.
	Languages(ctx context.Context) ([]domain.Language, error)
}
