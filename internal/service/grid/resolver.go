package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/crossings/gridlight/internal/domain"
)

const minutesPerDay = 24 * 60

// Resolver answers the two grid questions the assignment pipeline asks:
// which schedule governs a market on a date, and which blocks a spot
// window overlaps.
type Resolver struct {
	repo Repository
}

// NewResolver creates a grid resolver backed by the given repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveSchedule returns the schedule id governing marketID on
// airDate. It prefers the dated assignment lookup and falls back to
// the market's highest-priority active schedule when no date range
// matches. Returns "" when the market has no schedule at all; that is
// a business outcome, not an error.
func (r *Resolver) ResolveSchedule(ctx context.Context, marketID string, airDate time.Time) (string, error) {
	id, err := r.repo.ActiveScheduleForDate(ctx, marketID, airDate)
	if err != nil {
		return "", fmt.Errorf("dated schedule lookup: %w", err)
	}
	if id != "" {
		return id, nil
	}
	id, err = r.repo.FallbackSchedule(ctx, marketID)
	if err != nil {
		return "", fmt.Errorf("fallback schedule lookup: %w", err)
	}
	return id, nil
}

// OverlappingBlocks returns the active blocks the spot window overlaps
// on the given schedule, ordered by start time. Windows that wrap past
// midnight are split at the day boundary: [start,24:00) is resolved on
// dayOfWeek and [00:00,end) on the following day, day portion first.
func (r *Resolver) OverlappingBlocks(ctx context.Context, scheduleID, dayOfWeek string, startMin, endMin int) ([]domain.LanguageBlock, error) {
	day := domain.NormalizeDay(dayOfWeek)

	if endMin >= startMin {
		blocks, err := r.repo.BlocksForDay(ctx, scheduleID, day)
		if err != nil {
			return nil, fmt.Errorf("blocks for %s: %w", day, err)
		}
		return Overlapping(blocks, startMin, endMin), nil
	}

	// Midnight rollover: same-day portion, then the spill into the
	// next morning.
	blocks, err := r.repo.BlocksForDay(ctx, scheduleID, day)
	if err != nil {
		return nil, fmt.Errorf("blocks for %s: %w", day, err)
	}
	out := Overlapping(blocks, startMin, minutesPerDay)

	next := domain.NextDay(day)
	blocks, err = r.repo.BlocksForDay(ctx, scheduleID, next)
	if err != nil {
		return nil, fmt.Errorf("blocks for %s: %w", next, err)
	}
	out = append(out, Overlapping(blocks, 0, endMin)...)
	return out, nil
}

// Catalog loads and indexes the language table. Called once per batch
// run; the catalog is immutable afterwards.
func (r *Resolver) Catalog(ctx context.Context) (*domain.LanguageCatalog, error) {
	langs, err := r.repo.Languages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}
	return domain.NewLanguageCatalog(langs), nil
}
