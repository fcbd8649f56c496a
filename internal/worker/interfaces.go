package worker

import (
	"context"
	"errors"

	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/service/assignment"
)

// ErrSpotNotFound is returned by a SpotSource when an id has no row.
var ErrSpotNotFound = errors.New("spot not found")

// SpotSource loads validated spots for the batch processor. The
// storage boundary is responsible for turning loosely-typed rows into
// well-formed domain.Spot values; malformed rows surface as errors
// here and are counted, never propagated.
type SpotSource interface {
	// Spot returns one spot by id. Returns ErrSpotNotFound when the
	// id has no row.
	Spot(ctx context.Context, id string) (*domain.Spot, error)

	// UnassignedSpotIDs returns up to limit ids of spots with no
	// assignment row, oldest air date first. limit <= 0 means no cap.
	UnassignedSpotIDs(ctx context.Context, limit int) ([]string, error)

	// SpotIDsForYear returns ids of spots airing in the given year.
	// When onlyUnassigned is set, spots that already hold an
	// assignment row are skipped.
	SpotIDsForYear(ctx context.Context, year int, onlyUnassigned bool) ([]string, error)
}

// Pipeline decides and persists the assignment for one spot.
type Pipeline interface {
	Process(ctx context.Context, spot *domain.Spot) (assignment.Result, error)
}

// RunRecorder persists batch-run summary rows.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *domain.BatchRun) error
}
