package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/pkg/distlock"
)

// ErrRunInProgress is returned when another batch run holds the run
// lock. Runs rewrite assignment rows in place, so they never overlap.
var ErrRunInProgress = errors.New("another batch run is in progress")

// Batch run modes exposed by the CLI and the API.
const (
	ModeTestRun  = "test_run"
	ModeBatch    = "batch"
	ModeFullYear = "full_year"
	ModeReassign = "reassign"
	ModeExplicit = "explicit"
)

// DefaultProgressInterval is how many spots sit between progress log
// lines when the config doesn't say otherwise.
const DefaultProgressInterval = 100

// BatchProcessor drives the assignment pipeline over a spot-id set:
// single-threaded, one spot fully processed before the next, every
// per-spot failure caught and counted so a batch never aborts.
type BatchProcessor struct {
	spots    SpotSource
	pipeline Pipeline
	runs     RunRecorder        // optional
	progress *ProgressPublisher // optional
	lock     distlock.Lock      // optional

	progressEvery int
}

// NewBatchProcessor creates a processor. runs and progress may be nil;
// run records and progress publishing are then skipped.
func NewBatchProcessor(spots SpotSource, pipeline Pipeline, runs RunRecorder, progress *ProgressPublisher, progressEvery int) *BatchProcessor {
	if progressEvery <= 0 {
		progressEvery = DefaultProgressInterval
	}
	return &BatchProcessor{
		spots:         spots,
		pipeline:      pipeline,
		runs:          runs,
		progress:      progress,
		progressEvery: progressEvery,
	}
}

// UseLock makes runs mutually exclusive across processes. Run returns
// ErrRunInProgress when the lock is already held.
func (p *BatchProcessor) UseLock(lock distlock.Lock) {
	p.lock = lock
}

// Run processes the given spot ids under the given mode label and
// returns the summary counters. Cancellation between spots is safe:
// the context is checked before each spot.
func (p *BatchProcessor) Run(ctx context.Context, mode string, spotIDs []string) (*domain.BatchRun, error) {
	if p.lock != nil {
		ok, err := p.lock.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrRunInProgress
		}
		defer func() {
			if err := p.lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Printf("[BatchProcessor] Release run lock: %v", err)
			}
		}()
	}

	run := &domain.BatchRun{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartedAt: time.Now(),
	}
	log.Printf("[BatchProcessor] Run %s (%s): %d spots", run.ID, mode, len(spotIDs))

	for i, id := range spotIDs {
		select {
		case <-ctx.Done():
			log.Printf("[BatchProcessor] Run %s cancelled after %d spots", run.ID, run.Processed)
			return p.finish(ctx, run), ctx.Err()
		default:
		}

		p.processOne(ctx, run, id)

		if (i+1)%p.progressEvery == 0 {
			log.Printf("[BatchProcessor] Run %s: %d/%d processed (assigned=%d no_coverage=%d excluded=%d errors=%d)",
				run.ID, i+1, len(spotIDs), run.Assigned, run.NoCoverage, run.Excluded, run.Errors)
			p.publish(ctx, run)
		}
	}

	done := p.finish(ctx, run)
	log.Printf("[BatchProcessor] Run %s done: processed=%d assigned=%d multi_block=%d no_coverage=%d excluded=%d errors=%d",
		run.ID, run.Processed, run.Assigned, run.MultiBlock, run.NoCoverage, run.Excluded, run.Errors)
	return done, nil
}

// RunUnassigned selects every spot currently missing an assignment row
// (up to limit) and processes it.
func (p *BatchProcessor) RunUnassigned(ctx context.Context, mode string, limit int) (*domain.BatchRun, error) {
	ids, err := p.spots.UnassignedSpotIDs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("select unassigned spots: %w", err)
	}
	return p.Run(ctx, mode, ids)
}

// RunYear processes a whole broadcast year, optionally forcing
// reassignment of spots that already hold rows.
func (p *BatchProcessor) RunYear(ctx context.Context, year int, force bool) (*domain.BatchRun, error) {
	mode := ModeFullYear
	if force {
		mode = ModeReassign
	}
	ids, err := p.spots.SpotIDsForYear(ctx, year, !force)
	if err != nil {
		return nil, fmt.Errorf("select spots for year %d: %w", year, err)
	}
	return p.Run(ctx, mode, ids)
}

// processOne runs one spot through the pipeline. Nothing escapes: load
// failures, pipeline errors, and panics from corrupt rows are all
// logged with the spot id and counted.
func (p *BatchProcessor) processOne(ctx context.Context, run *domain.BatchRun, spotID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BatchProcessor] Panic processing spot %s: %v", spotID, r)
			run.Errors++
		}
	}()

	run.Processed++

	spot, err := p.spots.Spot(ctx, spotID)
	if err != nil {
		log.Printf("[BatchProcessor] Spot %s: %v", spotID, err)
		run.Errors++
		return
	}

	res, err := p.pipeline.Process(ctx, spot)
	if err != nil {
		log.Printf("[BatchProcessor] Spot %s: %v", spotID, err)
		run.Errors++
		return
	}

	switch {
	case res.Excluded:
		run.Excluded++
	case res.Decision.Intent == domain.IntentNoGridCoverage:
		run.NoCoverage++
		if res.Written {
			run.Assigned++
		}
	default:
		if res.Written {
			run.Assigned++
		}
		if res.Decision.Spanning() {
			run.MultiBlock++
		}
	}
}

func (p *BatchProcessor) finish(ctx context.Context, run *domain.BatchRun) *domain.BatchRun {
	now := time.Now()
	run.FinishedAt = &now
	p.publish(ctx, run)
	if p.runs != nil {
		if err := p.runs.RecordRun(ctx, run); err != nil {
			log.Printf("[BatchProcessor] Record run %s: %v", run.ID, err)
		}
	}
	return run
}

func (p *BatchProcessor) publish(ctx context.Context, run *domain.BatchRun) {
	if p.progress == nil {
		return
	}
	if err := p.progress.Publish(ctx, run); err != nil {
		log.Printf("[BatchProcessor] Publish progress for run %s: %v", run.ID, err)
	}
}
