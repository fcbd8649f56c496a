package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/service/grid"
)

// Service runs the full decision pipeline for one spot: exclusion
// pre-checks, sector rules, grid resolution, intent classification,
// the pattern second pass, and the idempotent write.
type Service struct {
	grid       *grid.Resolver
	rules      *RuleEngine
	classifier *Classifier
	patterns   *PatternLayer
	writer     Writer
	now        func() time.Time
}

// NewService wires the pipeline. The catalog and rule engine are built
// once at engine start and shared by reference; nothing here mutates
// them.
func NewService(g *grid.Resolver, rules *RuleEngine, catalog *domain.LanguageCatalog, writer Writer) *Service {
	return &Service{
		grid:       g,
		rules:      rules,
		classifier: NewClassifier(catalog),
		patterns:   NewPatternLayer(catalog),
		writer:     writer,
		now:        time.Now,
	}
}

// Result summarizes one spot's trip through the pipeline for the
// orchestrator's counters.
type Result struct {
	SpotID          string
	Excluded        bool
	ExclusionReason string
	Written         bool
	Decision        Decision
}

// Process decides and persists the assignment for one spot. Business
// outcomes (exclusion, no coverage, indifference) are values on the
// Result; only storage failures return an error.
func (s *Service) Process(ctx context.Context, spot *domain.Spot) (Result, error) {
	res := Result{SpotID: spot.ID}

	if excluded, reason := s.rules.Excluded(spot); excluded {
		res.Excluded = true
		res.ExclusionReason = reason
		return res, nil
	}

	if dec, ok := s.rules.Evaluate(spot); ok {
		// A sector rule short-circuits the pipeline: the grid is
		// never consulted.
		res.Decision = dec
		if err := s.write(ctx, spot, dec); err != nil {
			return res, err
		}
		res.Written = true
		return res, nil
	}

	dec, blocks, err := s.classify(ctx, spot)
	if err != nil {
		return res, err
	}
	if dec.Intent == domain.IntentIndifferent {
		dec = s.patterns.Refine(spot, dec, blocks)
	}
	res.Decision = dec

	// A spot the grid couldn't even locate (no market, no schedule)
	// stays unwritten so "unassigned" queries still find it.
	if dec.Intent == domain.IntentNoGridCoverage && dec.ScheduleID == "" {
		return res, nil
	}

	if err := s.write(ctx, spot, dec); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

func (s *Service) classify(ctx context.Context, spot *domain.Spot) (Decision, []domain.LanguageBlock, error) {
	if !spot.HasMarket() {
		return s.classifier.Classify(spot, "", nil), nil, nil
	}

	scheduleID, err := s.grid.ResolveSchedule(ctx, *spot.MarketID, spot.AirDate)
	if err != nil {
		return Decision{}, nil, fmt.Errorf("resolve schedule for spot %s: %w", spot.ID, err)
	}
	if scheduleID == "" {
		return s.classifier.Classify(spot, "", nil), nil, nil
	}

	blocks, err := s.grid.OverlappingBlocks(ctx, scheduleID, spot.DayOfWeek, spot.TimeInMinutes(), spot.TimeOutMinutes())
	if err != nil {
		return Decision{}, nil, fmt.Errorf("overlap lookup for spot %s: %w", spot.ID, err)
	}
	return s.classifier.Classify(spot, scheduleID, blocks), blocks, nil
}

func (s *Service) write(ctx context.Context, spot *domain.Spot, dec Decision) error {
	a := dec.Assignment(spot.ID, s.now())
	if err := s.writer.Replace(ctx, a); err != nil {
		return fmt.Errorf("write assignment for spot %s: %w", spot.ID, err)
	}
	return nil
}
