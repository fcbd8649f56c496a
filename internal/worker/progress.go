package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crossings/gridlight/internal/domain"
)

// DefaultProgressTTL is how long a run's progress snapshot stays
// readable after the last update.
const DefaultProgressTTL = 24 * time.Hour

// ProgressPublisher mirrors batch-run counters into Redis so the
// dashboard can poll long reconciliation runs without touching the
// database. It is purely observational: publish failures are logged
// by the caller and never affect the batch.
type ProgressPublisher struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressPublisher creates a publisher. ttl <= 0 uses the default.
func NewProgressPublisher(client *redis.Client, ttl time.Duration) *ProgressPublisher {
	if ttl <= 0 {
		ttl = DefaultProgressTTL
	}
	return &ProgressPublisher{client: client, ttl: ttl}
}

// ProgressKey returns the Redis key holding a run's snapshot.
func ProgressKey(runID string) string {
	return "assign:progress:" + runID
}

// Publish stores the run's current counters as JSON under the run key.
func (p *ProgressPublisher) Publish(ctx context.Context, run *domain.BatchRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := p.client.Set(ctx, ProgressKey(run.ID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("publish run %s: %w", run.ID, err)
	}
	return nil
}

// Fetch reads a run snapshot back, if one is still live. ok is false
// when the key has expired or was never written.
func (p *ProgressPublisher) Fetch(ctx context.Context, runID string) (*domain.BatchRun, bool, error) {
	data, err := p.client.Get(ctx, ProgressKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch run %s: %w", runID, err)
	}
	var run domain.BatchRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, false, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &run, true, nil
}
