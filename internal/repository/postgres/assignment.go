package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/crossings/gridlight/internal/domain"
)

// AssignmentRepo persists assignment rows and batch-run records. This
// is the only state-mutating repository in the pipeline.
type AssignmentRepo struct{ db *sql.DB }

// NewAssignmentRepo creates a Postgres-backed assignment repository.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// Replace deletes any prior row for the spot and inserts the new one
// in a single transaction, so reprocessing never leaves two rows or a
// half-written row.
func (r *AssignmentRepo) Replace(ctx context.Context, a *domain.Assignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM spot_assignments WHERE spot_id = $1
	`, a.SpotID); err != nil {
		return fmt.Errorf("delete prior assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO spot_assignments
			(spot_id, schedule_id, block_id, customer_intent, confidence,
			 spans_multiple_blocks, blocks_spanned, primary_block_id,
			 assignment_method, business_rule_applied, requires_attention,
			 alert_reason, campaign_type, assigned_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, a.SpotID, a.ScheduleID, a.BlockID, a.CustomerIntent, a.Confidence,
		a.SpansMultipleBlocks, pq.Array(a.BlocksSpanned), a.PrimaryBlockID,
		a.AssignmentMethod, a.BusinessRuleApplied, a.RequiresAttention,
		a.AlertReason, a.CampaignType, a.AssignedDate); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Get returns the assignment row for a spot, or nil when none exists.
func (r *AssignmentRepo) Get(ctx context.Context, spotID string) (*domain.Assignment, error) {
	a := &domain.Assignment{}
	var blocks pq.StringArray
	err := r.db.QueryRowContext(ctx, `
		SELECT spot_id, schedule_id, block_id, customer_intent, confidence,
		       spans_multiple_blocks, blocks_spanned, primary_block_id,
		       assignment_method, business_rule_applied, requires_attention,
		       alert_reason, campaign_type, assigned_date
		FROM spot_assignments
		WHERE spot_id = $1
	`, spotID).Scan(
		&a.SpotID, &a.ScheduleID, &a.BlockID, &a.CustomerIntent, &a.Confidence,
		&a.SpansMultipleBlocks, &blocks, &a.PrimaryBlockID,
		&a.AssignmentMethod, &a.BusinessRuleApplied, &a.RequiresAttention,
		&a.AlertReason, &a.CampaignType, &a.AssignedDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	a.BlocksSpanned = []string(blocks)
	return a, nil
}

// IntentCount is one row of the dashboard summary.
type IntentCount struct {
	CustomerIntent    domain.CustomerIntent `json:"customer_intent"`
	CampaignType      domain.CampaignType   `json:"campaign_type"`
	Count             int                   `json:"count"`
	RequiresAttention int                   `json:"requires_attention"`
}

// Summary returns assignment counts grouped by intent and campaign
// type, for the revenue dashboard.
func (r *AssignmentRepo) Summary(ctx context.Context) ([]IntentCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT customer_intent, campaign_type, COUNT(*),
		       COUNT(*) FILTER (WHERE requires_attention)
		FROM spot_assignments
		GROUP BY customer_intent, campaign_type
		ORDER BY customer_intent, campaign_type
	`)
	if err != nil {
		return nil, fmt.Errorf("assignment summary: %w", err)
	}
	defer rows.Close()

	var out []IntentCount
	for rows.Next() {
		var c IntentCount
		if err := rows.Scan(&c.CustomerIntent, &c.CampaignType, &c.Count, &c.RequiresAttention); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecordRun persists one batch-run summary row.
func (r *AssignmentRepo) RecordRun(ctx context.Context, run *domain.BatchRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spot_batch_runs
			(id, mode, processed, assigned, multi_block, no_coverage,
			 excluded, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.Mode, run.Processed, run.Assigned, run.MultiBlock,
		run.NoCoverage, run.Excluded, run.Errors, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("record batch run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent batch-run records, newest first.
func (r *AssignmentRepo) RecentRuns(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, mode, processed, assigned, multi_block, no_coverage,
		       excluded, errors, started_at, finished_at
		FROM spot_batch_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	defer rows.Close()

	var out []domain.BatchRun
	for rows.Next() {
		var run domain.BatchRun
		if err := rows.Scan(
			&run.ID, &run.Mode, &run.Processed, &run.Assigned, &run.MultiBlock,
			&run.NoCoverage, &run.Excluded, &run.Errors, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
