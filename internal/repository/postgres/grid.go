package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crossings/gridlight/internal/domain"
)

// GridRepo implements grid.Repository against PostgreSQL.
type GridRepo struct{ db *sql.DB }

// NewGridRepo creates a Postgres-backed grid repository.
func NewGridRepo(db *sql.DB) *GridRepo { return &GridRepo{db: db} }

func (r *GridRepo) ActiveScheduleForDate(ctx context.Context, marketID string, airDate time.Time) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT sma.schedule_id
		FROM schedule_market_assignments sma
		JOIN programming_schedules ps ON ps.id = sma.schedule_id
		WHERE sma.market_id = $1
		  AND ps.is_active = true
		  AND sma.effective_start_date <= $2
		  AND (sma.effective_end_date IS NULL OR sma.effective_end_date >= $2)
		ORDER BY sma.priority DESC, sma.effective_start_date DESC
		LIMIT 1
	`, marketID, airDate).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("dated schedule for market %s: %w", marketID, err)
	}
	return id, nil
}

func (r *GridRepo) FallbackSchedule(ctx context.Context, marketID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT sma.schedule_id
		FROM schedule_market_assignments sma
		JOIN programming_schedules ps ON ps.id = sma.schedule_id
		WHERE sma.market_id = $1
		  AND ps.is_active = true
		ORDER BY sma.priority DESC, sma.effective_start_date DESC
		LIMIT 1
	`, marketID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fallback schedule for market %s: %w", marketID, err)
	}
	return id, nil
}

func (r *GridRepo) BlocksForDay(ctx context.Context, scheduleID, dayOfWeek string) ([]domain.LanguageBlock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, LOWER(day_of_week), time_start, time_end, language_id
		FROM language_blocks
		WHERE schedule_id = $1
		  AND LOWER(day_of_week) = $2
		  AND is_active = true
		ORDER BY time_start
	`, scheduleID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("blocks for schedule %s: %w", scheduleID, err)
	}
	defer rows.Close()

	var out []domain.LanguageBlock
	for rows.Next() {
		b := domain.LanguageBlock{IsActive: true}
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.DayOfWeek, &b.TimeStart, &b.TimeEnd, &b.LanguageID); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *GridRepo) Languages(ctx context.Context) ([]domain.Language, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, name FROM languages ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var out []domain.Language
	for rows.Next() {
		var l domain.Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
