package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/crossings/gridlight/internal/domain"
	"github.com/crossings/gridlight/internal/worker"
)

// SpotRepo implements worker.SpotSource against PostgreSQL. It is the
// validation boundary: loosely-typed rows become well-formed
// domain.Spot values here or not at all.
type SpotRepo struct{ db *sql.DB }

// NewSpotRepo creates a Postgres-backed spot source.
func NewSpotRepo(db *sql.DB) *SpotRepo { return &SpotRepo{db: db} }

func (r *SpotRepo) Spot(ctx context.Context, id string) (*domain.Spot, error) {
	var (
		s          domain.Spot
		marketID   sql.NullString
		hint       sql.NullString
		customerID sql.NullString
		sector     sql.NullString
		grossRate  sql.NullFloat64
		timeIn     sql.NullString
		timeOut    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, market_id, air_date, LOWER(day_of_week),
		       time_in, time_out, language_hint, customer_id,
		       sector_code, gross_rate, COALESCE(bill_code, '')
		FROM spots
		WHERE id = $1
	`, id).Scan(
		&s.ID, &marketID, &s.AirDate, &s.DayOfWeek,
		&timeIn, &timeOut, &hint, &customerID,
		&sector, &grossRate, &s.BillCode,
	)
	if err == sql.ErrNoRows {
		return nil, worker.ErrSpotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get spot: %w", err)
	}

	s.TimeIn = timeIn.String
	s.TimeOut = timeOut.String
	if marketID.Valid && marketID.String != "" {
		s.MarketID = &marketID.String
	}
	if hint.Valid && hint.String != "" {
		s.LanguageHint = &hint.String
	}
	if customerID.Valid && customerID.String != "" {
		s.CustomerID = &customerID.String
	}
	if sector.Valid && sector.String != "" {
		s.SectorCode = &sector.String
	}
	if grossRate.Valid {
		s.GrossRate = &grossRate.Float64
	}

	if err := validateSpot(&s); err != nil {
		return nil, fmt.Errorf("spot %s malformed: %w", id, err)
	}
	return &s, nil
}

// validateSpot rejects rows the pipeline cannot reason about. Missing
// optional fields are fine (the exclusion pre-checks own those); a
// missing id, air date, or day of week is corrupt data.
func validateSpot(s *domain.Spot) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("empty id")
	}
	if s.AirDate.IsZero() {
		return fmt.Errorf("zero air date")
	}
	if domain.NormalizeDay(s.DayOfWeek) == "" {
		return fmt.Errorf("empty day of week")
	}
	s.DayOfWeek = domain.NormalizeDay(s.DayOfWeek)
	return nil
}

func (r *SpotRepo) UnassignedSpotIDs(ctx context.Context, limit int) ([]string, error) {
	q := `
		SELECT s.id
		FROM spots s
		LEFT JOIN spot_assignments a ON a.spot_id = s.id
		WHERE a.spot_id IS NULL
		ORDER BY s.air_date, s.id`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list unassigned spots: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *SpotRepo) SpotIDsForYear(ctx context.Context, year int, onlyUnassigned bool) ([]string, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	q := `
		SELECT s.id
		FROM spots s`
	if onlyUnassigned {
		q += `
		LEFT JOIN spot_assignments a ON a.spot_id = s.id`
	}
	q += `
		WHERE s.air_date >= $1 AND s.air_date < $2`
	if onlyUnassigned {
		q += ` AND a.spot_id IS NULL`
	}
	q += `
		ORDER BY s.air_date, s.id`

	rows, err := r.db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, fmt.Errorf("list spots for year %d: %w", year, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// UnassignedSpots returns spot rows missing an assignment, for the
// triage listing on the dashboard.
func (r *SpotRepo) UnassignedSpots(ctx context.Context, limit int) ([]domain.Spot, error) {
	if limit <= 0 {
		limit = 100
	}
	ids, err := r.UnassignedSpotIDs(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Spot, 0, len(ids))
	for _, id := range ids {
		s, err := r.Spot(ctx, id)
		if err != nil {
			// A malformed row still belongs on the triage list; skip
			// rather than fail the listing.
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan spot id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
