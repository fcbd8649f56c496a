package domain

import (
	"strings"
	"time"
)

// Spot is a single booked airing imported from traffic. It is immutable
// input: the importer owns these rows and the assignment engine only
// reads them.
type Spot struct {
	ID           string     `json:"id" db:"id"`
	MarketID     *string    `json:"market_id" db:"market_id"`
	AirDate      time.Time  `json:"air_date" db:"air_date"`
	DayOfWeek    string     `json:"day_of_week" db:"day_of_week"`
	TimeIn       string     `json:"time_in" db:"time_in"`
	TimeOut      string     `json:"time_out" db:"time_out"`
	LanguageHint *string    `json:"language_hint" db:"language_hint"`
	CustomerID   *string    `json:"customer_id" db:"customer_id"`
	SectorCode   *string    `json:"sector_code" db:"sector_code"`
	GrossRate    *float64   `json:"gross_rate" db:"gross_rate"`
	BillCode     string     `json:"bill_code" db:"bill_code"`
}

// TimeInMinutes returns the spot start as minutes since midnight.
func (s *Spot) TimeInMinutes() int { return MinutesOfDay(s.TimeIn) }

// TimeOutMinutes returns the spot end as minutes since midnight.
func (s *Spot) TimeOutMinutes() int { return MinutesOfDay(s.TimeOut) }

// CrossesMidnight reports whether the spot window wraps past midnight.
func (s *Spot) CrossesMidnight() bool {
	return s.TimeOutMinutes() < s.TimeInMinutes()
}

// DurationMinutes returns the spot length in minutes. Windows that wrap
// past midnight are measured across the day boundary.
func (s *Spot) DurationMinutes() int {
	in, out := s.TimeInMinutes(), s.TimeOutMinutes()
	if out < in {
		return out - in + minutesPerDay
	}
	return out - in
}

// Hint returns the normalized language hint, or "" when absent.
func (s *Spot) Hint() string {
	if s.LanguageHint == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*s.LanguageHint))
}

// Sector returns the normalized sector code, or "" when absent.
func (s *Spot) Sector() string {
	if s.SectorCode == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*s.SectorCode))
}

// HasMarket reports whether the spot carries a market assignment.
func (s *Spot) HasMarket() bool {
	return s.MarketID != nil && *s.MarketID != ""
}

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// NormalizeDay lowercases and trims a day-of-week name. Unknown values
// pass through so bad grid data surfaces as a zero-overlap day rather
// than a crash.
func NormalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}

// NextDay returns the day after the given (normalized) weekday name.
// Unknown days return themselves.
func NextDay(day string) string {
	for i, d := range weekdays {
		if d == day {
			return weekdays[(i+1)%len(weekdays)]
		}
	}
	return day
}
