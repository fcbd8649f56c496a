package domain

import (
	"strings"
	"time"
)

// ProgrammingSchedule is a named grid of language blocks, assignable to
// markets over date ranges.
type ProgrammingSchedule struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

// ScheduleMarketAssignment links a schedule to a market for a date range.
// Higher priority wins when ranges overlap.
type ScheduleMarketAssignment struct {
	ScheduleID         string     `json:"schedule_id" db:"schedule_id"`
	MarketID           string     `json:"market_id" db:"market_id"`
	EffectiveStartDate time.Time  `json:"effective_start_date" db:"effective_start_date"`
	EffectiveEndDate   *time.Time `json:"effective_end_date" db:"effective_end_date"`
	Priority           int        `json:"priority" db:"priority"`
}

// LanguageBlock is a fixed day/time slot in a programming schedule tied
// to one broadcast language. Time bounds are half-open, same-day.
type LanguageBlock struct {
	ID         string `json:"id" db:"id"`
	ScheduleID string `json:"schedule_id" db:"schedule_id"`
	DayOfWeek  string `json:"day_of_week" db:"day_of_week"`
	TimeStart  string `json:"time_start" db:"time_start"`
	TimeEnd    string `json:"time_end" db:"time_end"`
	LanguageID string `json:"language_id" db:"language_id"`
	IsActive   bool   `json:"is_active" db:"is_active"`
}

// StartMinutes returns the block start as minutes since midnight.
func (b *LanguageBlock) StartMinutes() int { return MinutesOfDay(b.TimeStart) }

// EndMinutes returns the block end as minutes since midnight.
func (b *LanguageBlock) EndMinutes() int { return MinutesOfDay(b.TimeEnd) }

// Language is one entry in the station's broadcast-language catalog.
type Language struct {
	ID   string `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// Chinese-family grid codes. Mandarin and Cantonese are sold as one
// audience family: a spot spanning only these two languages still
// counts as language-specific.
const (
	CodeMandarin  = "M"
	CodeCantonese = "C"
)

// ChineseFamily reports whether the language belongs to the fixed
// Mandarin/Cantonese grouping.
func (l Language) ChineseFamily() bool {
	return l.Code == CodeMandarin || l.Code == CodeCantonese
}

// LanguageCatalog is an in-memory index of the language table, built
// once per batch run.
type LanguageCatalog struct {
	byID   map[string]Language
	byCode map[string]Language
}

// NewLanguageCatalog indexes the given languages by id and code.
func NewLanguageCatalog(langs []Language) *LanguageCatalog {
	c := &LanguageCatalog{
		byID:   make(map[string]Language, len(langs)),
		byCode: make(map[string]Language, len(langs)),
	}
	for _, l := range langs {
		l.Code = strings.ToUpper(strings.TrimSpace(l.Code))
		c.byID[l.ID] = l
		c.byCode[l.Code] = l
	}
	return c
}

// ByID looks up a language by its id.
func (c *LanguageCatalog) ByID(id string) (Language, bool) {
	l, ok := c.byID[id]
	return l, ok
}

// ByCode looks up a language by its grid code (e.g. "M", "T").
func (c *LanguageCatalog) ByCode(code string) (Language, bool) {
	l, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return l, ok
}

// HintLanguageIDs resolves a spot's language hint into the set of
// language ids it names. The combined hint "M/C" names both halves of
// the Chinese family. Unknown hints resolve to an empty set.
func (c *LanguageCatalog) HintLanguageIDs(hint string) map[string]bool {
	ids := make(map[string]bool)
	if hint == "" {
		return ids
	}
	for _, code := range strings.Split(hint, "/") {
		if l, ok := c.ByCode(code); ok {
			ids[l.ID] = true
		}
	}
	return ids
}

// AllChineseFamily reports whether every language id in the set belongs
// to the Mandarin/Cantonese family. Empty sets are not a family.
func (c *LanguageCatalog) AllChineseFamily(ids map[string]bool) bool {
	if len(ids) == 0 {
		return false
	}
	for id := range ids {
		l, ok := c.ByID(id)
		if !ok || !l.ChineseFamily() {
			return false
		}
	}
	return true
}
