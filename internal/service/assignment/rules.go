package assignment

import (
	"sort"
	"strings"
	"time"

	"github.com/crossings/gridlight/internal/domain"
)

// Default sector codes recognized by the stock rule set.
const (
	SectorMedia     = "MEDIA"
	SectorGov       = "GOV"
	SectorPolitical = "POL"
	SectorNonprofit = "NPO"
)

// defaultBillCodeKeywords mark bonus/production/test bookings that
// never bill and therefore never get an assignment.
var defaultBillCodeKeywords = []string{"PRODUCTION", "PROD", "TEST", "DEMO"}

func intPtr(v int) *int { return &v }

// DefaultRules returns the stock sector/duration rule set, priority
// ascending. Long-form any-sector content is evaluated last so the
// sector rules win for shorter spots.
func DefaultRules() []domain.BusinessRule {
	return []domain.BusinessRule{
		{
			Name:            "media_sector",
			SectorCodes:     []string{SectorMedia},
			ResultingIntent: domain.IntentIndifferent,
			AutoResolve:     true,
			Priority:        10,
		},
		{
			Name:            "government_sector",
			SectorCodes:     []string{SectorGov},
			ResultingIntent: domain.IntentIndifferent,
			AutoResolve:     true,
			Priority:        20,
		},
		{
			Name:            "political_sector",
			SectorCodes:     []string{SectorPolitical},
			ResultingIntent: domain.IntentIndifferent,
			AutoResolve:     true,
			Priority:        30,
		},
		{
			Name:               "nonprofit_longform",
			SectorCodes:        []string{SectorNonprofit},
			MinDurationMinutes: intPtr(300),
			ResultingIntent:    domain.IntentIndifferent,
			AutoResolve:        true,
			Priority:           40,
		},
		{
			Name:               "any_sector_longform",
			MinDurationMinutes: intPtr(720),
			ResultingIntent:    domain.IntentIndifferent,
			AutoResolve:        true,
			Priority:           50,
		},
	}
}

// RuleEngine evaluates the sector business rules and the exclusion
// pre-checks. The rule list is fixed at construction; there is no
// ambient state.
type RuleEngine struct {
	rules    []domain.BusinessRule
	keywords []string
	now      func() time.Time
}

// NewRuleEngine builds an engine over the given rules, sorted by
// ascending priority. Nil rules means the default set; nil keywords
// means the default bill-code exclusion keywords.
func NewRuleEngine(rules []domain.BusinessRule, billCodeKeywords []string) *RuleEngine {
	if rules == nil {
		rules = DefaultRules()
	}
	sorted := append([]domain.BusinessRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	if billCodeKeywords == nil {
		billCodeKeywords = defaultBillCodeKeywords
	}
	upper := make([]string, len(billCodeKeywords))
	for i, k := range billCodeKeywords {
		upper[i] = strings.ToUpper(k)
	}
	return &RuleEngine{rules: sorted, keywords: upper, now: time.Now}
}

// Excluded reports whether the spot should be silently skipped: no
// assignment attempted, no error counted. These are production/test
// bookings, zero-revenue spots, future spots not yet placed in a
// market, and rows missing their time window.
func (e *RuleEngine) Excluded(spot *domain.Spot) (bool, string) {
	bill := strings.ToUpper(spot.BillCode)
	for _, kw := range e.keywords {
		if strings.Contains(bill, kw) {
			return true, "bill code contains " + kw
		}
	}
	if spot.GrossRate == nil || *spot.GrossRate == 0 {
		return true, "zero or missing revenue"
	}
	if !spot.HasMarket() && spot.AirDate.After(e.now()) {
		return true, "future-dated spot with no market"
	}
	if strings.TrimSpace(spot.TimeIn) == "" || strings.TrimSpace(spot.TimeOut) == "" {
		return true, "missing air time window"
	}
	return false, ""
}

// Evaluate runs the configured rules against the spot by ascending
// priority and returns the first match. ok is false when no rule
// applies and the spot should continue to the grid.
func (e *RuleEngine) Evaluate(spot *domain.Spot) (Decision, bool) {
	sector := spot.Sector()
	duration := spot.DurationMinutes()
	for i := range e.rules {
		if e.rules[i].Matches(sector, duration) {
			return RuleBasedDecision(e.rules[i]), true
		}
	}
	return Decision{}, false
}
