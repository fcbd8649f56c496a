package assignment

import (
	"github.com/crossings/gridlight/internal/domain"
)

// Pattern tags recorded on assignments reclassified by this layer.
const (
	TagROSDuration    = "ros_duration"
	TagROSTime        = "ros_time"
	TagTagalogPattern = "tagalog_pattern"
	TagChinesePattern = "chinese_pattern"
)

// Exact booking windows the traffic desk uses for its standing orders,
// in minutes since midnight.
const (
	rosWindowStart     = 13 * 60        // 13:00:00
	rosWindowEnd       = 23*60 + 59     // 23:59:00
	tagalogWindowStart = 16 * 60        // 16:00:00
	tagalogWindowEnd   = 19 * 60        // 19:00:00
	chineseWindowStart = 19 * 60        // 19:00:00
	patternMaxDuration = 360            // ROS duration threshold, exclusive
)

// PatternLayer is a narrow second pass over indifferent results. The
// traffic desk books a handful of standing orders with fixed windows
// and hints; those are recognizable without any grid ambiguity, so an
// indifferent classification gets upgraded. Patterns are checked in
// order and are mutually exclusive by construction.
type PatternLayer struct {
	catalog *domain.LanguageCatalog
}

// NewPatternLayer creates the layer over the given language catalog.
func NewPatternLayer(catalog *domain.LanguageCatalog) *PatternLayer {
	return &PatternLayer{catalog: catalog}
}

// Refine re-examines an indifferent decision against the known booking
// patterns. Non-indifferent decisions pass through untouched, as does
// anything no pattern matches.
func (p *PatternLayer) Refine(spot *domain.Spot, d Decision, blocks []domain.LanguageBlock) Decision {
	if d.Intent != domain.IntentIndifferent || d.Method != domain.MethodAutoComputed {
		return d
	}

	in, out := spot.TimeInMinutes(), spot.TimeOutMinutes()
	hint := spot.Hint()

	switch {
	// The exact standing-order window is checked before the generic
	// duration pattern; it would otherwise be shadowed, since that
	// window is itself longer than the duration threshold.
	case in == rosWindowStart && out == rosWindowEnd:
		return p.resolveROS(d, TagROSTime)

	case spot.DurationMinutes() > patternMaxDuration:
		return p.resolveROS(d, TagROSDuration)

	case in == tagalogWindowStart && out == tagalogWindowEnd && hint == "T":
		if block, ok := p.findLanguage(blocks, "Tagalog"); ok {
			return p.resolveLanguage(d, block, TagTagalogPattern)
		}

	case in == chineseWindowStart && out == rosWindowEnd && (hint == "M" || hint == "M/C"):
		block, ok := p.findLanguage(blocks, "Mandarin")
		if !ok {
			block, ok = p.findLanguage(blocks, "Cantonese")
		}
		if ok {
			return p.resolveLanguage(d, block, TagChinesePattern)
		}
	}

	return d
}

// resolveROS rewrites an indifferent spanning decision as a resolved
// run-of-schedule buy: no single block, no attention flag.
func (p *PatternLayer) resolveROS(d Decision, tag string) Decision {
	d.Campaign = domain.CampaignROS
	d.Method = domain.MethodEnhancedPattern
	d.RuleApplied = tag
	d.Confidence = 1.0
	d.Attention = false
	d.AlertReason = ""
	return d
}

// resolveLanguage rewrites an indifferent decision as language-specific
// on the single block the pattern names.
func (p *PatternLayer) resolveLanguage(d Decision, block domain.LanguageBlock, tag string) Decision {
	out := ResolvedDecision(domain.IntentLanguageSpecific, d.ScheduleID, block.ID)
	out.Method = domain.MethodEnhancedPattern
	out.RuleApplied = tag
	return out
}

// findLanguage returns the first spanned block airing the named
// language.
func (p *PatternLayer) findLanguage(blocks []domain.LanguageBlock, name string) (domain.LanguageBlock, bool) {
	for _, b := range blocks {
		l, ok := p.catalog.ByID(b.LanguageID)
		if ok && l.Name == name {
			return b, true
		}
	}
	return domain.LanguageBlock{}, false
}
