package assignment

import (
	"testing"

	"github.com/crossings/gridlight/internal/domain"
)

// indifferentSpan builds the decision shape the pattern layer refines.
func indifferentSpan(blockIDs []string) Decision {
	d := SpanningDecision(domain.IntentIndifferent, "sched-1", blockIDs, blockIDs[0])
	d.Campaign = domain.CampaignMultiLanguage
	d.Attention = true
	d.AlertReason = "indifferent spot booked multi-language"
	return d
}

func TestRefineROSTimeWindow(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "13:00"
	spot.TimeOut = "23:59"
	blocks := []domain.LanguageBlock{
		block("b1", "lang-k", "13:00", "18:00"),
		block("b2", "lang-v", "18:00", "23:59"),
	}

	// The exact afternoon-to-signoff window beats the generic duration
	// pattern even though it is longer than the duration threshold.
	got := p.Refine(spot, indifferentSpan([]string{"b1", "b2"}), blocks)
	if got.RuleApplied != TagROSTime {
		t.Errorf("tag = %q, want %q", got.RuleApplied, TagROSTime)
	}
	if got.Campaign != domain.CampaignROS {
		t.Errorf("campaign = %q", got.Campaign)
	}
	if got.Method != domain.MethodEnhancedPattern {
		t.Errorf("method = %q", got.Method)
	}
	if got.Attention || got.AlertReason != "" {
		t.Errorf("recognized standing order must clear the flag: %+v", got)
	}
	if !got.Spanning() {
		t.Error("ros refinement keeps the spanned blocks")
	}
}

func TestRefineROSDuration(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "08:00"
	spot.TimeOut = "15:00" // 420 minutes
	got := p.Refine(spot, indifferentSpan([]string{"b1", "b2"}), nil)

	if got.RuleApplied != TagROSDuration {
		t.Errorf("tag = %q, want %q", got.RuleApplied, TagROSDuration)
	}
	if got.Campaign != domain.CampaignROS || got.Confidence != 1.0 {
		t.Errorf("got %+v", got)
	}
}

func TestRefineDurationThresholdExclusive(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "08:00"
	spot.TimeOut = "14:00" // exactly 360 minutes: below the bar
	d := indifferentSpan([]string{"b1", "b2"})
	got := p.Refine(spot, d, nil)

	if got.RuleApplied != "" {
		t.Errorf("360-minute spot matched %q", got.RuleApplied)
	}
	if got.Intent != domain.IntentIndifferent || !got.Attention {
		t.Errorf("unmatched decision must pass through: %+v", got)
	}
}

func TestRefineTagalogPattern(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "16:00"
	spot.TimeOut = "19:00"
	spot.LanguageHint = strPtr("T")
	blocks := []domain.LanguageBlock{
		block("b1", "lang-v", "16:00", "17:00"),
		block("b2", "lang-t", "17:00", "19:00"),
	}

	got := p.Refine(spot, indifferentSpan([]string{"b1", "b2"}), blocks)
	if got.RuleApplied != TagTagalogPattern {
		t.Errorf("tag = %q", got.RuleApplied)
	}
	if got.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q", got.Intent)
	}
	if id, ok := got.BlockID(); !ok || id != "b2" {
		t.Errorf("block = %q, %v, want the Tagalog block", id, ok)
	}
}

func TestRefineTagalogPatternNeedsHintAndBlock(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "16:00"
	spot.TimeOut = "19:00"

	// Right window, no hint: not the standing order.
	got := p.Refine(spot, indifferentSpan([]string{"b1"}), nil)
	if got.RuleApplied != "" {
		t.Errorf("hintless spot matched %q", got.RuleApplied)
	}

	// Hint present but no Tagalog block in the span.
	spot.LanguageHint = strPtr("T")
	blocks := []domain.LanguageBlock{block("b1", "lang-v", "16:00", "19:00")}
	got = p.Refine(spot, indifferentSpan([]string{"b1"}), blocks)
	if got.RuleApplied != "" {
		t.Errorf("span without a Tagalog block matched %q", got.RuleApplied)
	}
}

func TestRefineChinesePattern(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	blocks := []domain.LanguageBlock{
		block("b1", "lang-c", "19:00", "21:00"),
		block("b2", "lang-m", "21:00", "23:59"),
	}

	for _, hint := range []string{"M", "M/C"} {
		spot := testSpot()
		spot.TimeIn = "19:00"
		spot.TimeOut = "23:59"
		spot.LanguageHint = strPtr(hint)

		got := p.Refine(spot, indifferentSpan([]string{"b1", "b2"}), blocks)
		if got.RuleApplied != TagChinesePattern {
			t.Errorf("hint %q: tag = %q", hint, got.RuleApplied)
			continue
		}
		// Mandarin preferred over Cantonese when both air in the window.
		if id, ok := got.BlockID(); !ok || id != "b2" {
			t.Errorf("hint %q: block = %q, %v, want b2", hint, id, ok)
		}
	}
}

func TestRefineChinesePatternFallsBackToCantonese(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "19:00"
	spot.TimeOut = "23:59"
	spot.LanguageHint = strPtr("M")
	blocks := []domain.LanguageBlock{block("b1", "lang-c", "19:00", "23:59")}

	got := p.Refine(spot, indifferentSpan([]string{"b1"}), blocks)
	if got.RuleApplied != TagChinesePattern {
		t.Fatalf("tag = %q", got.RuleApplied)
	}
	if id, _ := got.BlockID(); id != "b1" {
		t.Errorf("block = %q, want the Cantonese block", id)
	}
}

func TestRefineLeavesNonIndifferentAlone(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	spot := testSpot()
	spot.TimeIn = "13:00"
	spot.TimeOut = "23:59"

	d := ResolvedDecision(domain.IntentLanguageSpecific, "sched-1", "b1")
	if got := p.Refine(spot, d, nil); got.RuleApplied != "" {
		t.Errorf("language-specific decision refined to %q", got.RuleApplied)
	}

	// Rule-decided indifference is final too; only grid-computed
	// indifference goes through the patterns.
	rd := RuleBasedDecision(domain.BusinessRule{Name: "media_sector", ResultingIntent: domain.IntentIndifferent, AutoResolve: true})
	if got := p.Refine(spot, rd, nil); got.RuleApplied != "media_sector" {
		t.Errorf("rule decision altered: %+v", got)
	}
}

func TestRefinePatternsMutuallyExclusive(t *testing.T) {
	p := NewPatternLayer(testLanguages())

	// Windows shaped for one pattern must not bleed into another: the
	// Tagalog and Chinese windows are each shorter than the duration
	// threshold, and off-by-one windows match nothing.
	tests := []struct {
		name    string
		in, out string
		hint    string
		want    string
	}{
		{"tagalog window without hint is short enough for no pattern", "16:00", "19:00", "", ""},
		{"chinese window without hint", "19:00", "23:59", "", ""},
		{"near-ros window off by a minute", "13:01", "23:59", "", TagROSDuration},
		{"short evening spot", "20:00", "21:00", "M", ""},
	}
	for _, tt := range tests {
		spot := testSpot()
		spot.TimeIn, spot.TimeOut = tt.in, tt.out
		if tt.hint != "" {
			spot.LanguageHint = strPtr(tt.hint)
		}
		got := p.Refine(spot, indifferentSpan([]string{"b1"}), nil)
		if got.RuleApplied != tt.want {
			t.Errorf("%s: tag = %q, want %q", tt.name, got.RuleApplied, tt.want)
		}
	}
}
