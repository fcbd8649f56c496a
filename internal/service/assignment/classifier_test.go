package assignment

import (
	"strings"
	"testing"

	"github.com/crossings/gridlight/internal/domain"
)

func testLanguages() *domain.LanguageCatalog {
	return domain.NewLanguageCatalog([]domain.Language{
		{ID: "lang-m", Code: "M", Name: "Mandarin"},
		{ID: "lang-c", Code: "C", Name: "Cantonese"},
		{ID: "lang-t", Code: "T", Name: "Tagalog"},
		{ID: "lang-k", Code: "K", Name: "Korean"},
		{ID: "lang-v", Code: "V", Name: "Vietnamese"},
	})
}

func block(id, langID, start, end string) domain.LanguageBlock {
	return domain.LanguageBlock{
		ID: id, ScheduleID: "sched-1", DayOfWeek: "monday",
		TimeStart: start, TimeEnd: end, LanguageID: langID, IsActive: true,
	}
}

func TestClassifySingleBlockMatchingHint(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.LanguageHint = strPtr("K")
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "10:00", "11:00"),
	})

	if dec.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q", dec.Intent)
	}
	if id, ok := dec.BlockID(); !ok || id != "b1" {
		t.Errorf("block = %q, %v", id, ok)
	}
	if dec.Spanning() || dec.Attention {
		t.Errorf("unexpected spanning/attention: %+v", dec)
	}
	if dec.Confidence != 1.0 {
		t.Errorf("confidence = %v", dec.Confidence)
	}
}

func TestClassifySingleBlockNoHint(t *testing.T) {
	c := NewClassifier(testLanguages())

	dec := c.Classify(testSpot(), "sched-1", []domain.LanguageBlock{
		block("b1", "lang-v", "10:00", "11:00"),
	})
	if dec.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q, want language_specific", dec.Intent)
	}
	if dec.Attention {
		t.Error("hintless single-block spot should not be flagged")
	}
}

func TestClassifySingleBlockHintMismatch(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.LanguageHint = strPtr("T")
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "10:00", "11:00"),
	})

	if dec.Intent != domain.IntentTimeSpecific {
		t.Errorf("intent = %q, want time_specific", dec.Intent)
	}
	if !dec.Attention || !strings.Contains(dec.AlertReason, `"T"`) {
		t.Errorf("mismatch must be flagged with the hint, got %+v", dec)
	}
	if id, ok := dec.BlockID(); !ok || id != "b1" {
		t.Errorf("window still wins the block: %q, %v", id, ok)
	}
}

func TestClassifyNoMarket(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.MarketID = nil
	dec := c.Classify(spot, "", nil)

	if dec.Intent != domain.IntentNoGridCoverage {
		t.Errorf("intent = %q", dec.Intent)
	}
	if dec.ScheduleID != "" {
		t.Errorf("schedule = %q, want empty", dec.ScheduleID)
	}
	if !dec.Attention || dec.AlertReason != "no market assignment" {
		t.Errorf("reason = %q", dec.AlertReason)
	}
}

func TestClassifyNoSchedule(t *testing.T) {
	c := NewClassifier(testLanguages())

	dec := c.Classify(testSpot(), "", nil)
	if dec.Intent != domain.IntentNoGridCoverage || dec.AlertReason != "no schedule assigned to market" {
		t.Errorf("dec = %+v", dec)
	}
}

func TestClassifyNoOverlap(t *testing.T) {
	c := NewClassifier(testLanguages())

	dec := c.Classify(testSpot(), "sched-1", nil)
	if dec.Intent != domain.IntentNoGridCoverage {
		t.Errorf("intent = %q", dec.Intent)
	}
	if dec.ScheduleID != "sched-1" {
		t.Errorf("schedule = %q, want sched-1", dec.ScheduleID)
	}
	if dec.Method != domain.MethodNoGridCoverage {
		t.Errorf("method = %q", dec.Method)
	}
}

func TestClassifyMultiLanguageSpan(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.TimeIn = "10:00"
	spot.TimeOut = "13:00"
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "10:00", "11:00"),
		block("b2", "lang-v", "11:00", "12:00"),
		block("b3", "lang-t", "12:00", "13:00"),
	})

	if dec.Intent != domain.IntentIndifferent {
		t.Errorf("intent = %q, want indifferent", dec.Intent)
	}
	if !dec.Spanning() {
		t.Fatal("decision should span")
	}
	if got := dec.Blocks(); len(got) != 3 || got[0] != "b1" {
		t.Errorf("blocks = %v", got)
	}
	if dec.Campaign != domain.CampaignMultiLanguage {
		t.Errorf("campaign = %q", dec.Campaign)
	}
	if !dec.Attention {
		t.Error("indifferent span must be flagged")
	}
}

func TestClassifySpanSingleLanguageResolves(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.TimeIn = "10:00"
	spot.TimeOut = "12:00"
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "10:00", "11:00"),
		block("b2", "lang-k", "11:00", "12:00"),
	})

	if dec.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q", dec.Intent)
	}
	if id, ok := dec.BlockID(); !ok || id != "b1" {
		t.Errorf("primary block = %q, %v", id, ok)
	}
	if dec.Attention {
		t.Error("small single-language span should not be flagged")
	}
}

func TestClassifyChineseFamilySpan(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.LanguageHint = strPtr("M/C")
	spot.TimeIn = "19:00"
	spot.TimeOut = "21:00"
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-c", "19:00", "20:00"),
		block("b2", "lang-m", "20:00", "21:00"),
	})

	// Mandarin plus Cantonese is one audience family, not a
	// multi-language buy.
	if dec.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q, want language_specific", dec.Intent)
	}
	if id, ok := dec.BlockID(); !ok || id != "b1" {
		t.Errorf("primary block = %q, %v", id, ok)
	}
}

func TestClassifyWideSpanFlagged(t *testing.T) {
	c := NewClassifier(testLanguages())

	blocks := []domain.LanguageBlock{
		block("b1", "lang-k", "08:00", "09:00"),
		block("b2", "lang-k", "09:00", "10:00"),
		block("b3", "lang-k", "10:00", "11:00"),
		block("b4", "lang-k", "11:00", "12:00"),
	}
	spot := testSpot()
	spot.TimeIn = "08:00"
	spot.TimeOut = "12:00"
	dec := c.Classify(spot, "sched-1", blocks)

	if dec.Intent != domain.IntentLanguageSpecific {
		t.Errorf("intent = %q", dec.Intent)
	}
	if !dec.Attention {
		t.Error("span over more than three blocks must be flagged")
	}
}

func TestClassifyPrimaryBlockPrefersHint(t *testing.T) {
	c := NewClassifier(testLanguages())

	spot := testSpot()
	spot.LanguageHint = strPtr("V")
	spot.TimeIn = "10:00"
	spot.TimeOut = "13:00"
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "10:00", "11:00"),
		block("b2", "lang-v", "11:00", "12:00"),
		block("b3", "lang-t", "12:00", "13:00"),
	})

	if !dec.Spanning() {
		t.Fatal("decision should span")
	}
	a := dec.Assignment("spot-1", spot.AirDate)
	if a.PrimaryBlockID == nil || *a.PrimaryBlockID != "b2" {
		t.Errorf("primary = %v, want b2", a.PrimaryBlockID)
	}
}

func TestClassifyROSCampaign(t *testing.T) {
	c := NewClassifier(testLanguages())

	// A 17-hour booking is run-of-schedule even across few blocks.
	spot := testSpot()
	spot.TimeIn = "06:00"
	spot.TimeOut = "23:00"
	dec := c.Classify(spot, "sched-1", []domain.LanguageBlock{
		block("b1", "lang-k", "06:00", "14:00"),
		block("b2", "lang-v", "14:00", "23:00"),
	})

	if dec.Campaign != domain.CampaignROS {
		t.Errorf("campaign = %q, want ros", dec.Campaign)
	}
}
