package assignment

import (
	"fmt"

	"github.com/crossings/gridlight/internal/domain"
)

// Thresholds for deriving the campaign type of an indifferent spot.
const (
	rosDurationMinutes = 1020
	rosBlockCount      = 15
	attentionBlockSpan = 3
)

// Classifier infers the advertiser's intent from the blocks a spot
// overlaps and the language hint the buyer wrote on the order.
type Classifier struct {
	catalog *domain.LanguageCatalog
}

// NewClassifier creates a classifier over the given language catalog.
func NewClassifier(catalog *domain.LanguageCatalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify decides intent for a spot that reached the grid stage.
// scheduleID is the resolved schedule ("" when resolution failed) and
// blocks are the overlapping blocks in start-time order.
func (c *Classifier) Classify(spot *domain.Spot, scheduleID string, blocks []domain.LanguageBlock) Decision {
	if !spot.HasMarket() {
		return NoCoverageDecision("", "no market assignment")
	}
	if scheduleID == "" {
		return NoCoverageDecision("", "no schedule assigned to market")
	}
	if len(blocks) == 0 {
		return NoCoverageDecision(scheduleID, "no language blocks overlap spot window")
	}

	hintIDs := c.catalog.HintLanguageIDs(spot.Hint())

	if len(blocks) == 1 {
		return c.classifySingle(spot, scheduleID, blocks[0], hintIDs)
	}
	return c.classifySpanning(spot, scheduleID, blocks, hintIDs)
}

func (c *Classifier) classifySingle(spot *domain.Spot, scheduleID string, block domain.LanguageBlock, hintIDs map[string]bool) Decision {
	if spot.Hint() != "" && !hintIDs[block.LanguageID] {
		// The buyer asked for a language the grid doesn't air in this
		// window. Honor the window, flag the mismatch.
		d := ResolvedDecision(domain.IntentTimeSpecific, scheduleID, block.ID)
		d.Attention = true
		d.AlertReason = fmt.Sprintf("language hint %q does not match block language", spot.Hint())
		return d
	}
	return ResolvedDecision(domain.IntentLanguageSpecific, scheduleID, block.ID)
}

func (c *Classifier) classifySpanning(spot *domain.Spot, scheduleID string, blocks []domain.LanguageBlock, hintIDs map[string]bool) Decision {
	langIDs := make(map[string]bool)
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		langIDs[b.LanguageID] = true
		ids = append(ids, b.ID)
	}

	primary := primaryBlock(blocks, hintIDs)

	// One language across every block, or all blocks inside the
	// Mandarin/Cantonese family, is still a language-specific buy. It
	// resolves to its primary block rather than spanning.
	if len(langIDs) == 1 || c.catalog.AllChineseFamily(langIDs) {
		d := ResolvedDecision(domain.IntentLanguageSpecific, scheduleID, primary)
		if len(blocks) > attentionBlockSpan {
			d.Attention = true
			d.AlertReason = fmt.Sprintf("spot spans %d language blocks", len(blocks))
		}
		return d
	}

	d := SpanningDecision(domain.IntentIndifferent, scheduleID, ids, primary)
	d.Attention = true
	if spot.DurationMinutes() >= rosDurationMinutes || len(blocks) >= rosBlockCount {
		d.Campaign = domain.CampaignROS
		d.AlertReason = "indifferent spot booked run-of-schedule"
	} else {
		d.Campaign = domain.CampaignMultiLanguage
		d.AlertReason = "indifferent spot booked multi-language"
	}
	return d
}

// primaryBlock applies the tie-break for the primary block: prefer the
// first block matching the hint, otherwise the first by start time.
func primaryBlock(blocks []domain.LanguageBlock, hintIDs map[string]bool) string {
	for _, b := range blocks {
		if hintIDs[b.LanguageID] {
			return b.ID
		}
	}
	return blocks[0].ID
}
