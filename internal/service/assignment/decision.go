package assignment

import (
	"time"

	"github.com/crossings/gridlight/internal/domain"
)

// spanKind tags how a decision maps onto the grid. Decisions are only
// built through the constructors below so the illegal combinations
// (spanning with a single block id, coverage with no schedule) cannot
// be expressed.
type spanKind int

const (
	spanNone spanKind = iota
	spanSingle
	spanMulti
)

// Decision is the finalized outcome of the pipeline for one spot.
type Decision struct {
	Intent      domain.CustomerIntent
	Campaign    domain.CampaignType
	Method      domain.AssignmentMethod
	Confidence  float64
	RuleApplied string // business-rule name or pattern tag, "" when none
	Attention   bool
	AlertReason string
	ScheduleID  string // "" when the grid was never resolved

	kind    spanKind
	blockID string
	blocks  []string
	primary string
}

// ResolvedDecision builds a single-block outcome.
func ResolvedDecision(intent domain.CustomerIntent, scheduleID, blockID string) Decision {
	return Decision{
		Intent:     intent,
		Campaign:   domain.CampaignLanguageSpecific,
		Method:     domain.MethodAutoComputed,
		Confidence: 1.0,
		ScheduleID: scheduleID,
		kind:       spanSingle,
		blockID:    blockID,
	}
}

// SpanningDecision builds a multi-block outcome with a primary block.
func SpanningDecision(intent domain.CustomerIntent, scheduleID string, blockIDs []string, primary string) Decision {
	return Decision{
		Intent:     intent,
		Method:     domain.MethodAutoComputed,
		Confidence: 1.0,
		ScheduleID: scheduleID,
		kind:       spanMulti,
		blocks:     blockIDs,
		primary:    primary,
	}
}

// NoCoverageDecision builds a no-grid-coverage outcome. scheduleID may
// be "" when the schedule lookup itself failed; the writer skips those.
func NoCoverageDecision(scheduleID, reason string) Decision {
	return Decision{
		Intent:      domain.IntentNoGridCoverage,
		Campaign:    domain.CampaignMultiLanguage,
		Method:      domain.MethodNoGridCoverage,
		Attention:   true,
		AlertReason: reason,
		ScheduleID:  scheduleID,
		kind:        spanNone,
	}
}

// RuleBasedDecision builds an outcome decided by a sector business rule
// before the grid was consulted.
func RuleBasedDecision(rule domain.BusinessRule) Decision {
	d := Decision{
		Intent:      rule.ResultingIntent,
		Campaign:    campaignForIntent(rule.ResultingIntent),
		Method:      domain.MethodBusinessRule,
		Confidence:  1.0,
		RuleApplied: rule.Name,
		kind:        spanNone,
	}
	if !rule.AutoResolve {
		d.Confidence = 0.8
		d.Attention = true
		d.AlertReason = "flagged by business rule " + rule.Name
	}
	return d
}

func campaignForIntent(intent domain.CustomerIntent) domain.CampaignType {
	switch intent {
	case domain.IntentLanguageSpecific, domain.IntentTimeSpecific:
		return domain.CampaignLanguageSpecific
	default:
		return domain.CampaignMultiLanguage
	}
}

// BlockID returns the single resolved block, if any.
func (d *Decision) BlockID() (string, bool) {
	if d.kind == spanSingle {
		return d.blockID, true
	}
	return "", false
}

// Blocks returns the spanned block ids for multi-block outcomes.
func (d *Decision) Blocks() []string {
	if d.kind == spanMulti {
		return d.blocks
	}
	return nil
}

// Spanning reports whether the decision spans multiple blocks.
func (d *Decision) Spanning() bool { return d.kind == spanMulti }

// Assignment materializes the decision as the output row for spotID.
func (d *Decision) Assignment(spotID string, now time.Time) *domain.Assignment {
	a := &domain.Assignment{
		SpotID:            spotID,
		CustomerIntent:    d.Intent,
		Confidence:        d.Confidence,
		AssignmentMethod:  d.Method,
		RequiresAttention: d.Attention,
		CampaignType:      d.Campaign,
		AssignedDate:      now,
	}
	if d.ScheduleID != "" {
		sid := d.ScheduleID
		a.ScheduleID = &sid
	}
	switch d.kind {
	case spanSingle:
		bid := d.blockID
		a.BlockID = &bid
	case spanMulti:
		a.SpansMultipleBlocks = true
		a.BlocksSpanned = append([]string(nil), d.blocks...)
		if d.primary != "" {
			p := d.primary
			a.PrimaryBlockID = &p
		}
	}
	if d.RuleApplied != "" {
		r := d.RuleApplied
		a.BusinessRuleApplied = &r
	}
	if d.Attention {
		reason := d.AlertReason
		if reason == "" {
			reason = "requires manual review"
		}
		a.AlertReason = &reason
	}
	return a
}
