package domain

import "time"

// CustomerIntent is the inferred advertiser targeting for a spot.
type CustomerIntent string

const (
	IntentLanguageSpecific CustomerIntent = "language_specific"
	IntentTimeSpecific     CustomerIntent = "time_specific"
	IntentIndifferent      CustomerIntent = "indifferent"
	IntentNoGridCoverage   CustomerIntent = "no_grid_coverage"
)

// CampaignType is the derived billing bucket for a spot.
type CampaignType string

const (
	CampaignLanguageSpecific CampaignType = "language_specific"
	CampaignMultiLanguage    CampaignType = "multi_language"
	CampaignROS              CampaignType = "ros"
)

// AssignmentMethod records which stage of the pipeline produced the
// final decision.
type AssignmentMethod string

const (
	MethodAutoComputed    AssignmentMethod = "auto_computed"
	MethodBusinessRule    AssignmentMethod = "business_rule"
	MethodEnhancedPattern AssignmentMethod = "enhanced_pattern"
	MethodNoGridCoverage  AssignmentMethod = "no_grid_coverage"
)

// Assignment is the one output row per spot. Reprocessing a spot fully
// replaces its prior row.
type Assignment struct {
	SpotID              string           `json:"spot_id" db:"spot_id"`
	ScheduleID          *string          `json:"schedule_id" db:"schedule_id"`
	BlockID             *string          `json:"block_id" db:"block_id"`
	CustomerIntent      CustomerIntent   `json:"customer_intent" db:"customer_intent"`
	Confidence          float64          `json:"confidence" db:"confidence"`
	SpansMultipleBlocks bool             `json:"spans_multiple_blocks" db:"spans_multiple_blocks"`
	BlocksSpanned       []string         `json:"blocks_spanned" db:"blocks_spanned"`
	PrimaryBlockID      *string          `json:"primary_block_id" db:"primary_block_id"`
	AssignmentMethod    AssignmentMethod `json:"assignment_method" db:"assignment_method"`
	BusinessRuleApplied *string          `json:"business_rule_applied" db:"business_rule_applied"`
	RequiresAttention   bool             `json:"requires_attention" db:"requires_attention"`
	AlertReason         *string          `json:"alert_reason" db:"alert_reason"`
	CampaignType        CampaignType     `json:"campaign_type" db:"campaign_type"`
	AssignedDate        time.Time        `json:"assigned_date" db:"assigned_date"`
}

// BatchRun records one orchestrator run and its summary counters.
type BatchRun struct {
	ID         string     `json:"id" db:"id"`
	Mode       string     `json:"mode" db:"mode"`
	Processed  int        `json:"processed" db:"processed"`
	Assigned   int        `json:"assigned" db:"assigned"`
	MultiBlock int        `json:"multi_block" db:"multi_block"`
	NoCoverage int        `json:"no_coverage" db:"no_coverage"`
	Excluded   int        `json:"excluded" db:"excluded"`
	Errors     int        `json:"errors" db:"errors"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
}
