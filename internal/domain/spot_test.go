package domain

import "testing"

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"00:00:00", 0},
		{"10:30:00", 630},
		{"23:59:00", 1439},
		{"13:00", 780},
		{" 07:15:30 ", 435}, // seconds truncated
		{"", 0},
		{"garbage", 0},
		{"25:00:00", 0},
		{"12:61:00", 0},
		{"-1:30:00", 0},
	}
	for _, tt := range tests {
		if got := MinutesOfDay(tt.clock); got != tt.want {
			t.Errorf("MinutesOfDay(%q) = %d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestSpotDuration(t *testing.T) {
	s := &Spot{TimeIn: "10:00:00", TimeOut: "10:30:00"}
	if got := s.DurationMinutes(); got != 30 {
		t.Errorf("duration = %d, want 30", got)
	}
	if s.CrossesMidnight() {
		t.Error("same-day window should not cross midnight")
	}
}

func TestSpotDurationWrapsMidnight(t *testing.T) {
	s := &Spot{TimeIn: "23:00:00", TimeOut: "01:00:00"}
	if !s.CrossesMidnight() {
		t.Error("expected midnight crossing")
	}
	if got := s.DurationMinutes(); got != 120 {
		t.Errorf("wrapped duration = %d, want 120", got)
	}
}

func TestSpotHintNormalized(t *testing.T) {
	hint := " m/c "
	s := &Spot{LanguageHint: &hint}
	if got := s.Hint(); got != "M/C" {
		t.Errorf("hint = %q, want M/C", got)
	}
	if (&Spot{}).Hint() != "" {
		t.Error("nil hint should be empty")
	}
}

func TestNextDay(t *testing.T) {
	tests := map[string]string{
		"monday":   "tuesday",
		"saturday": "sunday",
		"sunday":   "monday",
		"notaday":  "notaday",
	}
	for day, want := range tests {
		if got := NextDay(day); got != want {
			t.Errorf("NextDay(%q) = %q, want %q", day, got, want)
		}
	}
}

func TestBusinessRuleMatches(t *testing.T) {
	min300 := 300
	max600 := 600
	rule := BusinessRule{
		SectorCodes:        []string{"NPO"},
		MinDurationMinutes: &min300,
		MaxDurationMinutes: &max600,
	}

	if !rule.Matches("NPO", 300) {
		t.Error("min bound should be inclusive")
	}
	if !rule.Matches("npo", 600) {
		t.Error("sector match should be case-insensitive, max inclusive")
	}
	if rule.Matches("NPO", 299) {
		t.Error("below min should not match")
	}
	if rule.Matches("NPO", 601) {
		t.Error("above max should not match")
	}
	if rule.Matches("GOV", 400) {
		t.Error("wrong sector should not match")
	}
	if rule.Matches("", 400) {
		t.Error("missing sector should not match a sector-specific rule")
	}

	anySector := BusinessRule{MinDurationMinutes: &min300}
	if !anySector.Matches("", 400) {
		t.Error("empty sector list should match any sector")
	}
}
