package domain

import "strings"

// BusinessRule is a sector/duration override evaluated before the grid
// is consulted. Rules are configuration, built once at engine start;
// lower Priority numbers are evaluated first.
type BusinessRule struct {
	Name               string         `json:"name" yaml:"name"`
	SectorCodes        []string       `json:"sector_codes" yaml:"sector_codes"` // empty matches any sector
	MinDurationMinutes *int           `json:"min_duration_minutes" yaml:"min_duration_minutes"`
	MaxDurationMinutes *int           `json:"max_duration_minutes" yaml:"max_duration_minutes"`
	ResultingIntent    CustomerIntent `json:"resulting_intent" yaml:"resulting_intent"`
	AutoResolve        bool           `json:"auto_resolve" yaml:"auto_resolve"`
	Priority           int            `json:"priority" yaml:"priority"`
}

// Matches reports whether the rule applies to a spot with the given
// sector code and duration. An empty SectorCodes list matches any
// sector, including spots with no sector at all.
func (r *BusinessRule) Matches(sectorCode string, durationMinutes int) bool {
	if len(r.SectorCodes) > 0 {
		found := false
		for _, c := range r.SectorCodes {
			if strings.EqualFold(c, sectorCode) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.MinDurationMinutes != nil && durationMinutes < *r.MinDurationMinutes {
		return false
	}
	if r.MaxDurationMinutes != nil && durationMinutes > *r.MaxDurationMinutes {
		return false
	}
	return true
}
