package domain

import (
	"sort"
)

// GrowthRecord is one harvested-plant measurement row from the growth
// workbook. TargetEC is derived from the fixed School→EC mapping at load
// time, never from the measured EC in the environment data, and is nil when
// the record's sheet name is not a known school.
type GrowthRecord struct {
	FreshWeight float64  `json:"fresh_weight"`
	LeafCount   float64  `json:"leaf_count"`
	ShootLength float64  `json:"shoot_length"`
	School      School   `json:"school"`
	TargetEC    *float64 `json:"target_ec,omitempty"`

	// Extra holds any workbook columns beyond the required three, keyed by
	// their original header text. Preserved for raw exports only.
	Extra map[string]string `json:"extra,omitempty"`
}

// Required growth workbook column headers, as written by the measurement
// protocol the schools share.
const (
	GrowthColFreshWeight = "생중량(g)"
	GrowthColLeafCount   = "잎 수(장)"
	GrowthColShootLength = "지상부 길이(mm)"
)

// GrowthColumns is the minimum header set every growth workbook sheet must
// provide.
var GrowthColumns = []string{GrowthColFreshWeight, GrowthColLeafCount, GrowthColShootLength}

// ConcatGrowth flattens a per-school map into one sequence: known schools in
// presentation order first, then any unmapped sheets in lexicographic order.
// Unmapped sheets stay visible in the unified table even though they carry no
// target EC.
func ConcatGrowth(bySchool map[School][]GrowthRecord) []GrowthRecord {
	var all []GrowthRecord
	seen := make(map[School]bool, len(Schools))
	for _, s := range Schools {
		all = append(all, bySchool[s.Name]...)
		seen[s.Name] = true
	}

	var extras []School
	for school := range bySchool {
		if !seen[school] {
			extras = append(extras, school)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	for _, school := range extras {
		all = append(all, bySchool[school]...)
	}
	return all
}
