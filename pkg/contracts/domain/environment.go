package domain

import (
	"time"
)

// EnvironmentRecord is one sensor reading from a school's growing environment.
// EC here is the measured conductivity of the nutrient solution, which may
// drift from the school's assigned target; comparisons between the two are an
// explicit part of the analysis, so the measured value is never overwritten.
type EnvironmentRecord struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PH          float64   `json:"ph"`
	EC          float64   `json:"ec"`
	School      School    `json:"school"`
}

// EnvironmentColumns is the minimum header set a per-school environment CSV
// must provide. Matching is case-insensitive after trimming.
var EnvironmentColumns = []string{"time", "temperature", "humidity", "ph", "ec"}

// ConcatEnvironment flattens a per-school map into one sequence, ordered by
// the fixed school presentation order so the unified table is deterministic.
// Schools absent from the map are skipped.
func ConcatEnvironment(bySchool map[School][]EnvironmentRecord) []EnvironmentRecord {
	var all []EnvironmentRecord
	for _, s := range Schools {
		all = append(all, bySchool[s.Name]...)
	}
	return all
}
