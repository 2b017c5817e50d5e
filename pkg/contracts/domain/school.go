package domain

// School identifies one experimental group. Each participating school grows
// the same crop under a different target nutrient concentration (EC), so the
// school label doubles as the experiment's treatment label.
type School string

const (
	SchoolSongdo  School = "송도고"
	SchoolHaneul  School = "하늘고"
	SchoolAra     School = "아라고"
	SchoolDongsan School = "동산고"
)

// SchoolInfo carries the fixed per-school experiment parameters.
type SchoolInfo struct {
	Name     School  `json:"name" validate:"required"`
	TargetEC float64 `json:"target_ec" validate:"required,gt=0"`
	Color    string  `json:"color" validate:"required,hexcolor"`
}

// Schools lists every experimental group in presentation order, with its
// assigned target EC and display color. Fixed at compile time; the loaders
// and the aggregation layer treat this as the single source of truth.
var Schools = []SchoolInfo{
	{Name: SchoolSongdo, TargetEC: 1.0, Color: "#1f77b4"},
	{Name: SchoolHaneul, TargetEC: 2.0, Color: "#2ca02c"},
	{Name: SchoolAra, TargetEC: 4.0, Color: "#ff7f0e"},
	{Name: SchoolDongsan, TargetEC: 8.0, Color: "#d62728"},
}

// SchoolNames returns the fixed school set in presentation order.
func SchoolNames() []School {
	names := make([]School, 0, len(Schools))
	for _, s := range Schools {
		names = append(names, s.Name)
	}
	return names
}

// TargetEC returns the assigned target EC for a school. The second return is
// false for labels outside the fixed set (e.g. an unexpected workbook sheet).
func TargetEC(school School) (float64, bool) {
	for _, s := range Schools {
		if s.Name == school {
			return s.TargetEC, true
		}
	}
	return 0, false
}

// SchoolColor returns the display color assigned to a school, or an empty
// string for labels outside the fixed set.
func SchoolColor(school School) string {
	for _, s := range Schools {
		if s.Name == school {
			return s.Color
		}
	}
	return ""
}

// IsKnownSchool reports whether the label belongs to the fixed school set.
func IsKnownSchool(school School) bool {
	_, ok := TargetEC(school)
	return ok
}
