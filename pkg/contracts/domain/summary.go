package domain

// EnvironmentAverages holds the per-school scalar means over the environment
// records, plus the number of readings behind them.
type EnvironmentAverages struct {
	School      School  `json:"school"`
	TargetEC    float64 `json:"target_ec"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
	Readings    int     `json:"readings"`
}

// GlobalEnvironment holds population-weighted means over the union of all
// loaded environment records. Schools with more readings weigh proportionally
// more; this is deliberately not a mean of per-school means.
type GlobalEnvironment struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Readings    int     `json:"readings"`
}

// ECGroupSummary holds the growth means for one target EC level, across every
// record that carries that level.
type ECGroupSummary struct {
	TargetEC    float64 `json:"target_ec"`
	FreshWeight float64 `json:"fresh_weight"`
	LeafCount   float64 `json:"leaf_count"`
	ShootLength float64 `json:"shoot_length"`
	Specimens   int     `json:"specimens"`
}

// OverviewRow is one line of the experiment overview table: one school, its
// treatment, and how many specimens it contributed.
type OverviewRow struct {
	School    School  `json:"school"`
	TargetEC  float64 `json:"target_ec"`
	Specimens int     `json:"specimens"`
	Color     string  `json:"color"`
}

// Overview is the experiment-level summary behind the dashboard's front page.
type Overview struct {
	Rows           []OverviewRow     `json:"rows"`
	TotalSpecimens int               `json:"total_specimens"`
	Environment    GlobalEnvironment `json:"environment"`
	OptimalEC      float64           `json:"optimal_ec"`
}
