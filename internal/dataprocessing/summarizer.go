package dataprocessing

import (
	"sort"

	"growlab/pkg/contracts/domain"
)

// Summarizer computes the grouped aggregates every view consumes. All methods
// are pure functions of the loaded maps; nothing here touches the filesystem
// or mutates its inputs, so aggregates can be recomputed per request from the
// cached raw tables.
type Summarizer struct{}

// NewSummarizer creates a summarizer.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// SchoolAverages computes per-school scalar means over the environment
// records for the selected schools. A nil or empty selection means every
// loaded school, in the fixed presentation order; missing schools degrade by
// omission. Explicitly naming a school that was never loaded is an error:
// averaging a phantom empty series would misrepresent the comparison.
func (s *Summarizer) SchoolAverages(env map[domain.School][]domain.EnvironmentRecord, selected []domain.School) ([]domain.EnvironmentAverages, error) {
	schools, err := resolveSelection(env, selected)
	if err != nil {
		return nil, err
	}

	averages := make([]domain.EnvironmentAverages, 0, len(schools))
	for _, school := range schools {
		records := env[school]
		if len(records) == 0 {
			continue
		}

		var temp, hum, ph, ec float64
		for _, r := range records {
			temp += r.Temperature
			hum += r.Humidity
			ph += r.PH
			ec += r.EC
		}
		n := float64(len(records))

		targetEC, _ := domain.TargetEC(school)
		averages = append(averages, domain.EnvironmentAverages{
			School:      school,
			TargetEC:    targetEC,
			Temperature: temp / n,
			Humidity:    hum / n,
			PH:          ph / n,
			EC:          ec / n,
			Readings:    len(records),
		})
	}

	return averages, nil
}

// GlobalEnvironment computes population-weighted means of temperature and
// humidity over the union of every loaded school's readings. Schools with
// more readings weigh proportionally more; this is not a mean of per-school
// means.
func (s *Summarizer) GlobalEnvironment(env map[domain.School][]domain.EnvironmentRecord) domain.GlobalEnvironment {
	var temp, hum float64
	var n int
	for _, records := range env {
		for _, r := range records {
			temp += r.Temperature
			hum += r.Humidity
		}
		n += len(records)
	}

	if n == 0 {
		return domain.GlobalEnvironment{}
	}
	return domain.GlobalEnvironment{
		Temperature: temp / float64(n),
		Humidity:    hum / float64(n),
		Readings:    n,
	}
}

// GroupByEC computes the growth means per target EC level over the union of
// all growth records. Records without a target EC (unmapped sheets) are
// excluded. Groups are returned sorted by EC ascending.
func (s *Summarizer) GroupByEC(growth map[domain.School][]domain.GrowthRecord) []domain.ECGroupSummary {
	type accumulator struct {
		weight, leaves, shoot float64
		n                     int
	}
	groups := make(map[float64]*accumulator)

	for _, records := range growth {
		for _, r := range records {
			if r.TargetEC == nil {
				continue
			}
			acc := groups[*r.TargetEC]
			if acc == nil {
				acc = &accumulator{}
				groups[*r.TargetEC] = acc
			}
			acc.weight += r.FreshWeight
			acc.leaves += r.LeafCount
			acc.shoot += r.ShootLength
			acc.n++
		}
	}

	summaries := make([]domain.ECGroupSummary, 0, len(groups))
	for ec, acc := range groups {
		n := float64(acc.n)
		summaries = append(summaries, domain.ECGroupSummary{
			TargetEC:    ec,
			FreshWeight: acc.weight / n,
			LeafCount:   acc.leaves / n,
			ShootLength: acc.shoot / n,
			Specimens:   acc.n,
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].TargetEC < summaries[j].TargetEC })

	return summaries
}

// OptimalEC returns the EC level whose mean fresh weight is highest. Exact
// ties resolve to the lowest EC value so the selection is deterministic. The
// boolean is false when no group carries a target EC.
func (s *Summarizer) OptimalEC(groups []domain.ECGroupSummary) (float64, bool) {
	if len(groups) == 0 {
		return 0, false
	}

	best := groups[0]
	for _, g := range groups[1:] {
		if g.FreshWeight > best.FreshWeight ||
			(g.FreshWeight == best.FreshWeight && g.TargetEC < best.TargetEC) {
			best = g
		}
	}
	return best.TargetEC, true
}

// Overview assembles the experiment front-page summary: one row per loaded
// growth sheet belonging to the fixed school set, the total specimen count,
// the global environment means, and the optimal EC.
func (s *Summarizer) Overview(env map[domain.School][]domain.EnvironmentRecord, growth map[domain.School][]domain.GrowthRecord) domain.Overview {
	overview := domain.Overview{
		Environment: s.GlobalEnvironment(env),
	}

	for _, info := range domain.Schools {
		records, ok := growth[info.Name]
		if !ok {
			continue
		}
		overview.Rows = append(overview.Rows, domain.OverviewRow{
			School:    info.Name,
			TargetEC:  info.TargetEC,
			Specimens: len(records),
			Color:     info.Color,
		})
		overview.TotalSpecimens += len(records)
	}

	if ec, ok := s.OptimalEC(s.GroupByEC(growth)); ok {
		overview.OptimalEC = ec
	}

	return overview
}

// resolveSelection expands a view-level school filter. Nil/empty selections
// expand to every loaded school in presentation order; explicit selections
// are validated against the loaded map.
func resolveSelection(env map[domain.School][]domain.EnvironmentRecord, selected []domain.School) ([]domain.School, error) {
	if len(selected) == 0 {
		var schools []domain.School
		for _, info := range domain.Schools {
			if _, ok := env[info.Name]; ok {
				schools = append(schools, info.Name)
			}
		}
		return schools, nil
	}

	for _, school := range selected {
		if _, ok := env[school]; !ok {
			return nil, &MissingSchoolError{School: school}
		}
	}
	return selected, nil
}
