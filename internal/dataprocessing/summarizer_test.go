package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/pkg/contracts/domain"
)

func envRecords(school domain.School, temps ...float64) []domain.EnvironmentRecord {
	records := make([]domain.EnvironmentRecord, 0, len(temps))
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, temp := range temps {
		records = append(records, domain.EnvironmentRecord{
			Time:        base.Add(time.Duration(i) * time.Hour),
			Temperature: temp,
			Humidity:    60,
			PH:          6,
			EC:          1,
			School:      school,
		})
	}
	return records
}

func growthRecords(school domain.School, weights ...float64) []domain.GrowthRecord {
	ec, known := domain.TargetEC(school)
	records := make([]domain.GrowthRecord, 0, len(weights))
	for _, w := range weights {
		rec := domain.GrowthRecord{
			FreshWeight: w,
			LeafCount:   10,
			ShootLength: 100,
			School:      school,
		}
		if known {
			v := ec
			rec.TargetEC = &v
		}
		records = append(records, rec)
	}
	return records
}

func TestSchoolAverages(t *testing.T) {
	env := map[domain.School][]domain.EnvironmentRecord{
		domain.SchoolSongdo: envRecords(domain.SchoolSongdo, 18, 20),
		domain.SchoolHaneul: envRecords(domain.SchoolHaneul, 22),
	}

	s := NewSummarizer()

	t.Run("default selection covers loaded schools in fixed order", func(t *testing.T) {
		averages, err := s.SchoolAverages(env, nil)
		require.NoError(t, err)
		require.Len(t, averages, 2)
		assert.Equal(t, domain.SchoolSongdo, averages[0].School)
		assert.Equal(t, 19.0, averages[0].Temperature)
		assert.Equal(t, 2, averages[0].Readings)
		assert.Equal(t, 1.0, averages[0].TargetEC)
		assert.Equal(t, domain.SchoolHaneul, averages[1].School)
	})

	t.Run("explicit selection of a missing school errors", func(t *testing.T) {
		_, err := s.SchoolAverages(env, []domain.School{domain.SchoolAra})
		require.Error(t, err)
		var missingErr *MissingSchoolError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, domain.SchoolAra, missingErr.School)
	})

	t.Run("explicit subset", func(t *testing.T) {
		averages, err := s.SchoolAverages(env, []domain.School{domain.SchoolHaneul})
		require.NoError(t, err)
		require.Len(t, averages, 1)
		assert.Equal(t, domain.SchoolHaneul, averages[0].School)
	})
}

func TestGlobalEnvironment_PopulationWeighted(t *testing.T) {
	// School A: 10 readings at 20.0, school B: 2 readings at 30.0.
	// Population mean is (10×20 + 2×30)/12 ≈ 21.67, not (20+30)/2 = 25.
	env := map[domain.School][]domain.EnvironmentRecord{
		domain.SchoolSongdo: envRecords(domain.SchoolSongdo, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20),
		domain.SchoolHaneul: envRecords(domain.SchoolHaneul, 30, 30),
	}

	global := NewSummarizer().GlobalEnvironment(env)
	assert.InDelta(t, 21.6667, global.Temperature, 0.001)
	assert.Equal(t, 12, global.Readings)
}

func TestGlobalEnvironment_Empty(t *testing.T) {
	global := NewSummarizer().GlobalEnvironment(nil)
	assert.Zero(t, global.Readings)
	assert.Zero(t, global.Temperature)
}

func TestGroupByEC(t *testing.T) {
	growth := map[domain.School][]domain.GrowthRecord{
		domain.SchoolSongdo:     growthRecords(domain.SchoolSongdo, 5, 5),      // EC 1.0
		domain.SchoolHaneul:     growthRecords(domain.SchoolHaneul, 9, 9, 9),   // EC 2.0
		domain.School("신설고"): growthRecords(domain.School("신설고"), 99), // no target EC
	}

	groups := NewSummarizer().GroupByEC(growth)
	require.Len(t, groups, 2)

	assert.Equal(t, 1.0, groups[0].TargetEC)
	assert.Equal(t, 5.0, groups[0].FreshWeight)
	assert.Equal(t, 2, groups[0].Specimens)

	assert.Equal(t, 2.0, groups[1].TargetEC)
	assert.Equal(t, 9.0, groups[1].FreshWeight)
	assert.Equal(t, 3, groups[1].Specimens)
}

func TestOptimalEC(t *testing.T) {
	s := NewSummarizer()

	tests := []struct {
		name   string
		groups []domain.ECGroupSummary
		wantEC float64
		wantOK bool
	}{
		{
			name: "single maximum",
			groups: []domain.ECGroupSummary{
				{TargetEC: 1.0, FreshWeight: 5.0},
				{TargetEC: 2.0, FreshWeight: 9.5},
				{TargetEC: 4.0, FreshWeight: 9.0},
				{TargetEC: 8.0, FreshWeight: 3.0},
			},
			wantEC: 2.0,
			wantOK: true,
		},
		{
			name: "exact tie resolves to lowest EC",
			groups: []domain.ECGroupSummary{
				{TargetEC: 1.0, FreshWeight: 5.0},
				{TargetEC: 2.0, FreshWeight: 9.0},
				{TargetEC: 4.0, FreshWeight: 9.0},
				{TargetEC: 8.0, FreshWeight: 3.0},
			},
			wantEC: 2.0,
			wantOK: true,
		},
		{
			name:   "no groups",
			groups: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, ok := s.OptimalEC(tt.groups)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantEC, ec)
			}
		})
	}
}

func TestOverview(t *testing.T) {
	env := map[domain.School][]domain.EnvironmentRecord{
		domain.SchoolSongdo: envRecords(domain.SchoolSongdo, 20),
	}
	growth := map[domain.School][]domain.GrowthRecord{
		domain.SchoolSongdo: growthRecords(domain.SchoolSongdo, 5, 5),
		domain.SchoolHaneul: growthRecords(domain.SchoolHaneul, 9),
	}

	overview := NewSummarizer().Overview(env, growth)

	require.Len(t, overview.Rows, 2)
	assert.Equal(t, domain.SchoolSongdo, overview.Rows[0].School)
	assert.Equal(t, 2, overview.Rows[0].Specimens)
	assert.Equal(t, "#1f77b4", overview.Rows[0].Color)
	assert.Equal(t, 3, overview.TotalSpecimens)
	assert.Equal(t, 2.0, overview.OptimalEC)
	assert.Equal(t, 1, overview.Environment.Readings)
}
