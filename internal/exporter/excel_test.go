package exporter

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"growlab/pkg/contracts/domain"
)

func sampleEnvironment() map[domain.School][]domain.EnvironmentRecord {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return map[domain.School][]domain.EnvironmentRecord{
		domain.SchoolSongdo: {
			{Time: base, Temperature: 18.5, Humidity: 61.25, PH: 6.1, EC: 1.1, School: domain.SchoolSongdo},
			{Time: base.Add(time.Hour), Temperature: 19, Humidity: 60.5, PH: 6, EC: 0.9, School: domain.SchoolSongdo},
		},
		domain.SchoolHaneul: {
			{Time: base, Temperature: 21, Humidity: 55, PH: 5.9, EC: 2.1, School: domain.SchoolHaneul},
		},
	}
}

func sampleGrowth() map[domain.School][]domain.GrowthRecord {
	ec1, ec2 := 1.0, 2.0
	return map[domain.School][]domain.GrowthRecord{
		domain.SchoolSongdo: {
			{FreshWeight: 5.2, LeafCount: 11, ShootLength: 120, School: domain.SchoolSongdo, TargetEC: &ec1,
				Extra: map[string]string{"개체번호": "S-01"}},
		},
		domain.SchoolHaneul: {
			{FreshWeight: 9.1, LeafCount: 14, ShootLength: 150, School: domain.SchoolHaneul, TargetEC: &ec2},
		},
		domain.School("신설고"): {
			{FreshWeight: 7.5, LeafCount: 12, ShootLength: 130, School: domain.School("신설고")},
		},
	}
}

func TestExcelWriter_EnvironmentRoundTrip(t *testing.T) {
	env := sampleEnvironment()

	var buf bytes.Buffer
	require.NoError(t, NewExcelWriter(nil).WriteEnvironment(&buf, env))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(EnvironmentSheet)
	require.NoError(t, err)

	// Header plus one row per record across every school.
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"time", "temperature", "humidity", "ph", "ec", "school"}, rows[0])

	// Row values survive the round trip. Songdo precedes Haneul in the
	// fixed presentation order.
	assert.Equal(t, "2024-03-01 09:00:00", rows[1][0])
	assertCellFloat(t, rows[1][1], 18.5)
	assertCellFloat(t, rows[1][2], 61.25)
	assert.Equal(t, string(domain.SchoolSongdo), rows[1][5])
	assert.Equal(t, string(domain.SchoolHaneul), rows[3][5])
}

func TestExcelWriter_GrowthExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelWriter(nil).WriteGrowth(&buf, sampleGrowth()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(GrowthSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		domain.GrowthColFreshWeight, domain.GrowthColLeafCount, domain.GrowthColShootLength,
		"school", "target_ec", "개체번호",
	}, rows[0])

	// Known schools in fixed order first, then the unmapped sheet.
	assert.Equal(t, string(domain.SchoolSongdo), rows[1][3])
	assertCellFloat(t, rows[1][4], 1.0)
	assert.Equal(t, "S-01", rows[1][5])

	assert.Equal(t, string(domain.SchoolHaneul), rows[2][3])

	// The unmapped sheet exports with an empty target EC cell.
	assert.Equal(t, "신설고", rows[3][3])
	if len(rows[3]) > 4 {
		assert.Empty(t, rows[3][4])
	}
}

func TestExcelWriter_SaveEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/exports/환경데이터.xlsx"

	require.NoError(t, NewExcelWriter(nil).SaveEnvironment(path, sampleEnvironment()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(EnvironmentSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "환경데이터_20240301T090000.xlsx", ExportFilename("환경데이터", at, "xlsx"))
}

// assertCellFloat compares a cell's text against a float, tolerating the
// formatting excelize applies to numeric cells.
func assertCellFloat(t *testing.T, cell string, want float64) {
	t.Helper()
	v, err := strconv.ParseFloat(cell, 64)
	require.NoError(t, err)
	assert.InDelta(t, want, v, 1e-9)
}
