package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnvironmentLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "송도고_환경데이터.csv",
		"time,temperature,humidity,ph,ec\n"+
			"2024-03-01 09:00:00,18.5,61.2,6.1,1.1\n"+
			"2024-03-01 10:00:00,19.0,60.8,6.0,0.9\n")
	writeCSV(t, dir, "하늘고_환경데이터.csv",
		"time,temperature,humidity,ph,ec\n"+
			"2024-03-01T09:00:00,21.0,55.0,5.9,2.1\n")

	loader := NewEnvironmentLoader(files.NewLocator(dir), nil)
	env, err := loader.Load()
	require.NoError(t, err)

	// Only the two schools with files appear; the others are absent, not
	// present with empty data.
	require.Len(t, env, 2)
	require.Contains(t, env, domain.SchoolSongdo)
	require.Contains(t, env, domain.SchoolHaneul)
	assert.NotContains(t, env, domain.SchoolAra)

	songdo := env[domain.SchoolSongdo]
	require.Len(t, songdo, 2)
	assert.Equal(t, domain.SchoolSongdo, songdo[0].School)
	assert.Equal(t, 18.5, songdo[0].Temperature)
	assert.Equal(t, 61.2, songdo[0].Humidity)
	assert.Equal(t, 6.1, songdo[0].PH)
	assert.Equal(t, 1.1, songdo[0].EC)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), songdo[0].Time)
}

func TestEnvironmentLoader_HeaderVariants(t *testing.T) {
	dir := t.TempDir()
	// Mixed case, padding, a UTF-8 BOM, and an extra column.
	writeCSV(t, dir, "아라고_환경데이터.csv",
		"\uFEFFTime , TEMPERATURE,humidity,pH,EC,notes\n"+
			"2024-03-02,20.0,58.0,6.2,3.8,ok\n")

	loader := NewEnvironmentLoader(files.NewLocator(dir), nil)
	env, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, env[domain.SchoolAra], 1)
	assert.Equal(t, 3.8, env[domain.SchoolAra][0].EC)
}

func TestEnvironmentLoader_MalformedIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    any
	}{
		{
			name:    "missing required column",
			content: "time,temperature,humidity,ph\n2024-03-01,18.0,60.0,6.0\n",
			want:    &SchemaError{},
		},
		{
			name:    "unparseable numeric cell",
			content: "time,temperature,humidity,ph,ec\n2024-03-01,abc,60.0,6.0,1.0\n",
			want:    &ParseError{},
		},
		{
			name:    "unparseable time cell",
			content: "time,temperature,humidity,ph,ec\nyesterday,18.0,60.0,6.0,1.0\n",
			want:    &ParseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCSV(t, dir, "동산고_환경데이터.csv", tt.content)

			loader := NewEnvironmentLoader(files.NewLocator(dir), nil)
			_, err := loader.Load()
			require.Error(t, err)
			switch tt.want.(type) {
			case *SchemaError:
				var schemaErr *SchemaError
				assert.ErrorAs(t, err, &schemaErr)
			case *ParseError:
				var parseErr *ParseError
				assert.ErrorAs(t, err, &parseErr)
			}
		})
	}
}

func TestEnvironmentLoader_SkipsBlankRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "송도고_환경데이터.csv",
		"time,temperature,humidity,ph,ec\n"+
			"2024-03-01,18.0,60.0,6.0,1.0\n"+
			",,,,\n"+
			"2024-03-02,19.0,59.0,6.1,1.2\n")

	loader := NewEnvironmentLoader(files.NewLocator(dir), nil)
	env, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, env[domain.SchoolSongdo], 2)
}

func TestEnvironmentLoader_EmptyDirectory(t *testing.T) {
	loader := NewEnvironmentLoader(files.NewLocator(t.TempDir()), nil)
	env, err := loader.Load()
	require.NoError(t, err)
	assert.Empty(t, env)
}
