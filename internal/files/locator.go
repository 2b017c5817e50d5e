package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// FileInfo represents information about a discovered data file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Locator resolves logical dataset names to concrete files inside a data
// directory. Korean filenames reach the filesystem in either composed (NFC)
// or decomposed (NFD) Unicode form depending on which OS wrote them, so a
// byte-level substring test against the stored name is unreliable. Every
// candidate name is therefore normalized to both forms before matching.
type Locator struct {
	dir string
}

// NewLocator creates a locator for the given data directory.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir}
}

// Dir returns the directory this locator searches.
func (l *Locator) Dir() string {
	return l.dir
}

// FindByKeyword returns the first file whose name contains keyword under
// either Unicode normalization form. The keyword is assumed to already be in
// a consistent form (Go source literals are NFC). Candidates are sorted
// lexicographically so that a directory holding several matches resolves
// deterministically. The boolean is false when nothing matches; that is not
// an error. Callers decide whether a missing dataset is fatal.
func (l *Locator) FindByKeyword(keyword string) (string, bool, error) {
	if keyword == "" {
		return "", false, fmt.Errorf("keyword must not be empty")
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to read directory %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if nameMatchesKeyword(name, keyword) {
			return filepath.Join(l.dir, name), true, nil
		}
	}

	return "", false, nil
}

// nameMatchesKeyword tests the candidate name against the keyword under both
// canonical normalization forms. The keyword is normalized alongside the name
// so the comparison is form-for-form consistent.
func nameMatchesKeyword(name, keyword string) bool {
	for _, form := range []norm.Form{norm.NFC, norm.NFD} {
		if strings.Contains(form.String(name), form.String(keyword)) {
			return true
		}
	}
	return false
}

// ListDataFiles returns every regular file in the data directory, sorted by
// name. Used by the health endpoint to report what inputs are visible.
func (l *Locator) ListDataFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", l.dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(l.dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}
