// Package files resolves logical dataset names to files on disk.
//
// The experiment's input files carry Korean names, and the same name can be
// stored in composed (NFC) or decomposed (NFD) Unicode form depending on the
// OS that produced the file. The Locator normalizes every candidate filename
// to both forms before substring matching, so a dataset is found no matter
// which form the filesystem kept.
//
// Example usage:
//
//	locator := files.NewLocator("/path/to/data")
//	path, found, err := locator.FindByKeyword("생육결과데이터")
//	if err != nil {
//	    // directory unreadable
//	}
//	if !found {
//	    // dataset absent; caller decides whether that is fatal
//	}
package files
