// Package manifest builds the job list: either from a site list file, or by
// scanning a directory for archives left by a previous run.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveExt is the extension of site export bundles.
const ArchiveExt = ".7z"

// Entry is one source to ingest. URL is empty for archives discovered
// locally, in which case the download stage has nothing to do.
type Entry struct {
	Name string
	URL  string
}

// Parse reads entries from a site list. One entry per line,
// "<local_name> <url>", blank lines and #-comments ignored. A line with the
// wrong field count is an error; a bad manifest should stop the run before
// any job starts.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<name> <url>\", got %d fields", lineno, len(fields))
		}
		entries = append(entries, Entry{Name: fields[0], URL: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read site list: %w", err)
	}
	return entries, nil
}

// ParseFile parses the site list at path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site list: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// ScanDir lists pre-downloaded archives under dir as URL-less entries.
func ScanDir(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var entries []Entry
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != ArchiveExt {
			continue
		}
		entries = append(entries, Entry{Name: de.Name()})
	}
	return entries, nil
}
