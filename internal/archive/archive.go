// Package archive extracts 7z site exports. Extraction resumes per entry: an
// entry whose destination file already has the declared uncompressed size is
// not written again.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// Progress reports cumulative uncompressed bytes against the archive total.
type Progress func(done, total int64)

// Stem returns the extraction directory for an archive path: the archive's
// path with its extension removed ("data/acme.7z" -> "data/acme").
func Stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Extract unpacks the archive at path into dest, creating directories along
// entry paths as needed.
func Extract(ctx context.Context, path, dest string, progress Progress) error {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	var total int64
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			total += int64(f.UncompressedSize)
		}
	}

	var done int64
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		size := int64(f.UncompressedSize)
		if skipEntry(target, size) {
			done += size
			if progress != nil {
				progress(done, total)
			}
			continue
		}

		n, err := writeEntry(f, target, done, total, progress)
		done += n
		if err != nil {
			return err
		}
	}
	return nil
}

// entryPath joins an entry name under dest, rejecting names that would
// escape it.
func entryPath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

// skipEntry reports whether a previous run already produced this entry.
func skipEntry(target string, size int64) bool {
	fi, err := os.Stat(target)
	return err == nil && fi.Mode().IsRegular() && fi.Size() == size
}

func writeEntry(f *sevenzip.File, target string, done, total int64, progress Progress) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", target, err)
	}
	defer func() { _ = out.Close() }()

	var written int64
	buf := make([]byte, 1<<20)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return written, fmt.Errorf("write %s: %w", target, werr)
			}
			written += int64(n)
			if progress != nil {
				progress(done+written, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
	}

	if err := out.Close(); err != nil {
		return written, fmt.Errorf("close %s: %w", target, err)
	}
	return written, nil
}
