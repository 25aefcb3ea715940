package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ecorbel/sedump/internal/entity"
	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/store"
	"github.com/ecorbel/sedump/internal/xmlstream"
)

// ParseStage builds the parse stage over a shared writer. For each entity
// kind, in the fixed load order, it either skips the kind when its table
// already exists or streams the extracted file into a fresh table. A missing
// file for a missing table means the extraction was incomplete and fails the
// job.
func ParseStage(w *store.Writer) func(ctx context.Context, site, dir string, progress func(entity string, percent int)) error {
	return func(ctx context.Context, site, dir string, progress func(entity string, percent int)) error {
		for _, kind := range entity.Kinds() {
			if err := ctx.Err(); err != nil {
				return err
			}
			table := entity.TableName(site, kind.Name)
			exists, err := w.TableExists(ctx, table)
			if err != nil {
				return err
			}
			if exists {
				if progress != nil {
					progress(kind.Name, kind.Percent)
				}
				continue
			}

			n, err := LoadFile(ctx, w, table, filepath.Join(dir, kind.File), kind)
			if err != nil {
				return err
			}
			slog.Info("table loaded", "table", table, "rows", n)
			if progress != nil {
				progress(kind.Name, kind.Percent)
			}
		}
		return nil
	}
}

// LoadFile streams one dump file into table using the kind's decoder.
func LoadFile(ctx context.Context, w *store.Writer, table, path string, kind entity.Kind) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	src := &recordSource{
		r:      xmlstream.NewReader(bufio.NewReaderSize(f, 1<<20)),
		decode: kind.Decode,
	}
	return w.LoadTable(ctx, table, src)
}

// recordSource adapts the row stream and a kind's decoder to the writer's
// RecordSource. io.EOF from the reader passes through untouched.
type recordSource struct {
	r      *xmlstream.Reader
	decode func(xmlstream.Row) (sqlcodec.Record, error)
}

func (s *recordSource) Next() (sqlcodec.Record, error) {
	row, err := s.r.Next()
	if err != nil {
		return nil, err
	}
	return s.decode(row)
}
