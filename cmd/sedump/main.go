// Command sedump ingests Stack Exchange site exports into SQLite.
//
//	sedump run            download, extract and load every site in site.list
//	sedump load XML DB    load a single extracted dump file
//	sedump dump DB TABLE  print a loaded table back as JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecorbel/sedump/internal/archive"
	"github.com/ecorbel/sedump/internal/config"
	"github.com/ecorbel/sedump/internal/display"
	"github.com/ecorbel/sedump/internal/download"
	"github.com/ecorbel/sedump/internal/entity"
	"github.com/ecorbel/sedump/internal/manifest"
	"github.com/ecorbel/sedump/internal/pipeline"
	"github.com/ecorbel/sedump/internal/platform/sqlite"
	"github.com/ecorbel/sedump/internal/sqlcodec"
	"github.com/ecorbel/sedump/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "sedump",
		Short:         "Ingest Stack Exchange data dumps into SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the full download/extract/load pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &cfg)
			return runPipeline(cmd.Context(), cmd, cfg)
		},
	}
	run.Flags().StringP("data-path", "d", "", "where to store archives and extracted files")
	run.Flags().StringP("site-list", "s", "", "site list file")
	run.Flags().String("db", "", "sqlite database file")
	run.Flags().IntP("concurrency", "n", 0, "maximum jobs running at once")

	load := &cobra.Command{
		Use:   "load XML_FILE DB_FILE",
		Short: "Load one extracted dump file into its table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), args[0], args[1])
		},
	}

	dump := &cobra.Command{
		Use:   "dump DB_FILE TABLE",
		Short: "Print a loaded table as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), args[0], args[1])
		},
	}

	root.AddCommand(run, load, dump)
	return root
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("data-path") {
		cfg.DataPath, _ = cmd.Flags().GetString("data-path")
	}
	if cmd.Flags().Changed("site-list") {
		cfg.SiteList, _ = cmd.Flags().GetString("site-list")
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
}

func runPipeline(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return fmt.Errorf("create data path: %w", err)
	}

	// The terminal belongs to the progress bars; slog goes to a file.
	logFile, err := os.OpenFile(filepath.Join(cfg.DataPath, "sedump.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	entries, err := resolveEntries(cmd, cfg)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("nothing to do: no site list and no archives found")
		return nil
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	writer := store.NewWriter(db.DB)

	jobs := make([]*pipeline.Job, len(entries))
	for i, e := range entries {
		jobs[i] = pipeline.NewJob(e.Name, e.URL, filepath.Join(cfg.DataPath, e.Name))
	}

	client := download.New()
	stages := pipeline.Stages{
		Download: func(ctx context.Context, url, dest string, p func(done, total int64)) error {
			return client.Fetch(ctx, url, dest, download.Progress(p))
		},
		Extract: func(ctx context.Context, path, dest string, p func(done, total int64)) error {
			return archive.Extract(ctx, path, dest, archive.Progress(p))
		},
		Parse: pipeline.ParseStage(writer),
	}
	runner := pipeline.NewRunner(stages, cfg.Concurrency, jobs)

	displayCtx, stopDisplay := context.WithCancel(context.Background())
	displayDone := make(chan struct{})
	go func() {
		display.Run(displayCtx, os.Stdout, runner, 100*time.Millisecond)
		close(displayDone)
	}()

	runner.Run(ctx)

	stopDisplay()
	<-displayDone

	done, failed := runner.Summary()
	fmt.Printf("%d done, %d failed\n", done, failed)
	for _, s := range runner.Snapshot() {
		if s.State.Kind == pipeline.StateError {
			fmt.Printf("  %s: %s\n", s.Name, s.State.Err)
		}
	}
	return ctx.Err()
}

// resolveEntries picks the job source: an explicitly requested site list must
// exist; the default site list is used when present; otherwise leftover
// archives under the data path become URL-less jobs.
func resolveEntries(cmd *cobra.Command, cfg config.Config) ([]manifest.Entry, error) {
	explicit := cmd.Flags().Changed("site-list") || os.Getenv("SEDUMP_SITE_LIST") != ""
	if _, err := os.Stat(cfg.SiteList); err == nil || explicit {
		return manifest.ParseFile(cfg.SiteList)
	}
	return manifest.ScanDir(cfg.DataPath)
}

func runLoad(ctx context.Context, xmlPath, dbPath string) error {
	kind, ok := entity.KindForFile(filepath.Base(xmlPath))
	if !ok {
		return fmt.Errorf("%s is not a known dump file", filepath.Base(xmlPath))
	}
	site := filepath.Base(filepath.Dir(xmlPath))
	table := entity.TableName(site, kind.Name)

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	writer := store.NewWriter(db.DB)

	exists, err := writer.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("table %s already exists, nothing to do\n", table)
		return nil
	}

	n, err := pipeline.LoadFile(ctx, writer, table, xmlPath, kind)
	if err != nil {
		return err
	}
	fmt.Printf("%d entries.\n", n)
	return nil
}

func runDump(ctx context.Context, dbPath, table string) error {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	writer := store.NewWriter(db.DB)

	cols, rows, err := writer.ReadTable(ctx, table)
	if err != nil {
		return err
	}

	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		obj := make(map[string]any, len(cols))
		for j, col := range cols {
			obj[sqlcodec.AttrName(col)] = row[j].Arg()
		}
		out[i] = obj
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
