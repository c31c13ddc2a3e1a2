package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// runStats counts per-file outcomes of a run. In dry-run mode Renamed counts
// previewed renames.
type runStats struct {
	Files     int
	Renamed   int
	Unchanged int
	Broken    int
	Failed    int
	Skipped   int
}

func (s runStats) ok() bool {
	return s.Broken == 0 && s.Failed == 0
}

// run scans cli.Path and renames (or previews) every book found. Per-file
// problems are logged and counted; only traversal failures and cancellation
// are returned as errors.
func run(ctx context.Context, cli *CLI, cfg *Config, out io.Writer, logger zerolog.Logger) (runStats, error) {
	var stats runStats

	entries, err := walkFiles(cli.Path, cli.MaxDepth)
	if err != nil {
		return stats, fmt.Errorf("failed to scan %s: %w", cli.Path, err)
	}
	logger.Info().Str("path", cli.Path).Int("count", len(entries)).Bool("dry_run", cli.DryRun).Msg("Found books")

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Renaming"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(terminalFeature(cli.Progress, os.Stderr)),
	)
	defer func() { _ = bar.Finish() }()

	r := newRenamer(cli.DryRun, out)
	err = buildRecords(ctx, entries, cfg.Patterns, cli.Jobs, func(rec FileRecord) {
		stats.handle(rec, r, cli.SkipModified, logger)
		_ = bar.Add(1)
	})

	logger.Info().
		Int("files", stats.Files).
		Int("renamed", stats.Renamed).
		Int("unchanged", stats.Unchanged).
		Int("broken", stats.Broken).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Msg("Summary")
	return stats, err
}

// handle applies one record and updates the counters.
func (s *runStats) handle(rec FileRecord, r *renamer, skipModified bool, logger zerolog.Logger) {
	s.Files++
	fileLog := logger.With().Str("path", rec.Path).Logger()

	if rec.Broken != nil {
		s.Broken++
		fileLog.Warn().Err(rec.Broken).Msg("Skipping broken file")
		return
	}

	fileLog.Debug().
		Strs("titles", rec.RawTitles).
		Strs("authors", rec.RawAuthors).
		Bool("modified", rec.Modified).
		Str("name", rec.Name).
		Msg("Computed name")

	if skipModified && rec.Modified && targetPath(rec) != rec.Path {
		s.Skipped++
		fileLog.Info().Str("name", rec.Name).Msg("Metadata needed cleaning, leaving file for manual review")
		return
	}

	res, err := r.apply(rec)
	if err != nil {
		s.Failed++
		fileLog.Error().Err(err).Msg("Failed to rename file")
		return
	}
	switch res {
	case renameDone:
		s.Renamed++
	default:
		s.Unchanged++
	}
}

// buildRecords resolves each entry's template, builds its record and hands
// it to fn in entry order. With jobs > 1 records are built concurrently, but
// fn is still called sequentially and in order.
func buildRecords(ctx context.Context, entries []fileEntry, rules []NamingRule, jobs int, fn func(FileRecord)) error {
	build := func(entry fileEntry) FileRecord {
		return buildRecord(entry, resolveTemplate(entry.RelDir, rules))
	}

	if jobs <= 1 {
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(build(entry))
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan FileRecord, len(entries))
	for i := range results {
		results[i] = make(chan FileRecord, 1)
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			g.Go(func() error {
				results[i] <- build(entry)
				return nil
			})
		}
	}()

	var err error
consume:
	for i := range entries {
		select {
		case rec := <-results[i]:
			fn(rec)
		case <-ctx.Done():
			err = ctx.Err()
			break consume
		}
	}

	cancel()
	<-launched
	if waitErr := g.Wait(); err == nil {
		err = waitErr
	}
	return err
}
