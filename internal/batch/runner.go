// Package batch coordinates a whole protection run: root validation,
// candidate enumeration, the worker pool, and the end-of-run summary.
// Failures stay isolated to single files; only configuration problems
// abort the run, and those abort before any file is touched.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nroyer/docseal/internal/event"
	"github.com/nroyer/docseal/internal/invoice"
	"github.com/nroyer/docseal/internal/pathutil"
	"github.com/nroyer/docseal/internal/protect"
)

const streamBuffer = 256

// Runner executes one protection run. Construct with NewRunner; a Runner
// is good for a single Run call.
type Runner struct {
	opts   *Options
	probe  protect.Probe
	enc    protect.Encryptor
	stream *event.Stream
}

// NewRunner wires a run with its document collaborators and event sinks.
func NewRunner(opts *Options, probe protect.Probe, enc protect.Encryptor, sinks ...event.Sink) *Runner {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Runner{
		opts:   opts,
		probe:  probe,
		enc:    enc,
		stream: event.NewStream(streamBuffer, sinks...),
	}
}

// Progress returns current run counters (safe for concurrent access).
func (r *Runner) Progress() event.Progress {
	return r.stream.Progress()
}

// Run processes every candidate file under inputDir into outputDir and
// returns the summary. Configuration problems (missing input root, bad
// strategy or policy names) fail before any file is touched. Per-file
// failures are counted, never fatal. The event stream is always drained
// and closed before Run returns.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (protect.Summary, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return r.fail(fmt.Errorf("input directory: %w", err))
	}
	if !info.IsDir() {
		return r.fail(fmt.Errorf("input path %s is not a directory", inputDir))
	}

	parser, err := invoice.ForStrategy(r.opts.Strategy)
	if err != nil {
		return r.fail(err)
	}
	perms, err := protect.PermissionsForPolicy(r.opts.Policy)
	if err != nil {
		return r.fail(err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return r.fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	lock, err := acquireLock(outputDir)
	if err != nil {
		return r.fail(fmt.Errorf("failed to acquire run lock: %w", err))
	}
	defer lock.release()

	files, err := r.enumerate(inputDir, outputDir)
	if err != nil {
		return r.fail(err)
	}

	applier := &protect.Applier{
		Probe:          r.probe,
		Encryptor:      r.enc,
		Parser:         parser,
		Permissions:    perms,
		PasswordLength: r.opts.PasswordLength,
		DeleteSource:   r.opts.DeleteSource,
	}

	workers := r.opts.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan protect.FileRecord)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				if ctx.Err() != nil {
					continue
				}
				r.processOne(applier, rec)
			}
		}()
	}

feed:
	for _, rec := range files {
		select {
		case jobs <- rec:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	sum := r.stream.Close(int64(len(files)))
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// processOne takes one record to a terminal state and publishes the
// outcome. The output subdirectory is created here so an interrupted run
// never leaves directories for files that were not reached.
func (r *Runner) processOne(applier *protect.Applier, rec protect.FileRecord) {
	if err := os.MkdirAll(filepath.Dir(rec.OutputPath), 0755); err != nil {
		r.stream.PublishResult(rec.Rel, protect.Result{
			Outcome: protect.OutcomeError,
			Err:     fmt.Errorf("failed to create output directory: %w", err),
		})
		return
	}
	r.stream.PublishResult(rec.Rel, applier.Process(rec))
}

// enumerate walks inputDir collecting candidate files in lexical order.
// Candidates are regular files whose extension matches (symlinks and
// specials are skipped), each mapped to its mirrored output path.
// Unreadable subdirectories are surfaced as warnings and skipped; an
// unreadable root is fatal.
func (r *Runner) enumerate(inputDir, outputDir string) ([]protect.FileRecord, error) {
	var files []protect.FileRecord
	cleanOut := filepath.Clean(outputDir)

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inputDir {
				return fmt.Errorf("failed to read input directory: %w", err)
			}
			r.stream.Publish(event.Event{
				Kind:    event.KindWarning,
				Rel:     r.relOf(inputDir, path),
				Message: fmt.Sprintf("could not read %s", r.relOf(inputDir, path)),
				Err:     err,
			})
			return nil
		}

		if d.IsDir() {
			if path == inputDir {
				return nil
			}
			// The output tree may be nested inside the input tree; never
			// enumerate our own outputs.
			if filepath.Clean(path) == cleanOut {
				return fs.SkipDir
			}
			if !r.opts.Recursive {
				return fs.SkipDir
			}
			if r.opts.ShouldExclude(r.relOf(inputDir, path)) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), r.opts.Ext) {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(rel)
		if r.opts.ShouldExclude(slashRel) {
			return nil
		}

		outPath, err := pathutil.DestPath(outputDir, rel)
		if err != nil {
			r.stream.Publish(event.Event{
				Kind:    event.KindWarning,
				Rel:     slashRel,
				Message: fmt.Sprintf("skipping %s", slashRel),
				Err:     err,
			})
			return nil
		}

		files = append(files, protect.FileRecord{
			InputPath:  path,
			Rel:        slashRel,
			OutputPath: outPath,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *Runner) relOf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// fail closes the stream without publishing and reports a configuration
// error. Nothing has been written when fail runs.
func (r *Runner) fail(err error) (protect.Summary, error) {
	r.stream.Close(0)
	return protect.Summary{}, err
}
