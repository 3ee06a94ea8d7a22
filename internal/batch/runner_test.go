package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nroyer/docseal/internal/event"
	"github.com/nroyer/docseal/internal/protect"
)

// contentProbe classifies by file content prefix so one fake drives every
// scenario: "ENC" means already encrypted, "BAD" means unreadable.
type contentProbe struct{}

func (contentProbe) Inspect(path string) (protect.ProbeStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return protect.StatusUnreadable, err
	}
	switch {
	case bytes.HasPrefix(data, []byte("ENC")):
		return protect.StatusEncrypted, nil
	case bytes.HasPrefix(data, []byte("BAD")):
		return protect.StatusUnreadable, errors.New("malformed header")
	default:
		return protect.StatusPlain, nil
	}
}

// contentEncryptor fails on inputs containing "FAIL" and otherwise writes
// a marked rendition so tests can tell outputs from copies.
type contentEncryptor struct{}

func (contentEncryptor) Encrypt(src, dest, ownerPW string, perms protect.Permissions, fields map[string]string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if bytes.Contains(data, []byte("FAIL")) {
		return errors.New("simulated encryption failure")
	}
	return os.WriteFile(dest, append([]byte("SEALED:"), data...), 0644)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func newRunner(opts *Options, sinks ...event.Sink) *Runner {
	return NewRunner(opts, contentProbe{}, contentEncryptor{}, sinks...)
}

func TestRunProtectsMirroredTree(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 DUPONT.pdf":            "plain one",
		"2024/3001695 MARTIN.pdf":       "plain two",
		"2024/q3/3001696 MING RONG.pdf": "plain three",
		"2024/q3/notes.txt":             "not a candidate",
		"3001697 ALREADY.pdf":           "ENC protected bytes",
	})

	sum, err := newRunner(DefaultOptions().WithRecursive(true)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Found != 4 {
		t.Errorf("Found = %d, want 4", sum.Found)
	}
	if sum.Protected != 3 {
		t.Errorf("Protected = %d, want 3", sum.Protected)
	}
	if sum.SkippedAlreadyProtected != 1 {
		t.Errorf("SkippedAlreadyProtected = %d, want 1", sum.SkippedAlreadyProtected)
	}
	if sum.Errors != 0 {
		t.Errorf("Errors = %d, want 0", sum.Errors)
	}

	// The output tree mirrors the input layout.
	for rel, sealed := range map[string]bool{
		"3001694 DUPONT.pdf":            true,
		"2024/3001695 MARTIN.pdf":       true,
		"2024/q3/3001696 MING RONG.pdf": true,
		"3001697 ALREADY.pdf":           false,
	} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("output %s: %v", rel, err)
		}
		if sealed != bytes.HasPrefix(data, []byte("SEALED:")) {
			t.Errorf("output %s sealed=%v, want %v", rel, !sealed, sealed)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "2024", "q3", "notes.txt")); !os.IsNotExist(err) {
		t.Errorf("non-candidate file leaked into the output tree")
	}
}

func TestRunIdempotence(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 A.pdf":     "plain",
		"sub/3001695 B.pdf": "plain",
		"3001696 C.pdf":     "ENC bytes",
	})

	first, err := newRunner(DefaultOptions().WithRecursive(true)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Protected != 2 || first.SkippedAlreadyProtected != 1 {
		t.Fatalf("first summary: %+v", first)
	}

	before := snapshotTree(t, out)

	second, err := newRunner(DefaultOptions().WithRecursive(true)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Found != 3 || second.SkippedOutputExists != 3 {
		t.Fatalf("second summary: %+v", second)
	}
	if second.Protected != 0 || second.SkippedAlreadyProtected != 0 || second.Errors != 0 {
		t.Fatalf("second run re-did work: %+v", second)
	}

	after := snapshotTree(t, out)
	if len(before) != len(after) {
		t.Fatalf("output tree changed size: %d -> %d", len(before), len(after))
	}
	for rel, content := range before {
		if after[rel] != content {
			t.Errorf("output %s changed between runs", rel)
		}
	}
}

func TestRunResumesPartialRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 A.pdf": "plain a",
		"3001695 B.pdf": "plain b",
		"3001696 C.pdf": "plain c",
	})

	// Simulate a prior run that landed one output before dying.
	writeTree(t, out, map[string]string{
		"3001695 B.pdf": "SEALED:from the first run",
	})

	sum, err := newRunner(DefaultOptions()).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Protected != 2 || sum.SkippedOutputExists != 1 {
		t.Fatalf("summary: %+v", sum)
	}

	data, err := os.ReadFile(filepath.Join(out, "3001695 B.pdf"))
	if err != nil {
		t.Fatalf("read landed output: %v", err)
	}
	if string(data) != "SEALED:from the first run" {
		t.Fatalf("landed output was re-derived: %q", data)
	}
}

func TestRunFailsFastOnMissingInput(t *testing.T) {
	out := t.TempDir()
	sum, err := newRunner(DefaultOptions()).Run(context.Background(), filepath.Join(out, "nope"), out)
	if err == nil {
		t.Fatalf("expected error for missing input directory")
	}
	if sum.Found != 0 {
		t.Fatalf("summary not empty: %+v", sum)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("output dir touched before validation: %v", entries)
	}
}

func TestRunFailsFastOnFileInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(file, []byte("plain"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := newRunner(DefaultOptions()).Run(context.Background(), file, t.TempDir()); err == nil {
		t.Fatalf("expected error for non-directory input")
	}
}

func TestRunFailsFastOnUnknownNames(t *testing.T) {
	in := t.TempDir()
	if _, err := newRunner(DefaultOptions().WithStrategy("frequency")).Run(context.Background(), in, t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
	if _, err := newRunner(DefaultOptions().WithPolicy("everything")).Run(context.Background(), in, t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestRunZeroFiles(t *testing.T) {
	sum, err := newRunner(DefaultOptions()).Run(context.Background(), t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 0 || sum.Protected != 0 || sum.Errors != 0 {
		t.Fatalf("summary: %+v", sum)
	}
}

func TestRunTopLevelOnlyByDefault(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 TOP.pdf":      "plain",
		"sub/3001695 DEEP.pdf": "plain",
	})

	sum, err := newRunner(DefaultOptions()).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 1 || sum.Protected != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(out, "sub")); !os.IsNotExist(err) {
		t.Fatalf("subdirectory mirrored despite non-recursive run")
	}
}

func TestRunExtensionFilter(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 LOWER.pdf":  "plain",
		"3001695 UPPER.PDF":  "plain",
		"3001696 OTHER.docx": "plain",
	})

	sum, err := newRunner(DefaultOptions()).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 2 {
		t.Fatalf("Found = %d, want 2 (case-insensitive extension match)", sum.Found)
	}
}

func TestRunExcludePatterns(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 KEEP.pdf":        "plain",
		"drafts/3001695 SKIP.pdf": "plain",
		"3001696 SKIP draft.pdf":  "plain",
	})

	opts := DefaultOptions().WithRecursive(true)
	if err := opts.AddExcludePattern(`^drafts/`); err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if err := opts.AddExcludePattern(`draft\.pdf$`); err != nil {
		t.Fatalf("pattern: %v", err)
	}

	sum, err := newRunner(opts).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 1 || sum.Protected != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(out, "drafts")); !os.IsNotExist(err) {
		t.Fatalf("excluded directory was mirrored")
	}
}

func TestRunIsolatesPerFileFailures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 GOOD.pdf":  "plain",
		"3001695 FAIL.pdf":  "plain FAIL marker",
		"3001696 AFTER.pdf": "plain",
	})

	sink := &event.CaptureSink{}
	sum, err := newRunner(DefaultOptions(), sink).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run must not abort on per-file failure: %v", err)
	}
	if sum.Protected != 2 || sum.Errors != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if _, err := os.Stat(filepath.Join(out, "3001695 FAIL.pdf")); !os.IsNotExist(err) {
		t.Fatalf("failed file must not produce an output")
	}

	var sawError bool
	for _, ev := range sink.Events() {
		if ev.Kind == event.KindResult && ev.Outcome == protect.OutcomeError && ev.Rel == "3001695 FAIL.pdf" {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("error outcome not published to sinks")
	}
}

func TestRunUnreadableStillAttempted(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 CORRUPT.pdf": "BAD not really a document",
	})

	sink := &event.CaptureSink{}
	sum, err := newRunner(DefaultOptions(), sink).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Unreadable != 1 || sum.Protected != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if sum.Warnings == 0 {
		t.Fatalf("probe failure not surfaced as a warning")
	}
}

func TestRunParallelWorkers(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	files := make(map[string]string, 60)
	for i := 0; i < 60; i++ {
		files[fmt.Sprintf("batch%d/30016%02d CLIENT.pdf", i%4, i)] = fmt.Sprintf("plain %d", i)
	}
	writeTree(t, in, files)

	sum, err := newRunner(DefaultOptions().WithRecursive(true).WithWorkers(4)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 60 || sum.Protected != 60 || sum.Errors != 0 {
		t.Fatalf("summary: %+v", sum)
	}
	for rel := range files {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}
}

func TestRunDeleteSource(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeTree(t, in, map[string]string{
		"3001694 PLAIN.pdf": "plain",
		"3001695 ENC.pdf":   "ENC bytes",
		"3001696 FAIL.pdf":  "plain FAIL marker",
	})

	sum, err := newRunner(DefaultOptions().WithDeleteSource(true)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Protected != 1 || sum.SkippedAlreadyProtected != 1 || sum.Errors != 1 {
		t.Fatalf("summary: %+v", sum)
	}

	for rel, wantGone := range map[string]bool{
		"3001694 PLAIN.pdf": true,
		"3001695 ENC.pdf":   true,
		"3001696 FAIL.pdf":  false,
	} {
		_, err := os.Stat(filepath.Join(in, rel))
		gone := os.IsNotExist(err)
		if gone != wantGone {
			t.Errorf("source %s gone=%v, want %v", rel, gone, wantGone)
		}
	}
}

func TestRunSkipsNestedOutputTree(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "protected")
	writeTree(t, in, map[string]string{
		"3001694 A.pdf": "plain",
	})
	// A prior run's output sitting inside the input tree must not be
	// picked up as a candidate.
	writeTree(t, out, map[string]string{
		"3001695 OLD.pdf": "ENC sealed earlier",
	})

	sum, err := newRunner(DefaultOptions().WithRecursive(true)).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Found != 1 {
		t.Fatalf("Found = %d, want 1 (outputs must not be re-enumerated)", sum.Found)
	}
	if _, err := os.Stat(filepath.Join(out, "protected")); !os.IsNotExist(err) {
		t.Fatalf("output tree nested into itself")
	}
}

func TestRunCanceledContext(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	files := make(map[string]string, 20)
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("30016%02d X.pdf", i)] = "plain"
	}
	writeTree(t, in, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := newRunner(DefaultOptions()).Run(ctx, in, out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if sum.Protected != 0 {
		t.Fatalf("canceled run still processed files: %+v", sum)
	}
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".lock") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", root, err)
	}
	return tree
}
