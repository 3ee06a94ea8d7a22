package protect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeProbe struct {
	status ProbeStatus
	err    error
}

func (f fakeProbe) Inspect(string) (ProbeStatus, error) { return f.status, f.err }

func TestClassifyOutputExistsWinsOverEverything(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(out, []byte("landed"), 0644); err != nil {
		t.Fatalf("write output: %v", err)
	}

	// Even a probe that would report encrypted must not be consulted once
	// the output exists; resuming never re-derives a landed file.
	c := Classifier{Probe: fakeProbe{status: StatusEncrypted}}
	rec := FileRecord{InputPath: filepath.Join(dir, "missing.pdf"), Rel: "a.pdf", OutputPath: out}
	class, err := c.Classify(rec)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if class != ClassOutputExists {
		t.Fatalf("got %s, want %s", class, ClassOutputExists)
	}
}

func TestClassifyProbeStates(t *testing.T) {
	dir := t.TempDir()
	rec := FileRecord{
		InputPath:  filepath.Join(dir, "in.pdf"),
		Rel:        "in.pdf",
		OutputPath: filepath.Join(dir, "out", "in.pdf"),
	}

	tests := []struct {
		name  string
		probe fakeProbe
		want  Classification
		warn  bool
	}{
		{"plain document", fakeProbe{status: StatusPlain}, ClassNeedsProtection, false},
		{"encrypted document", fakeProbe{status: StatusEncrypted}, ClassAlreadyProtected, false},
		{"unreadable document", fakeProbe{status: StatusUnreadable, err: errors.New("bad header")}, ClassUnreadable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classifier{Probe: tt.probe}
			class, err := c.Classify(rec)
			if class != tt.want {
				t.Fatalf("got %s, want %s", class, tt.want)
			}
			if tt.warn && err == nil {
				t.Fatalf("expected probe error to surface")
			}
			if !tt.warn && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
