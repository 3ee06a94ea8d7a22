package protect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nroyer/docseal/internal/invoice"
	"github.com/nroyer/docseal/internal/password"
)

// Encryptor writes an encrypted rendition of srcPath to destPath. The
// owner password gates modification; the user (read) password stays empty
// so any reader can open the result. fields are informational document
// properties stamped into the output before saving.
type Encryptor interface {
	Encrypt(srcPath, destPath, ownerPassword string, perms Permissions, fields map[string]string) error
}

// Warning is a recoverable anomaly raised while processing one file.
type Warning struct {
	Message string
	Err     error
}

// Result is the terminal record of one file's processing step.
type Result struct {
	Class    Classification
	Outcome  Outcome
	Bytes    int64
	Err      error
	Warnings []Warning
}

// Applier runs the per-file state machine: classify, then skip, copy
// through, or encrypt. Failures never escape a single file.
type Applier struct {
	Probe          Probe
	Encryptor      Encryptor
	Parser         invoice.Parser
	Permissions    Permissions
	PasswordLength int
	// DeleteSource removes the input file once its output is durable.
	DeleteSource bool
}

// Process takes rec to a terminal state. The source file is never touched
// unless its protect/copy step fully succeeded, and each protected file
// gets a fresh secret that is dropped as soon as the encryption call
// returns.
func (a *Applier) Process(rec FileRecord) Result {
	res := Result{}

	cls := Classifier{Probe: a.Probe}
	class, probeErr := cls.Classify(rec)
	res.Class = class
	if class == ClassUnreadable {
		res.warnf(probeErr, "could not inspect %s, treating as unprotected", rec.Rel)
	}

	switch class {
	case ClassOutputExists:
		res.Outcome = OutcomeSkippedExists
		a.deleteSource(rec, &res)
		return res

	case ClassAlreadyProtected:
		n, err := copyPreserving(rec.InputPath, rec.OutputPath)
		if err != nil {
			res.Outcome = OutcomeError
			res.Err = fmt.Errorf("failed to mirror protected file: %w", err)
			return res
		}
		res.Outcome = OutcomeCopied
		res.Bytes = n
		a.deleteSource(rec, &res)
		return res

	default:
		return a.protect(rec, res)
	}
}

func (a *Applier) protect(rec FileRecord, res Result) Result {
	meta, err := a.Parser.Parse(filepath.Base(rec.InputPath))
	if err != nil {
		res.warnf(err, "could not parse %s", rec.Rel)
		meta = invoice.Meta{}
	}

	secret, err := password.Generate(a.PasswordLength)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		return res
	}

	tmp, err := stageTemp(rec.OutputPath)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		return res
	}

	if err := a.Encryptor.Encrypt(rec.InputPath, tmp, secret, a.Permissions, infoFields(meta)); err != nil {
		os.Remove(tmp)
		res.Outcome = OutcomeError
		res.Err = fmt.Errorf("encryption failed: %w", err)
		return res
	}

	if info, err := os.Stat(tmp); err == nil {
		res.Bytes = info.Size()
	}

	if err := finishStaged(tmp, rec.OutputPath); err != nil {
		res.Outcome = OutcomeError
		res.Err = err
		return res
	}

	res.Outcome = OutcomeProtected
	a.deleteSource(rec, &res)
	return res
}

// deleteSource removes the input after a successful terminal outcome.
// Failure to delete is a warning; the file's outcome stands.
func (a *Applier) deleteSource(rec FileRecord, res *Result) {
	if !a.DeleteSource {
		return
	}
	if err := os.Remove(rec.InputPath); err != nil {
		res.warnf(err, "could not delete source %s", rec.Rel)
	}
}

// infoFields maps parsed metadata onto the document info fields stamped
// into protected outputs. Empty metadata produces no fields; the file is
// still protected.
func infoFields(meta invoice.Meta) map[string]string {
	if meta.IsZero() {
		return nil
	}
	return map[string]string{
		"Title":    fmt.Sprintf("Bill %s", meta.Bill),
		"Subject":  fmt.Sprintf("Client: %s for project: %s", meta.Client, meta.Project),
		"Bill":     meta.Bill,
		"Customer": meta.Client,
		"Project":  meta.Project,
	}
}

func (r *Result) warnf(err error, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	})
}
