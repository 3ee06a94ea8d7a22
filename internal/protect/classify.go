package protect

import "os"

// ProbeStatus is the encrypted-state a document probe reports.
type ProbeStatus uint8

const (
	// StatusPlain: the document opened and carries no encryption.
	StatusPlain ProbeStatus = iota
	// StatusEncrypted: the document requires a password or reports itself encrypted.
	StatusEncrypted
	// StatusUnreadable: the document could not be opened at all.
	StatusUnreadable
)

// Probe inspects a document's encrypted state. Implementations wrap the
// PDF library; tests substitute fakes to simulate encrypted, corrupt, and
// plain documents without real fixtures.
type Probe interface {
	Inspect(path string) (ProbeStatus, error)
}

// Classifier decides which state a file is in for this run by probing the
// output filesystem and the input document.
type Classifier struct {
	Probe Probe
}

// Classify checks the output path first: when resuming a partial run, a
// file whose output already landed must never be re-touched, whatever the
// source looks like. Otherwise the input document is probed. A probe that
// cannot open the document yields ClassUnreadable with the cause attached;
// callers surface it as a warning and still attempt protection.
func (c *Classifier) Classify(rec FileRecord) (Classification, error) {
	if _, err := os.Stat(rec.OutputPath); err == nil {
		return ClassOutputExists, nil
	}

	status, err := c.Probe.Inspect(rec.InputPath)
	switch status {
	case StatusEncrypted:
		return ClassAlreadyProtected, nil
	case StatusUnreadable:
		return ClassUnreadable, err
	default:
		return ClassNeedsProtection, nil
	}
}
