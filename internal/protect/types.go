// Package protect implements the per-file protection state machine:
// classification against the mirrored output tree, password generation,
// metadata tagging, and the skip/copy/encrypt decision that keeps
// repeated runs safe.
package protect

import "fmt"

// Classification is the state of one input file for one run. It is
// recomputed fresh every run; nothing is persisted between runs.
type Classification uint8

const (
	// ClassNeedsProtection marks a readable, unencrypted input.
	ClassNeedsProtection Classification = iota
	// ClassAlreadyProtected marks an input that is already encrypted.
	ClassAlreadyProtected
	// ClassOutputExists marks an input whose mirrored output already landed.
	ClassOutputExists
	// ClassUnreadable marks an input the probe could not open. The file is
	// still attempted (treated as not encrypted) but surfaced distinctly.
	ClassUnreadable
)

func (c Classification) String() string {
	switch c {
	case ClassNeedsProtection:
		return "needs-protection"
	case ClassAlreadyProtected:
		return "already-protected"
	case ClassOutputExists:
		return "output-exists"
	case ClassUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of processing one file.
type Outcome uint8

const (
	// OutcomeProtected: the file was encrypted and written to the output tree.
	OutcomeProtected Outcome = iota
	// OutcomeCopied: the file was already protected and mirrored byte-for-byte.
	OutcomeCopied
	// OutcomeSkippedExists: the output already existed; nothing was written.
	OutcomeSkippedExists
	// OutcomeError: the protect/copy step failed; the output was not created.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProtected:
		return "protected"
	case OutcomeCopied:
		return "copied"
	case OutcomeSkippedExists:
		return "skipped"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// FileRecord ties one discovered input file to its mirrored output path.
// Records live for a single processing step and are then discarded.
type FileRecord struct {
	// InputPath is the file's path as discovered under the input root.
	InputPath string
	// Rel is the path relative to the input root; it is deterministic for
	// a given root and file and defines the mirrored layout.
	Rel string
	// OutputPath is the output root joined with Rel.
	OutputPath string
}

// Summary counts terminal outcomes for a whole run.
type Summary struct {
	Found                   int64
	Protected               int64
	SkippedAlreadyProtected int64
	SkippedOutputExists     int64
	Unreadable              int64
	Warnings                int64
	Errors                  int64
	// BytesWritten covers protected and copied outputs.
	BytesWritten int64
}

// Permissions is the reader-permission set applied when encrypting.
// The owner secret bypasses all of it; these flags control what a reader
// without the secret may still do.
type Permissions struct {
	Accessibility    bool
	Extract          bool
	ModifyAnnotation bool
	ModifyAssembly   bool
	ModifyForm       bool
	ModifyOther      bool
	PrintLowRes      bool
	PrintHighRes     bool
}

// Policy names accepted by PermissionsForPolicy.
const (
	PolicyStrict  = "strict"
	PolicySigning = "signing"
)

// PermissionsStrict denies every form of modification while keeping the
// document readable, extractable, and printable.
var PermissionsStrict = Permissions{
	Accessibility: true,
	Extract:       true,
	PrintLowRes:   true,
	PrintHighRes:  true,
}

// PermissionsSigning additionally allows annotation changes and form
// filling so recipients can sign digitally and fill forms.
var PermissionsSigning = Permissions{
	Accessibility:    true,
	Extract:          true,
	ModifyAnnotation: true,
	ModifyForm:       true,
	PrintLowRes:      true,
	PrintHighRes:     true,
}

// PermissionsForPolicy maps a policy name to its permission set.
func PermissionsForPolicy(name string) (Permissions, error) {
	switch name {
	case PolicyStrict:
		return PermissionsStrict, nil
	case PolicySigning:
		return PermissionsSigning, nil
	default:
		return Permissions{}, fmt.Errorf("unknown permission policy %q (expected %s|%s)", name, PolicyStrict, PolicySigning)
	}
}
