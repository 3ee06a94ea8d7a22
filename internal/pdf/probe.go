// Package pdf backs the pipeline's probe and encryptor seams with the
// pdfcpu library.
package pdf

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/nroyer/docseal/internal/protect"
)

// Probe reports a document's encrypted state.
type Probe struct{}

// Inspect opens the document far enough to see its encryption dictionary.
// Documents carrying an open (user) password refuse to load without it;
// pdfcpu surfaces that as a password error, which counts as encrypted
// here. Any other failure to open means unreadable.
func (Probe) Inspect(path string) (protect.ProbeStatus, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			return protect.StatusEncrypted, nil
		}
		return protect.StatusUnreadable, err
	}
	if ctx.Encrypt != nil {
		return protect.StatusEncrypted, nil
	}
	return protect.StatusPlain, nil
}
