package invoice

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// billClientRe captures a leading run of six or more digits (the bill id),
// optionally followed by whitespace and a short client code of up to two
// letters plus six or more digits.
var billClientRe = regexp.MustCompile(`^(\d{6,})(?:\s+([A-Za-z]{0,2}\d{6,}))?`)

// PatternParser matches filenames of the shape "NNNNNNN AA999999.pdf" where
// the client id is a compact alphanumeric code rather than a free-text name.
// Only the leading digit run is mandatory.
type PatternParser struct{}

func (PatternParser) Parse(filename string) (Meta, error) {
	stem := strings.TrimSpace(strings.TrimSuffix(filename, filepath.Ext(filename)))
	m := billClientRe.FindStringSubmatch(stem)
	if m == nil {
		return Meta{}, fmt.Errorf("%w: %q has no leading numeric token", ErrUnparsable, filename)
	}
	return Meta{Bill: m[1], Client: m[2]}, nil
}
