package invoice

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// PositionalParser splits the extension-stripped name on whitespace and
// assigns tokens by position: bill id first, then client name words, then
// a project suffix. The project starts at the first token past the client
// that contains a hyphen, or (from the third token on) starts with a digit.
//
// "3001694 MING RONG YUAN 215079C001-F25-20700A-MRY.pdf" parses to
// bill "3001694", client "MING RONG YUAN", project "215079C001-F25-20700A-MRY".
type PositionalParser struct{}

func (PositionalParser) Parse(filename string) (Meta, error) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	tokens := strings.Fields(stem)
	if len(tokens) < 2 {
		return Meta{}, fmt.Errorf("%w: %q has fewer than two tokens", ErrUnparsable, filename)
	}
	if !allDigits(tokens[0]) {
		return Meta{}, fmt.Errorf("%w: %q has no leading numeric token", ErrUnparsable, filename)
	}

	meta := Meta{Bill: tokens[0]}

	var client, project []string
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.Contains(tok, "-") || (i > 1 && startsWithDigit(tok)) {
			project = tokens[i:]
			break
		}
		client = append(client, tok)
	}

	// No boundary token found: with three or more tokens the last one is
	// the project; with exactly two everything after the bill is the client.
	if len(project) == 0 && len(tokens) > 2 {
		project = tokens[len(tokens)-1:]
		client = tokens[1 : len(tokens)-1]
	}

	meta.Client = strings.Join(client, " ")
	meta.Project = strings.Join(project, " ")
	return meta, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}
