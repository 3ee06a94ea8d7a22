package batch

import (
	"regexp"

	"github.com/nroyer/docseal/internal/invoice"
	"github.com/nroyer/docseal/internal/password"
	"github.com/nroyer/docseal/internal/protect"
)

// Options configures a protection run.
type Options struct {
	// Workers is the number of concurrent file processors.
	Workers int

	// Recursive descends into subdirectories, mirroring their layout.
	Recursive bool

	// DeleteSource removes each input file once its output is durable.
	DeleteSource bool

	// Ext marks which files are candidates, matched case-insensitively.
	Ext string

	// PasswordLength is the generated owner secret length.
	PasswordLength int

	// Strategy names the filename metadata parser.
	Strategy string

	// Policy names the reader permission set.
	Policy string

	// ExcludePatterns are regular expressions for relative paths to skip.
	ExcludePatterns []*regexp.Regexp
}

// DefaultOptions returns the sequential single-worker defaults: top
// level only, sources kept, 20-character secrets.
func DefaultOptions() *Options {
	return &Options{
		Workers:        1,
		Ext:            ".pdf",
		PasswordLength: password.DefaultLength,
		Strategy:       invoice.StrategyPositional,
		Policy:         protect.PolicyStrict,
	}
}

// WithWorkers sets the number of workers.
func (o *Options) WithWorkers(n int) *Options {
	o.Workers = n
	return o
}

// WithRecursive sets subdirectory descent.
func (o *Options) WithRecursive(recursive bool) *Options {
	o.Recursive = recursive
	return o
}

// WithDeleteSource sets source deletion after success.
func (o *Options) WithDeleteSource(del bool) *Options {
	o.DeleteSource = del
	return o
}

// WithPasswordLength sets the generated secret length.
func (o *Options) WithPasswordLength(n int) *Options {
	o.PasswordLength = n
	return o
}

// WithStrategy sets the filename parser strategy.
func (o *Options) WithStrategy(name string) *Options {
	o.Strategy = name
	return o
}

// WithPolicy sets the reader permission policy.
func (o *Options) WithPolicy(name string) *Options {
	o.Policy = name
	return o
}

// WithExt sets the candidate file extension.
func (o *Options) WithExt(ext string) *Options {
	o.Ext = ext
	return o
}

// AddExcludePattern adds a pattern to exclude.
func (o *Options) AddExcludePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	o.ExcludePatterns = append(o.ExcludePatterns, re)
	return nil
}

// ShouldExclude checks if a relative path matches any exclude pattern.
func (o *Options) ShouldExclude(rel string) bool {
	for _, re := range o.ExcludePatterns {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}
