package git

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter applies include/exclude glob patterns to repository paths.
type PathFilter struct {
	Include []string
	Exclude []string
}

// Match reports whether path passes the filter.
// Exclude patterns win over include patterns; no include patterns accepts all.
func (f PathFilter) Match(path string) bool {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}

	return false
}

// Validate checks every pattern for syntax errors.
func (f PathFilter) Validate() error {
	for _, pattern := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return errInvalidPattern(pattern)
		}
	}
	return nil
}

func (f PathFilter) apply(changes []FileChange) []FileChange {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return changes
	}
	out := changes[:0]
	for _, c := range changes {
		if f.Match(c.Path) {
			out = append(out, c)
		}
	}
	return out
}
