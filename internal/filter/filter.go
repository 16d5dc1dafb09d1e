package filter

import (
	"path/filepath"
	"strings"

	"story/internal/domain"
)

// Filter selects tests from a run by name pattern and outcome
type Filter struct {
	pattern    string
	onlyFailed bool
}

// New creates a new Filter. An empty pattern matches every test.
func New(pattern string, onlyFailed bool) *Filter {
	return &Filter{pattern: pattern, onlyFailed: onlyFailed}
}

// MatchName reports whether name matches the pattern.
// Supports patterns like "TestUser*" or "*Payment*"
func (f *Filter) MatchName(name string) bool {
	pattern := f.pattern
	if pattern == "" {
		return true
	}

	// filepath.Match supports * and ? wildcards
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// filepath.Match stops at "/" in subtest names; match the literal parts in order
		parts := strings.Split(pattern, "*")
		hasNonEmptyPart := false
		rest := name
		for _, part := range parts {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasNonEmptyPart
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}

// Match reports whether test passes the filter
func (f *Filter) Match(test domain.Test) bool {
	if f.onlyFailed && !test.Failed() {
		return false
	}
	return f.MatchName(test.Description)
}

// Apply returns the suites of run keeping only matching tests. Suites left
// without tests are dropped, except suites with their own failures when no
// name pattern is set.
func (f *Filter) Apply(run domain.Run) []domain.Suite {
	var out []domain.Suite
	for _, suite := range run.Suites {
		kept := suite
		kept.Tests = nil
		for _, test := range suite.Tests {
			if f.Match(test) {
				kept.Tests = append(kept.Tests, test)
			}
		}
		if len(kept.Tests) == 0 && !(f.pattern == "" && len(suite.Failures) > 0) {
			continue
		}
		out = append(out, kept)
	}
	return out
}
