package vault

import (
	"fmt"

	"github.com/gobwas/glob"
)

// PatternMatcher decides which vault paths are hidden from listings.
type PatternMatcher struct {
	patterns []glob.Glob
}

// NewPatternMatcher compiles patterns with '/' as the separator, so '*'
// stays within one path element and '**' crosses folders.
func NewPatternMatcher(patterns []string) (*PatternMatcher, error) {
	pm := &PatternMatcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignored pattern '%s': %w", pattern, err)
		}
		pm.patterns = append(pm.patterns, g)
	}
	return pm, nil
}

// IsIgnored reports whether the vault path p matches any pattern.
func (pm *PatternMatcher) IsIgnored(p string) bool {
	if pm == nil {
		return false
	}
	p = NormalizePath(p)
	for _, pattern := range pm.patterns {
		if pattern.Match(p) {
			return true
		}
	}
	return false
}
