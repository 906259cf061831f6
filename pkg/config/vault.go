package config

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"
)

// SectionIDVault is the identifier for the vault settings section
const SectionIDVault = "vault"

// DefaultIgnoredPatterns hides the vault's own settings and trash folders
// from the shortest-link uniqueness check.
var DefaultIgnoredPatterns = []string{
	".obsidian",
	".obsidian/**",
	".trash",
	".trash/**",
}

// VaultSection holds settings for the on-disk vault.
type VaultSection struct {
	IgnoredPatterns []string `json:"ignored_patterns"`
	mu              sync.RWMutex
}

// NewVaultSection creates a vault section with the default ignore patterns.
func NewVaultSection() *VaultSection {
	return &VaultSection{IgnoredPatterns: append([]string(nil), DefaultIgnoredPatterns...)}
}

// ID returns the section identifier.
func (s *VaultSection) ID() string {
	return SectionIDVault
}

// Title returns the section title.
func (s *VaultSection) Title() string {
	return "Vault"
}

// Description returns the section description.
func (s *VaultSection) Description() string {
	return "Glob patterns (vault-relative, '/'-separated) excluded when checking which attachment names are taken."
}

// Data returns the current configuration data.
func (s *VaultSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := make([]interface{}, len(s.IgnoredPatterns))
	for i, p := range s.IgnoredPatterns {
		patterns[i] = p
	}
	return map[string]interface{}{
		"ignored_patterns": patterns,
	}
}

// SetData updates the configuration from the provided data.
func (s *VaultSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := data["ignored_patterns"]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case []string:
		s.IgnoredPatterns = append([]string(nil), v...)
	case []interface{}:
		patterns := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("invalid entry in ignored_patterns: expected string, got %T", item)
			}
			patterns = append(patterns, str)
		}
		s.IgnoredPatterns = patterns
	default:
		return fmt.Errorf("invalid value type for ignored_patterns: expected list, got %T", value)
	}
	return nil
}

// Validate checks that every pattern compiles.
func (s *VaultSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pattern := range s.IgnoredPatterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("invalid ignored pattern '%s': %w", pattern, err)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *VaultSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IgnoredPatterns = append([]string(nil), DefaultIgnoredPatterns...)
}

// Patterns returns a copy of the ignore patterns.
func (s *VaultSection) Patterns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.IgnoredPatterns...)
}
