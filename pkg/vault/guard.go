package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Guard maps vault paths to absolute filesystem paths and refuses anything
// that would land outside the vault directory, including through symlinks.
type Guard struct {
	rootDir string // absolute, symlinks evaluated
}

// NewGuard creates a guard rooted at dir.
func NewGuard(dir string) (*Guard, error) {
	if dir == "" {
		return nil, fmt.Errorf("vault directory cannot be empty")
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault directory: %w", err)
	}

	evalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate vault directory symlinks: %w", err)
	}

	return &Guard{rootDir: evalPath}, nil
}

// Root returns the absolute vault directory.
func (g *Guard) Root() string {
	return g.rootDir
}

// Resolve converts a vault path to an absolute path inside the vault.
func (g *Guard) Resolve(p string) (string, error) {
	cleaned, err := cleanVaultPath(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, p)
	}

	absPath := filepath.Join(g.rootDir, filepath.FromSlash(cleaned))
	if !g.IsWithinVault(resolveExistingPrefix(absPath)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideVault, p)
	}
	return absPath, nil
}

// Rel converts an absolute path inside the vault back to a vault path.
func (g *Guard) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(g.rootDir, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideVault, absPath)
	}
	return NormalizePath(filepath.ToSlash(rel)), nil
}

// IsWithinVault reports whether absPath is the vault root or below it.
func (g *Guard) IsWithinVault(absPath string) bool {
	cleaned := filepath.Clean(absPath)
	if cleaned == g.rootDir {
		return true
	}
	return strings.HasPrefix(cleaned, g.rootDir+string(filepath.Separator))
}

// resolveExistingPrefix evaluates symlinks on the longest existing prefix
// of p and re-appends the components that do not exist yet.
func resolveExistingPrefix(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}

	var missing []string
	current := p
	for {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			result := resolved
			for i := len(missing) - 1; i >= 0; i-- {
				result = filepath.Join(result, missing[i])
			}
			return result
		}

		parent := filepath.Dir(current)
		if parent == current {
			return filepath.Clean(p)
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
