package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/entrhq/droplink/pkg/logging"
)

// FS is a vault backed by a directory on disk.
type FS struct {
	guard    *Guard
	ignore   *PatternMatcher
	settings AppSettings
	logger   *logging.Logger
}

// Option configures an FS.
type Option func(*FS) error

// WithIgnoredPatterns hides matching vault paths from the shortest-link
// uniqueness check. Listing and lookups still see them.
func WithIgnoredPatterns(patterns []string) Option {
	return func(v *FS) error {
		pm, err := NewPatternMatcher(patterns)
		if err != nil {
			return err
		}
		v.ignore = pm
		return nil
	}
}

// WithSettings replaces the settings read from the vault's settings file.
func WithSettings(settings AppSettings) Option {
	return func(v *FS) error {
		v.settings = settings
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(v *FS) error {
		v.logger = logger
		return nil
	}
}

// OpenFS opens the vault rooted at dir. Settings come from
// dir/.obsidian/app.json unless WithSettings is given.
func OpenFS(dir string, opts ...Option) (*FS, error) {
	guard, err := NewGuard(dir)
	if err != nil {
		return nil, err
	}

	settings, err := LoadAppSettings(guard.Root())
	if err != nil {
		return nil, err
	}

	v := &FS{
		guard:    guard,
		settings: settings,
		logger:   logging.Discard("vault"),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Root returns the absolute vault directory.
func (v *FS) Root() string {
	return v.guard.Root()
}

// Settings returns the settings in effect.
func (v *FS) Settings() AppSettings {
	return v.settings
}

// Lookup returns the entry at p. Ignore patterns do not apply.
func (v *FS) Lookup(p string) (Entry, bool) {
	absPath, err := v.guard.Resolve(p)
	if err != nil {
		return Entry{}, false
	}
	info, err := os.Lstat(absPath)
	if err != nil {
		return Entry{}, false
	}
	return v.entryFor(absPath, info), true
}

// List returns the direct children of folder, ignored paths included.
func (v *FS) List(folder string) ([]Entry, error) {
	absPath, err := v.guard.Resolve(folder)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, folder)
		}
		if info, statErr := os.Stat(absPath); statErr == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: %q", ErrNotFolder, folder)
		}
		return nil, fmt.Errorf("failed to list %q: %w", folder, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		childAbs := filepath.Join(absPath, de.Name())
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entries = append(entries, v.entryFor(childAbs, info))
	}
	return entries, nil
}

// CreateBinary writes data to a new file at p, creating parent folders.
// An existing entry at p is never overwritten.
func (v *FS) CreateBinary(ctx context.Context, p string, data []byte) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	absPath, err := v.guard.Resolve(p)
	if err != nil {
		return Entry{}, err
	}
	if absPath == v.guard.Root() {
		return Entry{}, fmt.Errorf("%w: cannot create the vault root", ErrExists)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return Entry{}, fmt.Errorf("failed to create folder for %q: %w", p, err)
	}

	file, err := os.OpenFile(absPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Entry{}, fmt.Errorf("%w: %q", ErrExists, p)
		}
		return Entry{}, fmt.Errorf("failed to create %q: %w", p, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(absPath)
		return Entry{}, fmt.Errorf("failed to write %q: %w", p, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(absPath)
		return Entry{}, fmt.Errorf("failed to close %q: %w", p, err)
	}

	v.logger.Debugf("created %s (%d bytes)", p, len(data))
	entry, _ := v.Lookup(p)
	return entry, nil
}

// AvailablePathForAttachment resolves the attachment folder for the note
// at sourcePath, creates it when missing, and returns a free path for
// filename inside it.
func (v *FS) AvailablePathForAttachment(ctx context.Context, filename, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder := v.settings.AttachmentFolder(sourcePath)
	absFolder, err := v.guard.Resolve(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(absFolder, 0755); err != nil {
		return "", fmt.Errorf("failed to create attachment folder %q: %w", folder, err)
	}

	return availablePath(folder, filename, func(candidate string) bool {
		_, ok := v.Lookup(candidate)
		return ok
	}), nil
}

// GenerateLink renders a link from the note at sourcePath to target using
// the vault's link settings.
func (v *FS) GenerateLink(target Entry, sourcePath string) string {
	unique := true
	if v.settings.NewLinkFormat == LinkShortest || v.settings.NewLinkFormat == "" {
		unique = v.nameIsUnique(target.Name())
	}
	return BuildLink(target, sourcePath, v.settings, unique)
}

// nameIsUnique reports whether exactly one non-ignored file in the vault is
// called name.
func (v *FS) nameIsUnique(name string) bool {
	count := 0
	root := v.guard.Root()
	err := filepath.WalkDir(root, func(absPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := v.guard.Rel(absPath)
		if relErr != nil || rel == "" {
			return nil
		}
		if v.ignore.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			count++
			if count > 1 {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		v.logger.Warnf("walking vault for %s: %v", name, err)
	}
	return count <= 1
}

// ReadFile returns the content of the file at p.
func (v *FS) ReadFile(p string) ([]byte, error) {
	absPath, err := v.guard.Resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, p)
		}
		return nil, err
	}
	return data, nil
}

// ModifyFile replaces the content of an existing file at p atomically.
func (v *FS) ModifyFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := v.guard.Resolve(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, p)
		}
		return err
	}

	tempPath := absPath + ".droplink.tmp"
	if err := os.WriteFile(tempPath, data, info.Mode().Perm()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %q: %w", p, err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %q: %w", p, err)
	}
	return nil
}

func (v *FS) entryFor(absPath string, info fs.FileInfo) Entry {
	rel, err := v.guard.Rel(absPath)
	if err != nil {
		rel = ""
	}
	entry := Entry{Path: rel, IsDir: info.IsDir()}
	if !entry.IsDir {
		entry.Size = info.Size()
	}
	return entry
}
