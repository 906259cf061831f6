// Package vault abstracts the note vault a drop lands in: entry lookup,
// folder listing, binary creation, attachment path resolution and link
// generation. FS backs it with a directory on disk; Memory keeps everything
// in maps for tests.
//
// Vault paths are relative, '/'-separated and normalized with NormalizePath.
// The empty string is the vault root.
package vault

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrExists is returned when creating an entry at an occupied path.
	ErrExists = errors.New("vault: entry already exists")

	// ErrNotFound is returned when a path names no entry.
	ErrNotFound = errors.New("vault: entry not found")

	// ErrOutsideVault is returned for paths that escape the vault root.
	ErrOutsideVault = errors.New("vault: path is outside the vault")

	// ErrNotFolder is returned when a folder operation targets a file.
	ErrNotFolder = errors.New("vault: not a folder")
)

// Entry is a file or folder in the vault.
type Entry struct {
	Path  string
	IsDir bool
	Size  int64
}

// Name is the last path element. The root has no name.
func (e Entry) Name() string {
	if e.Path == "" {
		return ""
	}
	return path.Base(e.Path)
}

// BaseName is Name without its extension.
func (e Entry) BaseName() string {
	base, _ := SplitName(e.Name())
	return base
}

// Extension is the text after the last dot of Name, without the dot.
func (e Entry) Extension() string {
	_, ext := SplitName(e.Name())
	return ext
}

// Parent returns the folder containing the entry.
func (e Entry) Parent() string {
	return Dir(e.Path)
}

// SplitName splits a file name at its last dot. A name whose only dot is
// the leading one has no extension.
func SplitName(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// Store is the hierarchical file store.
type Store interface {
	// Lookup returns the entry at p, if any.
	Lookup(p string) (Entry, bool)

	// List returns the direct children of folder.
	List(folder string) ([]Entry, error)

	// CreateBinary creates a new file at p holding data. It fails with
	// ErrExists if p is occupied.
	CreateBinary(ctx context.Context, p string, data []byte) (Entry, error)
}

// AttachmentResolver decides where new attachments go.
type AttachmentResolver interface {
	// AvailablePathForAttachment returns an unused path for filename in the
	// attachment folder that applies to the note at sourcePath. The folder
	// is created if it does not exist.
	AvailablePathForAttachment(ctx context.Context, filename, sourcePath string) (string, error)
}

// Linker renders links from a note to an entry.
type Linker interface {
	GenerateLink(target Entry, sourcePath string) string
}

// NoteFiles reads and rewrites existing notes.
type NoteFiles interface {
	ReadFile(p string) ([]byte, error)
	ModifyFile(ctx context.Context, p string, data []byte) error
}

// Host is everything a drop needs from the vault.
type Host interface {
	Store
	AttachmentResolver
	Linker
	NoteFiles
}

var slashRuns = regexp.MustCompile(`[\\/]+`)

// NormalizePath cleans a user or host supplied vault path: backslashes
// become slashes, runs of slashes collapse, leading and trailing slashes
// are removed, non-breaking spaces become spaces and the result is NFC
// normalized. The root normalizes to "".
func NormalizePath(p string) string {
	p = slashRuns.ReplaceAllString(p, "/")
	p = strings.Trim(p, "/")
	p = strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(p)
	p = norm.NFC.String(p)
	if p == "." {
		return ""
	}
	return p
}

// Join joins vault path elements and normalizes the result.
func Join(elem ...string) string {
	return NormalizePath(path.Join(elem...))
}

// Dir returns the folder part of a vault path; "" for top-level entries.
func Dir(p string) string {
	d := path.Dir(NormalizePath(p))
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// cleanVaultPath normalizes p and rejects paths climbing out of the root.
func cleanVaultPath(p string) (string, error) {
	n := NormalizePath(p)
	if n == "" {
		return "", nil
	}
	cleaned := path.Clean(n)
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrOutsideVault
	}
	return cleaned, nil
}
