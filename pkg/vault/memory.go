package vault

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memNode struct {
	isDir bool
	data  []byte
}

// Memory is an in-memory Host. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu         sync.Mutex
	nodes      map[string]*memNode
	settings   AppSettings
	failWrites map[string]error
	created    []string
}

// NewMemory returns an empty vault with default settings.
func NewMemory() *Memory {
	return &Memory{
		nodes:      map[string]*memNode{"": {isDir: true}},
		settings:   DefaultAppSettings(),
		failWrites: make(map[string]error),
	}
}

// SetSettings replaces the vault settings.
func (m *Memory) SetSettings(settings AppSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// AddFolder creates a folder and its parents.
func (m *Memory) AddFolder(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAllLocked(NormalizePath(p))
}

// AddFile creates or replaces a file, creating parent folders.
func (m *Memory) AddFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = NormalizePath(p)
	m.mkdirAllLocked(Dir(p))
	m.nodes[p] = &memNode{data: append([]byte(nil), data...)}
}

// FailWrites makes every CreateBinary and ModifyFile at p fail with err.
func (m *Memory) FailWrites(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites[NormalizePath(p)] = err
}

// Data returns a copy of the file content at p.
func (m *Memory) Data(p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[NormalizePath(p)]
	if !ok || node.isDir {
		return nil, false
	}
	return append([]byte(nil), node.data...), true
}

// Created returns the paths written through CreateBinary, in order.
func (m *Memory) Created() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.created...)
}

// Paths returns every entry path except the root, sorted.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, len(m.nodes))
	for p := range m.nodes {
		if p != "" {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func (m *Memory) mkdirAllLocked(p string) {
	for p != "" {
		if _, ok := m.nodes[p]; !ok {
			m.nodes[p] = &memNode{isDir: true}
		}
		p = Dir(p)
	}
}

func (m *Memory) entryLocked(p string) (Entry, bool) {
	node, ok := m.nodes[p]
	if !ok {
		return Entry{}, false
	}
	return Entry{Path: p, IsDir: node.isDir, Size: int64(len(node.data))}, true
}

// Lookup returns the entry at p.
func (m *Memory) Lookup(p string) (Entry, bool) {
	cleaned, err := cleanVaultPath(p)
	if err != nil {
		return Entry{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entryLocked(cleaned)
}

// List returns the direct children of folder sorted by name.
func (m *Memory) List(folder string) ([]Entry, error) {
	cleaned, err := cleanVaultPath(folder)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[cleaned]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, folder)
	}
	if !node.isDir {
		return nil, fmt.Errorf("%w: %q", ErrNotFolder, folder)
	}

	var entries []Entry
	for p := range m.nodes {
		if p != "" && Dir(p) == cleaned {
			entry, _ := m.entryLocked(p)
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// CreateBinary stores data at p unless p is taken or a failure was
// injected for it.
func (m *Memory) CreateBinary(ctx context.Context, p string, data []byte) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	cleaned, err := cleanVaultPath(p)
	if err != nil {
		return Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failWrites[cleaned]; err != nil {
		return Entry{}, err
	}
	if _, exists := m.nodes[cleaned]; exists || cleaned == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrExists, p)
	}

	m.mkdirAllLocked(Dir(cleaned))
	m.nodes[cleaned] = &memNode{data: append([]byte(nil), data...)}
	m.created = append(m.created, cleaned)

	entry, _ := m.entryLocked(cleaned)
	return entry, nil
}

// AvailablePathForAttachment applies the attachment folder setting and
// creates the folder.
func (m *Memory) AvailablePathForAttachment(ctx context.Context, filename, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	folder := m.settings.AttachmentFolder(sourcePath)
	if node, ok := m.nodes[folder]; ok && !node.isDir {
		return "", fmt.Errorf("%w: attachment folder %q", ErrNotFolder, folder)
	}
	m.mkdirAllLocked(folder)

	return availablePath(folder, filename, func(candidate string) bool {
		_, ok := m.nodes[candidate]
		return ok
	}), nil
}

// GenerateLink renders a link using the vault settings.
func (m *Memory) GenerateLink(target Entry, sourcePath string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := target.Name()
	count := 0
	for p, node := range m.nodes {
		if !node.isDir && (Entry{Path: p}).Name() == name {
			count++
		}
	}
	return BuildLink(target, sourcePath, m.settings, count <= 1)
}

// ReadFile returns the content of the file at p.
func (m *Memory) ReadFile(p string) ([]byte, error) {
	data, ok := m.Data(p)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, p)
	}
	return data, nil
}

// ModifyFile replaces the content of an existing file at p.
func (m *Memory) ModifyFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p = NormalizePath(p)
	if err := m.failWrites[p]; err != nil {
		return err
	}
	node, ok := m.nodes[p]
	if !ok || node.isDir {
		return fmt.Errorf("%w: %q", ErrNotFound, p)
	}
	node.data = append([]byte(nil), data...)
	return nil
}

// String lists the vault contents, one path per line. Handy in test
// failure output.
func (m *Memory) String() string {
	return strings.Join(m.Paths(), "\n")
}
