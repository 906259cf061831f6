// Package editor holds the text of a note with a selection that dropped
// links replace.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/entrhq/droplink/pkg/vault"
)

// ErrInvalidPosition is returned for positions outside the text.
var ErrInvalidPosition = errors.New("editor: position outside the text")

// Position is a 1-based line and column. Columns count characters.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParsePosition parses "L:C". A bare "L" means column 1.
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, fmt.Errorf("invalid line in %q: %w", s, err)
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil {
			return Position{}, fmt.Errorf("invalid column in %q: %w", s, err)
		}
	}
	return Position{Line: line, Column: col}, nil
}

// ParseRange parses "L:C" or "L:C-L:C".
func ParseRange(s string) (from, to Position, err error) {
	fromStr, toStr, isRange := strings.Cut(s, "-")
	from, err = ParsePosition(fromStr)
	if err != nil {
		return Position{}, Position{}, err
	}
	if !isRange {
		return from, from, nil
	}
	to, err = ParsePosition(toStr)
	if err != nil {
		return Position{}, Position{}, err
	}
	return from, to, nil
}

// Buffer is the text of one note and its selection as byte offsets.
type Buffer struct {
	mu    sync.Mutex
	path  string
	files vault.NoteFiles
	text  string
	start int
	end   int
	dirty bool
}

// New creates a detached buffer holding text with the cursor at the end.
func New(text string) *Buffer {
	return &Buffer{text: text, start: len(text), end: len(text)}
}

// Open loads the note at path from files. The cursor starts at the end.
func Open(files vault.NoteFiles, path string) (*Buffer, error) {
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open note %s: %w", path, err)
	}
	b := New(string(data))
	b.files = files
	b.path = vault.NormalizePath(path)
	return b, nil
}

// Path returns the vault path of the note, or "" for detached buffers.
func (b *Buffer) Path() string {
	return b.path
}

// Text returns the whole text.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Selection returns the selected byte range.
func (b *Buffer) Selection() (start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.start, b.end
}

// SelectedText returns the selected text.
func (b *Buffer) SelectedText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text[b.start:b.end]
}

// Dirty reports whether the text changed since it was loaded or saved.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// SetSelection selects the byte range [start, end). The ends may be given
// in either order but must fall on character boundaries.
func (b *Buffer) SetSelection(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start > end {
		start, end = end, start
	}
	for _, off := range []int{start, end} {
		if off < 0 || off > len(b.text) {
			return fmt.Errorf("%w: offset %d", ErrInvalidPosition, off)
		}
		if off < len(b.text) && !utf8.RuneStart(b.text[off]) {
			return fmt.Errorf("%w: offset %d splits a character", ErrInvalidPosition, off)
		}
	}
	b.start, b.end = start, end
	return nil
}

// SetCursor collapses the selection to pos.
func (b *Buffer) SetCursor(pos Position) error {
	return b.Select(pos, pos)
}

// Select selects from one position to another.
func (b *Buffer) Select(from, to Position) error {
	b.mu.Lock()
	start, err := b.offsetLocked(from)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	end, err := b.offsetLocked(to)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.SetSelection(start, end)
}

// offsetLocked converts a position to a byte offset. Column len+1 is the
// end of the line.
func (b *Buffer) offsetLocked(pos Position) (int, error) {
	if pos.Line < 1 || pos.Column < 1 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}

	offset := 0
	lines := strings.SplitAfter(b.text, "\n")
	if pos.Line > len(lines) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	for _, l := range lines[:pos.Line-1] {
		offset += len(l)
	}

	line := strings.TrimSuffix(lines[pos.Line-1], "\n")
	col := 1
	for i := range line {
		if col == pos.Column {
			return offset + i, nil
		}
		col++
	}
	if col == pos.Column {
		return offset + len(line), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
}

// ReplaceSelection replaces the selection with text and leaves the cursor
// after it.
func (b *Buffer) ReplaceSelection(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text = b.text[:b.start] + text + b.text[b.end:]
	b.start += len(text)
	b.end = b.start
	b.dirty = true
}

// Save writes the text back to the note it was opened from.
func (b *Buffer) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.files == nil {
		return errors.New("editor: buffer is not backed by a note")
	}
	if err := b.files.ModifyFile(ctx, b.path, []byte(b.text)); err != nil {
		return fmt.Errorf("failed to save note %s: %w", b.path, err)
	}
	b.dirty = false
	return nil
}
