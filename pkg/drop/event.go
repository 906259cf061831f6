// Package drop turns files dropped onto a note into numbered attachments.
//
// An Interceptor receives a drop Event for the active note, keeps the local
// files whose extension is allowed, and hands them to a Placer. The Placer
// names each file <noteBaseName>-<n><ext> with one counter shared by the
// whole batch, writes it into the note's attachment folder and produces a
// link. The links replace the editor selection, one per line.
package drop

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// ItemKind tells what a dropped item carries.
type ItemKind int

const (
	// ItemKindString is text, a URL or HTML.
	ItemKindString ItemKind = iota
	// ItemKindFile is a local file.
	ItemKindFile
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindFile:
		return "file"
	case ItemKindString:
		return "string"
	default:
		return "unknown"
	}
}

// File is a dropped local file.
type File interface {
	// Name is the file name without any folder.
	Name() string
	// Open returns the file content.
	Open() (io.ReadCloser, error)
}

// Item is one entry of a drop payload.
type Item struct {
	Kind ItemKind
	// Type is the MIME type reported for the item, if any.
	Type string
	// Value holds the payload of string items.
	Value string
	// File is set for file items.
	File File
}

// FileItem wraps f as a file item.
func FileItem(f File) Item {
	return Item{Kind: ItemKindFile, File: f}
}

// StringItem creates a string item of the given MIME type.
func StringItem(mimeType, value string) Item {
	return Item{Kind: ItemKindString, Type: mimeType, Value: value}
}

// Event is one drag-and-drop onto a note.
type Event struct {
	Items []Item

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates an event carrying items in the order given.
func NewEvent(items ...Item) *Event {
	return &Event{Items: items}
}

// PreventDefault stops the host from running its own drop handling.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// StopPropagation stops other handlers from seeing the event.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// BytesFile is a dropped file held in memory.
type BytesFile struct {
	FileName string
	Data     []byte
}

// Name returns the file name.
func (f BytesFile) Name() string { return f.FileName }

// Open returns a reader over the data.
func (f BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// DiskFile is a dropped file read from the local filesystem.
type DiskFile struct {
	Path string
}

// Name returns the last element of the path.
func (f DiskFile) Name() string { return filepath.Base(f.Path) }

// Open opens the file for reading.
func (f DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}
