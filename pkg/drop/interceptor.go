package drop

import (
	"context"
	"strings"
	"sync"

	"github.com/entrhq/droplink/pkg/config"
	"github.com/entrhq/droplink/pkg/logging"
	"github.com/entrhq/droplink/pkg/vault"
)

// Editor is the text surface of the active note.
type Editor interface {
	// ReplaceSelection replaces the selected text, or inserts at the
	// cursor when nothing is selected.
	ReplaceSelection(text string)
}

// ExtensionSource supplies the allowed extensions for each drop.
type ExtensionSource interface {
	AllowedExtensionSet() config.ExtensionSet
}

// StaticExtensions is a fixed ExtensionSource.
type StaticExtensions config.ExtensionSet

// AllowedExtensionSet returns the set.
func (s StaticExtensions) AllowedExtensionSet() config.ExtensionSet {
	return config.ExtensionSet(s)
}

// Recorder is told about every successful placement.
type Recorder interface {
	RecordPlacement(ctx context.Context, notePath string, p Placement) error
}

// Result describes a handled drop.
type Result struct {
	// Handled is true when the drop was claimed and the host's default
	// handling suppressed.
	Handled bool
	// Folder is the attachment folder the batch was written to.
	Folder string
	// Placements has one entry per processed file, in drop order.
	Placements []Placement
	// Inserted is the text that replaced the selection.
	Inserted string
}

// Interceptor claims drops of allowed local files onto a note.
type Interceptor struct {
	mu         sync.Mutex
	placer     *Placer
	extensions ExtensionSource
	recorder   Recorder
	logger     *logging.Logger
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// WithRecorder records successful placements.
func WithRecorder(r Recorder) InterceptorOption {
	return func(i *Interceptor) {
		i.recorder = r
	}
}

// WithInterceptorLogger sets the logger.
func WithInterceptorLogger(logger *logging.Logger) InterceptorOption {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// NewInterceptor creates an interceptor that places files with placer and
// reads the allowed extensions from extensions on every drop.
func NewInterceptor(placer *Placer, extensions ExtensionSource, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		placer:     placer,
		extensions: extensions,
		logger:     logging.Discard("drop"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// HandleDrop processes ev for the note doc shown in ed. It reports whether
// the drop was claimed. The error is a batch-level failure; per-file
// failures are only notified.
func (i *Interceptor) HandleDrop(ctx context.Context, ev *Event, ed Editor, doc *vault.Entry) (bool, error) {
	res, err := i.Drop(ctx, ev, ed, doc)
	return res.Handled, err
}

// Drop is HandleDrop returning the full result.
//
// Nothing happens, and the event stays untouched, when there is no note,
// no local file, or no file with an allowed extension. Otherwise the
// event's default handling is suppressed before any file is written.
// Concurrent drops are handled one at a time.
func (i *Interceptor) Drop(ctx context.Context, ev *Event, ed Editor, doc *vault.Entry) (Result, error) {
	if doc == nil || ev == nil {
		return Result{}, nil
	}

	files := LocalFiles(ev.Items)
	if len(files) == 0 {
		return Result{}, nil
	}

	files = Processable(files, i.extensions.AllowedExtensionSet())
	if len(files) == 0 {
		return Result{}, nil
	}

	ev.PreventDefault()
	ev.StopPropagation()

	i.mu.Lock()
	defer i.mu.Unlock()

	res := Result{Handled: true}

	folder, err := i.placer.ResolveFolder(ctx, doc.Path)
	if err != nil {
		i.logger.Errorf("drop on %s aborted: %v", doc.Path, err)
		return res, err
	}
	res.Folder = folder

	i.logger.Infof("placing %d file(s) from drop on %s into %q", len(files), doc.Path, folder)
	res.Placements = i.placer.Place(ctx, files, doc.BaseName(), folder, doc.Path)

	if links := Links(res.Placements); len(links) > 0 {
		res.Inserted = strings.Join(links, "\n")
		ed.ReplaceSelection(res.Inserted)
	}

	i.record(ctx, doc.Path, res.Placements)
	return res, nil
}

func (i *Interceptor) record(ctx context.Context, notePath string, placements []Placement) {
	if i.recorder == nil {
		return
	}
	for _, p := range placements {
		if !p.OK() {
			continue
		}
		if err := i.recorder.RecordPlacement(ctx, notePath, p); err != nil {
			i.logger.Warnf("failed to record placement of %s: %v", p.Original, err)
		}
	}
}
