package drop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/entrhq/droplink/pkg/logging"
	"github.com/entrhq/droplink/pkg/notify"
	"github.com/entrhq/droplink/pkg/vault"
)

const (
	// DefaultMaxNameAttempts bounds the candidate search for one file.
	DefaultMaxNameAttempts = 10000

	// DefaultSuccessDuration is how long a success notification stays up.
	DefaultSuccessDuration = 4 * time.Second

	// DefaultErrorDuration is how long an error notification stays up.
	DefaultErrorDuration = 5 * time.Second

	placeholderFilePrefix = "dummy-file-for-path-finding-"
)

// ErrNameSpaceExhausted is returned when no free name was found within the
// attempt limit.
var ErrNameSpaceExhausted = errors.New("drop: no free attachment name")

// FileError is a failure to place one dropped file.
type FileError struct {
	// Name is the original name of the dropped file.
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to place %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Placement is the outcome for one dropped file.
type Placement struct {
	// Original is the dropped file's name.
	Original string
	// Path is the vault path written; empty on failure.
	Path string
	// Link points at Path from the note; empty on failure.
	Link string
	// Err is a *FileError on failure.
	Err error
}

// OK reports whether the file was written.
func (p Placement) OK() bool {
	return p.Err == nil
}

// Links returns the links of the successful placements, in order.
func Links(placements []Placement) []string {
	var links []string
	for _, p := range placements {
		if p.OK() {
			links = append(links, p.Link)
		}
	}
	return links
}

// Placer names, writes and links the files of one drop batch.
type Placer struct {
	store    vault.Store
	resolver vault.AttachmentResolver
	linker   vault.Linker
	notifier notify.Notifier
	logger   *logging.Logger

	// Now supplies the time used to seed the folder placeholder name.
	Now func() time.Time
	// MaxNameAttempts bounds the candidate search per file.
	MaxNameAttempts int
	// SuccessDuration and ErrorDuration are the notification timeouts.
	SuccessDuration time.Duration
	ErrorDuration   time.Duration
}

// NewPlacer creates a placer working on host. A nil notifier or logger
// discards output.
func NewPlacer(host vault.Host, notifier notify.Notifier, logger *logging.Logger) *Placer {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = logging.Discard("drop")
	}
	return &Placer{
		store:           host,
		resolver:        host,
		linker:          host,
		notifier:        notifier,
		logger:          logger,
		Now:             time.Now,
		MaxNameAttempts: DefaultMaxNameAttempts,
		SuccessDuration: DefaultSuccessDuration,
		ErrorDuration:   DefaultErrorDuration,
	}
}

// ResolveFolder returns the attachment folder for the note at sourcePath.
// The root is "". The host may create the folder as a side effect.
func (p *Placer) ResolveFolder(ctx context.Context, sourcePath string) (string, error) {
	placeholder := placeholderFilePrefix + strconv.FormatInt(p.Now().UnixMilli(), 10) + ".tmp"

	available, err := p.resolver.AvailablePathForAttachment(ctx, placeholder, sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve attachment folder for %s: %w", sourcePath, err)
	}
	return vault.Dir(available), nil
}

// NextName finds the first free name <baseName>-<n><ext> in folder with
// n >= counter. A candidate is free when no file directly inside folder
// has the base name <baseName>-<n>, whatever its extension, and nothing
// exists at the full path. It returns the vault path and the n used.
// ext includes its dot, or is empty.
func (p *Placer) NextName(folder, baseName, ext string, counter int) (string, int, error) {
	used, err := p.usedBaseNames(folder)
	if err != nil {
		return "", counter, err
	}

	limit := p.MaxNameAttempts
	if limit <= 0 {
		limit = DefaultMaxNameAttempts
	}

	for attempt := 0; attempt < limit; attempt++ {
		candidate := baseName + "-" + strconv.Itoa(counter)
		if !used[candidate] {
			target := vault.Join(folder, candidate+ext)
			if _, exists := p.store.Lookup(target); !exists {
				return target, counter, nil
			}
		}
		counter++
	}
	return "", counter, fmt.Errorf("%w: %d candidates after %s-%d are taken", ErrNameSpaceExhausted, limit, baseName, counter-limit)
}

func (p *Placer) usedBaseNames(folder string) (map[string]bool, error) {
	entries, err := p.store.List(folder)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to list %q: %w", folder, err)
	}

	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir {
			used[e.BaseName()] = true
		}
	}
	return used, nil
}

// Place writes files into folder one after another, naming them after
// baseName, and links them from the note at sourcePath. One counter runs
// across the batch: it starts at 1 and moves past the number each file
// used, whether or not the write succeeded. A failed file is notified and
// logged and the batch goes on.
func (p *Placer) Place(ctx context.Context, files []File, baseName, folder, sourcePath string) []Placement {
	placements := make([]Placement, 0, len(files))
	counter := 1

	for _, f := range files {
		placement, used := p.placeOne(ctx, f, baseName, folder, sourcePath, counter)
		placements = append(placements, placement)
		counter = used + 1
	}
	return placements
}

func (p *Placer) placeOne(ctx context.Context, f File, baseName, folder, sourcePath string, counter int) (Placement, int) {
	placement := Placement{Original: f.Name()}

	fail := func(err error) Placement {
		placement.Err = &FileError{Name: f.Name(), Err: err}
		p.logger.Errorf("error renaming/pasting %s: %v", f.Name(), err)
		p.notifier.Notify(fmt.Sprintf("Error renaming/pasting %s. Check the log.", f.Name()), p.ErrorDuration)
		return placement
	}

	ext := ""
	if raw := rawExtension(f.Name()); raw != "" {
		ext = "." + raw
	}

	target, used, err := p.NextName(folder, baseName, ext, counter)
	if err != nil {
		return fail(err), used
	}

	data, err := readFile(f)
	if err != nil {
		return fail(err), used
	}

	entry, err := p.store.CreateBinary(ctx, target, data)
	if err != nil {
		return fail(err), used
	}

	placement.Path = entry.Path
	placement.Link = p.linker.GenerateLink(entry, sourcePath)
	p.logger.Debugf("placed %s as %s (%d bytes)", f.Name(), entry.Path, len(data))
	p.notifier.Notify("Renamed and pasted: "+entry.Name(), p.SuccessDuration)
	return placement, used
}

func readFile(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
