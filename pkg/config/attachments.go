package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

const (
	// SectionIDAttachments is the identifier for the attachment settings section
	SectionIDAttachments = "attachments"

	// DefaultAllowedExtensions covers common image, video, audio and PDF types.
	DefaultAllowedExtensions = "jpg,jpeg,png,gif,heic,webp,bmp,tiff,svg,mp4,webm,ogv,mov,mkv,mp3,wav,ogg,m4a,pdf"

	keyAllowedExtensions = "allowed_extensions"
)

// ExtensionSet is a set of lower-cased file extensions without a leading dot.
type ExtensionSet map[string]struct{}

// ParseExtensions splits a comma-separated list into an ExtensionSet.
// Entries are trimmed and lower-cased; empty entries are dropped.
func ParseExtensions(list string) ExtensionSet {
	set := make(ExtensionSet)
	for _, ext := range strings.Split(strings.ToLower(list), ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

// Has reports whether ext is in the set. ext is compared case-insensitively
// and must be given without the dot. The empty extension is never a member.
func (s ExtensionSet) Has(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Sorted returns the members in lexical order.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// String renders the set back into the comma-separated form.
func (s ExtensionSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

// AttachmentSection holds which dropped files get renamed into the
// attachment folder.
type AttachmentSection struct {
	AllowedExtensions string `json:"allowed_extensions"`
	mu                sync.RWMutex
}

// NewAttachmentSection creates a section holding the default extension list.
func NewAttachmentSection() *AttachmentSection {
	return &AttachmentSection{AllowedExtensions: DefaultAllowedExtensions}
}

// ID returns the section identifier.
func (s *AttachmentSection) ID() string {
	return SectionIDAttachments
}

// Title returns the section title.
func (s *AttachmentSection) Title() string {
	return "Attachments"
}

// Description returns the section description.
func (s *AttachmentSection) Description() string {
	return "Comma-separated list of extensions (without dots) to rename on drop. Example: jpg,png,mp4,pdf. Case-insensitive."
}

// Data returns the current configuration data.
func (s *AttachmentSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		keyAllowedExtensions: s.AllowedExtensions,
	}
}

// SetData updates the configuration from the provided data. A stored list
// of strings is accepted and joined with commas.
func (s *AttachmentSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := data[keyAllowedExtensions]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case string:
		s.AllowedExtensions = v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("invalid entry in allowed_extensions: expected string, got %T", item)
			}
			parts = append(parts, str)
		}
		s.AllowedExtensions = strings.Join(parts, ",")
	default:
		return fmt.Errorf("invalid value type for allowed_extensions: expected string, got %T", value)
	}
	return nil
}

// Validate rejects entries that could never match a file extension.
func (s *AttachmentSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ext := range ParseExtensions(s.AllowedExtensions) {
		if strings.ContainsAny(ext, `./\`) {
			return fmt.Errorf("extension %q must not contain dots or path separators", ext)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *AttachmentSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AllowedExtensions = DefaultAllowedExtensions
}

// SetAllowedExtensions replaces the raw comma-separated list.
func (s *AttachmentSection) SetAllowedExtensions(list string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AllowedExtensions = list
}

// RawAllowedExtensions returns the list as the user typed it.
func (s *AttachmentSection) RawAllowedExtensions() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.AllowedExtensions
}

// AllowedExtensionSet returns the parsed extension set.
func (s *AttachmentSection) AllowedExtensionSet() ExtensionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ParseExtensions(s.AllowedExtensions)
}
