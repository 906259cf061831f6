package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LinkFormat selects how link targets are written.
type LinkFormat string

const (
	// LinkShortest uses the bare file name when it is unique in the vault.
	LinkShortest LinkFormat = "shortest"
	// LinkRelative uses a path relative to the linking note's folder.
	LinkRelative LinkFormat = "relative"
	// LinkAbsolute uses the full vault path.
	LinkAbsolute LinkFormat = "absolute"
)

// SettingsFile is where the vault keeps its own settings.
const SettingsFile = ".obsidian/app.json"

// AppSettings are the vault settings that affect attachments and links.
type AppSettings struct {
	// AttachmentFolderPath is "/" (vault root), "./" (next to the note),
	// "./sub" (a subfolder next to the note) or a fixed vault folder.
	AttachmentFolderPath string     `json:"attachmentFolderPath"`
	UseMarkdownLinks     bool       `json:"useMarkdownLinks"`
	NewLinkFormat        LinkFormat `json:"newLinkFormat"`
}

// DefaultAppSettings matches a fresh vault.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		AttachmentFolderPath: "/",
		UseMarkdownLinks:     false,
		NewLinkFormat:        LinkShortest,
	}
}

// LoadAppSettings reads <vaultDir>/.obsidian/app.json over the defaults.
// A missing file yields the defaults.
func LoadAppSettings(vaultDir string) (AppSettings, error) {
	settings := DefaultAppSettings()

	raw, err := os.ReadFile(filepath.Join(vaultDir, filepath.FromSlash(SettingsFile)))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read vault settings: %w", err)
	}

	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultAppSettings(), fmt.Errorf("failed to decode vault settings: %w", err)
	}
	if settings.NewLinkFormat == "" {
		settings.NewLinkFormat = LinkShortest
	}
	return settings, nil
}

// AttachmentFolder returns the folder new attachments for the note at
// sourcePath go into.
func (s AppSettings) AttachmentFolder(sourcePath string) string {
	setting := strings.TrimSpace(s.AttachmentFolderPath)
	switch {
	case setting == "" || setting == "/":
		return ""
	case setting == "." || setting == "./":
		return Dir(sourcePath)
	case strings.HasPrefix(setting, "./"):
		return Join(Dir(sourcePath), setting[2:])
	default:
		return NormalizePath(setting)
	}
}

// availablePath returns folder/filename, or folder/"base N.ext" with the
// smallest N >= 1 that exists reports as free.
func availablePath(folder, filename string, exists func(string) bool) string {
	candidate := Join(folder, filename)
	if !exists(candidate) {
		return candidate
	}

	base, ext := SplitName(filename)
	if ext != "" {
		ext = "." + ext
	}
	for n := 1; ; n++ {
		candidate = Join(folder, base+" "+strconv.Itoa(n)+ext)
		if !exists(candidate) {
			return candidate
		}
	}
}
