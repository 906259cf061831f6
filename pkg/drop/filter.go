package drop

import (
	"strings"

	"github.com/entrhq/droplink/pkg/config"
)

// rawExtension returns the extension of a file name without the dot and
// with its case preserved. A single leading dot does not start an
// extension, so ".env" has none while "..png" has "png". "draft." has none.
func rawExtension(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	trimmed := strings.TrimPrefix(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}

// Extension returns the lower-cased extension of name without the dot,
// or "" when it has none.
func Extension(name string) string {
	return strings.ToLower(rawExtension(name))
}

// LocalFiles returns the files of the file items, in order. String items
// and file items without a file are skipped.
func LocalFiles(items []Item) []File {
	var files []File
	for _, item := range items {
		if item.Kind == ItemKindFile && item.File != nil {
			files = append(files, item.File)
		}
	}
	return files
}

// Processable keeps the files whose extension is in allowed, in order.
func Processable(files []File, allowed config.ExtensionSet) []File {
	var out []File
	for _, f := range files {
		if allowed.Has(Extension(f.Name())) {
			out = append(out, f)
		}
	}
	return out
}
