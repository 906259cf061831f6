package vault

import (
	"strings"
)

var markdownTargetEscaper = strings.NewReplacer(" ", "%20", "<", "%3C", ">", "%3E")

// BuildLink renders a link from the note at sourcePath to target.
// uniqueName tells whether target's file name is unique in the vault,
// which the shortest format needs. Non-note targets are embeds.
func BuildLink(target Entry, sourcePath string, settings AppSettings, uniqueName bool) string {
	isNote := strings.EqualFold(target.Extension(), "md")

	var linkText string
	switch settings.NewLinkFormat {
	case LinkAbsolute:
		linkText = target.Path
	case LinkRelative:
		linkText = relativePath(Dir(sourcePath), target.Path)
	default:
		if uniqueName {
			linkText = target.Name()
		} else {
			linkText = target.Path
		}
	}

	embed := ""
	if !isNote {
		embed = "!"
	}

	if settings.UseMarkdownLinks {
		alt := ""
		if isNote {
			alt = target.BaseName()
		}
		return embed + "[" + alt + "](" + markdownTargetEscaper.Replace(linkText) + ")"
	}

	if isNote {
		linkText = strings.TrimSuffix(linkText, "."+target.Extension())
	}
	return embed + "[[" + linkText + "]]"
}

// relativePath returns the '/'-separated path from folder fromDir to the
// vault path to.
func relativePath(fromDir, to string) string {
	from := splitPath(fromDir)
	dest := splitPath(to)

	common := 0
	for common < len(from) && common < len(dest)-1 && from[common] == dest[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(dest)-common)
	for i := common; i < len(from); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, dest[common:]...)
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	p = NormalizePath(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
