package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLink(t *testing.T) {
	wiki := DefaultAppSettings()
	markdown := AppSettings{UseMarkdownLinks: true, NewLinkFormat: LinkShortest}

	tests := []struct {
		name     string
		target   string
		source   string
		settings AppSettings
		unique   bool
		want     string
	}{
		{
			name:     "wikilink embed unique",
			target:   "attachments/Notes-1.PNG",
			source:   "Notes.md",
			settings: wiki,
			unique:   true,
			want:     "![[Notes-1.PNG]]",
		},
		{
			name:     "wikilink embed ambiguous name",
			target:   "attachments/Notes-1.PNG",
			source:   "Notes.md",
			settings: wiki,
			unique:   false,
			want:     "![[attachments/Notes-1.PNG]]",
		},
		{
			name:     "wikilink to note drops extension",
			target:   "projects/Other.md",
			source:   "Notes.md",
			settings: wiki,
			unique:   true,
			want:     "[[Other]]",
		},
		{
			name:     "absolute wikilink",
			target:   "attachments/Notes-2.mp4",
			source:   "projects/Notes.md",
			settings: AppSettings{NewLinkFormat: LinkAbsolute},
			unique:   true,
			want:     "![[attachments/Notes-2.mp4]]",
		},
		{
			name:     "relative wikilink up two folders",
			target:   "attachments/a.png",
			source:   "notes/daily/Today.md",
			settings: AppSettings{NewLinkFormat: LinkRelative},
			want:     "![[../../attachments/a.png]]",
		},
		{
			name:     "relative wikilink sibling folder",
			target:   "notes/img/a.png",
			source:   "notes/daily/Today.md",
			settings: AppSettings{NewLinkFormat: LinkRelative},
			want:     "![[../img/a.png]]",
		},
		{
			name:     "relative wikilink same folder",
			target:   "notes/a.png",
			source:   "notes/Today.md",
			settings: AppSettings{NewLinkFormat: LinkRelative},
			want:     "![[a.png]]",
		},
		{
			name:     "markdown embed escapes spaces",
			target:   "attachments/my pic.png",
			source:   "Notes.md",
			settings: AppSettings{UseMarkdownLinks: true, NewLinkFormat: LinkAbsolute},
			unique:   true,
			want:     "![](attachments/my%20pic.png)",
		},
		{
			name:     "markdown link to note",
			target:   "Other.md",
			source:   "Notes.md",
			settings: markdown,
			unique:   true,
			want:     "[Other](Other.md)",
		},
		{
			name:     "markdown escapes angle brackets",
			target:   "a<b>.png",
			source:   "Notes.md",
			settings: markdown,
			unique:   true,
			want:     "![](a%3Cb%3E.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildLink(Entry{Path: tt.target}, tt.source, tt.settings, tt.unique)
			assert.Equal(t, tt.want, got)
		})
	}
}
