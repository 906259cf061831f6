package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "case folded, trimmed, deduplicated", input: "PNG, jpg ,,png", want: []string{"jpg", "png"}},
		{name: "empty string", input: "", want: []string{}},
		{name: "only separators and whitespace", input: " , ,\t,", want: []string{}},
		{name: "single entry", input: "Mp4", want: []string{"mp4"}},
		{name: "dotted entry kept verbatim", input: ".png", want: []string{".png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExtensions(tt.input).Sorted())
		})
	}
}

func TestParseExtensions_Idempotent(t *testing.T) {
	once := ParseExtensions("PNG, jpg ,,png")
	twice := ParseExtensions(once.String())
	assert.Equal(t, once, twice)
}

func TestExtensionSet_Has(t *testing.T) {
	set := ParseExtensions(DefaultAllowedExtensions)

	assert.True(t, set.Has("png"))
	assert.True(t, set.Has("PNG"))
	assert.True(t, set.Has("M4a"))
	assert.False(t, set.Has("txt"))
	assert.False(t, set.Has(""))
}

func TestAttachmentSection_Defaults(t *testing.T) {
	section := NewAttachmentSection()

	assert.Equal(t, SectionIDAttachments, section.ID())
	assert.Equal(t, "Attachments", section.Title())
	assert.Contains(t, section.Description(), "Comma-separated")
	assert.Equal(t, DefaultAllowedExtensions, section.RawAllowedExtensions())
	assert.Len(t, section.AllowedExtensionSet(), 19)
}

func TestAttachmentSection_SetData(t *testing.T) {
	tests := []struct {
		name        string
		data        map[string]interface{}
		want        string
		expectError bool
	}{
		{name: "string value", data: map[string]interface{}{"allowed_extensions": "png,gif"}, want: "png,gif"},
		{name: "list value", data: map[string]interface{}{"allowed_extensions": []interface{}{"png", "gif"}}, want: "png,gif"},
		{name: "missing key keeps default", data: map[string]interface{}{"other": 1}, want: DefaultAllowedExtensions},
		{name: "nil data", data: nil, want: DefaultAllowedExtensions},
		{name: "wrong type", data: map[string]interface{}{"allowed_extensions": 42}, expectError: true},
		{name: "wrong list entry", data: map[string]interface{}{"allowed_extensions": []interface{}{"png", 3}}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := NewAttachmentSection()
			err := section.SetData(tt.data)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, section.RawAllowedExtensions())
		})
	}
}

func TestAttachmentSection_Validate(t *testing.T) {
	section := NewAttachmentSection()
	assert.NoError(t, section.Validate())

	section.SetAllowedExtensions("")
	assert.NoError(t, section.Validate(), "an empty list disables renaming but is valid")

	section.SetAllowedExtensions("png,.jpg")
	assert.Error(t, section.Validate())

	section.SetAllowedExtensions("png,a/b")
	assert.Error(t, section.Validate())
}

func TestAttachmentSection_Reset(t *testing.T) {
	section := NewAttachmentSection()
	section.SetAllowedExtensions("png")
	section.Reset()
	assert.Equal(t, DefaultAllowedExtensions, section.RawAllowedExtensions())
}

func TestAttachmentSection_DataRoundTrip(t *testing.T) {
	section := NewAttachmentSection()
	section.SetAllowedExtensions("heic")

	restored := NewAttachmentSection()
	require.NoError(t, restored.SetData(section.Data()))
	assert.Equal(t, "heic", restored.RawAllowedExtensions())
}
