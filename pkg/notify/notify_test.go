package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/droplink/pkg/logging"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify("Renamed and pasted: Notes-1.png", 4*time.Second)
	r.Notify("Error renaming/pasting clip.mp4. Check the log.", 5*time.Second)

	assert.Equal(t, []Notification{
		{Message: "Renamed and pasted: Notes-1.png", Timeout: 4 * time.Second},
		{Message: "Error renaming/pasting clip.mp4. Check the log.", Timeout: 5 * time.Second},
	}, r.Notifications())
	assert.Equal(t, []string{
		"Renamed and pasted: Notes-1.png",
		"Error renaming/pasting clip.mp4. Check the log.",
	}, r.Messages())

	r.Reset()
	assert.Empty(t, r.Notifications())
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, nil, b}

	m.Notify("hello", time.Second)

	assert.Equal(t, []string{"hello"}, a.Messages())
	assert.Equal(t, []string{"hello"}, b.Messages())
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Notify("Renamed and pasted: Notes-1.png", 4*time.Second)
	c.Notify("Error renaming/pasting clip.mp4. Check the log.", 5*time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Renamed and pasted: Notes-1.png")
	assert.Contains(t, lines[0], "4s")
	assert.Contains(t, lines[1], "Error renaming/pasting clip.mp4. Check the log.")
	assert.Contains(t, lines[1], "5s")
}

func TestDesktop(t *testing.T) {
	var logBuf bytes.Buffer
	d := NewDesktop("", "icon.png", logging.NewWriterLogger("notify", &logBuf))

	var gotTitle, gotMessage, gotIcon string
		d.notify = func(title, message, icon string) error {
		gotTitle, gotMessage, gotIcon = title, message, icon
		return nil
	}

	d.Notify("Renamed and pasted: Notes-1.png", 4*time.Second)
	assert.Equal(t, DefaultAppName, gotTitle)
	assert.Equal(t, "Renamed and pasted: Notes-1.png", gotMessage)
	assert.Equal(t, "icon.png", gotIcon)
	assert.Empty(t, logBuf.String())

	d.notify = func(string, string, string) error { return errors.New("no notification daemon") }
	d.Notify("again", time.Second)
	assert.Contains(t, logBuf.String(), "no notification daemon")
}
