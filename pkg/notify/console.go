package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF9F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)

	timeoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C6C6C"))
)

// Console prints notifications as styled lines to a writer.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes one line. Messages starting with "Error" use the error
// style.
func (c *Console) Notify(message string, timeout time.Duration) {
	style := successStyle
	if strings.HasPrefix(message, "Error") {
		style = errorStyle
	}

	line := style.Render(message) + " " + timeoutStyle.Render(fmt.Sprintf("(%s)", timeout))

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}
