// Package settingsui is an interactive terminal editor for the allowed
// attachment extensions.
package settingsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/droplink/pkg/config"
)

const defaultInputWidth = 60

// Model edits the attachments section of a config manager.
type Model struct {
	manager *config.Manager
	section *config.AttachmentSection
	input   textinput.Model

	status   string
	err      error
	saved    bool
	quitting bool
}

// New creates the editor. The manager must have the attachments section
// registered.
func New(manager *config.Manager) (*Model, error) {
	section, ok := manager.GetSection(config.SectionIDAttachments)
	if !ok {
		return nil, fmt.Errorf("section %q is not registered", config.SectionIDAttachments)
	}
	attachments, ok := section.(*config.AttachmentSection)
	if !ok {
		return nil, fmt.Errorf("section %q has unexpected type %T", config.SectionIDAttachments, section)
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = config.DefaultAllowedExtensions
	input.Width = defaultInputWidth
	input.SetValue(attachments.RawAllowedExtensions())
	input.Focus()

	return &Model{
		manager: manager,
		section: attachments,
		input:   input,
	}, nil
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and window resizes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.save()
			return m, nil
		case tea.KeyCtrlR:
			m.input.SetValue(config.DefaultAllowedExtensions)
			m.input.CursorEnd()
			m.status = "Reset to defaults (enter to save)"
			m.err = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 8; w > 10 && w < defaultInputWidth {
			m.input.Width = w
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) save() {
	previous := m.section.RawAllowedExtensions()
	value := strings.TrimSpace(m.input.Value())

	m.section.SetAllowedExtensions(value)
	if err := m.manager.SaveAll(); err != nil {
		m.section.SetAllowedExtensions(previous)
		m.err = err
		m.status = ""
		return
	}

	m.saved = true
	m.err = nil
	m.status = fmt.Sprintf("Saved %d extension(s)", len(config.ParseExtensions(value)))
}

// View renders the editor.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.section.Title()))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Comma-separated, case-insensitive, without dots."))
	b.WriteString("\n\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")

	preview := config.ParseExtensions(m.input.Value())
	if len(preview) == 0 {
		b.WriteString(subtitleStyle.Render("No extensions: drops fall through to the default handling."))
	} else {
		b.WriteString(subtitleStyle.Render("Renames: " + strings.Join(preview.Sorted(), ", ")))
	}
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Not saved: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(okStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter save • ctrl+r reset • esc quit"))
	return b.String()
}

// Saved reports whether a value was saved during the session.
func (m *Model) Saved() bool {
	return m.saved
}

// Run opens the editor on the terminal and blocks until it is closed.
func Run(manager *config.Manager) error {
	model, err := New(manager)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("settings editor failed: %w", err)
	}
	return nil
}
