package tui

import (
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quocson95/scpick/pkg/apperr"
	"github.com/quocson95/scpick/pkg/command"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// ClosePreviewMsg returns to the browser, carrying the last tool used
type ClosePreviewMsg struct {
	Tool command.Tool
}

// PreviewModel shows the generated command in an editable text area
type PreviewModel struct {
	preview   *command.Preview
	editor    textarea.Model
	keys      previewKeyMap
	help      help.Model
	statusMsg string
	err       error
	width     int
	height    int
}

// NewPreviewModel creates the preview screen for p
func NewPreviewModel(p *command.Preview) *PreviewModel {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(4)
	ta.SetValue(p.Text())
	ta.Focus()

	return &PreviewModel{
		preview: p,
		editor:  ta,
		keys:    newPreviewKeyMap(),
		help:    help.New(),
	}
}

func (m *PreviewModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.editor.SetWidth(msg.Width - 10)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Copy):
			m.copy()
			return m, nil

		case key.Matches(msg, m.keys.SwitchDirection):
			dir := m.preview.ToggleDirection()
			m.editor.SetValue(m.preview.Text())
			m.notify("Transfer direction: " + dir.String())
			return m, nil

		case key.Matches(msg, m.keys.SwitchTool):
			tool := m.preview.ToggleTool()
			m.editor.SetValue(m.preview.Text())
			m.notify("Switched to " + tool.String())
			return m, nil

		case key.Matches(msg, m.keys.Back):
			tool := m.preview.Tool
			return m, func() tea.Msg {
				return ClosePreviewMsg{Tool: tool}
			}

		case key.Matches(msg, m.keys.Exit):
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.preview.SetText(m.editor.Value())
	return m, cmd
}

// copy puts the command as currently edited on the clipboard
func (m *PreviewModel) copy() {
	text := m.editor.Value()
	m.preview.SetText(text)

	if err := writeClipboard(text); err != nil {
		log.Printf("[ERROR] Clipboard write failed: %v", err)
		m.err = apperr.New(apperr.ClipboardFailed, "Failed to copy to clipboard", err)
		m.statusMsg = ""
		return
	}
	m.notify("Command copied to clipboard!")
}

func (m *PreviewModel) notify(msg string) {
	m.statusMsg = msg
	m.err = nil
}

// Text returns the command as currently shown
func (m *PreviewModel) Text() string {
	return m.editor.Value()
}

func (m *PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📋 Transfer Command Preview"))
	b.WriteString("\n\n")
	b.WriteString(itemStyle.Render("Direction: " + m.preview.Direction.String() + " • Tool: " + m.preview.Tool.String()))
	b.WriteString("\n\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(successStyle.Render("✓ " + m.statusMsg))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	return boxStyle.Render(b.String())
}
