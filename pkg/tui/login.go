package tui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quocson95/scpick/pkg/apperr"
	"github.com/quocson95/scpick/pkg/ssh"
)

const loginInstructions = `Enter SSH connection string in either format:
1. ssh -p PORT USERNAME@HOSTNAME
2. Host myserver
   HostName example.com
   Port 22
   User username`

// LoginSubmittedMsg carries a parsed descriptor, password included
type LoginSubmittedMsg struct {
	Descriptor ssh.Descriptor
}

const (
	fieldConnection = iota
	fieldPassword
)

// LoginModel collects the connection string and password
type LoginModel struct {
	connInput  textarea.Model
	password   textinput.Model
	focused    int
	keys       loginKeyMap
	help       help.Model
	connecting bool
	status     string
	err        error
	width      int
	height     int
}

// NewLoginModel creates the login screen, pre-filled with prefill
func NewLoginModel(prefill string) *LoginModel {
	ta := textarea.New()
	ta.Placeholder = "ssh -p 22 user@example.com"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.SetValue(prefill)
	ta.Focus()

	pw := textinput.New()
	pw.Placeholder = "Password"
	pw.CharLimit = 128
	pw.Width = 50
	pw.Prompt = "Password: "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	return &LoginModel{
		connInput: ta,
		password:  pw,
		focused:   fieldConnection,
		keys:      newLoginKeyMap(),
		help:      help.New(),
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.connecting {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextField):
			return m, m.switchField()

		case key.Matches(msg, m.keys.Connect):
			return m, m.submit()

		case msg.String() == "enter" && m.focused == fieldPassword:
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focused == fieldConnection {
		m.connInput, cmd = m.connInput.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *LoginModel) switchField() tea.Cmd {
	if m.focused == fieldConnection {
		m.focused = fieldPassword
		m.connInput.Blur()
		return m.password.Focus()
	}
	m.focused = fieldConnection
	m.password.Blur()
	return m.connInput.Focus()
}

// submit parses the form and hands a valid descriptor to the app
func (m *LoginModel) submit() tea.Cmd {
	d := ssh.Parse(m.connInput.Value())
	if !d.Valid() {
		log.Printf("[ERROR] Rejected connection string %q", m.connInput.Value())
		m.err = apperr.New(apperr.ParseInvalid, "Invalid SSH connection string", nil)
		return nil
	}

	d = d.WithPassword(m.password.Value())
	m.err = nil
	m.connecting = true
	m.status = "Connecting to " + d.ConnectionID() + "..."

	return func() tea.Msg {
		return LoginSubmittedMsg{Descriptor: d}
	}
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔐 SSH Connection Details"))
	b.WriteString("\n\n")
	b.WriteString(loginInstructions)
	b.WriteString("\n\n")
	b.WriteString(m.connInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(successStyle.Render(m.status))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	return boxStyle.Render(b.String())
}
