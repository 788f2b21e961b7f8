package tui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quocson95/scpick/pkg/command"
	"github.com/quocson95/scpick/pkg/session"
	"github.com/quocson95/scpick/pkg/sftp"
	"github.com/quocson95/scpick/pkg/ssh"
	"github.com/quocson95/scpick/pkg/storage"
)

// AppState represents the current screen/state of the application
type AppState int

const (
	StateLogin AppState = iota
	StateBrowser
	StatePreview
)

// AppModel is the root model that manages all screens
type AppModel struct {
	state         AppState
	loginModel    *LoginModel
	browserModel  *BrowserModel
	previewModel  *PreviewModel
	session       *session.Session
	remote        RemoteFS
	connect       Connector
	settingsStore *storage.SettingsStore
	historyStore  *storage.HistoryStore
	homeDir       string
	width         int
	height        int
}

// NewAppModel creates a new application model backed by ~/.scpick
func NewAppModel() (*AppModel, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".scpick")
	settingsStore, err := storage.NewSettingsStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}

	historyStore, err := storage.NewHistoryStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	return newAppModel(settingsStore, historyStore, DialSFTP, homeDir), nil
}

func newAppModel(settingsStore *storage.SettingsStore, historyStore *storage.HistoryStore, connect Connector, homeDir string) *AppModel {
	// Pre-fill the last successful target; the password is always re-entered
	prefill := ""
	if latest, ok := historyStore.Latest(); ok {
		prefill = ssh.Descriptor{
			Host:     latest.Host,
			Port:     latest.Port,
			Username: latest.Username,
		}.CommandString()
	}

	return &AppModel{
		state:         StateLogin,
		loginModel:    NewLoginModel(prefill),
		connect:       connect,
		settingsStore: settingsStore,
		historyStore:  historyStore,
		homeDir:       homeDir,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.loginModel.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		// Global quit
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case sftp.TransferStatusMsg:
		// Transfers finish on the browser whatever screen is showing
		if m.browserModel != nil {
			_, cmd := m.browserModel.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Route to appropriate screen
	switch m.state {
	case StateLogin:
		return m.updateLogin(msg)
	case StateBrowser:
		return m.updateBrowser(msg)
	case StatePreview:
		return m.updatePreview(msg)
	default:
		return m, nil
	}
}

func (m AppModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoginSubmittedMsg:
		m.session = session.New(msg.Descriptor)
		return m, connectCmd(m.connect, msg.Descriptor)

	case ConnectResultMsg:
		d := m.session.Descriptor()
		if msg.Err != nil {
			log.Printf("[ERROR] Connection to %s failed: %v", d.ConnectionID(), msg.Err)
		} else {
			m.remote = msg.Remote
			if err := m.historyStore.Record(d.Host, d.Port, d.Username); err != nil {
				log.Printf("[ERROR] Failed to record history: %v", err)
			}
		}

		settings := m.settingsStore.Get()
		localRoot, err := settings.ResolveLocalRoot()
		if err != nil {
			localRoot = m.homeDir
		}

		m.browserModel = NewBrowserModel(m.session, msg.Remote, msg.Err, BrowserOptions{
			LocalRoot:         localRoot,
			RemoteRoot:        settings.RemoteRoot,
			RemoteTransferDir: settings.RemoteTransferDir,
			DownloadDir:       m.homeDir,
		})
		// Set initial dimensions from app model
		m.browserModel.width = m.width
		m.browserModel.height = m.height
		m.state = StateBrowser
		return m, m.browserModel.Init()
	}

	var cmd tea.Cmd
	updatedModel, cmd := m.loginModel.Update(msg)
	m.loginModel = updatedModel.(*LoginModel)
	return m, cmd
}

func (m AppModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenPreviewMsg:
		tool := command.ParseTool(m.settingsStore.Get().DefaultTool)
		p := command.NewPreview(msg.Selection.Local, msg.Selection.Remote, m.session.Descriptor(), tool)
		m.previewModel = NewPreviewModel(p)
		m.previewModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.state = StatePreview
		return m, m.previewModel.Init()
	}

	var cmd tea.Cmd
	updatedModel, cmd := m.browserModel.Update(msg)
	m.browserModel = updatedModel.(*BrowserModel)
	return m, cmd
}

func (m AppModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClosePreviewMsg:
		// Remember the tool for the next preview
		if err := m.settingsStore.SetDefaultTool(msg.Tool.String()); err != nil {
			log.Printf("[ERROR] Failed to save default tool: %v", err)
		}
		m.state = StateBrowser
		return m, nil
	}

	var cmd tea.Cmd
	updatedModel, cmd := m.previewModel.Update(msg)
	m.previewModel = updatedModel.(*PreviewModel)
	return m, cmd
}

func (m AppModel) View() string {
	switch m.state {
	case StateLogin:
		return m.loginModel.View()
	case StateBrowser:
		return m.browserModel.View()
	case StatePreview:
		return m.previewModel.View()
	default:
		return "Unknown state"
	}
}

// Close releases the remote session, if any
func (m AppModel) Close() error {
	if m.remote == nil {
		return nil
	}
	return m.remote.Close()
}
