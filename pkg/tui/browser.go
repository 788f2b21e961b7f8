package tui

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/quocson95/scpick/pkg/session"
	"github.com/quocson95/scpick/pkg/sftp"
	"github.com/quocson95/scpick/pkg/tree"
)

// PaneType represents which pane is active
type PaneType int

const (
	LocalPane PaneType = iota
	RemotePane
)

// OpenPreviewMsg asks the app to show the command preview for a selection
type OpenPreviewMsg struct {
	Selection session.Selection
}

// BrowserOptions holds the directories the browser works with
type BrowserOptions struct {
	LocalRoot         string // local tree root
	RemoteRoot        string // remote tree root
	RemoteTransferDir string // upload target for direct transfers
	DownloadDir       string // download target for direct transfers
}

// BrowserModel shows the local and remote trees side by side
type BrowserModel struct {
	session *session.Session

	local       *tree.Model
	localCursor int

	// remote is nil when the connection failed; connErr says why
	remote       *tree.Model
	remoteCursor int
	connErr      error

	executor *sftp.Executor

	// UI state
	activePane PaneType
	keys       browserKeyMap
	help       help.Model
	statusMsg  string
	errMsg     string
	width      int
	height     int
}

// NewBrowserModel builds both trees. The local tree is always available;
// the remote tree only when remote is connected.
func NewBrowserModel(sess *session.Session, remote RemoteFS, connErr error, opts BrowserOptions) *BrowserModel {
	remoteRoot := opts.RemoteRoot
	if remoteRoot == "" {
		remoteRoot = tree.DefaultRemoteRoot
	}

	m := &BrowserModel{
		session:    sess,
		local:      tree.New(tree.LocalLister{}, opts.LocalRoot, tree.WithJoin(filepath.Join)),
		connErr:    connErr,
		activePane: LocalPane,
		keys:       newBrowserKeyMap(),
		help:       help.New(),
	}

	if connErr == nil && remote != nil {
		m.remote = tree.New(remote, remoteRoot)
		if m.remote.Root().State == tree.LoadError {
			m.fallbackToWorkingDirectory(remote)
		}
		m.executor = sftp.NewExecutor(remote, opts.RemoteTransferDir, opts.DownloadDir)
	}

	return m
}

// fallbackToWorkingDirectory re-roots the remote tree at the login directory
// when the configured root cannot be listed
func (m *BrowserModel) fallbackToWorkingDirectory(remote RemoteFS) {
	failed := m.remote.Root()
	wd, err := remote.GetWorkingDirectory()
	if err != nil || wd == "" || wd == failed.Path {
		log.Printf("[ERROR] Remote root %s unavailable: %s", failed.Path, failed.Err)
		return
	}

	fallback := tree.New(remote, wd)
	if fallback.Root().State == tree.LoadError {
		log.Printf("[ERROR] Remote root %s and working directory %s unavailable", failed.Path, wd)
		return
	}

	log.Printf("[INFO] Remote root %s unavailable, using working directory %s", failed.Path, wd)
	m.remote = fallback
	m.notify(fmt.Sprintf("Cannot list %s, showing %s", failed.Path, wd))
}

// waitForTransferUpdate is a command that waits for the next finished transfer
func (m *BrowserModel) waitForTransferUpdate() tea.Msg {
	return <-m.executor.Updates()
}

func (m *BrowserModel) Init() tea.Cmd {
	if m.executor == nil {
		return nil
	}
	return m.waitForTransferUpdate
}

func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.SwitchPane):
			if m.activePane == LocalPane {
				m.activePane = RemotePane
			} else {
				m.activePane = LocalPane
			}

		case key.Matches(msg, m.keys.Up):
			_, cursor := m.activeTree()
			if *cursor > 0 {
				*cursor--
			}

		case key.Matches(msg, m.keys.Down):
			t, cursor := m.activeTree()
			if t != nil && *cursor < len(t.Rows())-1 {
				*cursor++
			}

		case key.Matches(msg, m.keys.Select):
			m.selectCurrent()

		case key.Matches(msg, m.keys.Expand):
			m.expandCurrent()

		case key.Matches(msg, m.keys.Collapse):
			m.collapseCurrent()

		case key.Matches(msg, m.keys.Preview):
			cmd = m.openPreview()

		case key.Matches(msg, m.keys.Clear):
			m.session.ClearSelection()
			m.notify("Selection cleared.")

		case key.Matches(msg, m.keys.Transfer):
			m.transfer()
		}

		m.clampCursors()
		return m, cmd

	case sftp.TransferStatusMsg:
		if msg.Err != nil {
			m.fail(msg.Message)
		} else {
			m.notify(msg.Message)
			m.refreshAfter(msg.Job)
		}
		// Continue waiting for updates
		return m, m.waitForTransferUpdate
	}

	return m, nil
}

// activeTree returns the focused tree, nil for a disconnected remote pane
func (m *BrowserModel) activeTree() (*tree.Model, *int) {
	if m.activePane == RemotePane {
		return m.remote, &m.remoteCursor
	}
	return m.local, &m.localCursor
}

func (m *BrowserModel) currentRow() (*tree.Model, tree.Row, bool) {
	t, cursor := m.activeTree()
	if t == nil {
		return nil, tree.Row{}, false
	}
	rows := t.Rows()
	if *cursor < 0 || *cursor >= len(rows) {
		return t, tree.Row{}, false
	}
	return t, rows[*cursor], true
}

func (m *BrowserModel) clampCursors() {
	clamp := func(t *tree.Model, cursor *int) {
		if t == nil {
			*cursor = 0
			return
		}
		if n := len(t.Rows()); *cursor >= n {
			*cursor = n - 1
		}
		if *cursor < 0 {
			*cursor = 0
		}
	}
	clamp(m.local, &m.localCursor)
	clamp(m.remote, &m.remoteCursor)
}

func (m *BrowserModel) selectCurrent() {
	_, row, ok := m.currentRow()
	if !ok || !row.Selectable() {
		return
	}

	p := row.Node.Path
	if m.activePane == LocalPane {
		m.session.SelectLocal(p)
		m.notify("Local selected: " + filepath.Base(p))
		return
	}
	m.session.SelectRemote(p)
	m.notify("Remote selected: " + path.Base(p))
}

func (m *BrowserModel) expandCurrent() {
	t, row, ok := m.currentRow()
	if !ok || !row.Selectable() || !row.Node.IsDir {
		return
	}
	t.Expand(row.Node)
}

// collapseCurrent folds the directory under the cursor, or the enclosing
// directory when the cursor is on a file or an error row
func (m *BrowserModel) collapseCurrent() {
	t, row, ok := m.currentRow()
	if !ok {
		return
	}

	node := row.Node
	if row.Selectable() && node.IsDir && node.Expanded {
		t.Collapse(node)
		return
	}

	target := node.Parent()
	if !row.Selectable() {
		target = node
	}
	if target == nil || target == t.Root() {
		return
	}

	t.Collapse(target)
	m.moveCursorTo(target)
}

func (m *BrowserModel) moveCursorTo(node *tree.Node) {
	t, cursor := m.activeTree()
	for i, row := range t.Rows() {
		if row.Node == node && row.Selectable() {
			*cursor = i
			return
		}
	}
}

func (m *BrowserModel) openPreview() tea.Cmd {
	sel := m.session.Selection()
	if sel.Local == "" {
		m.fail("Please select a local file/directory")
		return nil
	}
	if sel.Remote == "" {
		m.fail("Please select a remote file/directory")
		return nil
	}

	return func() tea.Msg {
		return OpenPreviewMsg{Selection: sel}
	}
}

// transfer sends the focused pane's selection over the live session
func (m *BrowserModel) transfer() {
	sel := m.session.Selection()

	target := sel.Local
	if m.activePane == RemotePane {
		target = sel.Remote
	}
	if target == "" {
		if m.activePane == RemotePane {
			m.fail("Please select a remote file/directory")
		} else {
			m.fail("Please select a local file/directory")
		}
		return
	}

	if m.executor == nil {
		m.fail(fmt.Sprintf("Not connected: %v", m.connErr))
		return
	}

	job := m.executor.Transfer(target)
	if job.Type == sftp.TransferUpload {
		m.notify("Uploading " + job.FileName + "...")
	} else {
		m.notify("Downloading " + job.FileName + "...")
	}
}

// refreshAfter re-lists the destination directory if it is on screen
func (m *BrowserModel) refreshAfter(job sftp.TransferJob) {
	if job.Type == sftp.TransferUpload {
		if m.remote == nil {
			return
		}
		if node := m.remote.Find(path.Dir(job.RemotePath)); node != nil && node.Expanded {
			m.remote.Expand(node)
		}
		return
	}

	if node := m.local.Find(filepath.Dir(job.LocalPath)); node != nil && node.Expanded {
		m.local.Expand(node)
	}
}

func (m *BrowserModel) notify(msg string) {
	m.statusMsg = msg
	m.errMsg = ""
}

func (m *BrowserModel) fail(msg string) {
	m.errMsg = msg
	m.statusMsg = ""
}

func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📁 scpick · " + m.session.Descriptor().ConnectionID()))
	b.WriteString("\n\n")

	const (
		titleLines  = 2 // Title + spacing
		statusLines = 3 // Selection + status
		helpLines   = 2 // Help text
	)

	paneHeight := m.height - titleLines - statusLines - helpLines - 2
	if paneHeight < 10 {
		paneHeight = 10 // Minimum height for panels
	}

	paneWidth := (m.width - 4) / 2 // -4 for spacing between panels
	if paneWidth < 30 {
		paneWidth = 30
	}

	sel := m.session.Selection()

	localPane := m.renderTree("💻 Local Files", m.local, m.localCursor, sel.Local, paneWidth, paneHeight)
	localPane = m.paneStyle(LocalPane, paneWidth, paneHeight).Render(localPane)

	var remotePane string
	if m.remote == nil {
		remotePane = errorPaneStyle.
			Width(paneWidth).
			Height(paneHeight).
			Render(errorStyle.Render("Connection Error:") + "\n\n" + fmt.Sprint(m.connErr))
	} else {
		remotePane = m.renderTree("🌐 Remote Files", m.remote, m.remoteCursor, sel.Remote, paneWidth, paneHeight)
		remotePane = m.paneStyle(RemotePane, paneWidth, paneHeight).Render(remotePane)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, localPane, "  ", remotePane))
	b.WriteString("\n\n")

	b.WriteString(itemStyle.Render(fmt.Sprintf("Local: %s", orNone(sel.Local))))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("Remote: %s", orNone(sel.Remote))))

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("✓ " + m.statusMsg))
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func orNone(p string) string {
	if p == "" {
		return "(none)"
	}
	return p
}

func (m *BrowserModel) paneStyle(pane PaneType, width, height int) lipgloss.Style {
	if m.activePane == pane {
		return activePaneStyle.Width(width).Height(height)
	}
	return inactivePaneStyle.Width(width).Height(height)
}

func (m *BrowserModel) renderTree(title string, t *tree.Model, cursor int, selected string, width, height int) string {
	var b strings.Builder

	paneTitle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	b.WriteString(paneTitle.Render(title))
	b.WriteString("\n")

	pathStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Italic(true)
	b.WriteString(pathStyle.Render(truncateLeft(t.Root().Path, width-4)))
	b.WriteString("\n\n")

	// Overhead: Title(1) + Path(1) + Spacing(1) = 3 lines
	displayCount := height - 3
	if displayCount < 5 {
		displayCount = 5
	}

	rows := t.Rows()
	startIdx := 0
	if cursor > displayCount/2 && len(rows) > displayCount {
		startIdx = cursor - displayCount/2
	}
	endIdx := startIdx + displayCount
	if endIdx > len(rows) {
		endIdx = len(rows)
	}

	for i := startIdx; i < endIdx; i++ {
		row := rows[i]
		prefix := "  "
		if i == cursor {
			prefix = "→ "
		}

		b.WriteString(prefix + renderRow(row, i == cursor, selected, width))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRow(row tree.Row, focused bool, selected string, width int) string {
	indent := strings.Repeat("  ", row.Depth)

	if !row.Selectable() {
		return errorStyle.UnsetMargins().Render(indent + "  " + row.ErrorText)
	}

	node := row.Node
	marker := "  "
	icon := "📄"
	if node.IsDir {
		icon = "📁"
		marker = "▸ "
		if node.Expanded {
			marker = "▾ "
		}
	}

	name := truncateRight(node.Name, width-20-ansi.StringWidth(indent))

	line := fmt.Sprintf("%s%s%s %s", indent, marker, icon, name)
	if !node.IsDir {
		line += " " + sizeStyle.Render(humanize.Bytes(uint64(node.Size)))
	}

	switch {
	case node.Path == selected:
		return markedItemStyle.Render(line + " ✓")
	case focused:
		return selectedItemStyle.Render(line)
	default:
		return itemStyle.Render(line)
	}
}

// truncateRight and truncateLeft cut by display cells so wide runes and
// multi-byte names are never split
func truncateRight(s string, width int) string {
	if width <= 3 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

func truncateLeft(s string, width int) string {
	w := ansi.StringWidth(s)
	if width <= 3 || w <= width {
		return s
	}
	return ansi.TruncateLeft(s, w-width+3, "...")
}
