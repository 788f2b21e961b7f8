package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/quocson95/scpick/pkg/session"
	"github.com/quocson95/scpick/pkg/sftp"
	"github.com/quocson95/scpick/pkg/ssh"
	"github.com/quocson95/scpick/pkg/tree"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestBrowser builds a browser over a temp local root with one file
func newTestBrowser(t *testing.T, remote RemoteFS, connErr error) (*BrowserModel, string) {
	t.Helper()

	localRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(localRoot, "report.pdf"), []byte("data"), 0600); err != nil {
		t.Fatal(err)
	}

	sess := session.New(ssh.Descriptor{Host: "h", Port: "22", Username: "u"})
	m := NewBrowserModel(sess, remote, connErr, BrowserOptions{
		LocalRoot:         localRoot,
		RemoteRoot:        "/root",
		RemoteTransferDir: "/root",
		DownloadDir:       t.TempDir(),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, localRoot
}

func TestBrowserSelection(t *testing.T) {
	t.Run("Core Functionality: Select both sides and open preview", func(t *testing.T) {
		m, localRoot := newTestBrowser(t, newFakeRemote(), nil)

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if got := m.session.Selection().Local; got != filepath.Join(localRoot, "report.pdf") {
			t.Errorf("Unexpected local selection '%s'", got)
		}
		if m.statusMsg != "Local selected: report.pdf" {
			t.Errorf("Unexpected status '%s'", m.statusMsg)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		// Rows: docs, locked, notes.txt
		m.Update(keyRunes("j"))
		m.Update(keyRunes("j"))
		m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
		if got := m.session.Selection().Remote; got != "/root/notes.txt" {
			t.Errorf("Unexpected remote selection '%s'", got)
		}
		if m.statusMsg != "Remote selected: notes.txt" {
			t.Errorf("Unexpected status '%s'", m.statusMsg)
		}

		_, cmd := m.Update(keyRunes("t"))
		if cmd == nil {
			t.Fatal("Expected preview command")
		}
		msg, ok := cmd().(OpenPreviewMsg)
		if !ok {
			t.Fatalf("Expected OpenPreviewMsg, got %T", cmd())
		}
		if !msg.Selection.Complete() {
			t.Errorf("Expected complete selection, got %+v", msg.Selection)
		}
	})

	t.Run("Error Handling: Preview requires both selections", func(t *testing.T) {
		m, _ := newTestBrowser(t, newFakeRemote(), nil)

		_, cmd := m.Update(keyRunes("t"))
		if cmd != nil {
			t.Error("Expected no preview without selection")
		}
		if m.errMsg != "Please select a local file/directory" {
			t.Errorf("Unexpected error '%s'", m.errMsg)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(keyRunes("t"))
		if m.errMsg != "Please select a remote file/directory" {
			t.Errorf("Unexpected error '%s'", m.errMsg)
		}
	})

	t.Run("Core Functionality: Clear selection", func(t *testing.T) {
		m, _ := newTestBrowser(t, newFakeRemote(), nil)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		m.Update(keyRunes("c"))
		if m.session.Selection() != (session.Selection{}) {
			t.Errorf("Expected empty selection, got %+v", m.session.Selection())
		}
		if m.statusMsg != "Selection cleared." {
			t.Errorf("Unexpected status '%s'", m.statusMsg)
		}
	})
}

func TestBrowserTree(t *testing.T) {
	t.Run("Core Functionality: Expand and collapse", func(t *testing.T) {
		m, _ := newTestBrowser(t, newFakeRemote(), nil)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})

		before := len(m.remote.Rows())
		m.Update(keyRunes("l"))
		if got := len(m.remote.Rows()); got != before+1 {
			t.Fatalf("Expected %d rows after expand, got %d", before+1, got)
		}

		// Collapse from the child moves the cursor back to the directory
		m.Update(keyRunes("j"))
		m.Update(keyRunes("h"))
		if got := len(m.remote.Rows()); got != before {
			t.Errorf("Expected %d rows after collapse, got %d", before, got)
		}
		if m.remoteCursor != 0 {
			t.Errorf("Expected cursor on docs, got %d", m.remoteCursor)
		}
	})

	t.Run("Error Handling: Listing failure row is not selectable", func(t *testing.T) {
		m, _ := newTestBrowser(t, newFakeRemote(), nil)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})

		// locked is the second row
		m.Update(keyRunes("j"))
		m.Update(keyRunes("l"))

		rows := m.remote.Rows()
		errRow := rows[2]
		if errRow.Selectable() {
			t.Fatal("Expected error row after failed expand")
		}
		if !strings.Contains(errRow.ErrorText, "permission denied") {
			t.Errorf("Unexpected error text '%s'", errRow.ErrorText)
		}

		m.Update(keyRunes("j"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.session.Selection().Remote != "" {
			t.Error("Error row must not be selectable")
		}

		// Siblings stay intact
		if rows[0].Node.Name != "docs" || rows[3].Node.Name != "notes.txt" {
			t.Error("Sibling rows changed after failed expand")
		}
	})

	t.Run("Edge Cases: Connection failure shows error panel", func(t *testing.T) {
		m, _ := newTestBrowser(t, nil, errors.New("dial tcp: connection refused"))

		view := m.View()
		if !strings.Contains(view, "Connection Error:") || !strings.Contains(view, "connection refused") {
			t.Error("Expected connection error panel in view")
		}

		// Local side keeps working
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.session.Selection().Local == "" {
			t.Error("Expected local selection to work without a connection")
		}

		m.Update(keyRunes("x"))
		if !strings.HasPrefix(m.errMsg, "Not connected") {
			t.Errorf("Unexpected error '%s'", m.errMsg)
		}
		if m.Init() != nil {
			t.Error("Expected no transfer listener without a connection")
		}
	})

	t.Run("Edge Cases: Unlistable root falls back to working directory", func(t *testing.T) {
		remote := newFakeRemote()
		remote.failing["/root"] = errors.New("permission denied")

		m, _ := newTestBrowser(t, remote, nil)
		if got := m.remote.Root().Path; got != "/home/u" {
			t.Fatalf("Expected remote root '/home/u', got '%s'", got)
		}
		if rows := m.remote.Rows(); len(rows) != 1 || rows[0].Node.Name != ".profile" {
			t.Errorf("Unexpected rows %v", rows)
		}
		if !strings.Contains(m.statusMsg, "/home/u") {
			t.Errorf("Expected status to name the fallback, got '%s'", m.statusMsg)
		}
	})

	t.Run("Edge Cases: Failed root stays when working directory is unknown", func(t *testing.T) {
		remote := newFakeRemote()
		remote.failing["/root"] = errors.New("permission denied")
		remote.wd = ""

		m, _ := newTestBrowser(t, remote, nil)
		if m.remote.Root().Path != "/root" || m.remote.Root().State != tree.LoadError {
			t.Error("Expected the failed root to be kept")
		}
	})
}

func TestTruncate(t *testing.T) {
	t.Run("Core Functionality: Short strings are untouched", func(t *testing.T) {
		if got := truncateRight("notes.txt", 20); got != "notes.txt" {
			t.Errorf("Expected 'notes.txt', got '%s'", got)
		}
		if got := truncateLeft("/root/docs", 20); got != "/root/docs" {
			t.Errorf("Expected '/root/docs', got '%s'", got)
		}
	})

	t.Run("Core Functionality: Long ASCII is cut with an ellipsis", func(t *testing.T) {
		if got := truncateRight("abcdefghijklmnop", 10); got != "abcdefg..." {
			t.Errorf("Expected 'abcdefg...', got '%s'", got)
		}
		if got := truncateLeft("/very/long/remote/path", 10); got != "...te/path" {
			t.Errorf("Expected '...te/path', got '%s'", got)
		}
	})

	t.Run("Edge Cases: Multi-byte and wide names stay valid", func(t *testing.T) {
		names := []string{
			"résumé-définitif-très-long.txt",
			"日本語のファイル名がとても長い.txt",
			"📁📄📁📄📁📄📁📄📁📄.bin",
		}
		for _, name := range names {
			for width := 4; width <= 16; width++ {
				for _, got := range []string{truncateRight(name, width), truncateLeft(name, width)} {
					if !utf8.ValidString(got) {
						t.Fatalf("Invalid UTF-8 for %q at width %d: %q", name, width, got)
					}
					if w := ansi.StringWidth(got); w > width {
						t.Errorf("Width %d exceeds %d for %q: %q", w, width, name, got)
					}
				}
			}
		}
	})

	t.Run("Edge Cases: Rendered row keeps wide names valid", func(t *testing.T) {
		remote := newFakeRemote()
		remote.dirs["/root"] = []tree.Entry{{Name: strings.Repeat("長", 60), Size: 1}}

		m, _ := newTestBrowser(t, remote, nil)
		row := renderRow(m.remote.Rows()[0], false, "", 40)
		if !utf8.ValidString(row) {
			t.Errorf("Row is not valid UTF-8: %q", row)
		}
		if !strings.Contains(row, "...") {
			t.Errorf("Expected ellipsis in %q", row)
		}
	})
}

func TestBrowserTransfer(t *testing.T) {
	t.Run("Core Functionality: Upload focused selection", func(t *testing.T) {
		remote := newFakeRemote()
		m, localRoot := newTestBrowser(t, remote, nil)

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(keyRunes("x"))
		if m.statusMsg != "Uploading report.pdf..." {
			t.Errorf("Unexpected status '%s'", m.statusMsg)
		}

		msg, ok := m.waitForTransferUpdate().(sftp.TransferStatusMsg)
		if !ok {
			t.Fatal("Expected TransferStatusMsg")
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Error("Expected browser to keep listening for transfers")
		}
		if m.statusMsg != "Transfer completed: report.pdf" {
			t.Errorf("Unexpected status '%s'", m.statusMsg)
		}

		want := [2]string{filepath.Join(localRoot, "report.pdf"), "/root/report.pdf"}
		if len(remote.puts) != 1 || remote.puts[0] != want {
			t.Errorf("Unexpected puts %v", remote.puts)
		}
	})

	t.Run("Error Handling: Download failure is reported", func(t *testing.T) {
		remote := newFakeRemote()
		m, _ := newTestBrowser(t, remote, nil)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m.Update(keyRunes("j"))
		m.Update(keyRunes("j"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(keyRunes("x"))

		msg := m.waitForTransferUpdate().(sftp.TransferStatusMsg)
		m.Update(msg)
		if m.errMsg != "Transfer failed: no such file" {
			t.Errorf("Unexpected error '%s'", m.errMsg)
		}
	})

	t.Run("Error Handling: Transfer needs a selection in the focused pane", func(t *testing.T) {
		m, _ := newTestBrowser(t, newFakeRemote(), nil)
		m.Update(tea.KeyMsg{Type: tea.KeyTab})

		m.Update(keyRunes("x"))
		if m.errMsg != "Please select a remote file/directory" {
			t.Errorf("Unexpected error '%s'", m.errMsg)
		}
	})
}
