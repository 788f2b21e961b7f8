package tui

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quocson95/scpick/pkg/sftp"
	"github.com/quocson95/scpick/pkg/ssh"
	"github.com/quocson95/scpick/pkg/tree"
)

// RemoteLister lists remote directories and reports where the login started
type RemoteLister interface {
	tree.Lister
	GetWorkingDirectory() (string, error)
}

// RemoteFS is the remote side of a session: listing for the tree and
// single file transfers for the executor
type RemoteFS interface {
	RemoteLister
	sftp.Transferrer
	Close() error
}

// Connector opens a RemoteFS for a descriptor
type Connector func(d ssh.Descriptor) (RemoteFS, error)

// ConnectResultMsg is sent when a connection attempt finishes
type ConnectResultMsg struct {
	Remote RemoteFS
	Err    error
}

// connection routes listings and transfers to separate SFTP sessions over
// one SSH transport, so a running transfer never holds up the tree
type connection struct {
	lister    RemoteLister
	transfers sftp.Transferrer
	closers   []io.Closer // closed in order
}

func (c *connection) ListDirectory(path string) ([]tree.Entry, error) {
	return c.lister.ListDirectory(path)
}

func (c *connection) GetWorkingDirectory() (string, error) {
	return c.lister.GetWorkingDirectory()
}

func (c *connection) Put(localPath, remotePath string) error {
	return c.transfers.Put(localPath, remotePath)
}

func (c *connection) Get(remotePath, localPath string) error {
	return c.transfers.Get(remotePath, localPath)
}

func (c *connection) Close() error {
	var err error
	for _, closer := range c.closers {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// DialSFTP connects over SSH and opens the browsing and transfer sessions
func DialSFTP(d ssh.Descriptor) (RemoteFS, error) {
	sshClient := ssh.NewClient(d)
	if err := sshClient.Connect(); err != nil {
		log.Printf("[ERROR] SSH connection failed for %s: %v", d.ConnectionID(), err)
		return nil, err
	}

	browse, err := sftp.NewClient(sshClient.GetRawClient())
	if err != nil {
		log.Printf("[ERROR] SFTP initialization failed for %s: %v", d.ConnectionID(), err)
		sshClient.Close()
		return nil, err
	}

	transfers, err := sftp.NewClient(sshClient.GetRawClient())
	if err != nil {
		log.Printf("[ERROR] SFTP transfer session failed for %s: %v", d.ConnectionID(), err)
		browse.Close()
		sshClient.Close()
		return nil, err
	}

	return &connection{
		lister:    browse,
		transfers: transfers,
		closers:   []io.Closer{transfers, browse, sshClient},
	}, nil
}

// connectCmd runs connect off the UI loop
func connectCmd(connect Connector, d ssh.Descriptor) tea.Cmd {
	return func() tea.Msg {
		remote, err := connect(d)
		if err != nil {
			return ConnectResultMsg{Err: err}
		}
		return ConnectResultMsg{Remote: remote}
	}
}
