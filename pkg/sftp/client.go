package sftp

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/sftp"
	"github.com/quocson95/scpick/pkg/apperr"
	"github.com/quocson95/scpick/pkg/tree"
	"golang.org/x/crypto/ssh"
)

// Client wraps one SFTP session. Listing and transfers share the session,
// so every call is serialised through mu.
type Client struct {
	mu         sync.Mutex
	sftpClient *sftp.Client
}

// NewClient creates a new SFTP client from an existing SSH connection
func NewClient(sshClient *ssh.Client) (*Client, error) {
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, apperr.New(apperr.ConnectionFailed, "failed to create SFTP client", err)
	}

	return newClient(sftpClient), nil
}

func newClient(sftpClient *sftp.Client) *Client {
	return &Client{
		sftpClient: sftpClient,
	}
}

// ListDirectory lists the entries of a remote directory
func (c *Client) ListDirectory(path string) ([]tree.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos, err := c.sftpClient.ReadDir(path)
	if err != nil {
		return nil, apperr.New(apperr.ListingFailed, "failed to list "+path, err)
	}

	entries := make([]tree.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, tree.Entry{
			Name:  info.Name(),
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// Get downloads a remote file to localPath
func (c *Client) Get(remotePath, localPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	remoteFile, err := c.sftpClient.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open remote file: %w", err)
	}
	defer remoteFile.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	defer localFile.Close()

	if _, err := io.Copy(localFile, remoteFile); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	return localFile.Close()
}

// Put uploads a local file to remotePath
func (c *Client) Put(localPath, remotePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	remoteFile, err := c.sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file: %w", err)
	}
	defer remoteFile.Close()

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	return remoteFile.Close()
}

// GetWorkingDirectory gets the remote working directory
func (c *Client) GetWorkingDirectory() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sftpClient.Getwd()
}

// Close closes the SFTP session
func (c *Client) Close() error {
	return c.sftpClient.Close()
}
