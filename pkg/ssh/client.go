package ssh

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quocson95/scpick/pkg/apperr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// dialTimeout bounds the TCP connect and handshake
const dialTimeout = 30 * time.Second

// defaultKeyFiles are tried, in order, when present and unencrypted
var defaultKeyFiles = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// Client manages a single SSH connection
type Client struct {
	desc      Descriptor
	client    *ssh.Client
	agentConn net.Conn // ssh-agent socket, open while the client is
	mu        sync.Mutex
}

// NewClient creates a new SSH client
func NewClient(desc Descriptor) *Client {
	return &Client{
		desc: desc,
	}
}

// knownHostsPath returns ~/.ssh/known_hosts, creating it if missing
func knownHostsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	sshDir := filepath.Join(homeDir, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return "", err
	}

	path := filepath.Join(sshDir, "known_hosts")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return "", err
		}
		f.Close()
	}
	return path, nil
}

// getHostKeyCallback verifies against known_hosts and records hosts seen for
// the first time. A host whose key changed is rejected.
func getHostKeyCallback() ssh.HostKeyCallback {
	path, err := knownHostsPath()
	if err != nil {
		log.Printf("[WARN] known_hosts unavailable, host keys not verified: %v", err)
		return ssh.InsecureIgnoreHostKey()
	}
	return hostKeyCallbackFor(path)
}

func hostKeyCallbackFor(path string) ssh.HostKeyCallback {
	var mu sync.Mutex
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		mu.Lock()
		defer mu.Unlock()

		verify, err := knownhosts.New(path)
		if err != nil {
			return fmt.Errorf("failed to read known_hosts: %w", err)
		}

		err = verify(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if err == nil || !errors.As(err, &keyErr) || len(keyErr.Want) > 0 {
			return err
		}

		// Unknown host: remember it
		f, ferr := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
		if ferr != nil {
			return fmt.Errorf("failed to record host key: %w", ferr)
		}
		defer f.Close()

		addrs := []string{knownhosts.Normalize(hostname)}
		if remote != nil {
			if ra := knownhosts.Normalize(remote.String()); ra != addrs[0] {
				addrs = append(addrs, ra)
			}
		}
		if _, ferr := fmt.Fprintln(f, knownhosts.Line(addrs, key)); ferr != nil {
			return fmt.Errorf("failed to record host key: %w", ferr)
		}
		log.Printf("[INFO] Added %s to known_hosts (%s)", hostname, ssh.FingerprintSHA256(key))
		return nil
	}
}

// authMethods collects password, agent and default key file authentication
func (c *Client) authMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod
	if c.desc.Password != "" {
		methods = append(methods, ssh.Password(c.desc.Password))
		methods = append(methods, ssh.KeyboardInteractive(
			func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = c.desc.Password
				}
				return answers, nil
			}))
	}

	var signers []ssh.Signer
	c.closeAgent()
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			// Agent signers call back over conn during the handshake
			c.agentConn = conn
			if agentSigners, err := agent.NewClient(conn).Signers(); err == nil {
				signers = append(signers, agentSigners...)
			}
		}
	}
	signers = append(signers, defaultKeySigners()...)
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	return methods
}

// defaultKeySigners loads unencrypted keys from ~/.ssh
func defaultKeySigners() []ssh.Signer {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var signers []ssh.Signer
	for _, name := range defaultKeyFiles {
		content, err := os.ReadFile(filepath.Join(homeDir, ".ssh", name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(content)
		if err != nil {
			// Encrypted or unsupported; there is no passphrase prompt
			continue
		}
		signers = append(signers, signer)
	}
	return signers
}

// Connect establishes the SSH connection
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.desc.Validate(); err != nil {
		return apperr.New(apperr.ConnectionFailed, "invalid config", err)
	}

	sshConfig := &ssh.ClientConfig{
		User:            c.desc.Username,
		Auth:            c.authMethods(),
		HostKeyCallback: getHostKeyCallback(),
		Timeout:         dialTimeout,
	}

	client, err := ssh.Dial("tcp", c.desc.Address(), sshConfig)
	if err != nil {
		c.closeAgent()
		return apperr.New(apperr.ConnectionFailed, "failed to dial "+c.desc.Address(), err)
	}

	c.client = client
	log.Printf("[INFO] Connected to %s", c.desc.ConnectionID())
	return nil
}

// Close closes the SSH connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeAgent()
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}

// closeAgent releases the ssh-agent socket; callers hold mu
func (c *Client) closeAgent() {
	if c.agentConn != nil {
		c.agentConn.Close()
		c.agentConn = nil
	}
}

// GetRawClient returns the underlying SSH client for SFTP usage
func (c *Client) GetRawClient() *ssh.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}
