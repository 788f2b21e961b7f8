// Package command renders scp and rsync invocations for a local/remote pair.
package command

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/quocson95/scpick/pkg/ssh"
)

// Direction is the way data flows in a transfer command
type Direction int

const (
	LocalToRemote Direction = iota
	RemoteToLocal
)

func (d Direction) String() string {
	if d == RemoteToLocal {
		return "Remote → Local"
	}
	return "Local → Remote"
}

// Opposite returns the reversed direction
func (d Direction) Opposite() Direction {
	if d == LocalToRemote {
		return RemoteToLocal
	}
	return LocalToRemote
}

// Tool is the external program a command is rendered for
type Tool int

const (
	SCP Tool = iota
	Rsync
)

func (t Tool) String() string {
	if t == Rsync {
		return "rsync"
	}
	return "scp"
}

// Other returns the alternative tool
func (t Tool) Other() Tool {
	if t == SCP {
		return Rsync
	}
	return SCP
}

// ParseTool maps a tool name to a Tool, falling back to SCP
func ParseTool(name string) Tool {
	if strings.EqualFold(strings.TrimSpace(name), "rsync") {
		return Rsync
	}
	return SCP
}

// Build returns a single-line shell command that copies between localPath
// and remotePath on the host described by d. Paths are not validated.
func Build(localPath, remotePath string, d ssh.Descriptor, dir Direction, tool Tool) string {
	local := quoteLocal(localPath)
	remote := fmt.Sprintf("%s@%s:%s", d.Username, d.Host, shellescape.Quote(remotePath))

	source, dest := local, remote
	if dir == RemoteToLocal {
		source, dest = remote, local
	}

	if tool == Rsync {
		return fmt.Sprintf("rsync -avz --partial --progress -e 'ssh -p %s' %s %s", d.Port, source, dest)
	}
	return fmt.Sprintf("scp -P %s %s %s", d.Port, source, dest)
}

var doubleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// quoteLocal wraps p in double quotes, escaping what the shell would
// otherwise interpret inside them
func quoteLocal(p string) string {
	return `"` + doubleQuoteEscaper.Replace(p) + `"`
}
