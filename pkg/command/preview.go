package command

import "github.com/quocson95/scpick/pkg/ssh"

// Preview is the editable command shown for one local/remote pair.
//
// Direction and Tool are toggled independently and every toggle rebuilds
// Text, discarding any hand edits made with SetText.
type Preview struct {
	LocalPath  string
	RemotePath string
	Descriptor ssh.Descriptor
	Direction  Direction
	Tool       Tool

	text string
}

// NewPreview creates a preview for the pair and renders its first command
func NewPreview(localPath, remotePath string, d ssh.Descriptor, tool Tool) *Preview {
	p := &Preview{
		LocalPath:  localPath,
		RemotePath: remotePath,
		Descriptor: d,
		Direction:  LocalToRemote,
		Tool:       tool,
	}
	p.Regenerate()
	return p
}

// Regenerate rebuilds Text from the current direction and tool
func (p *Preview) Regenerate() {
	if p.LocalPath == "" || p.RemotePath == "" {
		return
	}
	p.text = Build(p.LocalPath, p.RemotePath, p.Descriptor, p.Direction, p.Tool)
}

// ToggleDirection flips the direction and rebuilds the command
func (p *Preview) ToggleDirection() Direction {
	p.Direction = p.Direction.Opposite()
	p.Regenerate()
	return p.Direction
}

// ToggleTool switches between scp and rsync and rebuilds the command
func (p *Preview) ToggleTool() Tool {
	p.Tool = p.Tool.Other()
	p.Regenerate()
	return p.Tool
}

// Text returns the command as currently displayed
func (p *Preview) Text() string {
	return p.text
}

// SetText records a hand edit of the displayed command
func (p *Preview) SetText(text string) {
	p.text = text
}
