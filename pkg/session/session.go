// Package session carries the state shared by the screens of one login.
package session

import (
	"github.com/quocson95/scpick/pkg/ssh"
)

// Selection is the pair of paths picked in the two panes.
// An empty string means nothing is selected on that side.
type Selection struct {
	Local  string
	Remote string
}

// Complete reports whether both sides are selected
func (s Selection) Complete() bool {
	return s.Local != "" && s.Remote != ""
}

// Session owns the connection descriptor and current selection
type Session struct {
	descriptor ssh.Descriptor
	selection  Selection
}

// New creates a session for d
func New(d ssh.Descriptor) *Session {
	return &Session{descriptor: d}
}

// Descriptor returns the session's connection descriptor
func (s *Session) Descriptor() ssh.Descriptor {
	return s.descriptor
}

// Selection returns the current selection pair
func (s *Session) Selection() Selection {
	return s.selection
}

// SelectLocal replaces the local selection
func (s *Session) SelectLocal(path string) {
	s.selection.Local = path
}

// SelectRemote replaces the remote selection
func (s *Session) SelectRemote(path string) {
	s.selection.Remote = path
}

// ClearSelection forgets both selections
func (s *Session) ClearSelection() {
	s.selection = Selection{}
}
