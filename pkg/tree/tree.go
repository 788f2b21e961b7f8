// Package tree holds a lazily populated directory hierarchy.
//
// Children of a directory are fetched from a Lister only when the directory
// is expanded, and are fetched again on every expansion.
package tree

import (
	"log"
	"path"
	"sort"
)

// DefaultRemoteRoot is the remote directory shown when none is configured
const DefaultRemoteRoot = "/root"

// Entry is one item returned by a Lister
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Lister lists the immediate contents of a directory
type Lister interface {
	ListDirectory(path string) ([]Entry, error)
}

// LoadState tracks whether a directory's children have been listed
type LoadState int

const (
	Unloaded LoadState = iota
	Loaded
	LoadError
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case LoadError:
		return "error"
	default:
		return "unknown"
	}
}

// Node is a file or directory in the tree
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	Size     int64
	State    LoadState
	Err      string // listing failure message when State is LoadError
	Expanded bool
	Children []*Node

	parent *Node
}

// Parent returns the node's parent, nil for the root
func (n *Node) Parent() *Node {
	return n.parent
}

// Depth returns the number of ancestors
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Model is a lazily loaded directory tree rooted at a fixed path
type Model struct {
	lister Lister
	join   func(elem ...string) string
	root   *Node
}

// Option configures a Model
type Option func(*Model)

// WithJoin overrides how child paths are built from parent path and name.
// Remote trees use POSIX joining; local trees pass filepath.Join.
func WithJoin(join func(elem ...string) string) Option {
	return func(m *Model) {
		m.join = join
	}
}

// New creates a tree and synchronously lists its root
func New(lister Lister, rootPath string, opts ...Option) *Model {
	m := &Model{
		lister: lister,
		join:   path.Join,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.root = &Node{
		Path:  rootPath,
		Name:  rootPath,
		IsDir: true,
	}
	m.Expand(m.root)
	return m
}

// Root returns the synthetic root node
func (m *Model) Root() *Node {
	return m.root
}

// Expand lists node's directory, replacing any previous children.
// Files are left untouched. A listing failure is recorded on the node only.
func (m *Model) Expand(node *Node) {
	if node == nil || !node.IsDir {
		return
	}

	node.Children = nil
	node.Err = ""
	node.Expanded = true

	entries, err := m.lister.ListDirectory(node.Path)
	if err != nil {
		log.Printf("[ERROR] Failed to list %s: %v", node.Path, err)
		node.State = LoadError
		node.Err = err.Error()
		return
	}

	sortEntries(entries)

	node.Children = make([]*Node, 0, len(entries))
	for _, e := range entries {
		node.Children = append(node.Children, &Node{
			Path:   m.join(node.Path, e.Name),
			Name:   e.Name,
			IsDir:  e.IsDir,
			Size:   e.Size,
			State:  Unloaded,
			parent: node,
		})
	}
	node.State = Loaded
}

// Collapse hides node's children. They are re-listed on the next Expand.
func (m *Model) Collapse(node *Node) {
	if node == nil || !node.IsDir {
		return
	}
	node.Expanded = false
}

// sortEntries orders directories first, then by name
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}
