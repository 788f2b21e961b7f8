package tree

// Row is one visible line of the rendered tree
type Row struct {
	Node  *Node
	Depth int
	// ErrorText is set for the inline row shown beneath a directory whose
	// listing failed. Such rows carry the failed directory as Node and are
	// neither selectable nor expandable.
	ErrorText string
}

// Selectable reports whether the row stands for a real entry
func (r Row) Selectable() bool {
	return r.ErrorText == ""
}

// Rows flattens the expanded part of the tree, excluding the root itself
func (m *Model) Rows() []Row {
	var rows []Row
	appendRows(&rows, m.root, 0)
	return rows
}

func appendRows(rows *[]Row, node *Node, depth int) {
	if !node.Expanded {
		return
	}
	if node.State == LoadError {
		*rows = append(*rows, Row{Node: node, Depth: depth, ErrorText: "Error: " + node.Err})
		return
	}
	for _, child := range node.Children {
		*rows = append(*rows, Row{Node: child, Depth: depth})
		if child.IsDir {
			appendRows(rows, child, depth+1)
		}
	}
}

// Find returns the loaded node with the given path, or nil
func (m *Model) Find(path string) *Node {
	return find(m.root, path)
}

func find(node *Node, path string) *Node {
	if node.Path == path {
		return node
	}
	for _, child := range node.Children {
		if found := find(child, path); found != nil {
			return found
		}
	}
	return nil
}
