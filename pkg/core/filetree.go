package core

// FileTreeNode is a directory or file within a project snapshot.
type FileTreeNode struct {
	// Name is the base name of the entry
	Name string `json:"name"`
	// Path is the project-relative path, slash separated
	Path string `json:"path"`
	// IsDir is true for directories
	IsDir bool `json:"isDir"`
	// Children holds directory entries: directories first, then files, each lexical
	Children []*FileTreeNode `json:"children,omitempty"`
	// Obj is the parsed config for recognized JSON config files
	Obj *RawConfig `json:"obj,omitempty"`
}

// Walk visits n and its descendants in pre-order.
// Returning false from fn stops descent into that node's children.
func (n *FileTreeNode) Walk(fn func(*FileTreeNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// WalkTree visits every node of a forest in pre-order.
func WalkTree(nodes []*FileTreeNode, fn func(*FileTreeNode) bool) {
	for _, n := range nodes {
		n.Walk(fn)
	}
}

// Find returns the node at the given slash-separated relative path.
func Find(nodes []*FileTreeNode, path string) (*FileTreeNode, bool) {
	var found *FileTreeNode
	WalkTree(nodes, func(n *FileTreeNode) bool {
		if found != nil {
			return false
		}
		if n.Path == path {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}
