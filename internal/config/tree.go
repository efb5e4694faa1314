package config

// Node is a single node in a configuration tree. Every node carries an
// optional scalar value plus an ordered list of children. Child keys are not
// unique: inserting the same key twice yields two sibling entries, and the
// insertion order is preserved.
type Node struct {
	Value    string
	Children []Child
}

// Child pairs a key with its subtree.
type Child struct {
	Key  string
	Node *Node
}

// Add appends a child under key and returns the child's node. A nil child
// allocates an empty subtree. Existing children with the same key are kept;
// the new entry lands after them.
func (n *Node) Add(key string, child *Node) *Node {
	if child == nil {
		child = &Node{}
	}
	n.Children = append(n.Children, Child{Key: key, Node: child})
	return child
}

// Get returns the first child stored under key, or nil when no child
// matches.
func (n *Node) Get(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c.Node
		}
	}
	return nil
}

// Len reports the number of direct children.
func (n *Node) Len() int {
	return len(n.Children)
}
