package tree

// Node is a single entry of an OrderedTree.
//
// A node owns its left and right children. The parent link is a plain back
// reference used only to splice nodes out during removal; it never keeps a
// detached subtree alive because removal clears it.
type Node[T any] struct {
	value  T
	left   *Node[T]
	right  *Node[T]
	parent *Node[T]
}

// Value returns the value stored in the node.
func (n *Node[T]) Value() T {
	return n.value
}

// Left returns the node's left child, or nil.
func (n *Node[T]) Left() *Node[T] {
	return n.left
}

// Right returns the node's right child, or nil.
func (n *Node[T]) Right() *Node[T] {
	return n.right
}

// Parent returns the node's parent, or nil for the root.
func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// IsLeaf reports whether the node has no children.
func (n *Node[T]) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// HasLeft reports whether the node has a left child.
func (n *Node[T]) HasLeft() bool {
	return n.left != nil
}

// HasRight reports whether the node has a right child.
func (n *Node[T]) HasRight() bool {
	return n.right != nil
}

// min returns the leftmost node of the subtree rooted at n.
func (n *Node[T]) min() *Node[T] {
	curr := n
	for curr.left != nil {
		curr = curr.left
	}
	return curr
}

// max returns the rightmost node of the subtree rooted at n.
func (n *Node[T]) max() *Node[T] {
	curr := n
	for curr.right != nil {
		curr = curr.right
	}
	return curr
}
