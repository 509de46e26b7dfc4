// Package tree implements the ordered container behind the word index: an
// unbalanced binary search tree with parent links.
//
// Values are ordered by a caller-supplied comparison. Equal values are never
// stored twice. The tree does not rebalance, so sorted input produces a
// chain whose height equals Size()-1; every descent and traversal is
// iterative so such chains cannot exhaust the stack.
//
// Height convention: an empty tree has height -1 and a single node has
// height 0 (the number of edges on the longest root-to-leaf path).
//
// An OrderedTree is not safe for concurrent use. Callers that share one
// across goroutines must serialize every call, including traversals.
package tree

import (
	"cmp"
	"fmt"
	"reflect"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

var (
	// ErrInvalidArgument matches (via errors.Is) errors returned when a nil
	// value is passed to the tree.
	ErrInvalidArgument = apperrors.New(apperrors.ErrCodeInvalidArgument, "value must not be nil", nil)

	// ErrEmptyContainer matches errors returned by Root on an empty tree.
	ErrEmptyContainer = apperrors.New(apperrors.ErrCodeEmptyContainer, "tree is empty", nil)
)

// CompareFunc returns a negative number when a < b, zero when a == b and a
// positive number when a > b.
type CompareFunc[T any] func(a, b T) int

// OrderedTree is an unbalanced binary search tree.
type OrderedTree[T any] struct {
	root *Node[T]
	cmp  CompareFunc[T]
	size int
}

// New returns an empty tree ordered by cmp.
func New[T any](cmp CompareFunc[T]) *OrderedTree[T] {
	return &OrderedTree[T]{cmp: cmp}
}

// NewOrdered returns an empty tree of naturally ordered values.
func NewOrdered[T cmp.Ordered]() *OrderedTree[T] {
	return New[T](cmp.Compare[T])
}

// NewWith returns a tree ordered by cmp that already holds value.
func NewWith[T any](cmp CompareFunc[T], value T) (*OrderedTree[T], error) {
	t := New(cmp)
	if _, err := t.Insert(value); err != nil {
		return nil, err
	}
	return t, nil
}

// Size returns the number of values stored in the tree.
func (t *OrderedTree[T]) Size() int {
	return t.size
}

// IsEmpty reports whether the tree holds no values.
func (t *OrderedTree[T]) IsEmpty() bool {
	return t.size == 0
}

// Root returns the root node. It fails with ErrEmptyContainer when the tree
// is empty.
func (t *OrderedTree[T]) Root() (*Node[T], error) {
	if t.root == nil {
		return nil, apperrors.New(apperrors.ErrCodeEmptyContainer, "root: tree is empty", nil)
	}
	return t.root, nil
}

// Insert adds value to the tree. It returns false without modifying the
// tree when an equal value is already stored, and ErrInvalidArgument when
// value is nil.
func (t *OrderedTree[T]) Insert(value T) (bool, error) {
	if isNil(value) {
		return false, invalidArgument("insert")
	}

	var parent *Node[T]
	var c int
	for curr := t.root; curr != nil; {
		c = t.cmp(value, curr.value)
		switch {
		case c < 0:
			parent, curr = curr, curr.left
		case c > 0:
			parent, curr = curr, curr.right
		default:
			return false, nil
		}
	}

	n := &Node[T]{value: value, parent: parent}
	switch {
	case parent == nil:
		t.root = n
	case c < 0:
		parent.left = n
	default:
		parent.right = n
	}

	t.size++
	return true, nil
}

// Search returns the node holding a value equal to value, or nil when there
// is none.
func (t *OrderedTree[T]) Search(value T) (*Node[T], error) {
	if isNil(value) {
		return nil, invalidArgument("search")
	}
	return t.find(value), nil
}

// Contains reports whether a value equal to value is stored.
func (t *OrderedTree[T]) Contains(value T) (bool, error) {
	if isNil(value) {
		return false, invalidArgument("contains")
	}
	return t.find(value) != nil, nil
}

func (t *OrderedTree[T]) find(value T) *Node[T] {
	curr := t.root
	for curr != nil {
		c := t.cmp(value, curr.value)
		switch {
		case c < 0:
			curr = curr.left
		case c > 0:
			curr = curr.right
		default:
			return curr
		}
	}
	return nil
}

// Height returns the number of edges on the longest path from the root to a
// leaf: -1 for an empty tree, 0 for a single node.
func (t *OrderedTree[T]) Height() int {
	height := -1
	level := make([]*Node[T], 0, 1)
	if t.root != nil {
		level = append(level, t.root)
	}

	for len(level) > 0 {
		height++
		next := make([]*Node[T], 0, 2*len(level))
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}

	return height
}

// Min returns the smallest value without removing it.
func (t *OrderedTree[T]) Min() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}
	return t.root.min().value, true
}

// Max returns the largest value without removing it.
func (t *OrderedTree[T]) Max() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}
	return t.root.max().value, true
}

// RemoveMin removes and returns the smallest value. The boolean is false
// when the tree is empty.
func (t *OrderedTree[T]) RemoveMin() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}

	n := t.root.min()
	value := n.value
	t.removeNode(n)
	t.size--
	return value, true
}

// RemoveMax removes and returns the largest value. The boolean is false
// when the tree is empty.
func (t *OrderedTree[T]) RemoveMax() (T, bool) {
	if t.root == nil {
		var zero T
		return zero, false
	}

	n := t.root.max()
	value := n.value
	t.removeNode(n)
	t.size--
	return value, true
}

// Remove deletes the value equal to value. It returns false when no such
// value is stored.
func (t *OrderedTree[T]) Remove(value T) (bool, error) {
	if isNil(value) {
		return false, invalidArgument("remove")
	}

	n := t.find(value)
	if n == nil {
		return false, nil
	}

	t.removeNode(n)
	t.size--
	return true, nil
}

// Clear drops every value.
func (t *OrderedTree[T]) Clear() {
	t.root = nil
	t.size = 0
}

// removeNode unlinks n from the tree. It does not touch size.
//
// A node with two children takes over the value of its inorder successor,
// and the successor, which has no left child, is unlinked instead.
func (t *OrderedTree[T]) removeNode(n *Node[T]) {
	if n.left != nil && n.right != nil {
		successor := n.right.min()
		n.value = successor.value
		n = successor
	}

	child := n.left
	if child == nil {
		child = n.right
	}
	t.transplant(n, child)
}

// transplant puts child (possibly nil) in n's place and detaches n.
func (t *OrderedTree[T]) transplant(n, child *Node[T]) {
	if child != nil {
		child.parent = n.parent
	}

	switch {
	case n.parent == nil:
		t.root = child
	case n.parent.left == n:
		n.parent.left = child
	default:
		n.parent.right = child
	}

	n.parent, n.left, n.right = nil, nil, nil
}

// InorderTraversal returns the values in left, self, right order, which is
// ascending order. The slice is a snapshot; later mutations do not affect it.
func (t *OrderedTree[T]) InorderTraversal() []T {
	out := make([]T, 0, t.size)
	stack := make([]*Node[T], 0, 16)

	curr := t.root
	for curr != nil || len(stack) > 0 {
		for curr != nil {
			stack = append(stack, curr)
			curr = curr.left
		}

		curr = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, curr.value)
		curr = curr.right
	}

	return out
}

// PreorderTraversal returns the values in self, left, right order.
func (t *OrderedTree[T]) PreorderTraversal() []T {
	out := make([]T, 0, t.size)
	if t.root == nil {
		return out
	}

	stack := []*Node[T]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.value)

		if n.right != nil {
			stack = append(stack, n.right)
		}
		if n.left != nil {
			stack = append(stack, n.left)
		}
	}

	return out
}

// PostorderTraversal returns the values in left, right, self order.
func (t *OrderedTree[T]) PostorderTraversal() []T {
	out := make([]T, 0, t.size)
	if t.root == nil {
		return out
	}

	// Collect self, right, left and reverse it.
	stack := []*Node[T]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n.value)

		if n.left != nil {
			stack = append(stack, n.left)
		}
		if n.right != nil {
			stack = append(stack, n.right)
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

func invalidArgument(op string) error {
	return apperrors.New(apperrors.ErrCodeInvalidArgument, fmt.Sprintf("%s: value must not be nil", op), nil)
}

// isNil reports whether v is a nil interface, pointer, map, slice, func or
// channel.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
