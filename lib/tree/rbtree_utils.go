package tree

import (
	"errors"
	"math"

	"go.uber.org/multierr"
)

var (
	ErrRedViolation    = errors.New("[rbtree] red violation")
	ErrBlackViolation  = errors.New("[rbtree] black violation")
	ErrOrderViolation  = errors.New("[rbtree] key order violation")
	ErrCountViolation  = errors.New("[rbtree] count violation")
	ErrHeightViolation = errors.New("[rbtree] height bound violation")
)

func isBlack(node RBNode) bool {
	return isNilLeaf(node) || node.Color() == Black
}

func isRed(node RBNode) bool {
	return !isNilLeaf(node) && node.Color() == Red
}

func isNilLeaf(node RBNode) bool {
	return node == nil
}

func isRoot(node RBNode) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo(target, to RBNode) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack(aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// Inorder traversal to validate that no red node has a red parent or a
// red child.
func RedViolationValidate(tree RBTree) error {
	size := tree.Len()
	aux := tree.Root()
	if size < 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode, 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf(aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRed(aux) {
			if (!isRoot(aux.Parent()) && isRed(aux.Parent())) ||
				(isRed(aux.Left()) || isRed(aux.Right())) {
				return ErrRedViolation
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load all leaves.
func bfsLeaves(tree RBTree) []RBNode {
	size := tree.Len()
	aux := tree.Root()
	if size < 0 || isNilLeaf(aux) {
		return nil
	}

	leaves := make([]RBNode, 0, size>>1+1)
	stack := make([]RBNode, 0, size>>1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for len(stack) > 0 {
		aux = stack[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ isNilLeaf(l) || isNilLeaf(r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf(l) {
			stack = append(stack, l)
		}
		if !isNilLeaf(r) {
			stack = append(stack, r)
		}
		stack = stack[1:]
	}
	return leaves
}

// Every path from the root to an absent-child position must pass the
// same number of black nodes; it is enough to compare the black depth
// of every node that has at least one absent child.
func BlackViolationValidate(tree RBTree) error {
	leaves := bfsLeaves(tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(leaves[i], tree.Root()) != blackDepth {
			return ErrBlackViolation
		}
	}
	return nil
}

// Inorder traversal must yield strictly increasing keys.
func OrderViolationValidate(tree RBTree) error {
	var (
		prev    uint64
		started bool
		err     error
	)
	tree.Foreach(func(idx int64, color RBColor, key uint64, val string) bool {
		if started && key <= prev {
			err = ErrOrderViolation
			return false
		}
		prev, started = key, true
		return true
	})
	return err
}

// The element count must equal the number of nodes reachable from the
// root through child links.
func CountViolationValidate(tree RBTree) error {
	reachable := int64(0)
	aux := tree.Root()
	if aux == nil {
		if tree.Len() != 0 {
			return ErrCountViolation
		}
		return nil
	}

	stack := []RBNode{aux}
	for len(stack) > 0 {
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reachable++
		if l := aux.Left(); !isNilLeaf(l) {
			stack = append(stack, l)
		}
		if r := aux.Right(); !isNilLeaf(r) {
			stack = append(stack, r)
		}
	}
	if reachable != tree.Len() {
		return ErrCountViolation
	}
	return nil
}

// A valid rbtree with n nodes is never taller than 2*log2(n+1).
func HeightBoundValidate(tree RBTree) error {
	n := tree.Len()
	if n <= 0 || tree.Root() == nil {
		return nil
	}

	type nodeDepth struct {
		node  RBNode
		depth int64
	}
	height := int64(0)
	stack := []nodeDepth{{tree.Root(), 1}}
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nd.depth > height {
			height = nd.depth
		}
		if l := nd.node.Left(); !isNilLeaf(l) {
			stack = append(stack, nodeDepth{l, nd.depth + 1})
		}
		if r := nd.node.Right(); !isNilLeaf(r) {
			stack = append(stack, nodeDepth{r, nd.depth + 1})
		}
	}

	if float64(height) > 2*math.Log2(float64(n)+1) {
		return ErrHeightViolation
	}
	return nil
}

// Validate runs every structural check and reports all violations at
// once.
func Validate(tree RBTree) error {
	return multierr.Combine(
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		OrderViolationValidate(tree),
		CountViolationValidate(tree),
		HeightBoundValidate(tree),
	)
}
