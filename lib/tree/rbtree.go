package tree

import (
	"sync/atomic"
)

type rbNode struct {
	parent *rbNode
	left   *rbNode
	right  *rbNode
	key    uint64
	val    string
	color  RBColor
}

func (node *rbNode) Color() RBColor {
	return node.color
}

func (node *rbNode) Key() uint64 {
	return node.key
}

func (node *rbNode) Val() string {
	return node.val
}

func (node *rbNode) Left() RBNode {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode) Right() RBNode {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode) Parent() RBNode {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// Nullable-link representation: an absent child is a nil pointer and
// counts as a black node of black-height zero. The color-of-absence
// helpers below keep the fixup cases free of explicit nil checks.

func (node *rbNode) isNilLeaf() bool {
	return node == nil
}

func (node *rbNode) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode) isLeaf() bool {
	return node != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *rbNode) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode) sibling() *rbNode {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode) uncle() *rbNode {
	return node.parent.sibling()
}

func (node *rbNode) hasUncle() bool {
	return !node.isRoot() && !node.parent.isRoot() && node.parent.sibling() != nil
}

func (node *rbNode) grandpa() *rbNode {
	return node.parent.parent
}

// The parent links are non-owning back-references; they exist only so
// the fixups can walk upward. Destruction never follows them.
func (node *rbNode) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode) minimum() *rbNode {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
// Removal only ever asks for the successor of a node with two
// children, so the leftmost node of the right subtree is enough here.
func (node *rbNode) succ() *rbNode {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right.minimum()
}

type rbTree struct {
	root  *rbNode
	count int64
}

func keyCompare(k1, k2 uint64) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		return -1
	}
	return 1
}

func (tree *rbTree) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree) Root() RBNode {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red
//   child, otherwise the NIL descendants under X would sit at two
//   different black depths, violating p4.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree) leftRotate(x *rbNode) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
		 |                         |
		 X                         S
		/ \     rightRotate(S)    / \
	   L   S    <============    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree) rightRotate(x *rbNode) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

// i1: Empty rbtree, insert directly; the zero color value is black, so
// the fresh root already satisfies p5.
// An existing key only has its value replaced in place. No node is
// allocated, no link changes and no rebalance runs in that case.
func (tree *rbTree) Insert(key uint64, val string) (updated bool) {
	if /* i1 */ tree.root.isNilLeaf() {
		tree.root = &rbNode{
			key: key,
			val: val,
		}
		atomic.AddInt64(&tree.count, 1)
		return false
	}

	var x, y *rbNode = tree.root, nil
	for !x.isNilLeaf() {
		y = x
		res := keyCompare(key, x.key)
		if /* equal */ res == 0 {
			break
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if y.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new value into nil node")
	}

	res := keyCompare(key, y.key)
	if /* equal */ res == 0 {
		y.val = val
		return true
	}

	z := &rbNode{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
	}
	if /* less */ res < 0 {
		y.left = z
	} else /* greater */ {
		y.right = z
	}

	atomic.AddInt64(&tree.count, 1)
	tree.insertRebalance(z)
	return false
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X's parent P is black, p3 and p4 hold already.

im2: P is red and P is root. Repaint P into black and stop.

im3: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After G is repainted red the violation may just move two levels up,
so continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: P is red but the uncle U is black and X sits opposite to P's own
direction (the triangle). Rotate at P to turn it into the line case.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: The line case: X and P share a direction. Rotate at G, repaint,
and the loop terminates.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree) insertRebalance(x *rbNode) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			// The only place p5 is reasserted.
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if /* im1 */ x.parent.isBlack() {
			return
		}

		if /* im2 */ x.parent.isRoot() {
			x.parent.color = Black
			return
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		dir := x.Direction()
		if /* im4 */ dir != x.parent.Direction() {
			p := x.parent
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert rebalance violate (im4)")
			}
			x = p // enter im5 to fix
		}

		switch /* im5 */ x.parent.Direction() {
		case Left:
			tree.rightRotate(x.grandpa())
		case Right:
			tree.leftRotate(x.grandpa())
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert rebalance violate (im5)")
		}

		x.parent.color = Black
		x.sibling().color = Red
		return
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node X has both a left and a right child. Find X's in-order
successor S (leftmost node of the right subtree), copy S's key and
value into X and retarget the removal onto S. By construction S has at
most one child, so every removal reduces to the one-or-zero child case.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   copy(S→X)    L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) The retargeted node is a red leaf: unlink it, p4 is unharmed.

r3: (2) The retargeted node is a black leaf: rebalance around it first,
then unlink. (black-violation)

r4: The retargeted node has exactly one child. That child must be red
(see the conclusion above), so splicing it in and repainting it black
restores p4 on the spot.
*/
func (tree *rbTree) removeNode(z *rbNode) {
	if /* r1 */ atomic.LoadInt64(&tree.count) == 1 && z.isRoot() {
		tree.root = nil
		z.left = nil
		z.right = nil
		return
	}

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		y = z.succ() // enter r3-r4
		z.key, z.val = y.key, y.val
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (1) */ y.isRed() {
			switch y.Direction() {
			case Left:
				y.parent.left = nil
			case Right:
				y.parent.right = nil
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] y should be a leaf node, violate (r3-1)")
			}
			y.parent = nil
			return
		}
		/* r3 (2) */
		tree.removeRebalance(y)
	} else /* r4 */ {
		var replace *rbNode
		if !y.right.isNilLeaf() {
			replace = y.right
		} else if !y.left.isNilLeaf() {
			replace = y.left
		}

		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch y.Direction() {
		case Root:
			tree.root = replace
			tree.root.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove with one child, unknown direction (r4)")
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node.
	if !y.isRoot() && y == y.parent.left {
		y.parent.left = nil
	} else if !y.isRoot() && y == y.parent.right {
		y.parent.right = nil
	}
	y.parent = nil
	y.left = nil
	y.right = nil
}

func (tree *rbTree) Remove(key uint64) (string, bool) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return "", false
	}
	z := tree.Search(tree.Root(), func(node RBNode) int64 {
		return keyCompare(key, node.Key())
	})
	if z == nil {
		return "", false
	}

	node := z.(*rbNode)
	val := node.val
	tree.removeNode(node)
	atomic.AddInt64(&tree.count, -1)
	return val, true
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the nephew on the same side as X, Sd the nephew on the opposite
side. X carries the path's missing black unit until a case absorbs it.

rm1: X's sibling S is red, so P, Sc and Sd must be black. Rotate P
toward X's side and swap the colors of S and P. X gains a black
sibling and the remaining cases finish the job.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: P is red, S, Sc and Sd are black. Swapping the colors of P and S
restores p4 and terminates.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black. Repainting S red fixes p4 locally
but shortens every path through P, so continue from P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: S is black, the near nephew Sc is red and Sd is black (P's color
does not matter). Rotate at S away from X's side and swap the colors
of S and Sc; that manufactures a red far nephew and falls into rm5.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: S is black and the far nephew Sd is red. Rotate at P toward X's
side, give S P's old color, paint P and Sd black. The extra black unit
is finally absorbed and the loop terminates.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree) removeRebalance(x *rbNode) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode
		switch dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			} else /* rm3 */ {
				sibling.color = Red
				x = x.parent
				continue
			}
		}

		if /* rm4 */ !sc.isNilLeaf() && sc.isRed() {
			switch dir {
			case Left:
				tree.rightRotate(sibling)
			case Right:
				tree.leftRotate(sibling)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm4)")
			}
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			switch dir {
			case Left:
				sd = sibling.right
			case Right:
				sd = sibling.left
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm4)")
			}
		}

		switch /* rm5 */ dir {
		case Left:
			tree.leftRotate(x.parent)
		case Right:
			tree.rightRotate(x.parent)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove rebalance violate (rm5)")
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		if !sd.isNilLeaf() {
			sd.color = Black
		}
		break
	}
}

func (tree *rbTree) Search(x RBNode, fn func(RBNode) int64) RBNode {
	if x == nil {
		return nil
	}

	for aux := x; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.Right()
		} else {
			aux = aux.Left()
		}
	}
	return nil
}

// Inorder traversal to implement the DFS.
func (tree *rbTree) Foreach(action func(idx int64, color RBColor, key uint64, val string) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode, 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Release walks child links only (parent back-references are
// non-owning) and recycles every node before its parent's storage.
func (tree *rbTree) Release() {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	tree.root = nil
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode, 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		atomic.AddInt64(&tree.count, -1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func NewRBTree() RBTree {
	return &rbTree{
		count: 0,
	}
}
