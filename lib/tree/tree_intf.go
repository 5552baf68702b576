package tree

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// RBNode is a read-only view of a single tree node. Keys are fixed as
// unsigned 64-bit integers and values as strings; this is an
// intentionally specialized container, not a generic comparator-based
// one.
type RBNode interface {
	Key() uint64
	Val() string
	Color() RBColor
	Left() RBNode
	Right() RBNode
	Parent() RBNode
}

// RBTree is an ordered uint64 to string dictionary backed by a
// red-black tree. All point operations run in O(log n).
//
// The tree performs no internal locking. Insert and Remove require an
// exclusive writer; Search and Foreach may run concurrently with each
// other but never with a mutation.
type RBTree interface {
	Len() int64
	Root() RBNode
	// Insert adds key or replaces the value of an existing entry in
	// place. It reports whether an existing entry was updated.
	Insert(key uint64, val string) (updated bool)
	// Remove deletes key and returns the removed value. The second
	// result is false when key is absent; the tree is left untouched
	// in that case.
	Remove(key uint64) (string, bool)
	// Search walks down from x guided by fn, which returns 0 on match,
	// a negative number to descend left and a positive one to descend
	// right. It returns nil when no node matches.
	Search(x RBNode, fn func(RBNode) int64) RBNode
	// Foreach visits entries in ascending key order until action
	// returns false.
	Foreach(action func(idx int64, color RBColor, key uint64, val string) bool)
	// Release drops every node and leaves an empty, reusable tree.
	Release()
}
