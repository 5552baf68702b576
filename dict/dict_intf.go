// Package dict exposes an ordered dictionary from unsigned 64-bit
// integer keys to string values, backed by a red-black tree. Every
// point operation costs O(log n) regardless of insertion order.
//
// The dictionary is single-threaded by design and holds no internal
// locks. Get and Contains may run concurrently with each other, but
// never with AddOrUpdate, Delete or Purge; mutations require an
// exclusive writer enforced by the embedding program.
package dict

// NumberStringDict is the point-operation facade over the tree. It
// deliberately exposes no iteration or range queries.
type NumberStringDict interface {
	// Len reports the number of stored entries.
	Len() int64
	// AddOrUpdate inserts key or overwrites the value of an existing
	// entry; the value is owned by the dictionary afterwards. It
	// reports whether a new entry was created.
	AddOrUpdate(key uint64, val string) bool
	// Get returns the value stored under key; the second result is
	// false when key is absent.
	Get(key uint64) (string, bool)
	// Contains reports whether key is present.
	Contains(key uint64) bool
	// Delete removes key and reports whether an entry was actually
	// removed. Absent keys are a no-op, not an error.
	Delete(key uint64) bool
	// Purge drops every entry and leaves an empty, reusable
	// dictionary. Safe to call on an empty one.
	Purge()
}
