package fibheap

// cell is the payload cell described by the design: it holds the user's
// (key, value) pair and a back-link to the structure node currently
// holding it. The external Handle type points here, never at a node
// directly, so that re-parenting during consolidation or cascading cut
// never invalidates a handle.
//
// owner is nil while the cell is detached: either it has not yet been
// spliced into a forest, or it has been removed by ExtractMin/Remove, or
// the owning heap was closed while the handle was still held.
type cell[K any, T any] struct {
	key     K
	payload T
	owner   *node[K, T]
}

// Handle is an externally held, non-owning reference to a payload cell.
// Holding a Handle does not keep the heap it came from alive, and
// dropping a Handle never mutates the heap. A Handle remains safe to
// dereference for its last observed key and value even after the cell
// it points to has been extracted; it simply stops being a valid
// argument to DecreaseKey or Remove.
type Handle[K any, T any] struct {
	c *cell[K, T]
}

// Key returns the key last recorded for this handle's cell.
func (h Handle[K, T]) Key() K {
	return h.c.key
}

// Value returns the payload stored alongside this handle's key.
func (h Handle[K, T]) Value() T {
	return h.c.payload
}

// SetValue replaces the payload without touching the key. Mutating the
// key through a handle is deliberately not exposed; use DecreaseKey.
func (h Handle[K, T]) SetValue(v T) {
	h.c.payload = v
}

// Valid reports whether this handle was ever bound to a cell. It is
// false only for the zero Handle value.
func (h Handle[K, T]) Valid() bool {
	return h.c != nil
}
