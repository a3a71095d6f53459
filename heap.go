// Package fibheap implements a generic Fibonacci heap: a mergeable
// priority queue supporting amortized O(1) insertion, meld,
// find-minimum and decrease-key, with O(log n) amortized delete-min and
// delete-arbitrary.
//
// The heap is parameterized over a key type K, a payload type T, and a
// Comparator capability supplied by the caller; it never needs K or T
// to implement anything itself. It is not safe for concurrent use by
// multiple goroutines without an external mutex — see Options for the
// optional debug-assertion mode used to catch invariant violations
// during development.
package fibheap

import (
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"
)

// nodeIDs hands out structure-node ids. It is shared by every heap in
// the process, so ids stay unique within a forest even after Meld joins
// nodes that were created by different heaps.
var nodeIDs atomic.Uint32

// Comparator is a strict total-order predicate over keys: less(a, b)
// reports whether a sorts before b. Equal keys are permitted; ties are
// broken by insertion order only where that order happens to be
// observable (root ring iteration order), never guaranteed otherwise.
type Comparator[K any] func(a, b K) bool

// Options configures a Heap at construction time.
type Options struct {
	// DebugAssertions enables an O(n) invariant check after every
	// mutating operation. A violation is treated as an implementation
	// bug, not a user error, and is fatal: if Logger is set it is logged
	// with Fatalw, which under zap's default fatal hook exits the
	// process; otherwise it panics. Leave this off in production; it
	// exists for development and for the fuzz harness in cmd/fuzz.
	DebugAssertions bool

	// Logger receives structured diagnostics for debug-assertion
	// failures. With a nil Logger a violation panics without writing a
	// structured log line first.
	Logger *zap.SugaredLogger
}

// Pair is one (key, value) entry, used by NewFrom to build a heap from
// a finite sequence in one call.
type Pair[K any, T any] struct {
	Key   K
	Value T
}

// Heap is a Fibonacci heap forest plus bookkeeping for its minimum root
// and size. The zero value is not usable; construct one with New or
// NewFrom.
type Heap[K any, T any] struct {
	min    *node[K, T]
	size   int
	less   Comparator[K]
	realm  *realm
	nextID uint32

	debug  bool
	logger *zap.SugaredLogger
}

// New creates an empty heap ordered by less.
func New[K any, T any](less Comparator[K], opts Options) *Heap[K, T] {
	return &Heap[K, T]{
		less:   less,
		realm:  newRealm(),
		debug:  opts.DebugAssertions,
		logger: opts.Logger,
	}
}

// NewFrom creates a heap preloaded with pairs, in encounter order.
func NewFrom[K any, T any](pairs []Pair[K, T], less Comparator[K], opts Options) *Heap[K, T] {
	h := New[K, T](less, opts)
	for _, p := range pairs {
		h.Insert(p.Key, p.Value)
	}
	return h
}

// Size returns the number of elements currently stored.
func (h *Heap[K, T]) Size() int {
	return h.size
}

// Empty reports whether the heap holds no elements.
func (h *Heap[K, T]) Empty() bool {
	return h.size == 0
}

// Insert adds (key, value) to the heap and returns a handle to it.
// Amortized O(1).
func (h *Heap[K, T]) Insert(key K, value T) Handle[K, T] {
	c := &cell[K, T]{key: key, payload: value}
	n := newNode[K, T](c, nodeIDs.Add(1), h.realm)

	h.spliceRoot(n)
	if h.min == nil || h.less(key, h.min.cell.key) {
		h.min = n
	}
	h.size++

	h.assertInvariants("Insert")
	return Handle[K, T]{c: c}
}

// Top returns a handle to the minimum element without removing it.
func (h *Heap[K, T]) Top() (Handle[K, T], error) {
	if h.size == 0 {
		return Handle[K, T]{}, ErrEmpty
	}
	return Handle[K, T]{c: h.min.cell}, nil
}

// Meld absorbs other into h: their root rings are concatenated in O(1),
// h.size grows by other.size, and h's minimum is updated if needed.
// Afterward other is left empty (size 0, no minimum) but remains a
// perfectly usable heap for future inserts — it is not otherwise
// mutated or invalidated. Melding a heap into itself, or melding in an
// empty heap, is a no-op.
func (h *Heap[K, T]) Meld(other *Heap[K, T]) error {
	if other == nil || other == h || other.size == 0 {
		return nil
	}
	if !sameComparator(h.less, other.less) {
		return ErrComparatorMismatch
	}

	if h.size == 0 {
		h.min = other.min
	} else {
		concatRings(h.min, other.min)
		if other.less(other.min.cell.key, h.min.cell.key) {
			h.min = other.min
		}
	}
	h.size += other.size

	otherRoot := other.realm.find()
	otherRoot.fwd = h.realm.find()

	other.realm = newRealm()
	other.min = nil
	other.size = 0

	h.assertInvariants("Meld")
	return nil
}

// DecreaseKey lowers the key of the element handle refers to. newKey
// must not compare greater than the handle's current key; an equal key
// is accepted as a no-op (after validating residency). Amortized O(1).
func (h *Heap[K, T]) DecreaseKey(handle Handle[K, T], newKey K) error {
	c := handle.c
	if !h.resident(c) {
		return ErrNotInHeap
	}
	if h.less(c.key, newKey) {
		return ErrKeyIncreased
	}
	if !h.less(newKey, c.key) {
		// Equal key: validated residency, nothing else to do.
		c.key = newKey
		return nil
	}

	c.key = newKey
	n := c.owner
	if n.parent == nil || !h.less(newKey, n.parent.cell.key) {
		if h.less(newKey, h.min.cell.key) {
			h.min = n
		}
		h.assertInvariants("DecreaseKey")
		return nil
	}

	p := n.parent
	h.cut(n)
	h.cascadingCut(p)
	if h.less(newKey, h.min.cell.key) {
		h.min = n
	}

	h.assertInvariants("DecreaseKey")
	return nil
}

// ExtractMin removes and returns the minimum element. O(log n)
// amortized, dominated by consolidation.
func (h *Heap[K, T]) ExtractMin() (Handle[K, T], error) {
	if h.size == 0 {
		return Handle[K, T]{}, ErrEmpty
	}

	z := h.min
	h.promoteChildren(z)

	var newMin *node[K, T]
	if z.right != z {
		newMin = z.right
	}
	unlink(z)
	h.size--
	z.cell.owner = nil
	result := Handle[K, T]{c: z.cell}

	if h.size == 0 {
		h.min = nil
		h.assertInvariants("ExtractMin")
		return result, nil
	}

	h.min = newMin
	h.consolidate()
	h.assertInvariants("ExtractMin")
	return result, nil
}

// Remove deletes the element handle refers to, wherever it sits in the
// forest, and returns a handle to the removed cell. It is implemented
// exactly as the design prescribes: if handle is already the minimum,
// this is ExtractMin; otherwise it is equivalent to
// DecreaseKey(handle, -infinity) followed by ExtractMin, without
// requiring K to represent -infinity — forcing the node to root and
// then to be the minimum has the identical effect.
func (h *Heap[K, T]) Remove(handle Handle[K, T]) (Handle[K, T], error) {
	c := handle.c
	if !h.resident(c) {
		return Handle[K, T]{}, ErrNotInHeap
	}

	n := c.owner
	if n == h.min {
		return h.ExtractMin()
	}

	if p := n.parent; p != nil {
		h.cut(n)
		h.cascadingCut(p)
	}
	h.min = n
	return h.ExtractMin()
}

// Clone returns a deep, isomorphic copy of h: fresh structure nodes and
// payload cells throughout, with its own realm. Handles obtained from h
// are not valid on the clone and are rejected with ErrNotInHeap.
func (h *Heap[K, T]) Clone() *Heap[K, T] {
	clone := &Heap[K, T]{
		less:   h.less,
		realm:  newRealm(),
		size:   h.size,
		debug:  h.debug,
		logger: h.logger,
	}
	if h.min != nil {
		// Reserve a block of h.size ids for cloneRing to hand out in order.
		clone.nextID = nodeIDs.Add(uint32(h.size)) - uint32(h.size) + 1
		clone.min = cloneRing(h.min, clone.realm, &clone.nextID)
	}
	clone.assertInvariants("Clone")
	return clone
}

// Close detaches every outstanding handle from h (their cells report
// ErrNotInHeap on any further DecreaseKey/Remove call, though Key/Value
// keep returning their last observed contents) and releases the
// forest. It is idempotent. Go's garbage collector would reclaim the
// forest on its own even across the cyclic sibling rings, but Close
// still performs the ring-breaking pass the design prescribes so that
// teardown cost stays bounded and explicit rather than relying on
// finalizers.
func (h *Heap[K, T]) Close() {
	if h.min != nil {
		breakRings(h.min)
	}
	h.min = nil
	h.size = 0
	h.realm = newRealm()
}

// resident reports whether c is currently attached to a node living in
// h's forest.
func (h *Heap[K, T]) resident(c *cell[K, T]) bool {
	if c == nil || c.owner == nil {
		return false
	}
	return c.owner.realm.find() == h.realm.find()
}

func (h *Heap[K, T]) spliceRoot(n *node[K, T]) {
	if h.min == nil {
		n.left, n.right = n, n
		return
	}
	insertBetween(n, h.min, h.min.right)
}

// promoteChildren detaches every child of z, clears their parent and
// mark (per the design's "clear mark on promotion" rule), and splices
// them into the root ring.
func (h *Heap[K, T]) promoteChildren(z *node[K, T]) {
	if z.child == nil {
		return
	}
	first := z.child
	c := first
	for {
		next := c.right
		c.parent = nil
		c.mark = false
		h.spliceRoot(c)
		if next == first {
			break
		}
		c = next
	}
	z.child = nil
	z.degree = 0
}

// cut detaches n from its parent (if any) and splices it into the root
// ring as a fresh, unmarked root.
func (h *Heap[K, T]) cut(n *node[K, T]) {
	if p := n.parent; p != nil {
		p.degree--
		if p.child == n {
			if n.right == n {
				p.child = nil
			} else {
				p.child = n.right
			}
		}
	}
	unlink(n)
	n.parent = nil
	n.mark = false
	h.spliceRoot(n)
}

// cascadingCut walks up from p cutting marked nodes until it reaches a
// root or an unmarked node, which it marks instead. This is what keeps
// decrease-key's amortized cost O(1) despite occasionally walking
// several levels.
func (h *Heap[K, T]) cascadingCut(p *node[K, T]) {
	for p != nil && p.parent != nil {
		if !p.mark {
			p.mark = true
			return
		}
		next := p.parent
		h.cut(p)
		p = next
	}
}

// link makes child a new child of parent: removed from wherever it sat
// (the root ring, in every caller), unmarked, and spliced into parent's
// children ring.
func (h *Heap[K, T]) link(child, parent *node[K, T]) {
	unlink(child)
	child.parent = parent
	child.mark = false
	if parent.child == nil {
		child.left, child.right = child, child
		parent.child = child
	} else {
		insertBetween(child, parent.child.left, parent.child)
	}
	parent.degree++
}

func concatRings[K any, T any](a, b *node[K, T]) {
	if a == nil || b == nil {
		return
	}
	aRight, bRight := a.right, b.right
	a.right = bRight
	bRight.left = a
	b.right = aRight
	aRight.left = b
}

func breakRings[K any, T any](head *node[K, T]) {
	n := head
	for {
		next := n.right
		n.cell.owner = nil
		if n.child != nil {
			breakRings(n.child)
		}
		if next == head {
			n.right = nil
			break
		}
		n = next
	}
}

func sameComparator[K any](a, b Comparator[K]) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
