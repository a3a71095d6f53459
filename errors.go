package fibheap

import "errors"

// Errors returned by Heap operations. None of these are swallowed
// internally; every failing call surfaces one of these to the caller
// without mutating the heap.
var (
	// ErrEmpty is returned by Top and ExtractMin when the heap holds no
	// elements.
	ErrEmpty = errors.New("fibheap: heap is empty")

	// ErrNotInHeap is returned when a handle is stale (its node has
	// already been extracted or removed) or belongs to a different
	// heap instance.
	ErrNotInHeap = errors.New("fibheap: handle does not belong to this heap")

	// ErrKeyIncreased is returned by DecreaseKey when the supplied key
	// compares greater than the handle's current key.
	ErrKeyIncreased = errors.New("fibheap: new key is greater than the current key")

	// ErrComparatorMismatch is returned by Meld when the two heaps were
	// not constructed with the same comparator function.
	ErrComparatorMismatch = errors.New("fibheap: heaps do not share a comparator")
)
