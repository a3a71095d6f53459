package fibheap

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// CheckInvariants walks the entire forest once and verifies every
// structural invariant from the design: ring integrity, parent/child
// consistency, heap order, degree accuracy, the min pointer, the cell
// back-link, that size matches the reachable node count, and the
// Fibonacci degree bound. It is O(n) and meant for tests and the
// optional debug-assertion mode, never the hot path.
//
// Node identities are tracked in a roaring bitmap rather than a plain
// map: ids are unique, monotonically assigned integers (see nodeIDs in
// heap.go), so a
// compressed bitmap both catches accidental ring cycles (a second visit
// to an id that DFS should only reach once) and doubles as the
// reachable-node counter via GetCardinality, without per-node map
// allocation overhead on large forests.
func (h *Heap[K, T]) CheckInvariants() error {
	if h.min == nil {
		if h.size != 0 {
			return fmt.Errorf("fibheap: min is nil but size is %d", h.size)
		}
		return nil
	}

	visited := roaring.New()
	var minSeen bool
	maxDegree := 0

	var walk func(head, parent *node[K, T]) error
	walk = func(head, parent *node[K, T]) error {
		n := head
		for {
			if visited.Contains(n.id) {
				return fmt.Errorf("fibheap: cycle detected at node %d", n.id)
			}
			visited.Add(n.id)

			if n.left.right != n || n.right.left != n {
				return fmt.Errorf("fibheap: ring integrity violated at node %d", n.id)
			}
			if n.parent != parent {
				return fmt.Errorf("fibheap: parent/child inconsistency at node %d", n.id)
			}
			if parent != nil && h.less(n.cell.key, parent.cell.key) {
				return fmt.Errorf("fibheap: heap-order violated at node %d", n.id)
			}
			if n.cell.owner != n {
				return fmt.Errorf("fibheap: cell back-link broken at node %d", n.id)
			}
			if parent == nil && h.less(n.cell.key, h.min.cell.key) {
				return fmt.Errorf("fibheap: min-pointer violated at node %d", n.id)
			}
			if n == h.min {
				minSeen = true
			}

			actualDegree := ringLen(n.child)
			if actualDegree != n.degree {
				return fmt.Errorf("fibheap: degree mismatch at node %d: recorded %d, actual %d", n.id, n.degree, actualDegree)
			}
			if n.degree > maxDegree {
				maxDegree = n.degree
			}

			if n.child != nil {
				if err := walk(n.child, n); err != nil {
					return err
				}
			}

			n = n.right
			if n == head {
				break
			}
		}
		return nil
	}

	if err := walk(h.min, nil); err != nil {
		return err
	}
	if !minSeen {
		return fmt.Errorf("fibheap: min does not point into the root ring")
	}
	if int(visited.GetCardinality()) != h.size {
		return fmt.Errorf("fibheap: size is %d but %d nodes are reachable", h.size, visited.GetCardinality())
	}
	if bound := degreeBoundLog(h.size); maxDegree > bound {
		return fmt.Errorf("fibheap: max degree %d exceeds log_phi bound %d for size %d", maxDegree, bound, h.size)
	}
	return nil
}

// degreeBoundLog computes floor(log_phi(size)) + 1, the tight bound
// invariant 7 in the design is stated against (as opposed to
// degreeBound's log2-based estimate, which only sets the consolidation
// table's initial size).
func degreeBoundLog(size int) int {
	if size < 1 {
		return 0
	}
	return logPhi(size) + 1
}

func logPhi(size int) int {
	// Integer floor(log_phi(n)) via repeated division avoids relying on
	// floating point log precision near integer boundaries.
	n := float64(size)
	count := 0
	for n >= phi {
		n /= phi
		count++
	}
	return count
}

func (h *Heap[K, T]) assertInvariants(op string) {
	if !h.debug {
		return
	}
	if err := h.CheckInvariants(); err != nil {
		if h.logger != nil {
			h.logger.Fatalw("invariant violation", "component", "fibheap", "op", op, "error", err)
		}
		panic(fmt.Sprintf("fibheap: invariant violation after %s: %v", op, err))
	}
}
