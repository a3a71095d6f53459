package fibheap

import (
	"fmt"
	"io"
)

// WriteDOT renders the current forest as Graphviz DOT source, marked
// nodes shaded, so consolidation and cascading-cut behavior can be
// inspected by hand instead of only through the numeric invariant
// checks in CheckInvariants.
func (h *Heap[K, T]) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph fibheap {"); err != nil {
		return err
	}
	if h.min != nil {
		n := h.min
		for {
			if err := writeDOTNode(w, n); err != nil {
				return err
			}
			n = n.right
			if n == h.min {
				break
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// RootDegrees returns the degree of every root tree in the forest, in
// root-ring order. It exists alongside WriteDOT for tests and tooling
// that want to check consolidation's binomial-coincidence behavior
// without reaching into unexported structure.
func (h *Heap[K, T]) RootDegrees() []int {
	if h.min == nil {
		return nil
	}
	var degrees []int
	n := h.min
	for {
		degrees = append(degrees, n.degree)
		n = n.right
		if n == h.min {
			break
		}
	}
	return degrees
}

func writeDOTNode[K any, T any](w io.Writer, n *node[K, T]) error {
	style := ""
	if n.mark {
		style = ",style=filled,fillcolor=lightgray"
	}
	if _, err := fmt.Fprintf(w, "  n%d [label=\"%v\"%s];\n", n.id, n.cell.key, style); err != nil {
		return err
	}
	if n.child == nil {
		return nil
	}
	c := n.child
	for {
		if _, err := fmt.Fprintf(w, "  n%d -> n%d;\n", n.id, c.id); err != nil {
			return err
		}
		if err := writeDOTNode(w, c); err != nil {
			return err
		}
		c = c.right
		if c == n.child {
			break
		}
	}
	return nil
}
