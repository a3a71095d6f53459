// Package oracle provides reference models used only by tests and the
// fuzz driver to check the Fibonacci heap's behavior against structures
// built a completely different way, rather than against itself.
package oracle

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/wangjia184/sortedset"
)

// Model tracks the expected sorted-drain order of float64-keyed inserts
// independently of the Fibonacci heap under test, using a skip-list
// backed sorted set rather than anything resembling a binary or
// Fibonacci heap. Every insertion gets a synthetic, monotonically
// increasing suffix appended to its member key so that duplicate scores
// remain distinguishable entries rather than colliding updates.
//
// sortedset.SCORE is an int64, so the raw key cannot be stored in it
// without truncating away its fractional part. orderedScore instead
// encodes the float64's bit pattern into an int64 that sorts identically
// to the float64 itself, with no precision loss, and the exact original
// key is kept alongside in the node's Value for Min to return verbatim.
type Model struct {
	set *sortedset.SortedSet
	seq uint64
}

// NewModel creates an empty reference model.
func NewModel() *Model {
	return &Model{set: sortedset.New()}
}

// orderedScore maps key to an int64 that preserves key's ordering
// exactly: for any a, b, a < b iff orderedScore(a) < orderedScore(b).
// It keeps the bits of non-negative floats as they are and inverts
// every bit but the sign bit of negative floats, the standard trick for
// total-ordering IEEE 754 bit patterns as two's-complement integers.
func orderedScore(key float64) int64 {
	bits := math.Float64bits(key)
	if bits&(1<<63) != 0 {
		bits ^= math.MaxInt64
	}
	return int64(bits)
}

// Insert records key as present in the model and returns an opaque
// member token identifying this particular insertion, to be passed back
// to Remove.
func (m *Model) Insert(key float64) string {
	m.seq++
	member := fmt.Sprintf("%024.6f-%020d", key, m.seq)
	m.set.AddOrUpdate(member, sortedset.SCORE(orderedScore(key)), key)
	return member
}

// Remove drops the entry previously returned by Insert.
func (m *Model) Remove(member string) {
	m.set.Remove(member)
}

// Min returns the smallest key currently in the model.
func (m *Model) Min() (key float64, ok bool) {
	node := m.set.PeekMin()
	if node == nil {
		return 0, false
	}
	return node.Value.(float64), true
}

// Len returns the number of entries currently tracked.
func (m *Model) Len() int {
	return m.set.GetCount()
}

// BinaryOracle is a second, independent reference: a plain
// container/heap-backed binary min-heap of float64 keys, used by the
// fuzz driver to cross-check sorted-drain order with a structure that
// shares nothing with either the Fibonacci heap or Model.
type BinaryOracle struct {
	items binaryItems
}

// NewBinaryOracle creates an empty binary-heap oracle.
func NewBinaryOracle() *BinaryOracle {
	return &BinaryOracle{items: binaryItems{}}
}

// Push adds key to the oracle.
func (b *BinaryOracle) Push(key float64) {
	heap.Push(&b.items, key)
}

// PopMin removes and returns the smallest key.
func (b *BinaryOracle) PopMin() float64 {
	return heap.Pop(&b.items).(float64)
}

// Len returns the number of keys currently held.
func (b *BinaryOracle) Len() int {
	return b.items.Len()
}

type binaryItems []float64

func (h binaryItems) Len() int            { return len(h) }
func (h binaryItems) Less(i, j int) bool  { return h[i] < h[j] }
func (h binaryItems) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *binaryItems) Push(x interface{}) {
	*h = append(*h, x.(float64))
}
func (h *binaryItems) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
