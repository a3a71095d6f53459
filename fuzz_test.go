package fibheap_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zasdfgbnm/fibheap"
	"github.com/zasdfgbnm/fibheap/internal/oracle"
)

type fuzzEntry struct {
	handle fibheap.Handle[float64, int]
	member string
}

func dropFuzzEntry(live []fuzzEntry, handle fibheap.Handle[float64, int], model *oracle.Model) []fuzzEntry {
	for i, e := range live {
		if e.handle == handle {
			model.Remove(e.member)
			return append(live[:i], live[i+1:]...)
		}
	}
	return live
}

// TestFuzzMixedOperations runs a long randomized mix of every operation
// against an independent sorted-set oracle, checking both the running
// minimum and the full invariant set after every step, then drains
// whatever remains at the end and checks the result is sorted.
func TestFuzzMixedOperations(t *testing.T) {
	less := func(a, b float64) bool { return a < b }
	h := fibheap.New[float64, int](less, fibheap.Options{DebugAssertions: true})
	model := oracle.NewModel()
	rng := rand.New(rand.NewSource(42))

	var live []fuzzEntry
	const steps = 10_000

	for i := 0; i < steps; i++ {
		roll := rng.Float64()

		switch {
		case h.Size() == 0 || roll < 0.40:
			key := rng.Float64() * 1_000_000
			handle := h.Insert(key, i)
			member := model.Insert(key)
			live = append(live, fuzzEntry{handle, member})

		case roll < 0.60:
			handle, err := h.ExtractMin()
			require.NoError(t, err)
			live = dropFuzzEntry(live, handle, model)

		case roll < 0.80 && len(live) > 0:
			idx := rng.Intn(len(live))
			e := live[idx]
			newKey := e.handle.Key() - rng.Float64()*1000
			require.NoError(t, h.DecreaseKey(e.handle, newKey))
			model.Remove(e.member)
			live[idx].member = model.Insert(newKey)

		case roll < 0.92 && len(live) > 0:
			idx := rng.Intn(len(live))
			e := live[idx]
			_, err := h.Remove(e.handle)
			require.NoError(t, err)
			model.Remove(e.member)
			live = append(live[:idx], live[idx+1:]...)

		case roll < 0.97:
			scratch := fibheap.New[float64, int](less, fibheap.Options{DebugAssertions: true})
			key := rng.Float64() * 1_000_000
			handle := scratch.Insert(key, i)
			member := model.Insert(key)
			require.NoError(t, h.Meld(scratch))
			live = append(live, fuzzEntry{handle, member})

		default:
			clone := h.Clone()
			require.Equal(t, h.Size(), clone.Size())
			require.NoError(t, clone.CheckInvariants())
		}

		require.Equal(t, model.Len(), h.Size())

		wantMin, ok := model.Min()
		top, err := h.Top()
		require.Equal(t, ok, err == nil)
		if ok {
			require.Equal(t, wantMin, top.Key())
		}

		require.NoError(t, h.CheckInvariants())
	}

	var drained []float64
	for h.Size() > 0 {
		handle, err := h.ExtractMin()
		require.NoError(t, err)
		drained = append(drained, handle.Key())
		require.NoError(t, h.CheckInvariants())
	}
	require.True(t, isSorted(drained))
}

func isSorted(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > xs[i] {
			return false
		}
	}
	return true
}

// TestFuzzInsertMeldExtractOnly restricts itself to insert, meld, and
// extract-min — the operation mix the binomial-coincidence law is
// stated against — and cross-checks against oracle.BinaryOracle, a
// second reference built on container/heap that shares no code with
// either the Fibonacci heap or the sortedset-backed Model used by
// TestFuzzMixedOperations.
func TestFuzzInsertMeldExtractOnly(t *testing.T) {
	less := func(a, b float64) bool { return a < b }
	h := fibheap.New[float64, int](less, fibheap.Options{DebugAssertions: true})
	binary := oracle.NewBinaryOracle()
	rng := rand.New(rand.NewSource(7))

	const steps = 10_000
	for i := 0; i < steps; i++ {
		roll := rng.Float64()

		switch {
		case h.Size() == 0 || roll < 0.70:
			key := rng.Float64() * 1_000_000
			h.Insert(key, i)
			binary.Push(key)

		case roll < 0.90:
			scratch := fibheap.New[float64, int](less, fibheap.Options{DebugAssertions: true})
			key := rng.Float64() * 1_000_000
			scratch.Insert(key, i)
			binary.Push(key)
			require.NoError(t, h.Meld(scratch))

		default:
			handle, err := h.ExtractMin()
			require.NoError(t, err)
			require.Equal(t, binary.PopMin(), handle.Key())
		}

		require.Equal(t, binary.Len(), h.Size())
		require.NoError(t, h.CheckInvariants())
	}

	var drained []float64
	for h.Size() > 0 {
		handle, err := h.ExtractMin()
		require.NoError(t, err)
		require.Equal(t, binary.PopMin(), handle.Key())
		drained = append(drained, handle.Key())
	}
	require.True(t, isSorted(drained))
}
