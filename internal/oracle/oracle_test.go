package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zasdfgbnm/fibheap/internal/oracle"
)

func TestModelTracksMinimum(t *testing.T) {
	m := oracle.NewModel()
	m.Insert(5)
	member3 := m.Insert(3)
	m.Insert(8)

	key, ok := m.Min()
	require.True(t, ok)
	require.Equal(t, 3.0, key)

	m.Remove(member3)
	key, ok = m.Min()
	require.True(t, ok)
	require.Equal(t, 5.0, key)
	require.Equal(t, 2, m.Len())
}

func TestModelEmpty(t *testing.T) {
	m := oracle.NewModel()
	_, ok := m.Min()
	require.False(t, ok)
	require.Equal(t, 0, m.Len())
}

func TestModelDuplicateKeys(t *testing.T) {
	m := oracle.NewModel()
	a := m.Insert(1)
	b := m.Insert(1)
	require.Equal(t, 2, m.Len())

	m.Remove(a)
	require.Equal(t, 1, m.Len())
	key, ok := m.Min()
	require.True(t, ok)
	require.Equal(t, 1.0, key)

	m.Remove(b)
	require.Equal(t, 0, m.Len())
}

func TestBinaryOracleSortedDrain(t *testing.T) {
	b := oracle.NewBinaryOracle()
	for _, k := range []float64{5, 3, 8, 1, 9, 2, 7} {
		b.Push(k)
	}

	var got []float64
	for b.Len() > 0 {
		got = append(got, b.PopMin())
	}
	require.Equal(t, []float64{1, 2, 3, 5, 7, 8, 9}, got)
}
