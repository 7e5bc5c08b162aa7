package dynmap

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	m := New[string, int]()
	assert.Equal(t, DefaultCapacity, m.Capacity())
	assert.Equal(t, 24, m.Threshold())
	assert.Equal(t, 0, m.Len())
}

func TestPut_ReturnsPreviousValue(t *testing.T) {
	m := New[string, int]()

	prev, existed := m.Put("fox", 1)
	assert.False(t, existed)
	assert.Zero(t, prev)

	prev, existed = m.Put("fox", 2)
	assert.True(t, existed)
	assert.Equal(t, 1, prev)
	assert.Equal(t, 1, m.Len())

	v, ok := m.Get("fox")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRemove(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	v, ok := m.Remove("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, m.Contains("a"))
	assert.Equal(t, 1, m.Len())

	_, ok = m.Remove("a")
	assert.False(t, ok)
}

func TestRemove_DoesNotShrink(t *testing.T) {
	m := NewWithCapacity[int, int](4)
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	capacity := m.Capacity()
	for i := 0; i < 10; i++ {
		m.Remove(i)
	}
	assert.Equal(t, capacity, m.Capacity())
	assert.Equal(t, 0, m.Len())
}

func TestGrowth_Schedule(t *testing.T) {
	m := New[int, string]()
	for i := 0; i < 24; i++ {
		m.Put(i, fmt.Sprint(i))
	}
	assert.Equal(t, 32, m.Capacity(), "no growth at threshold")

	m.Put(24, "24")
	assert.Equal(t, 51, m.Capacity())
	assert.Equal(t, 38, m.Threshold())

	for i := 0; i < 25; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d lost on resize", i)
		assert.Equal(t, fmt.Sprint(i), v)
	}
}

func TestNewWithCapacity_ClampsToOne(t *testing.T) {
	m := NewWithCapacity[string, int](0)
	assert.Equal(t, 1, m.Capacity())
	m.Put("x", 1)
	assert.Equal(t, 3, m.Capacity())
	assert.LessOrEqual(t, m.Len(), m.Threshold())
}

func TestAll_VisitsEveryEntry(t *testing.T) {
	m := NewWithCapacity[string, int](2)
	want := map[string]int{"the": 0, "quick": 1, "fox": 2, "jumps": 3}
	for k, v := range want {
		m.Put(k, v)
	}
	got := make(map[string]int)
	for k, v := range m.All() {
		got[k] = v
	}
	assert.Equal(t, want, got)

	keys := 0
	for range m.Keys() {
		keys++
	}
	assert.Equal(t, len(want), keys)
}

func TestGrowthInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("size never exceeds threshold after put", prop.ForAll(
		func(capacity int, keys []string) bool {
			m := NewWithCapacity[string, int](capacity)
			for i, k := range keys {
				m.Put(k, i)
				if m.Len() > m.Threshold() {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("associations survive every resize", prop.ForAll(
		func(capacity int, keys []int) bool {
			m := NewWithCapacity[int, int](capacity)
			want := make(map[int]int)
			for i, k := range keys {
				m.Put(k, i)
				want[k] = i
			}
			if m.Len() != len(want) {
				return false
			}
			for k, v := range want {
				got, ok := m.Get(k)
				if !ok || got != v {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64),
		gen.SliceOf(gen.IntRange(-500, 500)),
	))

	properties.TestingRun(t)
}

func BenchmarkPut(b *testing.B) {
	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("word-%d", i)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := New[string, int]()
		for j, k := range keys {
			m.Put(k, j)
		}
	}
}
