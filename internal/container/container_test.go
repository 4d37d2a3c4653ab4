package container

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestIntMap mirrors the original TEST_CASE(IntMap) at the HashMap façade
// level, using uintptr keys (word-sized, as the façade requires).
func TestIntMap(t *testing.T) {
	m := NewHashMap[uintptr, int]()

	for i := -10; i < 10; i++ {
		key := uintptr(i)
		if i&1 != 0 {
			m.Insert(key, i*100)
		} else {
			*m.AtPut(key) = i * 100
		}
	}

	minusFive := -5
	stillThere := func() {
		v, ok := m.Find(0)
		require.True(t, ok)
		require.Equal(t, 0, v)
		v, ok = m.Find(5)
		require.True(t, ok)
		require.Equal(t, 500, v)
		v, ok = m.Find(uintptr(minusFive))
		require.True(t, ok)
		require.Equal(t, -500, v)
	}
	stillThere()

	for i := -10; i < 10; i++ {
		if i%5 != 0 {
			size := m.Len()
			require.True(t, m.Erase(uintptr(i)))
			stillThere()
			require.Equal(t, size-1, m.Len())
		}
	}
}

func TestStringSetBehavior(t *testing.T) {
	// Intern two distinct string headers pointing at the same backing
	// array so their *byte pointers alias, mirroring the original comment
	// that relies on C++ string literal interning: "This works because
	// the compiler interns const strings, which is not actually
	// guaranteed." Here we make the aliasing explicit instead of relying
	// on it.
	foo := "foo"
	fooAlias := foo

	s := NewHashSet[uintptr]()
	require.True(t, s.Empty())

	p1 := *(*uintptr)(unsafe.Pointer(&foo))
	p2 := *(*uintptr)(unsafe.Pointer(&fooAlias))
	require.Equal(t, p1, p2, "fixture strings must alias to test identity keying")

	require.False(t, s.Insert(p1))
	require.True(t, s.Contains(p2))
	require.Equal(t, 1, s.Len())
}

func TestHashMapClear(t *testing.T) {
	m := NewHashMap[uintptr, string]()
	m.Insert(1, "foo")
	m.Insert(2, "bar")
	require.Equal(t, 2, m.Len())

	m.Clear()
	require.Equal(t, 0, m.Len())
	require.True(t, m.Begin().Equal(m.End()))

	m.Insert(2, "fizz")
	require.Equal(t, 1, m.Len())
	v, ok := m.Find(2)
	require.True(t, ok)
	require.Equal(t, "fizz", v)
}

func TestHashMapIteration(t *testing.T) {
	m := NewHashMap[uintptr, int]()
	want := map[uintptr]int{}
	for i := 0; i < 20; i++ {
		m.Insert(uintptr(i), i*i)
		want[uintptr(i)] = i * i
	}

	got := map[uintptr]int{}
	for it := m.Begin(); !it.Done(); it.Next() {
		got[it.Key()] = it.Value()
	}
	require.Equal(t, want, got)
}
