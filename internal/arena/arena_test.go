package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateZeroed(t *testing.T) {
	a := New(0)
	buf := a.Allocate(16)
	require.Len(t, buf, 16)
	for _, b := range buf {
		require.Zero(t, b)
	}
}

func TestAllocSpansBlocks(t *testing.T) {
	a := New(64)
	first := a.Allocate(48)
	second := a.Allocate(48)
	require.Len(t, first, 48)
	require.Len(t, second, 48)
	// Writing into one must not alias the other.
	first[0] = 0xFF
	require.NotEqual(t, byte(0xFF), second[0])
}

func TestAllocSliceAndAlloc(t *testing.T) {
	a := New(0)
	type point struct{ x, y int32 }

	p := Alloc[point](a)
	p.x, p.y = 1, 2
	require.Equal(t, int32(1), p.x)

	s := AllocSlice[point](a, 4)
	require.Len(t, s, 4)
	s[3].x = 9
	require.Equal(t, int32(9), s[3].x)
}

func TestAllocBytesNullTerminate(t *testing.T) {
	a := New(0)
	out := a.AllocBytes([]byte("hi"), true)
	require.Equal(t, []byte{'h', 'i', 0}, out)
}

func TestUsageAccounting(t *testing.T) {
	a := New(0)
	require.Zero(t, a.Usage())
	a.Allocate(16)
	require.NotZero(t, a.Usage())
}

func TestRelease(t *testing.T) {
	a := New(0)
	a.Allocate(16)
	a.Release()
	require.Zero(t, a.Usage())
}
