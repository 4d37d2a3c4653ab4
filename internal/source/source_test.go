package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromBufferRoundTrip(t *testing.T) {
	r := New(nil)
	loc := r.LoadFromBuffer("<test>", []byte("first\nsecond\n"))
	require.False(t, loc.IsInvalid())
	require.Equal(t, "<test>", r.GetFilePath(loc))
	require.Equal(t, []byte("first\nsecond\n"), r.GetSource(loc))
	require.Equal(t, []byte("first"), r.GetLine(loc))
}

func TestGetLineMidChunk(t *testing.T) {
	r := New(nil)
	loc := r.LoadFromBuffer("<test>", []byte("first\nsecond\nthird\n"))
	mid := loc.Add(7) // offset into "second"
	require.Equal(t, []byte("second"), r.GetLine(mid))
}

func TestInvalidLocation(t *testing.T) {
	loc := Invalid()
	require.True(t, loc.IsInvalid())
}

func TestMultipleChunksDoNotAlias(t *testing.T) {
	r := New(nil)
	a := r.LoadFromBuffer("a.src", []byte("aaa"))
	b := r.LoadFromBuffer("b.src", []byte("bbb"))

	require.Equal(t, "a.src", r.GetFilePath(a))
	require.Equal(t, "b.src", r.GetFilePath(b))
	require.Equal(t, []byte("aaa"), r.GetSource(a))
	require.Equal(t, []byte("bbb"), r.GetSource(b))
}
