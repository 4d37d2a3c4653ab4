// Package arena implements a bump allocator scoped to a single compilation
// unit. Everything the front-end builds — hash table backings, trie nodes,
// token buffers, copied lexemes — is served out of an Arena and released in
// one bulk step; nothing is freed piecemeal.
package arena

import (
	"unsafe"

	"github.com/c2h5oh/datasize"
)

const defaultBlockSize = 64 * 1024

// Arena is a linear allocator. The zero value is not usable; construct one
// with New.
type Arena struct {
	blockSize int
	current   []byte
	used      int
	totalUsed datasize.ByteSize
}

// New constructs an Arena that allocates in chunks of blockSize bytes. A
// blockSize of zero selects a reasonable default.
func New(blockSize datasize.ByteSize) *Arena {
	bs := int(blockSize.Bytes())
	if bs <= 0 {
		bs = defaultBlockSize
	}
	return &Arena{blockSize: bs}
}

// Usage reports the total number of bytes handed out so far, across all
// blocks, for diagnostics.
func (a *Arena) Usage() datasize.ByteSize {
	return a.totalUsed
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// Allocate returns size bytes of zeroed, pointer-aligned storage.
func (a *Arena) Allocate(size int) []byte {
	const align = int(unsafe.Sizeof(uintptr(0)))
	if size == 0 {
		return nil
	}
	need := alignUp(size, align)
	if a.current == nil || a.used+need > len(a.current) {
		blockLen := a.blockSize
		if need > blockLen {
			blockLen = need
		}
		a.current = make([]byte, blockLen)
		a.used = 0
	}
	start := a.used
	a.used += need
	a.totalUsed += datasize.ByteSize(need)
	return a.current[start : start+size : start+size]
}

// Alloc allocates space for one T and returns a pointer to it.
func Alloc[T any](a *Arena) *T {
	var zero T
	buf := a.Allocate(int(unsafe.Sizeof(zero)))
	return (*T)(unsafe.Pointer(unsafe.SliceData(buf)))
}

// AllocSlice allocates space for n contiguous T values.
func AllocSlice[T any](a *Arena, n int) []T {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if n == 0 || elemSize == 0 {
		return nil
	}
	buf := a.Allocate(elemSize * n)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n)
}

// AllocBytes copies src into the arena and returns the copy, optionally
// null-terminated (as the scanner needs for lexemes handed to the C-style
// interner contract).
func (a *Arena) AllocBytes(src []byte, nullTerminate bool) []byte {
	n := len(src)
	if nullTerminate {
		n++
	}
	buf := a.Allocate(n)
	copy(buf, src)
	return buf
}

// Release abandons every block allocated so far. After Release, the Arena
// is equivalent to a freshly constructed one; no individual pointer handed
// out previously may be used again.
func (a *Arena) Release() {
	a.current = nil
	a.used = 0
	a.totalUsed = 0
}
