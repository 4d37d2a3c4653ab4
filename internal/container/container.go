// Package container provides typed HashMap and HashSet façades over
// wordtable.Table, the way the original UnorderedHashTable template wraps
// VoidHashTable: the key type K must be exactly word-sized (a pointer, an
// interned handle, or a pointer-sized integer) because keys are compared by
// raw bit pattern, never by value equality.
package container

import (
	"fmt"
	"unsafe"

	"github.com/nomi-lang/nomic/internal/wordtable"
)

func checkWordSized[K comparable]() {
	var zero K
	if unsafe.Sizeof(zero) != unsafe.Sizeof(wordtable.Word(0)) {
		panic(fmt.Sprintf("container: key type %T is not word-sized", zero))
	}
}

func keyToWord[K comparable](key K) wordtable.Word {
	return *(*wordtable.Word)(unsafe.Pointer(&key))
}

func wordToKey[K comparable](w wordtable.Word) K {
	return *(*K)(unsafe.Pointer(&w))
}

// HashMap is an identity-keyed map from K to V. K must be word-sized.
type HashMap[K comparable, V any] struct {
	table wordtable.Table[V]
}

// NewHashMap constructs an empty HashMap, panicking if K is not word-sized.
func NewHashMap[K comparable, V any]() *HashMap[K, V] {
	checkWordSized[K]()
	return &HashMap[K, V]{}
}

// Len returns the number of entries.
func (m *HashMap[K, V]) Len() int { return m.table.Len() }

// Empty reports whether the map has no entries.
func (m *HashMap[K, V]) Empty() bool { return m.table.Len() == 0 }

// Find returns the value for key, if present.
func (m *HashMap[K, V]) Find(key K) (V, bool) {
	return m.table.Find(keyToWord(key))
}

// At returns a pointer to the value for key, or nil if absent.
func (m *HashMap[K, V]) At(key K) *V {
	return m.table.At(keyToWord(key))
}

// AtPut returns a pointer to the value for key, inserting a zero value
// first if key is absent. This is the map's operator[].
func (m *HashMap[K, V]) AtPut(key K) *V {
	return m.table.LookUp(keyToWord(key))
}

// Insert stores value under key, overwriting any existing value, and
// reports whether the key already existed.
func (m *HashMap[K, V]) Insert(key K, value V) (existed bool) {
	return m.table.Insert(keyToWord(key), value)
}

// Erase removes key, reporting whether it was present.
func (m *HashMap[K, V]) Erase(key K) bool {
	return m.table.Erase(keyToWord(key))
}

// Clear empties the map.
func (m *HashMap[K, V]) Clear() { m.table.Clear() }

// Swap exchanges the contents of m and other.
func (m *HashMap[K, V]) Swap(other *HashMap[K, V]) { m.table.Swap(&other.table) }

// MapIterator walks a HashMap's entries.
type MapIterator[K comparable, V any] struct {
	inner wordtable.Iterator[V]
}

// Begin returns an iterator at the first entry.
func (m *HashMap[K, V]) Begin() MapIterator[K, V] {
	return MapIterator[K, V]{inner: m.table.Begin()}
}

// End returns the sentinel iterator one past the last entry.
func (m *HashMap[K, V]) End() MapIterator[K, V] {
	return MapIterator[K, V]{inner: m.table.End()}
}

// FindIterator returns an iterator positioned at key, or at End if absent.
func (m *HashMap[K, V]) FindIterator(key K) MapIterator[K, V] {
	it := m.table.Begin()
	for ; !it.Done(); it.Next() {
		if wordToKey[K](it.Key()) == key {
			break
		}
	}
	return MapIterator[K, V]{inner: it}
}

// Next advances the iterator.
func (it *MapIterator[K, V]) Next() { it.inner.Next() }

// Done reports whether the iterator has reached the end.
func (it MapIterator[K, V]) Done() bool { return it.inner.Done() }

// Equal reports whether two iterators refer to the same position.
func (it MapIterator[K, V]) Equal(other MapIterator[K, V]) bool { return it.inner.Equal(other.inner) }

// Key returns the key at the iterator's position.
func (it MapIterator[K, V]) Key() K { return wordToKey[K](it.inner.Key()) }

// Value returns the value at the iterator's position.
func (it MapIterator[K, V]) Value() V { return it.inner.Value() }

// EraseIterator removes the entry the iterator points to and returns an
// iterator still usable for continued traversal.
func (m *HashMap[K, V]) EraseIterator(it MapIterator[K, V]) MapIterator[K, V] {
	return MapIterator[K, V]{inner: m.table.EraseIterator(it.inner)}
}

// HashSet is an identity-keyed set of K. K must be word-sized.
type HashSet[K comparable] struct {
	table wordtable.Table[struct{}]
}

// NewHashSet constructs an empty HashSet, panicking if K is not word-sized.
func NewHashSet[K comparable]() *HashSet[K] {
	checkWordSized[K]()
	return &HashSet[K]{}
}

// Len returns the number of elements.
func (s *HashSet[K]) Len() int { return s.table.Len() }

// Empty reports whether the set has no elements.
func (s *HashSet[K]) Empty() bool { return s.table.Len() == 0 }

// Contains reports whether key is in the set.
func (s *HashSet[K]) Contains(key K) bool {
	_, ok := s.table.Find(keyToWord(key))
	return ok
}

// Insert adds key to the set, reporting whether it was already present.
func (s *HashSet[K]) Insert(key K) (existed bool) {
	return s.table.Insert(keyToWord(key), struct{}{})
}

// Erase removes key, reporting whether it was present.
func (s *HashSet[K]) Erase(key K) bool {
	return s.table.Erase(keyToWord(key))
}

// Clear empties the set.
func (s *HashSet[K]) Clear() { s.table.Clear() }

// SetIterator walks a HashSet's elements.
type SetIterator[K comparable] struct {
	inner wordtable.Iterator[struct{}]
}

// Begin returns an iterator at the first element.
func (s *HashSet[K]) Begin() SetIterator[K] { return SetIterator[K]{inner: s.table.Begin()} }

// End returns the sentinel iterator one past the last element.
func (s *HashSet[K]) End() SetIterator[K] { return SetIterator[K]{inner: s.table.End()} }

// Next advances the iterator.
func (it *SetIterator[K]) Next() { it.inner.Next() }

// Done reports whether the iterator has reached the end.
func (it SetIterator[K]) Done() bool { return it.inner.Done() }

// Key returns the element at the iterator's position.
func (it SetIterator[K]) Key() K { return wordToKey[K](it.inner.Key()) }
