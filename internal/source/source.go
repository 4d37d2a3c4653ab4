// Package source implements the chunked source-location registry: the
// external collaborator the scanner only ever produces opaque Location
// values for, never resolves itself (spec §6 "Source registry").
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"
	"github.com/google/btree"
	"github.com/sirupsen/logrus"
)

// invalid is the sentinel raw Location value.
const invalid uint32 = 0xFFFFFFFF

// Location is a 32-bit monotonic offset into the registry's concatenated
// chunks. The zero value is the first byte of the first chunk a Registry
// registers; Invalid() returns the "no location" sentinel.
type Location struct {
	raw uint32
}

// Invalid returns the sentinel "no location" value.
func Invalid() Location { return Location{raw: invalid} }

// IsInvalid reports whether loc is the sentinel value.
func (loc Location) IsInvalid() bool { return loc.raw == invalid }

// Raw returns the location's underlying offset.
func (loc Location) Raw() uint32 { return loc.raw }

// Add returns a sibling location offset bytes further into the same chunk.
func (loc Location) Add(offset uint32) Location {
	return Location{raw: loc.raw + offset}
}

const chunkBits = 12
const chunkSize = 1 << chunkBits

type chunk struct {
	filePath   string
	data       []byte
	offset     uint32 // base Location of this chunk
	mappedFile *mmap.MMap
}

func (c *chunk) Less(than btree.Item) bool {
	return c.offset < than.(*chunk).offset
}

// Registry owns every source chunk loaded during a compilation unit and
// resolves Locations back to file paths, byte slices, and line text. It
// memory-maps files from disk, advisory-locking each file while mapping
// it, and registers buffers supplied directly by callers (e.g. in tests)
// as they are, without copying.
type Registry struct {
	chunks   *btree.BTree
	nextBase uint32
	log      *logrus.Logger
}

// New constructs an empty Registry. A nil logger installs a logger that
// discards output.
func New(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
	}
	return &Registry{chunks: btree.New(8), log: log}
}

func (r *Registry) addChunk(path string, data []byte, mapped *mmap.MMap) Location {
	base := r.nextBase
	r.chunks.ReplaceOrInsert(&chunk{filePath: path, data: data, offset: base, mappedFile: mapped})
	// Reserve room for the chunk plus one so two chunks never share a base.
	r.nextBase += uint32(len(data)) + 1
	return Location{raw: base}
}

// LoadFile memory-maps path and registers it as a new chunk, returning the
// Location of its first byte. The file is advisory-locked for the duration
// of the mapping.
func (r *Registry) LoadFile(path string) (Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return Invalid(), fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		r.log.WithError(err).WithField("path", path).Warn("source: advisory lock failed, continuing unlocked")
	} else if locked {
		defer fl.Unlock()
	}

	info, err := f.Stat()
	if err != nil {
		return Invalid(), fmt.Errorf("source: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return r.addChunk(path, nil, nil), nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return Invalid(), fmt.Errorf("source: mmap %s: %w", path, err)
	}
	r.log.WithField("path", path).WithField("bytes", len(m)).Debug("source: mapped file")
	return r.addChunk(path, []byte(m), &m), nil
}

// LoadFromBuffer registers an in-memory buffer (e.g. stdin, or a test
// fixture) as a new chunk under a synthetic path, returning its Location.
func (r *Registry) LoadFromBuffer(path string, data []byte) Location {
	return r.addChunk(path, data, nil)
}

func (r *Registry) chunkFor(loc Location) *chunk {
	var found *chunk
	r.chunks.DescendLessOrEqual(&chunk{offset: loc.raw}, func(item btree.Item) bool {
		found = item.(*chunk)
		return false
	})
	return found
}

// GetSource returns the remaining bytes of the chunk containing loc,
// starting at loc.
func (r *Registry) GetSource(loc Location) []byte {
	c := r.chunkFor(loc)
	if c == nil {
		return nil
	}
	rel := loc.raw - c.offset
	if int(rel) >= len(c.data) {
		return nil
	}
	return c.data[rel:]
}

// GetFilePath returns the file path of the chunk containing loc.
func (r *Registry) GetFilePath(loc Location) string {
	c := r.chunkFor(loc)
	if c == nil {
		return ""
	}
	return c.filePath
}

// GetLine returns the full line of source text containing loc.
func (r *Registry) GetLine(loc Location) []byte {
	c := r.chunkFor(loc)
	if c == nil {
		return nil
	}
	rel := int(loc.raw - c.offset)
	if rel > len(c.data) {
		return nil
	}
	start := rel
	for start > 0 && c.data[start-1] != '\n' {
		start--
	}
	end := rel
	for end < len(c.data) && c.data[end] != '\n' {
		end++
	}
	return c.data[start:end]
}

// Close unmaps every memory-mapped chunk. Byte slices already handed out
// by GetSource/GetLine for a mapped file point into that unmapped memory
// afterwards; call it only once the registry is no longer needed.
func (r *Registry) Close() error {
	var firstErr error
	r.chunks.Ascend(func(item btree.Item) bool {
		c := item.(*chunk)
		if c.mappedFile != nil {
			if err := c.mappedFile.Unmap(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return firstErr
}
