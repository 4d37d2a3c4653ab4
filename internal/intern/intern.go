// Package intern implements the Builder collaborator (spec §6): the
// literal interner the scanner calls into to register integers, doubles,
// identifiers, and strings, and to obtain the number/identifier tries it
// walks while scanning.
package intern

import (
	"errors"
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
	freelru "github.com/elastic/go-freelru"
	"github.com/sirupsen/logrus"

	"github.com/nomi-lang/nomic/internal/arena"
	"github.com/nomi-lang/nomic/internal/diag"
	"github.com/nomi-lang/nomic/internal/source"
	"github.com/nomi-lang/nomic/internal/token"
	"github.com/nomi-lang/nomic/internal/trie"
)

// literalKind distinguishes what a handle was registered as, so the same
// small-integer handle space can serve integers, doubles, identifiers, and
// strings without collision in the decode tables.
type literalKind uint8

const (
	kindInteger literalKind = iota
	kindDouble
	kindIdentifier
	kindString
)

type literal struct {
	kind    literalKind
	integer int64
	double  float64
	text    string
}

// hashBytesFNV is used as go-freelru's required hash function for the
// byte-lexeme cache.
func hashBytesFNV(b []byte) uint32 {
	var h uint32 = 2166136261
	for _, c := range b {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

const lexemeCacheCapacity = 4096

// Builder is the concrete literal interner: it owns the arena, the
// number/identifier tries the scanner descends while lexing, a bounded LRU
// over raw lexeme bytes (a cross-request complement to the trie's own
// leaf-local handle cache), and the set of handles that are reserved
// keywords.
type Builder struct {
	Arena *arena.Arena

	numberTrie     *trie.Terminal
	identifierTrie *trie.Terminal

	literals  []literal
	lexemeLRU *freelru.LRU[string, int32]
	keywords  *roaring.Bitmap

	diag *diag.Recorder
	log  *logrus.Logger
}

// New constructs a Builder over a (already constructed) arena and error
// recorder.
func New(a *arena.Arena, reporter *diag.Recorder, log *logrus.Logger) *Builder {
	if log == nil {
		log = logrus.New()
	}
	lru, err := freelru.New[string, int32](lexemeCacheCapacity, func(s string) uint32 {
		return hashBytesFNV([]byte(s))
	})
	if err != nil {
		// lexemeCacheCapacity is a fixed, valid constant, so construction
		// cannot fail in practice.
		panic(err)
	}

	b := &Builder{
		Arena:          a,
		numberTrie:     trie.NewTerminal(),
		identifierTrie: trie.NewTerminal(),
		lexemeLRU:      lru,
		keywords:       roaring.New(),
		diag:           reporter,
		log:            log,
	}
	b.seedKeywords()
	return b
}

// NumberTrie returns the trie the scanner walks while lexing a numeric
// literal.
func (b *Builder) NumberTrie() *trie.Terminal { return b.numberTrie }

// IdentifierTrie returns the trie the scanner walks while lexing an
// identifier or keyword.
func (b *Builder) IdentifierTrie() *trie.Terminal { return b.identifierTrie }

// IsKeyword reports whether handle identifies a reserved keyword.
func (b *Builder) IsKeyword(handle int32) bool {
	return b.keywords.Contains(uint32(handle))
}

func (b *Builder) register(lit literal) int32 {
	handle := int32(len(b.literals))
	b.literals = append(b.literals, lit)
	return handle
}

// RegisterInteger registers i and returns its handle.
func (b *Builder) RegisterInteger(i int64) int32 {
	return b.register(literal{kind: kindInteger, integer: i})
}

// RegisterDouble registers f and returns its handle.
func (b *Builder) RegisterDouble(f float64) int32 {
	return b.register(literal{kind: kindDouble, double: f})
}

// RegisterIdentifier registers the identifier lexeme and returns its
// handle, consulting and updating the bounded LRU cache first.
func (b *Builder) RegisterIdentifier(lexeme string) int32 {
	if handle, ok := b.lexemeLRU.Get(lexeme); ok && b.literals[handle].kind == kindIdentifier {
		return handle
	}
	handle := b.register(literal{kind: kindIdentifier, text: lexeme})
	b.lexemeLRU.Add(lexeme, handle)
	return handle
}

// RegisterString registers a string literal's decoded contents and returns
// its handle.
func (b *Builder) RegisterString(decoded string) int32 {
	return b.register(literal{kind: kindString, text: decoded})
}

// Integer returns the int64 registered under handle.
func (b *Builder) Integer(handle int32) int64 { return b.literals[handle].integer }

// Double returns the float64 registered under handle.
func (b *Builder) Double(handle int32) float64 { return b.literals[handle].double }

// Text returns the string registered under handle (identifier or string
// literal contents).
func (b *Builder) Text(handle int32) string { return b.literals[handle].text }

// ReportError forwards to the error recorder, tagging the message with loc.
func (b *Builder) ReportError(loc source.Location, kind diag.Kind, format string, args ...any) {
	b.diag.ReportError(loc, kind, format, args...)
}

// ParseInteger parses digits (already validated as a decimal or hex run by
// the scanner) in the given base, reporting an UnhandledLargeInteger error
// through the recorder on overflow.
func (b *Builder) ParseInteger(loc source.Location, digits string, base int) (int64, bool) {
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		b.ReportError(loc, diag.UnhandledLargeInteger, "Unhandled large integer literal")
		return 0, false
	}
	return v, true
}

// ParseDouble parses digits as a float64. The grammar the scanner enforces
// before calling this never produces a string strconv rejects, and float64
// has no overflow error path worth surfacing (it saturates to +/-Inf like
// the original's double parse), so there is no error return.
func (b *Builder) ParseDouble(digits string) float64 {
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

var keywordList = []struct {
	syntax string
	tok    token.Token
}{
	{"var", token.VAR},
	{"func", token.FUNC},
	{"class", token.CLASS},
	{"if", token.IF},
	{"else", token.ELSE},
	{"while", token.WHILE},
	{"for", token.FOR},
	{"return", token.RETURN},
	{"true", token.TRUE},
	{"false", token.FALSE},
	{"null", token.NULL},
}

// seedKeywords walks the identifier trie once per reserved keyword,
// marking the final node with its token kind (spec §4.3), and also
// registers each keyword's spelling as an identifier handle so that
// IsKeyword can answer from a bare handle without a trie walk.
func (b *Builder) seedKeywords() {
	for _, kw := range keywordList {
		b.identifierTrie.MarkKeyword(kw.syntax, kw.tok)
		handle := b.RegisterIdentifier(kw.syntax)
		b.keywords.Add(uint32(handle))
	}
}
