// Package scanner implements the streaming lexical scanner (spec §4-§9): it
// walks a source buffer once, left to right, consulting the punctuation
// trie built at construction time and the number/identifier tries owned by
// the Builder, and appends one token.Info per lexeme to its output buffer.
//
// The scanner makes a single left-to-right pass over its input; the one
// genuinely subtle piece is bracket-distance reconciliation (§4.8), handled
// by pushTokenBeginMarker/popTokenBeginMarker below.
package scanner

import (
	"github.com/nomi-lang/nomic/internal/diag"
	"github.com/nomi-lang/nomic/internal/intern"
	"github.com/nomi-lang/nomic/internal/source"
	"github.com/nomi-lang/nomic/internal/token"
	"github.com/nomi-lang/nomic/internal/trie"
)

// beginMarker records an open bracket-like token awaiting its matching
// closer, so the closer can patch the opener's Index with the token
// distance between them. pos is the opener's index into Scanner.tokens; a
// negative pos marks a synthetic marker (pushed for a "${" interpolation
// splice) that has no corresponding token to patch.
type beginMarker struct {
	token token.Token
	pos   int
}

// Scanner tokenizes one source buffer at a time. A Scanner is reusable
// across calls to Scan; each call discards the previous buffer's state.
type Scanner struct {
	builder     *intern.Builder
	punctuation *trie.Punctuation

	input         []byte
	index         int
	beginIndex    int
	startLocation source.Location

	tokens       []token.Info
	beginMarkers []beginMarker
	stringBuf    []byte
}

// New constructs a Scanner backed by builder's interner, installing the
// fixed punctuation trie (spec §4.2's PUNCTUATION_LIST, translated as
// token.PunctuationList) once.
func New(builder *intern.Builder) *Scanner {
	s := &Scanner{builder: builder, punctuation: trie.NewPunctuation()}
	for _, p := range token.PunctuationList {
		s.punctuation.Populate(p.Token, p.Syntax)
	}
	for _, pair := range token.Brackets {
		s.punctuation.AddPair(token.SpecOf(pair[0]).Syntax, token.SpecOf(pair[1]).Syntax)
	}
	return s
}

// EncodedTokens returns the token stream produced by the most recent Scan
// call, in source order, terminated by a token.EOF record.
func (s *Scanner) EncodedTokens() []token.Info { return s.tokens }

// Scan tokenizes input in full, recording every token into the buffer
// EncodedTokens returns. start is the Location already registered for
// input's first byte (spec §6's Source registry owns that registration;
// the scanner only ever adds start's offset to positions within input).
func (s *Scanner) Scan(input []byte, start source.Location) {
	// Four trailing zero bytes give every lookahead (Peek up to 2 past a
	// matched lexeme's last byte) a safe, always-zero read without bounds
	// checks at every call site.
	s.input = append(make([]byte, 0, len(input)+4), input...)
	s.input = append(s.input, 0, 0, 0, 0)
	s.index = 0
	s.startLocation = start
	s.tokens = s.tokens[:0]
	s.beginMarkers = s.beginMarkers[:0]
	s.stringBuf = s.stringBuf[:0]

	if s.current() == 0xEF {
		if s.peek(1) != 0xBB || s.peek(2) != 0xBF {
			s.builder.ReportError(start, diag.MalformedBOM, "Bad UTF-8 BOM")
		}
		s.index += 3
	}
	if s.current() == '#' {
		for s.current() != 0 && s.current() != '\n' {
			s.advance()
		}
	}

	for s.scanToken() {
	}
	s.addToken(token.EOF, token.NoIndex)
}

func (s *Scanner) at(i int) byte {
	if i < 0 || i >= len(s.input) {
		return 0
	}
	return s.input[i]
}
func (s *Scanner) current() byte       { return s.at(s.index) }
func (s *Scanner) peek(offset int) byte { return s.at(s.index + offset) }
func (s *Scanner) advance() byte {
	s.index++
	return s.current()
}
func (s *Scanner) location(offset int) source.Location {
	return s.startLocation.Add(uint32(offset))
}

// ScanUntil scans tokens until the current (unconsumed) byte equals end,
// without consuming end itself. It is how "${...}" interpolation splices
// bound their nested expression scan (spec §4.7).
func (s *Scanner) ScanUntil(end byte) bool {
	for s.current() != end {
		if !s.scanToken() {
			return false
		}
	}
	return true
}

// scanToken scans exactly one token (or skips exactly one run of
// whitespace/comment), leaving index positioned at the next unconsumed
// byte. It returns false at end of input or after a fatal lexical error,
// which stops the enclosing Scan/ScanUntil loop.
func (s *Scanner) scanToken() bool {
	s.beginIndex = s.index
	peek := s.current()

	switch {
	case peek == 0:
		return false
	case isSpace(peek):
		s.skipWhitespace()
		return true
	case peek == '\'' || peek == '"':
		return s.scanString(peek, false)
	case peek == '.' && isDigit(s.peek(1)):
		return s.scanNumber(peek)
	case peek == '/' && s.peek(1) == '/':
		return s.skipSinglelineComment()
	case peek == '/' && s.peek(1) == '*':
		return s.skipMultilineComment()
	case peek == 'r' && (s.peek(1) == '\'' || s.peek(1) == '"'):
		quote := s.advance()
		return s.scanString(quote, true)
	case isDigit(peek):
		return s.scanNumber(peek)
	case isIdentifierStart(peek):
		return s.scanIdentifier(peek, true)
	default:
		return s.scanPunctuation(peek)
	}
}

// scanPunctuation greedily walks the punctuation trie for the longest
// matching lexeme starting at the current byte, reconciles any bracket
// bookkeeping, and emits the resulting token.
func (s *Scanner) scanPunctuation(peek byte) bool {
	node := s.punctuation.LookupChild(int64(peek))
	if node == nil {
		s.builder.ReportError(s.location(s.beginIndex), diag.UnrecognizedCharacter, "Unrecognized character: 0x%x", peek)
		return false
	}
	s.advance() // consume peek; current() is now the lookahead byte

	for {
		next := node.LookupChild(int64(s.current()))
		if next == nil {
			break
		}
		node = next
		s.advance()
	}
	if !node.Data.HasTerminal() {
		// The walk stopped on a node that only prefixes longer lexemes,
		// e.g. a lone "&" or "|" (only "&&" and "||" are populated), so no
		// token matches here.
		s.builder.ReportError(s.location(s.beginIndex), diag.UnrecognizedCharacter, "Unrecognized character: 0x%x", peek)
		return false
	}

	tok := node.Data.Terminal
	switch {
	case tok == token.SHR:
		// ">>" closes two angle brackets at once; decompose into two
		// single-char tokens so each can reconcile its own opener.
		s.popTokenBeginMarker(token.LT)
		s.addToken(token.GT_START, token.NoIndex)
		s.popTokenBeginMarker(token.LT)
		s.addToken(token.GT, token.NoIndex)
	case node.Data.Pop != token.EOF:
		s.popTokenBeginMarker(node.Data.Pop)
		s.addToken(tok, token.NoIndex)
	case node.Data.Push != token.EOF:
		s.pushTokenBeginMarker(node.Data.Push)
		s.addToken(tok, token.NoIndex)
	default:
		s.addToken(tok, token.NoIndex)
	}
	return true
}

// pushTokenBeginMarker records tok (just about to be written at the next
// token slot) as an opener awaiting its closer.
func (s *Scanner) pushTokenBeginMarker(tok token.Token) {
	s.beginMarkers = append(s.beginMarkers, beginMarker{token: tok, pos: len(s.tokens)})
}

// popTokenBeginMarker reconciles a closer for tok against the marker
// stack (spec §4.8): an exact match pops and patches the opener's Index
// with the token distance to this closer; a closer for "<" never discards
// anything (so a comparison ">" leaves the stack untouched); otherwise an
// unmatched "<" on top, or an opener ordered before tok, is discarded and
// the search continues outward, while an opener ordered after tok stops it.
func (s *Scanner) popTokenBeginMarker(tok token.Token) {
	for len(s.beginMarkers) > 0 {
		top := s.beginMarkers[len(s.beginMarkers)-1]
		if top.token == tok {
			s.beginMarkers = s.beginMarkers[:len(s.beginMarkers)-1]
			if top.pos >= 0 {
				s.tokens[top.pos].Index = int32(len(s.tokens) - top.pos)
			}
			return
		}
		if tok == token.LT {
			return
		}
		if top.token != token.LT && top.token > tok {
			return
		}
		s.beginMarkers = s.beginMarkers[:len(s.beginMarkers)-1]
	}
}

// scanNumber scans an integer or floating-point literal starting at peek,
// caching the parsed handle on the number trie leaf reached by its exact
// spelling so a repeated literal is parsed only once (spec §6).
func (s *Scanner) scanNumber(peek byte) bool {
	start := s.index
	node := s.builder.NumberTrie()
	isDouble := false
	base := 10

	step := func() {
		node = node.Descend(int64(s.current()))
		s.advance()
	}

	if peek == '.' {
		isDouble = true
		step()
		for isDigit(s.current()) {
			step()
		}
	} else {
		step()
		if peek == '0' && (s.current() == 'x' || s.current() == 'X') {
			base = 16
			step()
			for isHexDigit(s.current()) {
				step()
			}
		} else {
			for isDigit(s.current()) {
				step()
			}
			if s.current() == '.' && isDigit(s.peek(1)) {
				isDouble = true
				step()
				for isDigit(s.current()) {
					step()
				}
			}
			if (s.current() == 'e' || s.current() == 'E') &&
				(isDigit(s.peek(1)) || ((s.peek(1) == '+' || s.peek(1) == '-') && isDigit(s.peek(2)))) {
				isDouble = true
				step()
				if s.current() == '+' || s.current() == '-' {
					step()
				}
				for isDigit(s.current()) {
					step()
				}
			}
		}
	}

	if node.Data.Handle == trie.NoHandle {
		lexeme := s.input[start:s.index]
		var handle int32
		if isDouble {
			handle = s.builder.RegisterDouble(s.builder.ParseDouble(string(lexeme)))
		} else {
			digits := lexeme
			if base == 16 {
				digits = lexeme[2:]
			}
			v, _ := s.builder.ParseInteger(s.location(start), string(digits), base)
			handle = s.builder.RegisterInteger(v)
		}
		node.Data.Handle = handle
	}

	if isDouble {
		s.addToken(token.DOUBLE, node.Data.Handle)
	} else {
		s.addToken(token.INTEGER, node.Data.Handle)
	}
	return true
}

// scanIdentifier scans an identifier or keyword starting at peek.
// allowDollar is false while rescanning the identifier immediately
// following a "$" interpolation splice, where a second "$" would be
// ambiguous rather than the start of a new splice.
func (s *Scanner) scanIdentifier(peek byte, allowDollar bool) bool {
	start := s.index
	node := s.builder.IdentifierTrie()

	isPart := func(c byte) bool {
		return isIdentifierPart(c) || (allowDollar && c == '$')
	}
	for isPart(s.current()) {
		node = node.Descend(int64(s.current()))
		s.advance()
	}

	if node.Data.IsKeyword {
		s.addToken(node.Data.Keyword, token.NoIndex)
		return true
	}
	if node.Data.Handle == trie.NoHandle {
		node.Data.Handle = s.builder.RegisterIdentifier(string(s.input[start:s.index]))
	}
	s.addToken(token.IDENTIFIER, node.Data.Handle)
	return true
}

// scanString scans a quoted string literal (single- or triple-quoted,
// optionally raw, optionally carrying "$"/"${...}" interpolation splices)
// starting with the quote character itself (spec §4.7).
func (s *Scanner) scanString(quote byte, raw bool) bool {
	// A "${...}" splice scans nested tokens through the normal scanToken
	// path, which overwrites beginIndex for its own tokens' locations.
	// Every segment of this literal reports at the literal's own opening
	// quote, so each emit restores it explicitly rather than trusting
	// whatever a nested scan left behind.
	literalBegin := s.beginIndex
	contentStart := s.index + 1
	multiline := s.peek(1) == quote && s.peek(2) == quote
	if multiline {
		s.index += 2
		contentStart = s.index + 1
		if end, ok := s.blankFirstLine(); ok {
			s.index = end
			contentStart = s.index + 1
		}
	}

	interpolation := false
	usingBuffer := false
	s.stringBuf = s.stringBuf[:0]

	flush := func(upto int) {
		if !usingBuffer {
			s.stringBuf = append(s.stringBuf[:0], s.input[contentStart:upto]...)
			usingBuffer = true
		}
	}
	emit := func(tok token.Token, end int) {
		var text string
		if usingBuffer {
			text = string(s.stringBuf)
		} else {
			text = string(s.input[contentStart:end])
		}
		s.beginIndex = literalBegin
		s.addToken(tok, s.builder.RegisterString(text))
	}

	for {
		c := s.advance()
		switch {
		case c == 0:
			s.builder.ReportError(s.location(s.index), diag.UnterminatedString, "Unterminated string literal")
			return false

		case c == quote && (!multiline || (s.peek(1) == quote && s.peek(2) == quote)):
			end := s.index
			if multiline {
				s.advance()
				s.advance()
			}
			s.advance() // step past the closing quote
			tok := token.STRING
			if interpolation {
				tok = token.STRING_INTERPOLATION_END
			}
			emit(tok, end)
			return true

		case c == quote: // lone quote inside a still-open triple-quoted string
			if usingBuffer {
				s.stringBuf = append(s.stringBuf, c)
			}

		case !raw && c == '\\':
			flush(s.index)
			s.stringBuf = append(s.stringBuf, escapeByte(s.advance()))

		case !raw && c == '$':
			flush(s.index)
			emit(token.STRING_INTERPOLATION, s.index)
			if !s.scanInterpolationSplice() {
				return false
			}
			// scanInterpolationSplice leaves the cursor one past its last
			// byte; rewind one so this loop's advance()-then-process
			// convention picks up exactly there on its next iteration.
			contentStart = s.index
			s.index--
			usingBuffer = false
			interpolation = true

		default:
			if usingBuffer {
				s.stringBuf = append(s.stringBuf, c)
			}
		}
	}
}

// scanInterpolationSplice handles the content immediately after a "$"
// inside a string literal: either a bare "$identifier", or a "${...}"
// expression bounded by ScanUntil('}'). The cursor is at the "$" on entry
// and, on success, is left in the same "not yet processed" convention
// scanIdentifier/scanNumber/scanPunctuation leave it in — one past the
// splice's last byte — which scanString's caller must reconcile with its
// own advance()-then-process loop convention before resuming.
func (s *Scanner) scanInterpolationSplice() bool {
	switch next := s.peek(1); {
	case isIdentifierStart(next):
		s.advance()
		return s.scanIdentifier(s.current(), false)

	case next == '{':
		s.advance() // cursor at '{'
		s.advance() // cursor at the splice body's first byte
		depth := len(s.beginMarkers)
		s.beginMarkers = append(s.beginMarkers, beginMarker{token: token.LBRACE, pos: -1})
		// A '}' reached by ScanUntil might close a brace literal nested
		// inside the splice (e.g. "${ {a:1} }") rather than the splice
		// itself: keep scanning past it, as the normal RBRACE token it is,
		// until the marker stack is back down to just our synthetic entry.
		for {
			if !s.ScanUntil('}') {
				s.builder.ReportError(s.location(s.index), diag.UnterminatedString, "Unterminated string literal")
				if len(s.beginMarkers) > depth {
					s.beginMarkers = s.beginMarkers[:depth]
				}
				return false
			}
			if len(s.beginMarkers) <= depth {
				s.builder.ReportError(s.location(s.index), diag.BadStringInterpolation, "Bad string interpolation")
				return false
			}
			if len(s.beginMarkers) == depth+1 {
				break
			}
			if !s.scanToken() {
				s.builder.ReportError(s.location(s.index), diag.UnterminatedString, "Unterminated string literal")
				s.beginMarkers = s.beginMarkers[:depth]
				return false
			}
		}
		s.beginMarkers = s.beginMarkers[:depth]
		s.advance() // cursor past '}'
		return true

	default:
		s.builder.ReportError(s.location(s.index), diag.BadStringInterpolation, "Bad string interpolation start")
		return false
	}
}

// blankFirstLine reports whether, starting just after a triple-quote
// opener, the rest of the line is blank (only horizontal whitespace), in
// which case a triple-quoted literal's first line is conventionally
// dropped. It returns the offset of that line's newline.
func (s *Scanner) blankFirstLine() (int, bool) {
	i := s.index + 1
	for s.at(i) == ' ' || s.at(i) == '\t' || s.at(i) == '\r' {
		i++
	}
	if s.at(i) == '\n' {
		return i, true
	}
	return 0, false
}

func escapeByte(c byte) byte {
	switch c {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	default:
		return c
	}
}

func (s *Scanner) skipWhitespace() {
	for isSpace(s.current()) {
		s.advance()
	}
}

// skipSinglelineComment consumes a "//" comment up to its terminating
// newline, leaving the cursor on that newline for the whitespace skip, or
// reports false if input ends first.
func (s *Scanner) skipSinglelineComment() bool {
	for {
		c := s.advance()
		if c == 0 {
			return false
		}
		if c == '\n' {
			return true
		}
	}
}

// skipMultilineComment consumes a "/*"-opened comment, respecting nested
// "/*...*/" pairs, through its matching close.
func (s *Scanner) skipMultilineComment() bool {
	s.advance() // consume '/'
	s.advance() // consume '*'
	depth := 1
	for depth > 0 {
		c := s.current()
		switch {
		case c == 0:
			s.builder.ReportError(s.location(s.beginIndex), diag.UnterminatedComment, "Unterminated multiline comment")
			return false
		case c == '/' && s.peek(1) == '*':
			depth++
			s.advance()
			s.advance()
		case c == '*' && s.peek(1) == '/':
			depth--
			s.advance()
			s.advance()
		default:
			s.advance()
		}
	}
	return true
}

func (s *Scanner) addToken(tok token.Token, index int32) {
	s.tokens = append(s.tokens, token.Info{
		Token: tok,
		Index: index,
		Loc:   s.location(s.beginIndex),
	})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isIdentifierStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentifierPart(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

// TokenStream is a read cursor over a scanned token buffer, used by the
// (out of scope) parser stage to walk, peek, and rewind without copying.
type TokenStream struct {
	tokens   []token.Info
	position int
}

// NewTokenStream wraps tokens (typically Scanner.EncodedTokens()'s result)
// for cursor-style consumption.
func NewTokenStream(tokens []token.Info) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Current returns the token at the cursor.
func (ts *TokenStream) Current() token.Info { return ts.tokens[ts.position] }

// CurrentIndex returns the current token's auxiliary index.
func (ts *TokenStream) CurrentIndex() int32 { return ts.tokens[ts.position].Index }

// CurrentLocation returns the current token's source location.
func (ts *TokenStream) CurrentLocation() source.Location { return ts.tokens[ts.position].Loc }

// Position returns the cursor's current offset, for use with RewindTo.
func (ts *TokenStream) Position() int { return ts.position }

// Advance moves the cursor forward one token (never past a trailing EOF)
// and returns the new current token.
func (ts *TokenStream) Advance() token.Info {
	if ts.tokens[ts.position].Token != token.EOF {
		ts.position++
	}
	return ts.Current()
}

// Skip advances the cursor by n tokens, e.g. to jump over a bracket's
// body using its reconciled distance.
func (ts *TokenStream) Skip(n int32) {
	for i := int32(0); i < n; i++ {
		ts.Advance()
	}
}

// RewindTo resets the cursor to a previously observed Position.
func (ts *TokenStream) RewindTo(position int) { ts.position = position }
