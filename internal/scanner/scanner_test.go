package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nomi-lang/nomic/internal/arena"
	"github.com/nomi-lang/nomic/internal/diag"
	"github.com/nomi-lang/nomic/internal/intern"
	"github.com/nomi-lang/nomic/internal/source"
	"github.com/nomi-lang/nomic/internal/token"
)

func newFixture() (*Scanner, *intern.Builder, *diag.Recorder) {
	rec := diag.NewRecorder(nil, false)
	b := intern.New(arena.New(0), rec, nil)
	return New(b), b, rec
}

func scan(t *testing.T, src string) ([]token.Info, *intern.Builder) {
	t.Helper()
	s, b, rec := newFixture()
	reg := source.New(nil)
	loc := reg.LoadFromBuffer("<test>", []byte(src))
	s.Scan([]byte(src), loc)
	require.False(t, rec.HasErrors(), "unexpected errors: %v", rec.Records())
	return s.EncodedTokens(), b
}

func kinds(toks []token.Info) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tk := range toks {
		out[i] = tk.Token
	}
	return out
}

func TestScanInteger(t *testing.T) {
	toks, b := scan(t, "3")
	require.Equal(t, []token.Token{token.INTEGER, token.EOF}, kinds(toks))
	require.Equal(t, int64(3), b.Integer(toks[0].Index))
}

func TestScanSingleQuotedString(t *testing.T) {
	toks, b := scan(t, "'foo'")
	require.Equal(t, []token.Token{token.STRING, token.EOF}, kinds(toks))
	require.Equal(t, "foo", b.Text(toks[0].Index))
}

func TestScanEscapedString(t *testing.T) {
	toks, b := scan(t, `"a\nb"`)
	require.Equal(t, []token.Token{token.STRING, token.EOF}, kinds(toks))
	require.Equal(t, "a\nb", b.Text(toks[0].Index))
}

func TestScanBraceStringInterpolation(t *testing.T) {
	toks, b := scan(t, `"x${y}z"`)
	require.Equal(t, []token.Token{
		token.STRING_INTERPOLATION,
		token.IDENTIFIER,
		token.STRING_INTERPOLATION_END,
		token.EOF,
	}, kinds(toks))
	require.Equal(t, "x", b.Text(toks[0].Index))
	require.Equal(t, "y", b.Text(toks[1].Index))
	require.Equal(t, "z", b.Text(toks[2].Index))
}

func TestScanBraceStringInterpolationWithNestedBraceLiteral(t *testing.T) {
	toks, b := scan(t, `"x${ {1} }y"`)
	require.Equal(t, []token.Token{
		token.STRING_INTERPOLATION,
		token.LBRACE,
		token.INTEGER,
		token.RBRACE,
		token.STRING_INTERPOLATION_END,
		token.EOF,
	}, kinds(toks))
	require.Equal(t, "x", b.Text(toks[0].Index))
	require.Equal(t, int64(1), b.Integer(toks[2].Index))
	require.Equal(t, "y", b.Text(toks[4].Index))
}

func TestScanDollarIdentifierInterpolation(t *testing.T) {
	toks, b := scan(t, `"a$b c"`)
	require.Equal(t, []token.Token{
		token.STRING_INTERPOLATION,
		token.IDENTIFIER,
		token.STRING_INTERPOLATION_END,
		token.EOF,
	}, kinds(toks))
	require.Equal(t, "a", b.Text(toks[0].Index))
	require.Equal(t, "b", b.Text(toks[1].Index))
	require.Equal(t, " c", b.Text(toks[2].Index))
}

func TestScanBracketDistance(t *testing.T) {
	toks, b := scan(t, "a<b>c")
	require.Equal(t, []token.Token{
		token.IDENTIFIER, token.LT, token.IDENTIFIER, token.GT, token.IDENTIFIER, token.EOF,
	}, kinds(toks))
	require.Equal(t, "a", b.Text(toks[0].Index))
	require.Equal(t, "b", b.Text(toks[2].Index))
	require.Equal(t, "c", b.Text(toks[4].Index))
	// LT (position 1) reconciles against GT (position 3): distance 2.
	require.Equal(t, int32(2), toks[1].Index)
}

func TestScanShiftRightDecomposesGenericClose(t *testing.T) {
	toks, _ := scan(t, "a<b<c>>")
	// A single ">>" closes two nested openers at once; it must decompose
	// into GT_START then GT so each "<" reconciles against its own closer.
	require.Equal(t, []token.Token{
		token.IDENTIFIER, token.LT, token.IDENTIFIER, token.LT, token.IDENTIFIER,
		token.GT_START, token.GT, token.EOF,
	}, kinds(toks))
	// Inner "<" (position 3) reconciles first, against GT_START (position 5).
	require.Equal(t, int32(2), toks[3].Index)
	// Outer "<" (position 1) reconciles second, against GT (position 6).
	require.Equal(t, int32(5), toks[1].Index)
}

func TestScanKeywordNotIdentifier(t *testing.T) {
	toks, _ := scan(t, "if x")
	require.Equal(t, []token.Token{token.IF, token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestScanRawStringSkipsEscapes(t *testing.T) {
	toks, b := scan(t, `r"a\nb"`)
	require.Equal(t, []token.Token{token.STRING, token.EOF}, kinds(toks))
	require.Equal(t, `a\nb`, b.Text(toks[0].Index))
}

func TestScanTripleQuotedStringDropsLeadingBlankLine(t *testing.T) {
	toks, b := scan(t, "'''\nhello'''")
	require.Equal(t, []token.Token{token.STRING, token.EOF}, kinds(toks))
	require.Equal(t, "hello", b.Text(toks[0].Index))
}

func TestScanNestedMultilineComment(t *testing.T) {
	toks, _ := scan(t, "/* a /* b */ c */d")
	require.Equal(t, []token.Token{token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestScanSinglelineComment(t *testing.T) {
	toks, _ := scan(t, "a // trailing\nb")
	require.Equal(t, []token.Token{token.IDENTIFIER, token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestScanUnrecognizedCharacterReportsError(t *testing.T) {
	s, _, rec := newFixture()
	reg := source.New(nil)
	loc := reg.LoadFromBuffer("<test>", []byte("@"))
	s.Scan([]byte("@"), loc)
	require.True(t, rec.HasErrors())
	require.Equal(t, diag.UnrecognizedCharacter, rec.Records()[0].Kind)
}

func TestScanFormFeedAndVerticalTabAreNotWhitespace(t *testing.T) {
	s, _, rec := newFixture()
	reg := source.New(nil)
	loc := reg.LoadFromBuffer("<test>", []byte("\f"))
	s.Scan([]byte("\f"), loc)
	require.True(t, rec.HasErrors())
	require.Equal(t, diag.UnrecognizedCharacter, rec.Records()[0].Kind)

	s2, _, rec2 := newFixture()
	loc2 := reg.LoadFromBuffer("<test2>", []byte("\v"))
	s2.Scan([]byte("\v"), loc2)
	require.True(t, rec2.HasErrors())
	require.Equal(t, diag.UnrecognizedCharacter, rec2.Records()[0].Kind)
}

func TestScanMalformedBOMContinuesScanning(t *testing.T) {
	s, _, rec := newFixture()
	reg := source.New(nil)
	input := []byte{0xEF, 0x00, 0x00, 'x'}
	loc := reg.LoadFromBuffer("<test>", input)
	s.Scan(input, loc)

	require.True(t, rec.HasErrors())
	require.Len(t, rec.Records(), 1)
	require.Equal(t, diag.MalformedBOM, rec.Records()[0].Kind)
	require.Equal(t, []token.Token{token.IDENTIFIER, token.EOF}, kinds(s.EncodedTokens()))
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	s, _, rec := newFixture()
	reg := source.New(nil)
	loc := reg.LoadFromBuffer("<test>", []byte(`"abc`))
	s.Scan([]byte(`"abc`), loc)
	require.True(t, rec.HasErrors())
	require.Equal(t, diag.UnterminatedString, rec.Records()[0].Kind)
}

func TestScanUnterminatedMultilineCommentReportsError(t *testing.T) {
	s, _, rec := newFixture()
	reg := source.New(nil)
	loc := reg.LoadFromBuffer("<test>", []byte("/* never closes"))
	s.Scan([]byte("/* never closes"), loc)
	require.True(t, rec.HasErrors())
	require.Equal(t, diag.UnterminatedComment, rec.Records()[0].Kind)
}

func TestScanRepeatedNumberLiteralCachesHandle(t *testing.T) {
	toks, b := scan(t, "42 + 42")
	require.Equal(t, toks[0].Index, toks[2].Index)
	require.Equal(t, int64(42), b.Integer(toks[0].Index))
}

func TestScanHexAndDoubleLiterals(t *testing.T) {
	toks, b := scan(t, "0x1F 3.5")
	require.Equal(t, []token.Token{token.INTEGER, token.DOUBLE, token.EOF}, kinds(toks))
	require.Equal(t, int64(31), b.Integer(toks[0].Index))
	require.Equal(t, 3.5, b.Double(toks[1].Index))
}

func TestTokenStreamAdvanceAndRewind(t *testing.T) {
	toks, _ := scan(t, "a b c")
	ts := NewTokenStream(toks)
	require.Equal(t, token.IDENTIFIER, ts.Current().Token)
	mark := ts.Position()
	ts.Advance()
	ts.Advance()
	ts.Advance()
	require.Equal(t, token.EOF, ts.Current().Token)
	ts.RewindTo(mark)
	require.Equal(t, token.IDENTIFIER, ts.Current().Token)
}

func TestTokenStreamSkipByReconciledDistance(t *testing.T) {
	toks, _ := scan(t, "a<b>c")
	ltInfo := toks[1]
	require.Equal(t, token.LT, ltInfo.Token)

	ts := NewTokenStream(toks)
	ts.RewindTo(1)
	ts.Skip(ltInfo.Index)
	require.Equal(t, token.GT, ts.Current().Token)
}
