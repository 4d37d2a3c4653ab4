// Package token defines the closed token-kind enumeration, its external
// syntax/precedence table, and the packed per-token record the scanner
// writes into its output buffer — the same combination of "kind" and
// "position/extra metadata" the Go standard library's own go/token package
// makes, just flattened into one fixed-width struct instead of two types.
package token

import "github.com/nomi-lang/nomic/internal/source"

// Token is a single token kind. Values fit in a byte, matching the packed
// on-disk TokenInfo layout's low 8 bits.
type Token uint8

// NoIndex is the sentinel auxiliary index for tokens that carry none.
const NoIndex int32 = -1

const (
	EOF Token = iota
	ILLEGAL

	INTEGER
	DOUBLE
	IDENTIFIER
	STRING
	STRING_INTERPOLATION
	STRING_INTERPOLATION_END

	keywordBegin
	VAR
	FUNC
	CLASS
	IF
	ELSE
	WHILE
	FOR
	RETURN
	TRUE
	FALSE
	NULL
	keywordEnd

	// Bracket-like tokens. Their declaration order is load-bearing: §4.8's
	// reconciliation loop compares bracket tokens by plain ordinal, so the
	// relative order LT < LPAREN < RPAREN < LBRACE < RBRACE must be
	// preserved even if tokens are inserted elsewhere in this list.
	LT
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	GT
	GT_START
	SHR // ">>"; never emitted — Scanner.scanPunctuation decomposes it into GT_START, GT

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQ
	NOTEQ
	LE
	GE
	AND
	OR
	NOT
	DOT
	COMMA
	SEMICOLON
	COLON
	ARROW

	numTokens
)

// IsKeyword reports whether t is one of the reserved keyword tokens.
func (t Token) IsKeyword() bool {
	return t > keywordBegin && t < keywordEnd
}

// Spec is the external, fixed metadata for one token kind: its literal
// syntax (for punctuation and keywords; empty for literal-carrying kinds)
// and its parser-facing precedence. The scanner itself never consults
// Precedence — only the bracket tokens' declaration order matters to it.
type Spec struct {
	Syntax     string
	Precedence int
}

var specs = [numTokens]Spec{
	EOF:                      {"", 0},
	ILLEGAL:                  {"", 0},
	INTEGER:                  {"", 0},
	DOUBLE:                   {"", 0},
	IDENTIFIER:               {"", 0},
	STRING:                   {"", 0},
	STRING_INTERPOLATION:     {"", 0},
	STRING_INTERPOLATION_END: {"", 0},

	VAR:    {"var", 0},
	FUNC:   {"func", 0},
	CLASS:  {"class", 0},
	IF:     {"if", 0},
	ELSE:   {"else", 0},
	WHILE:  {"while", 0},
	FOR:    {"for", 0},
	RETURN: {"return", 0},
	TRUE:   {"true", 0},
	FALSE:  {"false", 0},
	NULL:   {"null", 0},

	LT:       {"<", 9},
	LPAREN:   {"(", 0},
	RPAREN:   {")", 0},
	LBRACE:   {"{", 0},
	RBRACE:   {"}", 0},
	LBRACKET: {"[", 0},
	RBRACKET: {"]", 0},

	GT:       {">", 9},
	GT_START: {">", 9},
	SHR:      {">>", 12},

	PLUS:      {"+", 11},
	MINUS:     {"-", 11},
	STAR:      {"*", 12},
	SLASH:     {"/", 12},
	PERCENT:   {"%", 12},
	ASSIGN:    {"=", 1},
	EQ:        {"==", 8},
	NOTEQ:     {"!=", 8},
	LE:        {"<=", 9},
	GE:        {">=", 9},
	AND:       {"&&", 4},
	OR:        {"||", 3},
	NOT:       {"!", 13},
	DOT:       {".", 15},
	COMMA:     {",", 0},
	SEMICOLON: {";", 0},
	COLON:     {":", 0},
	ARROW:     {"->", 0},
}

// SpecOf returns the fixed metadata for t.
func SpecOf(t Token) Spec { return specs[t] }

// String returns the token's literal syntax where it has one fixed syntax,
// or its symbolic name otherwise; it exists mainly for diagnostics.
func (t Token) String() string {
	if int(t) < len(specs) && specs[t].Syntax != "" {
		return specs[t].Syntax
	}
	if name, ok := names[t]; ok {
		return name
	}
	return "UNKNOWN"
}

var names = map[Token]string{
	EOF:                      "EOF",
	ILLEGAL:                  "ILLEGAL",
	INTEGER:                  "INTEGER",
	DOUBLE:                   "DOUBLE",
	IDENTIFIER:               "IDENTIFIER",
	STRING:                   "STRING",
	STRING_INTERPOLATION:     "STRING_INTERPOLATION",
	STRING_INTERPOLATION_END: "STRING_INTERPOLATION_END",
	GT_START:                 "GT_START",
	SHR:                      "SHR",
}

// PunctuationList enumerates every non-keyword lexeme the punctuation trie
// should recognize, longest-match ties broken by trie structure rather than
// list order. SHR ("<<"'s mirror, ">>") is listed purely so the trie can
// recognize it for Scanner.scanPunctuation's shift-right decomposition; it is never
// itself written to the token stream.
var PunctuationList = []struct {
	Token  Token
	Syntax string
}{
	{LPAREN, "("},
	{RPAREN, ")"},
	{LBRACE, "{"},
	{RBRACE, "}"},
	{LBRACKET, "["},
	{RBRACKET, "]"},
	{LT, "<"},
	{GT, ">"},
	{SHR, ">>"},
	{PLUS, "+"},
	{MINUS, "-"},
	{STAR, "*"},
	{SLASH, "/"},
	{PERCENT, "%"},
	{ASSIGN, "="},
	{EQ, "=="},
	{NOTEQ, "!="},
	{LE, "<="},
	{GE, ">="},
	{AND, "&&"},
	{OR, "||"},
	{NOT, "!"},
	{DOT, "."},
	{COMMA, ","},
	{SEMICOLON, ";"},
	{COLON, ":"},
	{ARROW, "->"},
}

// Brackets lists the (opener, closer) pairs the punctuation trie tags, in
// the order they are installed.
var Brackets = [...][2]Token{
	{LPAREN, RPAREN},
	{LT, GT},
	{LBRACE, RBRACE},
}

// Info is one packed token record: the kind, a signed auxiliary index, and
// the source location it was scanned at. For identifier/number/string
// tokens Index is an interner handle; for bracket openers, after bracket
// reconciliation patches it, Index is the distance in tokens to the
// matching closer.
type Info struct {
	Token Token
	Index int32
	Loc   source.Location
}
