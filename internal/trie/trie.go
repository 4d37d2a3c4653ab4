// Package trie implements the generic trie node keyed by single codepoints,
// and its two specializations: a punctuation trie (terminal = token kind,
// with optional bracket push/pop tags) and a terminal trie (terminal =
// small-integer interner handle, used for numbers and identifiers).
package trie

import (
	"github.com/nomi-lang/nomic/internal/container"
	"github.com/nomi-lang/nomic/internal/token"
)

// Node is a generic trie node: a map from a single codepoint to a child
// node, plus subtype-specific terminal metadata carried in T.
type Node[T any] struct {
	children *container.HashMap[int64, *Node[T]]
	Data     T
}

// NewNode constructs an empty Node.
func NewNode[T any]() *Node[T] {
	return &Node[T]{children: container.NewHashMap[int64, *Node[T]]()}
}

// LookupChild returns the child reached by code, or nil if none exists.
func (n *Node[T]) LookupChild(code int64) *Node[T] {
	child, ok := n.children.Find(code)
	if !ok {
		return nil
	}
	return child
}

// Child returns the child reached by code, creating it (with a zero-valued
// Data) if it does not yet exist.
func (n *Node[T]) Child(code int64) *Node[T] {
	if child := n.LookupChild(code); child != nil {
		return child
	}
	child := NewNode[T]()
	*n.children.AtPut(code) = child
	return child
}

// Walk descends one child per byte of s, creating nodes as needed, and
// returns the final node.
func (n *Node[T]) Walk(s []byte) *Node[T] {
	cur := n
	for _, b := range s {
		cur = cur.Child(int64(b))
	}
	return cur
}

// PunctuationData is the terminal metadata for a punctuation trie leaf.
type PunctuationData struct {
	Terminal token.Token // token.EOF means "not a terminal"
	Push     token.Token // token.EOF means "does not open a bracket"
	Pop      token.Token // token.EOF means "does not close a bracket"
}

// HasTerminal reports whether this leaf terminates a punctuation lexeme.
func (d PunctuationData) HasTerminal() bool { return d.Terminal != token.EOF }

// Punctuation is the root of the punctuation trie.
type Punctuation = Node[PunctuationData]

// NewPunctuation constructs an empty punctuation trie root.
func NewPunctuation() *Punctuation {
	root := NewNode[PunctuationData]()
	root.Data = PunctuationData{Terminal: token.EOF, Push: token.EOF, Pop: token.EOF}
	return root
}

// Populate walks/creates children for each byte of syntax and marks the
// leaf as terminating tok.
func (n *Punctuation) Populate(tok token.Token, syntax string) {
	leaf := n.Walk([]byte(syntax))
	leaf.Data.Terminal = tok
}

// lookupLeaf walks an existing path without creating nodes; it panics if
// the path does not exist, since AddPair is only ever called for syntax
// already installed via Populate.
func (n *Punctuation) lookupLeaf(syntax string) *Punctuation {
	cur := n
	for _, b := range []byte(syntax) {
		cur = cur.LookupChild(int64(b))
		if cur == nil {
			panic("trie: AddPair on unpopulated syntax " + syntax)
		}
	}
	return cur
}

// AddPair tags the leaves reached by open and close syntax as a matched
// bracket pair: the opener's leaf gets Push set to its own terminal, and
// the closer's leaf gets Pop set to the opener's terminal.
func (n *Punctuation) AddPair(openSyntax, closeSyntax string) {
	openLeaf := n.lookupLeaf(openSyntax)
	closeLeaf := n.lookupLeaf(closeSyntax)
	openLeaf.Data.Push = openLeaf.Data.Terminal
	closeLeaf.Data.Pop = openLeaf.Data.Terminal
}

// TerminalData is the metadata for a terminal-trie (number/identifier)
// leaf: a cached interner handle, and whether this leaf is a keyword.
type TerminalData struct {
	Handle    int32 // -1 means "not yet registered"
	IsKeyword bool
	Keyword   token.Token
}

// NoHandle is the sentinel "not yet registered" handle value.
const NoHandle int32 = -1

// Terminal is the root of a number or identifier trie.
type Terminal = Node[TerminalData]

// NewTerminal constructs an empty terminal trie root.
func NewTerminal() *Terminal {
	root := NewNode[TerminalData]()
	root.Data = TerminalData{Handle: NoHandle}
	return root
}

// Descend walks a single codepoint, creating the child if needed and
// initializing new leaves' Handle to NoHandle.
func (n *Terminal) Descend(code int64) *Terminal {
	existing := n.LookupChild(code)
	if existing != nil {
		return existing
	}
	child := n.Child(code)
	child.Data.Handle = NoHandle
	return child
}

// WalkLexeme descends one byte at a time via Descend, so every newly
// created leaf starts with Handle == NoHandle rather than a zero handle.
func (n *Terminal) WalkLexeme(s []byte) *Terminal {
	cur := n
	for _, b := range s {
		cur = cur.Descend(int64(b))
	}
	return cur
}

// MarkKeyword walks syntax and marks the final node as a keyword resolving
// to tok, the way the builder pre-seeds reserved words into the identifier
// trie.
func (n *Terminal) MarkKeyword(syntax string, tok token.Token) {
	leaf := n.WalkLexeme([]byte(syntax))
	leaf.Data.IsKeyword = true
	leaf.Data.Keyword = tok
}
