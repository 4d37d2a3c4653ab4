package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsKeyword(t *testing.T) {
	require.True(t, VAR.IsKeyword())
	require.True(t, NULL.IsKeyword())
	require.False(t, IDENTIFIER.IsKeyword())
	require.False(t, LBRACE.IsKeyword())
}

func TestStringPrefersFixedSyntax(t *testing.T) {
	require.Equal(t, "if", IF.String())
	require.Equal(t, "<", LT.String())
	require.Equal(t, "IDENTIFIER", IDENTIFIER.String())
	require.Equal(t, ">>", SHR.String())
}

func TestBracketDeclarationOrder(t *testing.T) {
	require.Less(t, int(LT), int(LPAREN))
	require.Less(t, int(LPAREN), int(RPAREN))
	require.Less(t, int(RPAREN), int(LBRACE))
	require.Less(t, int(LBRACE), int(RBRACE))
}

func TestSpecOfAndPunctuationList(t *testing.T) {
	require.Equal(t, "(", SpecOf(LPAREN).Syntax)
	require.NotEmpty(t, PunctuationList)

	var sawSHR bool
	for _, p := range PunctuationList {
		if p.Token == SHR {
			sawSHR = true
			require.Equal(t, ">>", p.Syntax)
		}
	}
	require.True(t, sawSHR)
}
