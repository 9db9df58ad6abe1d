package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePrefixArithmetic(t *testing.T) {
	l := New(Options{
		AdmissibleCharacters: "+-0123456789",
		SpecialCharacters:    "+-",
		GeneralClass:         "digit",
	})

	tokens, err := l.Tokenize("-+12+34")
	require.NoError(t, err)

	want := []Token{
		{Category: "-", Lexeme: "-"},
		{Category: "+", Lexeme: "+"},
		{Category: "digit", Lexeme: "1"},
		{Category: "digit", Lexeme: "2"},
		{Category: "+", Lexeme: "+"},
		{Category: "digit", Lexeme: "3"},
		{Category: "digit", Lexeme: "4"},
	}
	assert.Equal(t, want, tokens)
}

func TestTokenizeRejectsInadmissibleCharacter(t *testing.T) {
	l := New(Options{AdmissibleCharacters: "ab", GeneralClass: "char"})
	_, err := l.Tokenize("abc")
	require.Error(t, err)
	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestTokenizeEmptyAdmissibleSetIsUnrestricted(t *testing.T) {
	l := New(Options{GeneralClass: "char"})
	tokens, err := l.Tokenize("anything!?")
	require.NoError(t, err)
	assert.Len(t, tokens, len("anything!?"))
}

func TestTokenizeEscapeCharacterPassesNextThrough(t *testing.T) {
	l := New(Options{
		SpecialCharacters: "()",
		GeneralClass:      "char",
		EscapeCharacter:   '\\',
	})
	tokens, err := l.Tokenize(`\(`)
	require.NoError(t, err)
	assert.Equal(t, []Token{{Category: "char", Lexeme: "("}}, tokens)
}

func TestTokenizeEscapeAtEndOfInputIsLexError(t *testing.T) {
	l := New(Options{GeneralClass: "char", EscapeCharacter: '\\'})
	_, err := l.Tokenize(`\`)
	require.Error(t, err)
	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestTokenizeFoldCase(t *testing.T) {
	l := New(Options{
		SpecialCharacters: "X",
		GeneralClass:      "char",
		FoldCase:          true,
	})
	tokens, err := l.Tokenize("x")
	require.NoError(t, err)
	assert.Equal(t, []Token{{Category: "x", Lexeme: "x"}}, tokens)
}
