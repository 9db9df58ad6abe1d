// Package lex is the external collaborator described in the toolkit's core
// specification §4.2: a character-level tokenizer that the parser consumes
// but does not own. It is grounded on xparse/lexer/char_stream.py: four
// configuration options (AdmissibleCharacters, SpecialCharacters,
// GeneralClass, EscapeCharacter), a single general-purpose token class for
// ordinary characters, and one-character-class-per-special-character
// tokens.
package lex

import "fmt"

// Token is the unit the parser consumes positionally. Category is matched
// against a grammar.Terminal's Name; Lexeme is the literal source text.
type Token struct {
	Category string
	Lexeme   string
}

func (t Token) String() string {
	return fmt.Sprintf("<%s:%q>", t.Category, t.Lexeme)
}

// Tokenizer produces a token sequence from an input string. The parser
// treats token categories opaquely.
type Tokenizer interface {
	Tokenize(s string) ([]Token, error)
}

// Options configures a CharacterLexer, plus one extra option (FoldCase) for
// case-insensitive matching.
type Options struct {
	// AdmissibleCharacters, if non-empty, restricts tokenizable input to
	// this set; any other character is a LexError. An empty/unset value
	// means "unrestricted" (spec §8 boundary behavior).
	AdmissibleCharacters string

	// SpecialCharacters are emitted as a Token whose Category equals the
	// character itself.
	SpecialCharacters string

	// GeneralClass is the Category assigned to any non-special, admissible
	// character.
	GeneralClass string

	// EscapeCharacter, if non-zero, is dropped when encountered; the rune
	// immediately following it is then emitted as a GeneralClass token
	// regardless of whether it is itself a special or inadmissible
	// character. This pins the "escape, then pass the next character
	// through as a literal" reading of spec §9's Open Question, rather
	// than the source's drop-both-characters behavior.
	EscapeCharacter rune

	// FoldCase case-folds every rune (via golang.org/x/text/cases) before
	// it is classified against AdmissibleCharacters/SpecialCharacters, so
	// that e.g. configuring SpecialCharacters "ABC" also matches "abc".
	// The folded rune is used only for that admissibility/classification
	// comparison; the emitted Token's Lexeme is always the original,
	// un-folded rune from the input.
	FoldCase bool
}

// LexError reports a character rejected by AdmissibleCharacters, or an
// escape character with nothing following it.
type LexError struct {
	Msg string
}

func (e *LexError) Error() string {
	return "lexer error: " + e.Msg
}
