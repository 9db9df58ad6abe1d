package lex

import (
	"strings"

	"golang.org/x/text/cases"
)

// CharacterLexer is the reference implementation of the lexer contract: it
// consumes the input string rune by rune, classifying each rune according
// to Options.
type CharacterLexer struct {
	opts    Options
	folder  cases.Caser
	special map[rune]struct{}
	allowed map[rune]struct{}
}

// New builds a CharacterLexer from opts.
func New(opts Options) *CharacterLexer {
	l := &CharacterLexer{opts: opts}
	if opts.FoldCase {
		l.folder = cases.Fold()
	}
	l.special = runeSet(opts.SpecialCharacters)
	l.allowed = runeSet(opts.AdmissibleCharacters)
	if opts.FoldCase {
		l.special = foldRuneSet(l.special, l.folder)
		l.allowed = foldRuneSet(l.allowed, l.folder)
	}
	return l
}

func foldRuneSet(set map[rune]struct{}, folder cases.Caser) map[rune]struct{} {
	out := make(map[rune]struct{}, len(set))
	for r := range set {
		folded := folder.String(string(r))
		for _, fr := range folded {
			out[fr] = struct{}{}
			break
		}
	}
	return out
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func (l *CharacterLexer) fold(r rune) rune {
	if !l.opts.FoldCase {
		return r
	}
	folded := l.folder.String(string(r))
	for _, fr := range folded {
		return fr
	}
	return r
}

// Tokenize implements Tokenizer per spec §4.2. Each admissible character
// becomes exactly one Token: a special character produces a Token whose
// Category is the character itself; every other admissible character
// produces a Token in GeneralClass. An escape character is dropped and the
// rune following it is unconditionally emitted as a GeneralClass token.
func (l *CharacterLexer) Tokenize(s string) ([]Token, error) {
	runes := []rune(s)
	tokens := make([]Token, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if l.opts.EscapeCharacter != 0 && r == l.opts.EscapeCharacter {
			i++
			if i >= len(runes) {
				return nil, &LexError{Msg: "escape character at end of input with nothing to escape"}
			}
			tokens = append(tokens, Token{Category: l.opts.GeneralClass, Lexeme: string(runes[i])})
			continue
		}

		folded := l.fold(r)

		if len(l.allowed) > 0 {
			if _, ok := l.allowed[folded]; !ok {
				return nil, &LexError{Msg: "unexpected character: " + string(r)}
			}
		}

		if _, ok := l.special[folded]; ok {
			tokens = append(tokens, Token{Category: string(folded), Lexeme: string(r)})
			continue
		}

		tokens = append(tokens, Token{Category: l.opts.GeneralClass, Lexeme: string(r)})
	}

	return tokens, nil
}

// String renders the lexer's configuration for debugging.
func (l *CharacterLexer) String() string {
	var sb strings.Builder
	sb.WriteString("CharacterLexer{")
	sb.WriteString("general=" + l.opts.GeneralClass)
	if l.opts.SpecialCharacters != "" {
		sb.WriteString(" special=" + l.opts.SpecialCharacters)
	}
	if l.opts.AdmissibleCharacters != "" {
		sb.WriteString(" admissible=" + l.opts.AdmissibleCharacters)
	}
	sb.WriteRune('}')
	return sb.String()
}
