// Package regex implements the regex surface of spec §6: a pattern string
// compiles to a DFA via the grammar/parse/automaton packages, through the
// ordered-alternative regex grammar UNION/CONCAT/STAR/ITEM. It is grounded
// directly on xparse/regular/regex.py, which wires the very same
// recursive-descent parser at the NFA combinators via Reduction
// descriptors.
package regex

import (
	"fmt"
	"io"

	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/parsekit/internal/core/grammar"
	"github.com/dekarrin/parsekit/internal/core/parse"
	"github.com/dekarrin/parsekit/lex"
)

// AutomatonError reports an unsupported argument to Match, or a pattern
// that fails to parse.
type AutomatonError struct {
	Msg string
}

func (e *AutomatonError) Error() string {
	return "automaton error: " + e.Msg
}

// specialChars is the regex surface's full operator alphabet (spec §6):
// grouping, alternation, and the three postfix repetition operators.
const specialChars = "()|*+?"

var regexGrammar *grammar.Grammar

func init() {
	union := grammar.New("UNION")
	concat := grammar.New("CONCAT")
	star := grammar.New("STAR")
	item := grammar.New("ITEM")

	// UNION -> CONCAT '|' UNION | CONCAT
	err := union.Define(
		grammar.WithReduce(
			grammar.Seq(concat, grammar.Terminal{Name: "|"}, union),
			func(args []any) (any, error) {
				return automaton.Union(args[0].(*automaton.NFA), args[1].(*automaton.NFA)), nil
			},
			0, 2, // skip the '|' terminal's lexeme
		),
		grammar.Seq(concat),
	)
	must(err)

	// CONCAT -> STAR CONCAT | STAR
	err = concat.Define(
		grammar.WithReduce(
			grammar.Seq(star, concat),
			func(args []any) (any, error) {
				return automaton.Concat(args[0].(*automaton.NFA), args[1].(*automaton.NFA)), nil
			},
		),
		grammar.Seq(star),
	)
	must(err)

	// STAR -> ITEM '*' | ITEM '?' | ITEM '+' | ITEM
	err = star.Define(
		withUnaryReduce(grammar.Seq(item, grammar.Terminal{Name: "*"}), func(n *automaton.NFA) *automaton.NFA {
			return automaton.Star(n)
		}),
		withUnaryReduce(grammar.Seq(item, grammar.Terminal{Name: "?"}), func(n *automaton.NFA) *automaton.NFA {
			return automaton.Optional(n)
		}),
		withUnaryReduce(grammar.Seq(item, grammar.Terminal{Name: "+"}), func(n *automaton.NFA) *automaton.NFA {
			return automaton.Plus(n)
		}),
		grammar.Seq(item),
	)
	must(err)

	// ITEM -> '(' UNION ')' | char
	err = item.Define(
		grammar.WithReduce(
			grammar.Seq(grammar.Terminal{Name: "("}, union, grammar.Terminal{Name: ")"}),
			func(args []any) (any, error) { return args[0], nil },
			1,
		),
		grammar.WithReduce(
			grammar.Seq(grammar.Terminal{Name: "char"}),
			func(args []any) (any, error) {
				return automaton.Char(args[0].(string)), nil
			},
		),
	)
	must(err)

	g, err := grammar.NewGrammar(union, concat, star, item)
	must(err)
	must(g.Validate())

	regexGrammar = g
}

func withUnaryReduce(p *grammar.Production, f func(*automaton.NFA) *automaton.NFA) *grammar.Production {
	return grammar.WithReduce(p, func(args []any) (any, error) {
		return f(args[0].(*automaton.NFA)), nil
	}, 0)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func newLexer() lex.Tokenizer {
	return lex.New(lex.Options{
		SpecialCharacters: specialChars,
		GeneralClass:      "char",
		EscapeCharacter:   '\\',
	})
}

// Compile parses pattern against the regex grammar, evaluating the NFA
// combinators through the grammar's Reduction descriptors, and determinizes
// the result into a DFA via subset construction.
func Compile(pattern string) (*automaton.DFA, error) {
	p := parse.New(regexGrammar, newLexer())
	ok, err := p.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	if !ok {
		return nil, &AutomatonError{Msg: fmt.Sprintf("invalid pattern: %q", pattern)}
	}
	nfa, ok := p.ReturnValue.(*automaton.NFA)
	if !ok {
		return nil, &AutomatonError{Msg: "compiled pattern did not produce an NFA"}
	}
	return nfa.ToDFA(), nil
}

// CompileTrace is like Compile but writes a human-readable trace of every
// production the backtracking parser tried (and whether it succeeded) to
// trace, per spec §6's Echo/Trace surface. It exists for tools like a REPL
// that want to show their work.
func CompileTrace(pattern string, trace io.Writer) (*automaton.DFA, error) {
	p := parse.New(regexGrammar, newLexer())
	p.Echo = true
	p.Trace = trace
	ok, err := p.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	if !ok {
		return nil, &AutomatonError{Msg: fmt.Sprintf("invalid pattern: %q", pattern)}
	}
	nfa, ok := p.ReturnValue.(*automaton.NFA)
	if !ok {
		return nil, &AutomatonError{Msg: "compiled pattern did not produce an NFA"}
	}
	return nfa.ToDFA(), nil
}

// ParseTree parses pattern against the regex grammar and returns the
// resulting parse tree without reducing it to an automaton. It exists for
// tools (such as the demo server's /parse endpoint) that want to show the
// grammar's derivation of a pattern rather than run it.
func ParseTree(pattern string) (*parse.Tree, error) {
	p := parse.New(regexGrammar, newLexer())
	ok, err := p.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", pattern, err)
	}
	if !ok {
		return nil, &AutomatonError{Msg: fmt.Sprintf("invalid pattern: %q", pattern)}
	}
	return p.ParseTree, nil
}

// CompileNFA is like Compile but stops at the NFA, without determinizing.
// It exists so callers (and tests) can check that a DFA and its source NFA
// accept exactly the same language.
func CompileNFA(pattern string) (*automaton.NFA, error) {
	p := parse.New(regexGrammar, newLexer())
	ok, err := p.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	if !ok {
		return nil, &AutomatonError{Msg: fmt.Sprintf("invalid pattern: %q", pattern)}
	}
	nfa, ok := p.ReturnValue.(*automaton.NFA)
	if !ok {
		return nil, &AutomatonError{Msg: "compiled pattern did not produce an NFA"}
	}
	return nfa, nil
}

// matcher is implemented by both *automaton.NFA and *automaton.DFA.
type matcher interface {
	Match(s string) bool
}

// Match accepts either a pattern string (compiled on the fly) or an
// already-compiled *automaton.DFA/*automaton.NFA, and reports whether
// string is accepted. Matching is whole-string acceptance, not search or
// prefix matching.
func Match(pattern any, s string) (bool, error) {
	switch v := pattern.(type) {
	case string:
		dfa, err := Compile(v)
		if err != nil {
			return false, err
		}
		return dfa.Match(s), nil
	case matcher:
		return v.Match(s), nil
	default:
		return false, &AutomatonError{Msg: "first argument should be a pattern string or a compiled automaton"}
	}
}
