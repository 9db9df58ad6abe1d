// Package parse implements the ordered-choice backtracking recursive-descent
// matcher described in spec §4.3, the parse-tree construction and semantic
// reduction of §4.4, and the Parser surface of §6. It is grounded on
// xparse/parser/recursive_descent.py: match/match_production/match_terminal
// translate directly, with the lookahead sentinel folded into an ordinary
// bounds comparison (lookahead == len(tokens) means past-end, instead of a
// separate None value).
package parse

import (
	"fmt"
	"io"

	"github.com/dekarrin/parsekit/internal/core/grammar"
	"github.com/dekarrin/parsekit/lex"
)

// Parser drives a single parse. Per spec §5, it owns mutable scan state and
// is therefore single-use from one caller at a time; concurrent callers
// should use separate Parser instances over the same (immutable) Grammar
// and Tokenizer.
type Parser struct {
	Grammar   *grammar.Grammar
	Tokenizer lex.Tokenizer

	// Echo, when true, writes a human-readable trace of tried productions
	// and success/failure to Trace (spec §6). It is irrelevant to
	// correctness.
	Echo  bool
	Trace io.Writer

	// ParseTree and ReturnValue hold the results of the last successful
	// parse; both are nil after a failed parse.
	ParseTree   *Tree
	ReturnValue any

	tokens    []lex.Token
	lookahead int
	stack     []*grammar.Production
}

// New constructs a Parser over the given grammar and tokenizer.
func New(g *grammar.Grammar, tok lex.Tokenizer) *Parser {
	return &Parser{Grammar: g, Tokenizer: tok}
}

func (p *Parser) echo(indent, msg string) {
	if !p.Echo {
		return
	}
	w := p.Trace
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintln(w, indent+msg)
}

func (p *Parser) reset(tokens []lex.Token) {
	p.tokens = tokens
	p.lookahead = 0
	p.stack = nil
	p.ParseTree = nil
	p.ReturnValue = nil
}

// Parse tokenizes string, resets the parser's scan state, and attempts to
// match the grammar's start symbol against the whole token sequence. It
// returns true iff the match succeeds and every token is consumed. On
// success, ParseTree and ReturnValue are populated; on failure they are
// nil.
func (p *Parser) Parse(input string) (bool, error) {
	tokens, err := p.Tokenizer.Tokenize(input)
	if err != nil {
		return false, err
	}
	p.reset(tokens)

	ok := p.match(p.Grammar.Start(), 0)
	if !ok || p.lookahead < len(p.tokens) {
		return false, nil
	}

	root := &Tree{}
	cursor := 0
	build(root, p.stack, &cursor)

	leaves := root.leaves()
	if len(leaves) != len(p.tokens) {
		// Guaranteed not to happen per spec §4.4's invariant; surfaced as a
		// ReductionError rather than silently mis-attaching tokens.
		return false, &ReductionError{Msg: fmt.Sprintf(
			"internal error: %d leaves but %d tokens", len(leaves), len(p.tokens))}
	}
	attachTokens(leaves, p.tokens)

	value, err := Reduce(root)
	if err != nil {
		return false, err
	}

	p.ParseTree = root
	p.ReturnValue = value
	return true, nil
}

// match dispatches on the symbol's concrete type, mirroring
// match_production_element in the source.
func (p *Parser) match(sym grammar.Symbol, level int) bool {
	switch s := sym.(type) {
	case grammar.Terminal:
		return p.matchTerminal(s)
	case *grammar.NonTerminal:
		return p.matchNonTerminal(s, level)
	default:
		if grammar.IsEpsilon(sym) {
			return true
		}
		return false
	}
}

func (p *Parser) matchTerminal(t grammar.Terminal) bool {
	if p.lookahead >= len(p.tokens) {
		return false
	}
	if p.tokens[p.lookahead].Category == t.Name {
		p.lookahead++
		return true
	}
	return false
}

func (p *Parser) matchNonTerminal(nt *grammar.NonTerminal, level int) bool {
	save := len(p.stack)
	for _, prod := range nt.Alternatives {
		p.stack = append(p.stack, prod)
		if p.matchProduction(prod, level) {
			return true
		}
		p.stack = p.stack[:save]
	}
	return false
}

func (p *Parser) matchProduction(prod *grammar.Production, level int) bool {
	indent := ""
	for i := 0; i < level; i++ {
		indent += "  "
	}
	p.echo(indent, "Trying: "+prod.String())

	save := p.lookahead
	for _, el := range prod.Elements {
		if !p.match(el, level+1) {
			p.lookahead = save
			p.echo(indent, "Failed!")
			return false
		}
	}
	p.echo(indent, "Succeeded!")
	return true
}
