package parse

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dekarrin/parsekit/internal/core/grammar"
	"github.com/dekarrin/parsekit/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrefixArithmetic grounds spec §4.3's concrete end-to-end scenario 1:
// stmt -> '+' stmt stmt | '-' stmt stmt | digit, input "-+12+34" reduces to
// (1+2) - (3+4) = -4, with leaves in token order.
func TestPrefixArithmetic(t *testing.T) {
	stmt := grammar.New("stmt")
	require.NoError(t, stmt.Define(
		grammar.WithReduce(
			grammar.Seq(grammar.Terminal{Name: "+"}, stmt, stmt),
			func(args []any) (any, error) {
				return args[0].(int) + args[1].(int), nil
			},
			1, 2,
		),
		grammar.WithReduce(
			grammar.Seq(grammar.Terminal{Name: "-"}, stmt, stmt),
			func(args []any) (any, error) {
				return args[0].(int) - args[1].(int), nil
			},
			1, 2,
		),
		grammar.WithReduce(
			grammar.Seq(grammar.Terminal{Name: "digit"}),
			func(args []any) (any, error) {
				return strconv.Atoi(args[0].(string))
			},
		),
	))

	g, err := grammar.NewGrammar(stmt)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	lexer := lex.New(lex.Options{
		AdmissibleCharacters: "+-0123456789",
		SpecialCharacters:    "+-",
		GeneralClass:         "digit",
	})

	p := New(g, lexer)
	ok, err := p.Parse("-+12+34")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, -4, p.ReturnValue)

	var lexemes []string
	for _, l := range p.ParseTree.leaves() {
		lexemes = append(lexemes, l.Token.Lexeme)
	}
	assert.Equal(t, []string{"-", "+", "1", "2", "+", "3", "4"}, lexemes)
}

func TestParseRejectsUnconsumedTrailingInput(t *testing.T) {
	nt := grammar.New("N")
	require.NoError(t, nt.Define(grammar.Seq(grammar.Terminal{Name: "a"})))
	g, err := grammar.NewGrammar(nt)
	require.NoError(t, err)

	lexer := lex.New(lex.Options{GeneralClass: "a", SpecialCharacters: "a"})
	p := New(g, lexer)

	ok, err := p.Parse("aa")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, p.ParseTree)
}

func TestParseRejectsEmptyInputUnlessStartDerivesEpsilon(t *testing.T) {
	nt := grammar.New("N")
	require.NoError(t, nt.Define(grammar.Seq(grammar.Terminal{Name: "a"})))
	g, err := grammar.NewGrammar(nt)
	require.NoError(t, err)

	lexer := lex.New(lex.Options{GeneralClass: "a", SpecialCharacters: "a"})
	p := New(g, lexer)

	ok, _ := p.Parse("")
	assert.False(t, ok)

	epsNt := grammar.New("E")
	require.NoError(t, epsNt.Define(grammar.WithReduce(
		grammar.Seq(grammar.Epsilon),
		func(args []any) (any, error) { return nil, nil },
	)))
	epsG, err := grammar.NewGrammar(epsNt)
	require.NoError(t, err)
	p2 := New(epsG, lexer)
	ok2, err := p2.Parse("")
	require.NoError(t, err)
	assert.True(t, ok2, "an epsilon-only production with an explicit reducer must accept empty input")
}

func TestAlternativePriorityCommitsToFirstMatch(t *testing.T) {
	// N -> 'a' | 'a' 'b'   -- first alternative always wins for input "a",
	// even though both could theoretically apply if order were reversed.
	a := grammar.Terminal{Name: "a"}
	b := grammar.Terminal{Name: "b"}
	nt := grammar.New("N")
	require.NoError(t, nt.Define(
		grammar.Seq(a),
		grammar.Seq(a, b),
	))
	g, err := grammar.NewGrammar(nt)
	require.NoError(t, err)

	lexer := lex.New(lex.Options{GeneralClass: "x", SpecialCharacters: "ab"})
	p := New(g, lexer)

	ok, err := p.Parse("a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Parse("ab")
	require.NoError(t, err)
	assert.False(t, ok, "first alternative 'a' commits and leaves 'b' unconsumed")
}

func TestDefaultReducerErrorsOnWrongArity(t *testing.T) {
	nt := grammar.New("N")
	require.NoError(t, nt.Define(
		grammar.Seq(grammar.Terminal{Name: "a"}, grammar.Terminal{Name: "b"}),
	))
	g, err := grammar.NewGrammar(nt)
	require.NoError(t, err)

	lexer := lex.New(lex.Options{GeneralClass: "x", SpecialCharacters: "ab"})
	p := New(g, lexer)

	_, err = p.Parse("ab")
	require.Error(t, err)
	var re *ReductionError
	assert.ErrorAs(t, err, &re)
}

// TestNestedOperations grounds spec §4.3's concrete end-to-end scenario 2.
func TestNestedOperations(t *testing.T) {
	type opNode struct {
		name string
		args []any
	}

	stmt := grammar.New("stmt")
	args := grammar.New("args")
	item := grammar.New("item")
	digit := grammar.New("digit")
	vr := grammar.New("var")

	buildOp := func(a []any) (any, error) {
		return opNode{name: a[0].(string), args: a[1].([]any)}, nil
	}
	buildArgs := func(a []any) (any, error) {
		return append([]any{a[0]}, a[1].([]any)...), nil
	}
	singleArg := func(a []any) (any, error) {
		return []any{a[0]}, nil
	}

	require.NoError(t, stmt.Define(
		grammar.WithReduce(grammar.Seq(grammar.Terminal{Name: "a"}, grammar.Terminal{Name: "("}, args, grammar.Terminal{Name: ")"}), buildOp, 0, 2),
		grammar.WithReduce(grammar.Seq(grammar.Terminal{Name: "o"}, grammar.Terminal{Name: "("}, args, grammar.Terminal{Name: ")"}), buildOp, 0, 2),
		grammar.WithReduce(grammar.Seq(grammar.Terminal{Name: "e"}, grammar.Terminal{Name: "("}, args, grammar.Terminal{Name: ")"}), buildOp, 0, 2),
	))
	require.NoError(t, args.Define(
		grammar.WithReduce(grammar.Seq(stmt, grammar.Terminal{Name: ","}, args), buildArgs, 0, 2),
		grammar.WithReduce(grammar.Seq(stmt), singleArg),
		grammar.WithReduce(grammar.Seq(item, grammar.Terminal{Name: ","}, args), buildArgs, 0, 2),
		grammar.WithReduce(grammar.Seq(item), singleArg),
	))
	require.NoError(t, item.Define(
		grammar.Seq(vr),
		grammar.Seq(digit),
	))
	require.NoError(t, digit.Define(
		grammar.Seq(grammar.Terminal{Name: "0"}),
		grammar.Seq(grammar.Terminal{Name: "1"}),
	))
	require.NoError(t, vr.Define(
		grammar.Seq(grammar.Terminal{Name: "x"}),
		grammar.Seq(grammar.Terminal{Name: "y"}),
		grammar.Seq(grammar.Terminal{Name: "z"}),
	))

	g, err := grammar.NewGrammar(stmt, args, item, digit, vr)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	lexer := lex.New(lex.Options{
		SpecialCharacters: "aoe(),01xyz",
		GeneralClass:      "char",
	})

	p := New(g, lexer)
	ok, err := p.Parse("a(e(0,1),e(x,y),e(0,0))")
	require.NoError(t, err)
	require.True(t, ok)

	root, ok := p.ReturnValue.(opNode)
	require.True(t, ok)
	assert.Equal(t, "a", root.name)
	require.Len(t, root.args, 3)

	first := root.args[0].(opNode)
	assert.Equal(t, "e", first.name)
	assert.Equal(t, []any{"0", "1"}, first.args)
}

func TestEchoWritesTrace(t *testing.T) {
	nt := grammar.New("N")
	require.NoError(t, nt.Define(grammar.Seq(grammar.Terminal{Name: "a"})))
	g, err := grammar.NewGrammar(nt)
	require.NoError(t, err)
	lexer := lex.New(lex.Options{GeneralClass: "x", SpecialCharacters: "a"})

	var buf strings.Builder
	p := New(g, lexer)
	p.Echo = true
	p.Trace = &buf

	ok, err := p.Parse("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "Succeeded!")
}
