package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineSetsHeadOnEveryAlternative(t *testing.T) {
	stmt := New("stmt")
	p1 := Seq(Terminal{Name: "a"})
	p2 := Seq(Terminal{Name: "b"})
	require.NoError(t, stmt.Define(p1, p2))

	assert.Same(t, stmt, p1.Head)
	assert.Same(t, stmt, p2.Head)
	assert.True(t, stmt.Bound())
}

func TestDefineTwiceIsConstructionError(t *testing.T) {
	nt := New("x")
	require.NoError(t, nt.Define(Seq(Terminal{Name: "a"})))
	err := nt.Define(Seq(Terminal{Name: "b"}))
	require.Error(t, err)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}

func TestGrammarDuplicateNameIsConstructionError(t *testing.T) {
	a := New("DUP")
	b := New("DUP")
	require.NoError(t, a.Define(Seq(Terminal{Name: "x"})))
	require.NoError(t, b.Define(Seq(Terminal{Name: "y"})))

	_, err := NewGrammar(a, b)
	require.Error(t, err)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}

func TestValidateCatchesDanglingReference(t *testing.T) {
	missing := New("MISSING")
	head := New("HEAD")
	require.NoError(t, head.Define(Seq(missing)))

	g, err := NewGrammar(head)
	require.NoError(t, err)

	err = g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")
}

func TestValidatePassesForWellFormedGrammar(t *testing.T) {
	digit := New("digit")
	require.NoError(t, digit.Define(
		Seq(Terminal{Name: "0"}),
		Seq(Terminal{Name: "1"}),
	))
	g, err := NewGrammar(digit)
	require.NoError(t, err)
	assert.NoError(t, g.Validate())
}

func TestAlternativeOrderIsPreserved(t *testing.T) {
	nt := New("N")
	first := Seq(Terminal{Name: "a"})
	second := Seq(Terminal{Name: "b"})
	require.NoError(t, nt.Define(first, second))
	assert.Same(t, first, nt.Alternatives[0])
	assert.Same(t, second, nt.Alternatives[1])
}

func TestWithReduceArgIndices(t *testing.T) {
	p := WithReduce(Seq(Terminal{Name: "a"}, Terminal{Name: "b"}), func(args []any) (any, error) {
		return args, nil
	}, 1)
	require.NotNil(t, p.Reduce)
	assert.Equal(t, []int{1}, p.Reduce.ArgIndices)
}

func TestIsEpsilon(t *testing.T) {
	assert.True(t, IsEpsilon(Epsilon))
	assert.False(t, IsEpsilon(Terminal{Name: "a"}))
}
