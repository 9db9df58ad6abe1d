package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpsilonClosureContainsSelfAndIsIdempotent(t *testing.T) {
	n := Star(Char("a"))
	for s := 0; s < n.Table.Len(); s++ {
		closure := n.EpsilonClosure(s)
		assert.True(t, closure.Has(s), "closure of %d must contain itself", s)

		again := n.EpsilonClosureOfSet(closure)
		assert.Equal(t, closure, again, "closure must be idempotent")
	}
}

func TestCharMatch(t *testing.T) {
	n := Char("a")
	assert.True(t, n.Match("a"))
	assert.False(t, n.Match("b"))
	assert.False(t, n.Match("aa"))
	assert.False(t, n.Match(""))
}

func TestConcatMatch(t *testing.T) {
	n := Concat(Char("a"), Char("b"))
	assert.True(t, n.Match("ab"))
	assert.False(t, n.Match("a"))
	assert.False(t, n.Match("ba"))
}

func TestUnionMatch(t *testing.T) {
	n := Union(Char("a"), Char("b"))
	assert.True(t, n.Match("a"))
	assert.True(t, n.Match("b"))
	assert.False(t, n.Match("c"))
	assert.False(t, n.Match("ab"))
}

func TestStarMatchAcceptsEmpty(t *testing.T) {
	n := Star(Char("a"))
	assert.True(t, n.Match(""))
	assert.True(t, n.Match("a"))
	assert.True(t, n.Match("aaaa"))
	assert.False(t, n.Match("b"))
}

func TestOptionalMatch(t *testing.T) {
	n := Concat(Optional(Char("a")), Char("b"))
	assert.True(t, n.Match("b"))
	assert.True(t, n.Match("ab"))
	assert.False(t, n.Match("aab"))
	assert.False(t, n.Match(""))
}

func TestPlusMatch(t *testing.T) {
	n := Plus(Char("a"))
	assert.False(t, n.Match(""))
	assert.True(t, n.Match("a"))
	assert.True(t, n.Match("aaa"))
}

func TestStarEpsilonClosureInvariant(t *testing.T) {
	n := Star(Char("a"))
	closure := n.EpsilonClosure(0)
	assert.True(t, closure.Has(n.Final()), "final state must be epsilon-reachable from start in a Kleene-star NFA")
	assert.True(t, n.Match(""))
}

func TestDFAMatchesNFAForComplexExpression(t *testing.T) {
	// (a|b)*c
	n := Concat(Star(Union(Char("a"), Char("b"))), Char("c"))
	dfa := n.ToDFA()

	cases := []struct {
		in   string
		want bool
	}{
		{"c", true},
		{"ac", true},
		{"bc", true},
		{"ababc", true},
		{"ab", false},
		{"ca", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, n.Match(c.in), "nfa.Match(%q)", c.in)
		assert.Equal(t, c.want, dfa.Match(c.in), "dfa.Match(%q)", c.in)
	}
}

func TestDFAStateNumberingDeterministic(t *testing.T) {
	build := func() *DFA {
		n := Concat(Plus(Char("a")), Char("b"))
		return n.ToDFA()
	}
	d1 := build()
	d2 := build()
	require.Equal(t, len(d1.Table), len(d2.Table))
	for state, row := range d1.Table {
		row2, ok := d2.Table[state]
		require.True(t, ok)
		assert.Equal(t, row, row2)
	}
	assert.Equal(t, d1.Finals, d2.Finals)
}
