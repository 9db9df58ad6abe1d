// Package automaton implements Thompson-style NFA construction over the
// table package's generic transition tables, plus subset-construction
// determinization into a DFA. It is grounded on xparse/regular/automata.py:
// the combinators (char, concat, union, star) build tables exactly the way
// the source's Nfa classmethods do, by concatenating tables and rebasing
// state indices, then linking the pieces with epsilon transitions.
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/parsekit/internal/core/table"
)

// Epsilon is the reserved transition-table column representing an
// epsilon-transition. It uses a NUL-prefixed sentinel so that it can never
// collide with a literal input character drawn from the regex surface's
// alphabet.
const Epsilon = "\x00EPSILON"

// Dot is reserved for wildcard semantics. No combinator in this core writes
// to it and no matcher reads it; the column exists purely so a future
// wildcard feature has a name that cannot collide with a literal character
// (see spec §9's Open Questions).
const Dot = "\x00DOT"

// NFA is a non-deterministic finite automaton with epsilon-transitions.
// States are table row indices 0..Final(); state 0 is initial and Final()
// is the single accepting state in every automaton built by the
// combinators below.
type NFA struct {
	Table    *table.Table[StateSet]
	closures []StateSet
}

// New wraps an already-built transition table into an NFA, computing and
// caching the epsilon-closure of every state.
func New(t *table.Table[StateSet]) *NFA {
	n := &NFA{Table: t}
	n.closures = make([]StateSet, t.Len())
	for i := 0; i < t.Len(); i++ {
		n.closures[i] = n.computeClosure(i)
	}
	return n
}

// Final returns the index of the single accepting state.
func (n *NFA) Final() int {
	return n.Table.Final()
}

func (n *NFA) computeClosure(state int) StateSet {
	closure := NewStateSet()
	stack := []int{state}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure.Has(s) {
			continue
		}
		closure.Add(s)
		for _, next := range n.Table.Rows[s].Get(Epsilon).Sorted() {
			stack = append(stack, next)
		}
	}
	return closure
}

// EpsilonClosure returns the cached epsilon-closure of state, which always
// contains state itself.
func (n *NFA) EpsilonClosure(state int) StateSet {
	return n.closures[state]
}

// EpsilonClosureOfSet returns the union of the epsilon-closures of every
// state in states.
func (n *NFA) EpsilonClosureOfSet(states StateSet) StateSet {
	out := NewStateSet()
	for s := range states.KeySet {
		out = out.Union(n.EpsilonClosure(s))
	}
	return out
}

// Columns returns the sorted set of non-epsilon input characters reachable
// from any state in states, used by DFA construction to decide what to
// transition on.
func (n *NFA) Columns(states StateSet) []string {
	seen := map[string]struct{}{}
	for s := range states.KeySet {
		for _, c := range n.Table.Rows[s].Columns() {
			if c == Epsilon {
				continue
			}
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Transition steps the given set of states across one input character c:
// transition(S, c) = ε_closure(⋃_{s ∈ ε_closure(S)} table[s][c]).
func (n *NFA) Transition(states StateSet, c string) StateSet {
	start := n.EpsilonClosureOfSet(states)
	moved := NewStateSet()
	for s := range start.KeySet {
		moved = moved.Union(n.Table.Rows[s].Get(c))
	}
	return n.EpsilonClosureOfSet(moved)
}

// Match reports whether s is accepted: starting from {0}, step across every
// character, rejecting early if the state set empties, and accepting iff
// the final state is in the resulting set.
func (n *NFA) Match(s string) bool {
	states := n.EpsilonClosure(0)
	for _, r := range s {
		states = n.Transition(states, string(r))
		if states.Empty() {
			return false
		}
	}
	return states.Has(n.Final())
}

// Epsilon_ constructs the two-row NFA that accepts only the empty string:
// row 0 has EPSILON -> {1}, row 1 is empty.
func Epsilon_() *NFA {
	t := table.New(table.Factory(func() StateSet { return NewStateSet() }),
		map[string]StateSet{Epsilon: NewStateSet(1)},
		map[string]StateSet{},
	)
	return New(t)
}

// Char constructs the two-row NFA that accepts only the single-character
// input c: row 0 has c -> {1}, row 1 is empty.
func Char(c string) *NFA {
	t := table.New(table.Factory(func() StateSet { return NewStateSet() }),
		map[string]StateSet{c: NewStateSet(1)},
		map[string]StateSet{},
	)
	return New(t)
}

// concatTables concatenates several tables row-wise, rebasing every state
// index in every cell by the length of the tables that precede it. It
// returns the concatenated table and the offset at which each input table's
// rows begin.
func concatTables(tables ...*table.Table[StateSet]) (*table.Table[StateSet], []int) {
	if len(tables) == 0 {
		panic("concatTables: no tables given")
	}
	def := tables[0].Default()

	offsets := make([]int, len(tables))
	sum := 0
	for i, t := range tables {
		offsets[i] = sum
		sum += t.Len()
	}

	result := table.New(def)

	for i, t := range tables {
		offset := offsets[i]
		shifted := t.Map(func(s StateSet) StateSet {
			out := NewStateSet()
			for state := range s.KeySet {
				out.Add(state + offset)
			}
			return out
		})
		result.Rows = append(result.Rows, shifted.Rows...)
	}

	return result, offsets
}

// Concat constructs the NFA that matches n1 followed by n2 followed by ...,
// by concatenating their tables and linking each preceding final state to
// the next initial state with an epsilon-transition.
func Concat(nfas ...*NFA) *NFA {
	if len(nfas) == 0 {
		panic("automaton.Concat: no operands")
	}
	if len(nfas) == 1 {
		return nfas[0]
	}
	tables := make([]*table.Table[StateSet], len(nfas))
	for i, n := range nfas {
		tables[i] = n.Table
	}
	t, offsets := concatTables(tables...)
	for _, offset := range offsets[1:] {
		link := t.Rows[offset-1].Get(Epsilon)
		link.Add(offset)
		t.Rows[offset-1].Set(Epsilon, link)
	}
	return New(t)
}

// Union constructs the NFA that matches any one of nfas, by surrounding the
// concatenated tables with a fresh start and final row and linking the new
// start to each operand's start, and each operand's final to the new final,
// via epsilon-transitions.
func Union(nfas ...*NFA) *NFA {
	if len(nfas) == 0 {
		panic("automaton.Union: no operands")
	}
	if len(nfas) == 1 {
		return nfas[0]
	}
	def := nfas[0].Table.Default()
	tables := []*table.Table[StateSet]{table.WithEmptyRow(def)}
	for _, n := range nfas {
		tables = append(tables, n.Table)
	}
	tables = append(tables, table.WithEmptyRow(def))

	t, offsets := concatTables(tables...)

	startsEps := NewStateSet()
	for _, offset := range offsets[1 : len(offsets)-1] {
		startsEps.Add(offset)
	}
	t.Rows[0].Set(Epsilon, startsEps)

	for _, offset := range offsets[2:] {
		finalEps := t.Rows[offset-1].Get(Epsilon)
		finalEps.Add(t.Final())
		t.Rows[offset-1].Set(Epsilon, finalEps)
	}

	return New(t)
}

// Star constructs the Kleene-star NFA of n: zero or more repetitions.
func Star(n *NFA) *NFA {
	def := n.Table.Default()
	t, _ := concatTables(table.WithEmptyRow(def), n.Table, table.WithEmptyRow(def))

	start := t.Rows[0].Get(Epsilon)
	start.Add(1)
	start.Add(t.Final())
	t.Rows[0].Set(Epsilon, start)

	loop := t.Rows[t.Final()-1].Get(Epsilon)
	loop.Add(0)
	loop.Add(t.Final())
	t.Rows[t.Final()-1].Set(Epsilon, loop)

	return New(t)
}

// Optional constructs the NFA matching n zero or one times: union(n, ε).
func Optional(n *NFA) *NFA {
	return Union(n, Epsilon_())
}

// Plus constructs the NFA matching n one or more times: concat(n, star(n)).
func Plus(n *NFA) *NFA {
	return Concat(n, Star(n))
}

// ShapeError indicates a malformed automaton construction input, such as a
// table row whose cell holds the wrong shape of value.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("automaton error: %s", e.Msg)
}
