package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsekit/internal/core/grammar"
	"github.com/dekarrin/parsekit/lex"
)

// Tree is the tagged-variant parse tree node described in spec §3 and §4.4:
// either a Leaf (a matched terminal, with its token attached after the tree
// skeleton is built) or a Node (a matched non-terminal, with its children in
// production order). Actions are a vestigial, closed-enumeration case from
// the source that this core never builds (spec §9's DESIGN NOTES).
type Tree struct {
	// Leaf fields.
	IsLeaf   bool
	Terminal grammar.Terminal
	Token    lex.Token

	// Node fields.
	Production *grammar.Production
	Children   []*Tree
}

// leaf builds an unattached Leaf node (token filled in after construction).
func leaf(t grammar.Terminal) *Tree {
	return &Tree{IsLeaf: true, Terminal: t}
}

// build reifies the production stack into a tree rooted at node, starting
// at *cursor, per spec §4.4: for each element of the production at the
// cursor, append a Leaf for a Terminal, an empty Node (recursed into) for a
// NonTerminal, and nothing for Epsilon.
func build(node *Tree, stack []*grammar.Production, cursor *int) {
	p := stack[*cursor]
	*cursor++
	node.Production = p

	for _, el := range p.Elements {
		switch e := el.(type) {
		case grammar.Terminal:
			node.Children = append(node.Children, leaf(e))
		case *grammar.NonTerminal:
			child := &Tree{}
			node.Children = append(node.Children, child)
			build(child, stack, cursor)
		default:
			// Epsilon: no child appended.
		}
	}
}

// leaves collects every Leaf in the tree in pre-order.
func (t *Tree) leaves() []*Tree {
	if t.IsLeaf {
		return []*Tree{t}
	}
	var out []*Tree
	for _, c := range t.Children {
		out = append(out, c.leaves()...)
	}
	return out
}

// attachTokens zips tokens positionally onto the tree's leaves. The caller
// guarantees len(leaves) == len(tokens).
func attachTokens(leaves []*Tree, tokens []lex.Token) {
	for i, l := range leaves {
		l.Token = tokens[i]
	}
}

// ReductionError reports a default-reducer arity violation: a Node with no
// Reduction descriptor whose children count is not exactly one.
type ReductionError struct {
	Msg string
}

func (e *ReductionError) Error() string {
	return "reduction error: " + e.Msg
}

// Reduce folds the tree bottom-up into a semantic value, per spec §4.4. A
// Leaf reduces to its token's lexeme. A Node with a Reduction descriptor
// reduces its (possibly index-selected) children's values through the
// descriptor's function. A Node without one uses the default reducer:
// identity on exactly one child, an error for any other arity.
func Reduce(t *Tree) (any, error) {
	if t.IsLeaf {
		return t.Token.Lexeme, nil
	}

	args := make([]any, len(t.Children))
	for i, c := range t.Children {
		v, err := Reduce(c)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if t.Production.Reduce != nil {
		r := t.Production.Reduce
		selected := args
		if r.ArgIndices != nil {
			selected = make([]any, len(r.ArgIndices))
			for i, idx := range r.ArgIndices {
				selected[i] = args[idx]
			}
		}
		return r.Fn(selected)
	}

	if len(args) != 1 {
		return nil, &ReductionError{Msg: fmt.Sprintf(
			"production %s has no reduction descriptor and %d children (default reducer requires exactly 1)",
			t.Production.String(), len(args))}
	}
	return args[0], nil
}

// String renders the tree as an
// indented, line-by-line outline suitable for structural comparison.
func (t *Tree) String() string {
	return t.leveled("")
}

func (t *Tree) leveled(indent string) string {
	var sb strings.Builder
	if t.IsLeaf {
		sb.WriteString(fmt.Sprintf("%sLeaf(%q)", indent, t.Token.Lexeme))
	} else {
		name := "N.A."
		if t.Production != nil && t.Production.Head != nil {
			name = t.Production.Head.Name
		}
		sb.WriteString(fmt.Sprintf("%sNode(%s)", indent, name))
		for _, c := range t.Children {
			sb.WriteRune('\n')
			sb.WriteString(c.leveled(indent + "    "))
		}
	}
	return sb.String()
}
