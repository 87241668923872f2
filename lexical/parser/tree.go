package parser

import (
	"fmt"
	"io"

	"github.com/mirryi/isc/automaton"
)

// Tree is a node of the syntax tree of a regular expression. Each accessor
// reports whether the node is of the corresponding kind.
type Tree interface {
	fmt.Stringer
	Class() (automaton.CharClass, bool)
	Optional() (Tree, bool)
	Repeatable() (Tree, bool)
	RepeatableOneOrMore() (Tree, bool)
	Concatenation() (Tree, Tree, bool)
	Alternatives() (Tree, Tree, bool)

	children() (Tree, Tree)
}

var (
	_ Tree = &symbolNode{}
	_ Tree = &concatNode{}
	_ Tree = &altNode{}
	_ Tree = &quantifierNode{}
)

type symbolNode struct {
	class automaton.CharClass
}

func newSymbolNode(c rune) *symbolNode {
	return &symbolNode{
		class: automaton.Single(c),
	}
}

func newClassNode(class automaton.CharClass) *symbolNode {
	return &symbolNode{
		class: class,
	}
}

func (n *symbolNode) String() string {
	return fmt.Sprintf("symbol: %v", n.class)
}

func (n *symbolNode) Class() (automaton.CharClass, bool) {
	return n.class, true
}

func (n *symbolNode) Optional() (Tree, bool) {
	return nil, false
}

func (n *symbolNode) Repeatable() (Tree, bool) {
	return nil, false
}

func (n *symbolNode) RepeatableOneOrMore() (Tree, bool) {
	return nil, false
}

func (n *symbolNode) Concatenation() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *symbolNode) Alternatives() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *symbolNode) children() (Tree, Tree) {
	return nil, nil
}

type concatNode struct {
	left  Tree
	right Tree
}

func newConcatNode(left, right Tree) *concatNode {
	return &concatNode{
		left:  left,
		right: right,
	}
}

func (n *concatNode) String() string {
	return "concat"
}

func (n *concatNode) Class() (automaton.CharClass, bool) {
	return automaton.CharClass{}, false
}

func (n *concatNode) Optional() (Tree, bool) {
	return nil, false
}

func (n *concatNode) Repeatable() (Tree, bool) {
	return nil, false
}

func (n *concatNode) RepeatableOneOrMore() (Tree, bool) {
	return nil, false
}

func (n *concatNode) Concatenation() (Tree, Tree, bool) {
	return n.left, n.right, true
}

func (n *concatNode) Alternatives() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *concatNode) children() (Tree, Tree) {
	return n.left, n.right
}

type altNode struct {
	left  Tree
	right Tree
}

func newAltNode(left, right Tree) *altNode {
	return &altNode{
		left:  left,
		right: right,
	}
}

func (n *altNode) String() string {
	return "alt"
}

func (n *altNode) Class() (automaton.CharClass, bool) {
	return automaton.CharClass{}, false
}

func (n *altNode) Optional() (Tree, bool) {
	return nil, false
}

func (n *altNode) Repeatable() (Tree, bool) {
	return nil, false
}

func (n *altNode) RepeatableOneOrMore() (Tree, bool) {
	return nil, false
}

func (n *altNode) Concatenation() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *altNode) Alternatives() (Tree, Tree, bool) {
	return n.left, n.right, true
}

func (n *altNode) children() (Tree, Tree) {
	return n.left, n.right
}

type quantifierKind string

const (
	quantifierOption          quantifierKind = "?"
	quantifierRepeat          quantifierKind = "*"
	quantifierRepeatOneOrMore quantifierKind = "+"
)

type quantifierNode struct {
	kind quantifierKind
	tree Tree
}

func newOptionNode(t Tree) *quantifierNode {
	return &quantifierNode{
		kind: quantifierOption,
		tree: t,
	}
}

func newRepeatNode(t Tree) *quantifierNode {
	return &quantifierNode{
		kind: quantifierRepeat,
		tree: t,
	}
}

func newRepeatOneOrMoreNode(t Tree) *quantifierNode {
	return &quantifierNode{
		kind: quantifierRepeatOneOrMore,
		tree: t,
	}
}

func (n *quantifierNode) String() string {
	return fmt.Sprintf("repeat: %v", n.kind)
}

func (n *quantifierNode) Class() (automaton.CharClass, bool) {
	return automaton.CharClass{}, false
}

func (n *quantifierNode) Optional() (Tree, bool) {
	return n.tree, n.kind == quantifierOption
}

func (n *quantifierNode) Repeatable() (Tree, bool) {
	return n.tree, n.kind == quantifierRepeat
}

func (n *quantifierNode) RepeatableOneOrMore() (Tree, bool) {
	return n.tree, n.kind == quantifierRepeatOneOrMore
}

func (n *quantifierNode) Concatenation() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *quantifierNode) Alternatives() (Tree, Tree, bool) {
	return nil, nil, false
}

func (n *quantifierNode) children() (Tree, Tree) {
	return n.tree, nil
}

func genConcatNode(cs ...Tree) Tree {
	nonNilNodes := []Tree{}
	for _, c := range cs {
		if c == nil {
			continue
		}
		nonNilNodes = append(nonNilNodes, c)
	}
	if len(nonNilNodes) <= 0 {
		return nil
	}
	concat := nonNilNodes[0]
	for _, c := range nonNilNodes[1:] {
		concat = newConcatNode(concat, c)
	}
	return concat
}

func genAltNode(cs ...Tree) Tree {
	nonNilNodes := []Tree{}
	for _, c := range cs {
		if c == nil {
			continue
		}
		nonNilNodes = append(nonNilNodes, c)
	}
	if len(nonNilNodes) <= 0 {
		return nil
	}
	alt := nonNilNodes[0]
	for _, c := range nonNilNodes[1:] {
		alt = newAltNode(alt, c)
	}
	return alt
}

// PrintTree writes the tree in an indented form, one node per line.
func PrintTree(w io.Writer, t Tree) {
	printTree(w, t, "", "")
}

func printTree(w io.Writer, t Tree, ruledLine string, childRuledLinePrefix string) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, t)
	left, right := t.children()
	var children []Tree
	for _, c := range []Tree{left, right} {
		if c != nil {
			children = append(children, c)
		}
	}
	num := len(children)
	for i, child := range children {
		line := "└─ "
		prefix := "   "
		if i < num-1 {
			line = "├─ "
			prefix = "│  "
		}
		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// Equal reports whether two trees have the same shape and classes.
func Equal(a, b Tree) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ca, ok := a.Class(); ok {
		cb, ok := b.Class()
		return ok && ca.Equal(cb)
	}
	if a.String() != b.String() {
		return false
	}
	al, ar := a.children()
	bl, br := b.children()
	return Equal(al, bl) && Equal(ar, br)
}
