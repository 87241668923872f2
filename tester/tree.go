package tester

import (
	"fmt"

	"github.com/mirryi/isc/driver"
)

// Tree is an expected syntax tree. A Kind of "_" matches any symbol, and an
// empty Text matches any lexeme.
type Tree struct {
	Kind     string  `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Children []*Tree `json:"children,omitempty"`

	parent *Tree
	offset int
}

func NewTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewTerminalTree(kind, text string) *Tree {
	return &Tree{
		Kind: kind,
		Text: text,
	}
}

// Fill links every node to its parent.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.parent = t
		c.offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.parent.path(), t.offset, t.Kind)
}

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// DiffTree compares two filled trees and returns the first mismatch of every
// subtree.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Text != "" && expected.Text != actual.Text {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Text, actual.Text)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

func genTree(node *driver.Node) *Tree {
	if node.Type == driver.NodeTypeTerminal {
		return NewTerminalTree(node.KindName, node.Text)
	}
	var children []*Tree
	if len(node.Children) > 0 {
		children = make([]*Tree, len(node.Children))
		for i, c := range node.Children {
			children[i] = genTree(c)
		}
	}
	return NewTree(node.KindName, children...)
}
