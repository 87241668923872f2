package parser

import (
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/mirryi/isc/automaton"
	ierr "github.com/mirryi/isc/error"
)

func TestParse(t *testing.T) {
	digits := automaton.NewCharClass(automaton.Range{From: '0', To: '9'})

	tests := []struct {
		pattern     string
		ast         Tree
		syntaxError error
		pos         int
	}{
		{
			pattern: "a",
			ast:     newSymbolNode('a'),
		},
		{
			pattern: "abc",
			ast: genConcatNode(
				newSymbolNode('a'),
				newSymbolNode('b'),
				newSymbolNode('c'),
			),
		},
		{
			pattern: "a(b|c)*d",
			ast: genConcatNode(
				newSymbolNode('a'),
				newRepeatNode(
					genAltNode(
						newSymbolNode('b'),
						newSymbolNode('c'),
					),
				),
				newSymbolNode('d'),
			),
		},
		{
			pattern: "ab|cd|e",
			ast: genAltNode(
				genConcatNode(newSymbolNode('a'), newSymbolNode('b')),
				genConcatNode(newSymbolNode('c'), newSymbolNode('d')),
				newSymbolNode('e'),
			),
		},
		{
			pattern: "a+?",
			ast: newOptionNode(
				newRepeatOneOrMoreNode(newSymbolNode('a')),
			),
		},
		{
			pattern: "[a-z0-9]+",
			ast: newRepeatOneOrMoreNode(
				newClassNode(automaton.NewCharClass(
					automaton.Range{From: 'a', To: 'z'},
					automaton.Range{From: '0', To: '9'},
				)),
			),
		},
		{
			pattern: "[-a-]",
			ast: newClassNode(automaton.NewCharClass(
				automaton.Range{From: '-', To: '-'},
				automaton.Range{From: 'a', To: 'a'},
			)),
		},
		{
			pattern: "[\\d-]",
			ast: newClassNode(digits.Union(automaton.Single('-'))),
		},
		{
			pattern: "[^\\n]",
			ast:     newClassNode(automaton.AnyCharExceptNewline()),
		},
		{
			pattern: ".",
			ast:     newClassNode(automaton.AnyCharExceptNewline()),
		},
		{
			pattern: "\\d\\D",
			ast: genConcatNode(
				newClassNode(digits),
				newClassNode(digits.Complement()),
			),
		},
		{
			pattern: "\\u{3042}\\u{01F600}",
			ast: genConcatNode(
				newSymbolNode('あ'),
				newSymbolNode('\U0001F600'),
			),
		},
		{
			pattern: "\\.\\*\\+\\?\\|\\(\\)\\[\\]\\\\",
			ast: genConcatNode(
				newSymbolNode('.'),
				newSymbolNode('*'),
				newSymbolNode('+'),
				newSymbolNode('?'),
				newSymbolNode('|'),
				newSymbolNode('('),
				newSymbolNode(')'),
				newSymbolNode('['),
				newSymbolNode(']'),
				newSymbolNode('\\'),
			),
		},
		{
			pattern:     "",
			syntaxError: synErrNullPattern,
			pos:         0,
		},
		{
			pattern:     "a(b",
			syntaxError: synErrGroupUnclosed,
			pos:         3,
		},
		{
			pattern:     "ab)",
			syntaxError: synErrGroupNoInitiator,
			pos:         2,
		},
		{
			pattern:     "a()",
			syntaxError: synErrGroupNoElem,
			pos:         2,
		},
		{
			pattern:     "a||b",
			syntaxError: synErrAltLackOfOperand,
			pos:         2,
		},
		{
			pattern:     "|a",
			syntaxError: synErrAltLackOfOperand,
			pos:         0,
		},
		{
			pattern:     "a|*",
			syntaxError: synErrRepNoTarget,
			pos:         2,
		},
		{
			pattern:     "[]",
			syntaxError: synErrBExpNoElem,
			pos:         1,
		},
		{
			pattern:     "[ab",
			syntaxError: synErrBExpUnclosed,
			pos:         3,
		},
		{
			pattern:     "ab[z-a]",
			syntaxError: synErrRangeInvalidOrder,
			pos:         3,
		},
		{
			pattern:     "[^\\u{0000}-\\u{10FFFF}]",
			syntaxError: synErrUnmatchablePattern,
			pos:         0,
		},
		{
			pattern:     "a\\q",
			syntaxError: synErrInvalidEscSeq,
			pos:         1,
		},
		{
			pattern:     "a\\",
			syntaxError: synErrIncompletedEscSeq,
			pos:         1,
		},
		{
			pattern:     "\\u{123}",
			syntaxError: synErrInvalidCodePoint,
			pos:         0,
		},
		{
			pattern:     "\\u{110000}",
			syntaxError: synErrCPExpOutOfRange,
			pos:         0,
		},
		{
			pattern:     "\\u3042",
			syntaxError: synErrCPExpInvalidForm,
			pos:         0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			ast, err := Parse(tt.pattern)
			if tt.syntaxError != nil {
				if err == nil {
					t.Fatalf("expected syntax error; want: %v", tt.syntaxError)
				}
				var synErr *ierr.SyntaxError
				if !errors.As(err, &synErr) {
					t.Fatalf("unexpected error type: %T: %v", err, err)
				}
				if !errors.Is(err, tt.syntaxError) {
					t.Fatalf("unexpected cause; want: %v, got: %v", tt.syntaxError, synErr.Cause)
				}
				if synErr.Pos != tt.pos {
					t.Fatalf("unexpected position; want: %v, got: %v", tt.pos, synErr.Pos)
				}
				if synErr.Pattern != tt.pattern {
					t.Fatalf("the error must carry the pattern")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(ast, tt.ast) {
				var want, got strings.Builder
				PrintTree(&want, tt.ast)
				PrintTree(&got, ast)
				t.Fatalf("unexpected tree:\nwant:\n%v\ngot:\n%v", want.String(), got.String())
			}
		})
	}
}

func TestPerlClass(t *testing.T) {
	tests := []struct {
		class  rune
		member []rune
		others []rune
	}{
		{class: 'd', member: []rune{'0', '9'}, others: []rune{'a', ' '}},
		{class: 'D', member: []rune{'a', ' ', unicode.MaxRune}, others: []rune{'5'}},
		{class: 'w', member: []rune{'a', 'Z', '_', '3'}, others: []rune{'-', ' '}},
		{class: 'W', member: []rune{'-', ' '}, others: []rune{'x'}},
		{class: 's', member: []rune{' ', '\t', '\n', '\r'}, others: []rune{'x'}},
		{class: 'S', member: []rune{'x'}, others: []rune{' ', '\n'}},
	}
	for _, tt := range tests {
		c := perlClass(tt.class)
		for _, r := range tt.member {
			if !c.Contains(r) {
				t.Errorf("\\%v must contain %q", string(tt.class), r)
			}
		}
		for _, r := range tt.others {
			if c.Contains(r) {
				t.Errorf("\\%v must not contain %q", string(tt.class), r)
			}
		}
	}
}

func TestPrintTree(t *testing.T) {
	ast, err := Parse("a|bc")
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	PrintTree(&b, ast)
	want := `alt
├─ symbol: a
└─ concat
   ├─ symbol: b
   └─ symbol: c
`
	if b.String() != want {
		t.Fatalf("unexpected output:\n%v", b.String())
	}
}
