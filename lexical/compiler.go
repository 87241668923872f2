// Package lexical compiles regular expressions and lexical specifications into
// automata and scans text with the result.
package lexical

import (
	"fmt"

	"github.com/mirryi/isc/automaton"
	psr "github.com/mirryi/isc/lexical/parser"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("isc.lexical")
}

// Compile translates pattern into an NFA by Thompson construction. The NFA has
// exactly one accepting state, untagged. Syntax errors are reported as
// *error.SyntaxError.
func Compile(pattern string) (*automaton.NFA, error) {
	tree, err := psr.Parse(pattern)
	if err != nil {
		return nil, err
	}
	nfa := automaton.NewNFA()
	if err := addPattern(nfa, tree, automaton.NoTag); err != nil {
		return nil, err
	}
	return nfa, nil
}

type compileConfig struct {
	minimize bool
	compLv   int
}

func newCompileConfig() *compileConfig {
	return &compileConfig{
		minimize: true,
		compLv:   2,
	}
}

type CompileOption func(config *compileConfig)

// WithoutMinimization keeps the DFA as the subset construction produced it.
func WithoutMinimization() CompileOption {
	return func(config *compileConfig) {
		config.minimize = false
	}
}

// CompressionLevel sets how the transition table of a lexical specification
// is compressed; see package compressor.
func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compLv = lv
	}
}

// CompileDFA compiles pattern into a DFA, minimized unless told otherwise.
func CompileDFA(pattern string, opts ...CompileOption) (*automaton.DFA, error) {
	config := newCompileConfig()
	for _, opt := range opts {
		opt(config)
	}

	nfa, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	dfa := nfa.Determinize()
	if config.minimize {
		dfa = dfa.Minimize()
	}
	return dfa, nil
}

// addPattern adds the fragment of tree to nfa, reachable from the start state
// by an epsilon transition, and makes the exit of the fragment accept with tag.
func addPattern(nfa *automaton.NFA, tree psr.Tree, tag automaton.Tag) error {
	b := &thompson{
		nfa: nfa,
	}
	f, err := b.build(tree)
	if err != nil {
		return err
	}
	if err := nfa.AddTransition(nfa.Start(), automaton.Epsilon(), f.entry); err != nil {
		return err
	}
	return nfa.SetAccepting(f.exit, tag)
}

// fragment is a part of an NFA with a single entry and a single exit state.
// Nothing leaves the exit until the fragment gets connected.
type fragment struct {
	entry automaton.StateID
	exit  automaton.StateID
}

type thompson struct {
	nfa *automaton.NFA
}

func (b *thompson) newState() automaton.StateID {
	return b.nfa.AddState(false, automaton.NoTag)
}

func (b *thompson) epsilon(from, to automaton.StateID) error {
	return b.nfa.AddTransition(from, automaton.Epsilon(), to)
}

func (b *thompson) build(t psr.Tree) (*fragment, error) {
	if class, ok := t.Class(); ok {
		f := &fragment{
			entry: b.newState(),
			exit:  b.newState(),
		}
		if err := b.nfa.AddTransition(f.entry, automaton.Symbols(class), f.exit); err != nil {
			return nil, err
		}
		return f, nil
	}
	if left, right, ok := t.Concatenation(); ok {
		l, err := b.build(left)
		if err != nil {
			return nil, err
		}
		r, err := b.build(right)
		if err != nil {
			return nil, err
		}
		if err := b.epsilon(l.exit, r.entry); err != nil {
			return nil, err
		}
		return &fragment{
			entry: l.entry,
			exit:  r.exit,
		}, nil
	}
	if left, right, ok := t.Alternatives(); ok {
		f := &fragment{
			entry: b.newState(),
			exit:  b.newState(),
		}
		for _, alt := range []psr.Tree{left, right} {
			a, err := b.build(alt)
			if err != nil {
				return nil, err
			}
			if err := b.epsilon(f.entry, a.entry); err != nil {
				return nil, err
			}
			if err := b.epsilon(a.exit, f.exit); err != nil {
				return nil, err
			}
		}
		return f, nil
	}
	if body, ok := t.Repeatable(); ok {
		return b.quantify(body, true, true)
	}
	if body, ok := t.RepeatableOneOrMore(); ok {
		return b.quantify(body, false, true)
	}
	if body, ok := t.Optional(); ok {
		return b.quantify(body, true, false)
	}
	return nil, fmt.Errorf("unknown syntax tree node: %v", t)
}

// quantify wraps the fragment of body. skippable adds a bypass from the entry
// to the exit and repeatable a loop from the exit of body back to its entry.
func (b *thompson) quantify(body psr.Tree, skippable, repeatable bool) (*fragment, error) {
	inner, err := b.build(body)
	if err != nil {
		return nil, err
	}
	f := &fragment{
		entry: b.newState(),
		exit:  b.newState(),
	}
	if err := b.epsilon(f.entry, inner.entry); err != nil {
		return nil, err
	}
	if err := b.epsilon(inner.exit, f.exit); err != nil {
		return nil, err
	}
	if repeatable {
		if err := b.epsilon(inner.exit, inner.entry); err != nil {
			return nil, err
		}
	}
	if skippable {
		if err := b.epsilon(f.entry, f.exit); err != nil {
			return nil, err
		}
	}
	return f, nil
}
