// Package automaton implements finite automata over code points: NFAs with
// epsilon transitions, their determinization by subset construction and the
// minimization of the resulting DFAs.
//
// Transitions are labeled with character classes instead of single code
// points. Determinization first partitions the code points mentioned by any
// label into atoms, maximal ranges every label treats alike, and runs the
// subset construction over those atoms.
package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	ierr "github.com/mirryi/isc/error"
	"github.com/mirryi/isc/worklist"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("isc.automaton")
}

// StateID identifies a state within the automaton that created it.
type StateID int

// Tag marks the token kind an accepting state recognizes. A smaller tag has a
// higher priority.
type Tag int

// NoTag is the tag of states that don't recognize any particular kind. Any
// other tag wins over it.
const NoTag = Tag(-1)

// ErrInvalidState is wrapped by the errors operations return for state IDs
// the automaton doesn't own.
var ErrInvalidState = ierr.ErrInvalidState

// higherPriority reports whether tag a should be preferred over tag b.
func higherPriority(a, b Tag) bool {
	if a == NoTag {
		return false
	}
	if b == NoTag {
		return true
	}
	return a < b
}

type Edge struct {
	Label Label
	To    StateID
}

type nfaState struct {
	accepting bool
	tag       Tag
	edges     []Edge
}

type NFA struct {
	states []*nfaState
	start  StateID
}

// NewNFA returns an NFA consisting of one non-accepting start state.
func NewNFA() *NFA {
	n := &NFA{}
	n.start = n.AddState(false, NoTag)
	return n
}

func (n *NFA) AddState(accepting bool, tag Tag) StateID {
	n.states = append(n.states, &nfaState{
		accepting: accepting,
		tag:       tag,
	})
	return StateID(len(n.states) - 1)
}

func (n *NFA) AddTransition(from StateID, label Label, to StateID) error {
	if err := n.checkState(from); err != nil {
		return err
	}
	if err := n.checkState(to); err != nil {
		return err
	}
	if !label.IsEpsilon() && label.Class().IsEmpty() {
		return fmt.Errorf("a transition needs a non-empty character class; from: %v, to: %v", from, to)
	}
	n.states[from].edges = append(n.states[from].edges, Edge{
		Label: label,
		To:    to,
	})
	return nil
}

func (n *NFA) SetAccepting(s StateID, tag Tag) error {
	if err := n.checkState(s); err != nil {
		return err
	}
	n.states[s].accepting = true
	n.states[s].tag = tag
	return nil
}

func (n *NFA) Start() StateID {
	return n.start
}

func (n *NFA) StateCount() int {
	return len(n.states)
}

func (n *NFA) IsAccepting(s StateID) bool {
	if n.checkState(s) != nil {
		return false
	}
	return n.states[s].accepting
}

func (n *NFA) Tag(s StateID) Tag {
	if n.checkState(s) != nil {
		return NoTag
	}
	return n.states[s].tag
}

func (n *NFA) Transitions(s StateID) ([]Edge, error) {
	if err := n.checkState(s); err != nil {
		return nil, err
	}
	return append([]Edge{}, n.states[s].edges...), nil
}

func (n *NFA) checkState(s StateID) error {
	if s < 0 || int(s) >= len(n.states) {
		return &ierr.InvalidStateError{
			State: int(s),
			Count: len(n.states),
		}
	}
	return nil
}

// EpsilonClosure returns the sorted set of states reachable from states through
// epsilon transitions alone, including states themselves.
func (n *NFA) EpsilonClosure(states ...StateID) ([]StateID, error) {
	for _, s := range states {
		if err := n.checkState(s); err != nil {
			return nil, err
		}
	}
	return n.closure(states), nil
}

func (n *NFA) closure(states []StateID) []StateID {
	seen := worklist.Seen[StateID]{}
	wl := worklist.New[StateID]()
	for _, s := range states {
		if seen.Add(s) {
			wl.Push(s)
		}
	}
	wl.Drain(func(s StateID) error {
		for _, e := range n.states[s].edges {
			if !e.Label.IsEpsilon() {
				continue
			}
			if seen.Add(e.To) {
				wl.Push(e.To)
			}
		}
		return nil
	})

	closure := make([]StateID, 0, len(seen))
	for s := range seen {
		closure = append(closure, s)
	}
	sort.Slice(closure, func(i, j int) bool {
		return closure[i] < closure[j]
	})
	return closure
}

// move returns the states reachable from states by consuming code point c.
func (n *NFA) move(states []StateID, c rune) []StateID {
	set := treeset.NewWith(utils.IntComparator)
	for _, s := range states {
		for _, e := range n.states[s].edges {
			if e.Label.IsEpsilon() || !e.Label.Class().Contains(c) {
				continue
			}
			set.Add(int(e.To))
		}
	}
	next := make([]StateID, 0, set.Size())
	for _, v := range set.Values() {
		next = append(next, StateID(v.(int)))
	}
	return next
}

// Accepts simulates the NFA on input.
func (n *NFA) Accepts(input string) bool {
	current := n.closure([]StateID{n.start})
	for _, c := range input {
		current = n.closure(n.move(current, c))
		if len(current) == 0 {
			return false
		}
	}
	for _, s := range current {
		if n.states[s].accepting {
			return true
		}
	}
	return false
}

func (n *NFA) alphabet() []Range {
	var classes []CharClass
	for _, s := range n.states {
		for _, e := range s.edges {
			if e.Label.IsEpsilon() {
				continue
			}
			classes = append(classes, e.Label.Class())
		}
	}
	return partition(classes)
}

func subsetKey(states []StateID) string {
	var b strings.Builder
	for i, s := range states {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%v", s)
	}
	return b.String()
}

// Determinize converts the NFA into an equivalent DFA by subset construction.
// A DFA state accepts when its subset contains an accepting NFA state, and it
// carries the highest-priority tag among them. DFA states are numbered in
// breadth-first order from the start state, visiting atoms in ascending order,
// so the result only depends on the NFA.
func (n *NFA) Determinize() *DFA {
	atoms := n.alphabet()
	d := newDFA(atoms)

	key2State := map[string]StateID{}
	var subsets [][]StateID
	addSubset := func(subset []StateID) (StateID, bool) {
		key := subsetKey(subset)
		if s, ok := key2State[key]; ok {
			return s, false
		}
		s := d.addState()
		key2State[key] = s
		subsets = append(subsets, subset)
		accepting := false
		tag := NoTag
		for _, q := range subset {
			if !n.states[q].accepting {
				continue
			}
			accepting = true
			if higherPriority(n.states[q].tag, tag) {
				tag = n.states[q].tag
			}
		}
		d.accepting[s] = accepting
		d.tags[s] = tag
		return s, true
	}

	start, _ := addSubset(n.closure([]StateID{n.start}))
	d.start = start
	wl := worklist.New(start)
	wl.Drain(func(s StateID) error {
		for i, atom := range atoms {
			moved := n.move(subsets[s], atom.From)
			if len(moved) == 0 {
				continue
			}
			next, added := addSubset(n.closure(moved))
			d.next[s][i] = next
			if added {
				wl.Push(next)
			}
		}
		return nil
	})
	d.subsets = subsets

	tracer().Debugf("determinized an NFA with %v states into a DFA with %v states over %v atoms", len(n.states), d.StateCount(), len(atoms))

	return d
}

// WriteDot writes the NFA in the Graphviz DOT format.
func (n *NFA) WriteDot(w io.Writer) error {
	var b strings.Builder
	writeDotHeader(&b)
	for i, s := range n.states {
		writeDotState(&b, StateID(i), s.accepting, s.tag)
	}
	fmt.Fprintf(&b, "start -> s%v\n", n.start)
	for i, s := range n.states {
		for _, e := range s.edges {
			fmt.Fprintf(&b, "s%v -> s%v [label=%q]\n", i, e.To, e.Label.String())
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDotHeader(b *strings.Builder) {
	b.WriteString(`digraph {
graph [rankdir=LR, fontname=Helvetica, fontsize=10];
node [shape=circle, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];
start [shape=point];

`)
}

func writeDotState(b *strings.Builder, s StateID, accepting bool, tag Tag) {
	shape := "circle"
	if accepting {
		shape = "doublecircle"
	}
	label := fmt.Sprintf("%v", s)
	if tag != NoTag {
		label = fmt.Sprintf("%v/%v", s, tag)
	}
	fmt.Fprintf(b, "s%v [shape=%v label=%q]\n", s, shape, label)
}
