package automaton

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mirryi/isc/worklist"
)

// stateNil marks a missing transition. DFAs in this package are partial: the
// dead state is left out.
const stateNil = StateID(-1)

// DFA is a deterministic automaton. Its code points are partitioned into atoms
// and each state has at most one successor per atom.
type DFA struct {
	atoms     []Range
	next      [][]StateID
	accepting []bool
	tags      []Tag
	subsets   [][]StateID
	start     StateID
}

func newDFA(atoms []Range) *DFA {
	return &DFA{
		atoms: atoms,
	}
}

func (d *DFA) addState() StateID {
	row := make([]StateID, len(d.atoms))
	for i := range row {
		row[i] = stateNil
	}
	d.next = append(d.next, row)
	d.accepting = append(d.accepting, false)
	d.tags = append(d.tags, NoTag)
	return StateID(len(d.next) - 1)
}

func (d *DFA) Start() StateID {
	return d.start
}

func (d *DFA) StateCount() int {
	return len(d.next)
}

func (d *DFA) IsAccepting(s StateID) bool {
	if !d.owns(s) {
		return false
	}
	return d.accepting[s]
}

func (d *DFA) Tag(s StateID) Tag {
	if !d.owns(s) {
		return NoTag
	}
	return d.tags[s]
}

// Subset returns the NFA states a state was built from. It is empty for
// minimized DFAs.
func (d *DFA) Subset(s StateID) []StateID {
	if !d.owns(s) || int(s) >= len(d.subsets) {
		return nil
	}
	return append([]StateID{}, d.subsets[s]...)
}

func (d *DFA) owns(s StateID) bool {
	return s >= 0 && int(s) < len(d.next)
}

// Next returns the successor of s on code point c.
func (d *DFA) Next(s StateID, c rune) (StateID, bool) {
	if !d.owns(s) {
		return stateNil, false
	}
	i := findAtom(d.atoms, c)
	if i < 0 {
		return stateNil, false
	}
	next := d.next[s][i]
	return next, next != stateNil
}

// Atoms returns the partition of the alphabet the transitions are defined on,
// in ascending order.
func (d *DFA) Atoms() []Range {
	return append([]Range{}, d.atoms...)
}

// NextOnAtom returns the successor of s on the atom with index atom.
func (d *DFA) NextOnAtom(s StateID, atom int) (StateID, bool) {
	if !d.owns(s) || atom < 0 || atom >= len(d.atoms) {
		return stateNil, false
	}
	next := d.next[s][atom]
	return next, next != stateNil
}

type Transition struct {
	Class CharClass
	To    StateID
}

// Transitions returns the outgoing transitions of s, one per target state,
// ordered by target.
func (d *DFA) Transitions(s StateID) []Transition {
	if !d.owns(s) {
		return nil
	}
	ranges := map[StateID][]Range{}
	for i, next := range d.next[s] {
		if next == stateNil {
			continue
		}
		ranges[next] = append(ranges[next], d.atoms[i])
	}
	trans := make([]Transition, 0, len(ranges))
	for to, rs := range ranges {
		trans = append(trans, Transition{
			Class: NewCharClass(rs...),
			To:    to,
		})
	}
	sort.Slice(trans, func(i, j int) bool {
		return trans[i].To < trans[j].To
	})
	return trans
}

func (d *DFA) Accepts(input string) bool {
	s := d.start
	for _, c := range input {
		next, ok := d.Next(s, c)
		if !ok {
			return false
		}
		s = next
	}
	return d.accepting[s]
}

// Match is a match of a DFA in some input. Start and End are rune offsets;
// End is exclusive.
type Match struct {
	Start int
	End   int
	Tag   Tag
}

// LongestMatch runs the DFA from the beginning of input and returns the longest
// accepted prefix. The match may be empty when the start state accepts.
func (d *DFA) LongestMatch(input []rune) (Match, bool) {
	var m Match
	found := false
	s := d.start
	if d.accepting[s] {
		m = Match{Start: 0, End: 0, Tag: d.tags[s]}
		found = true
	}
	for i, c := range input {
		next, ok := d.Next(s, c)
		if !ok {
			break
		}
		s = next
		if d.accepting[s] {
			m = Match{Start: 0, End: i + 1, Tag: d.tags[s]}
			found = true
		}
	}
	return m, found
}

// Find returns the leftmost non-empty longest match starting at or after from.
func (d *DFA) Find(input []rune, from int) (Match, bool) {
	for start := from; start < len(input); start++ {
		m, ok := d.LongestMatch(input[start:])
		if !ok || m.End == 0 {
			continue
		}
		return Match{
			Start: start,
			End:   start + m.End,
			Tag:   m.Tag,
		}, true
	}
	return Match{}, false
}

// WriteDot writes the DFA in the Graphviz DOT format.
func (d *DFA) WriteDot(w io.Writer) error {
	var b strings.Builder
	writeDotHeader(&b)
	for s := range d.next {
		writeDotState(&b, StateID(s), d.accepting[s], d.tags[s])
	}
	fmt.Fprintf(&b, "start -> s%v\n", d.start)
	for s := range d.next {
		for _, t := range d.Transitions(StateID(s)) {
			fmt.Fprintf(&b, "s%v -> s%v [label=%q]\n", s, t.To, t.Class.String())
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// renumber returns a copy of d restricted to the states reachable from the
// start state, numbered in breadth-first order over ascending atoms. class maps
// every state of d to its representative, so renumber also merges states.
func (d *DFA) renumber(class func(StateID) StateID) *DFA {
	r := newDFA(d.atoms)
	old2New := map[StateID]StateID{}
	var order []StateID

	visit := func(s StateID) (StateID, bool) {
		rep := class(s)
		if n, ok := old2New[rep]; ok {
			return n, false
		}
		n := r.addState()
		old2New[rep] = n
		order = append(order, rep)
		r.accepting[n] = d.accepting[rep]
		r.tags[n] = d.tags[rep]
		return n, true
	}

	r.start, _ = visit(d.start)
	wl := worklist.New(r.start)
	wl.Drain(func(n StateID) error {
		rep := order[n]
		for i, next := range d.next[rep] {
			if next == stateNil || class(next) == stateNil {
				continue
			}
			m, added := visit(next)
			r.next[n][i] = m
			if added {
				wl.Push(m)
			}
		}
		return nil
	})
	return r
}
