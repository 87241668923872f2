package automaton

import (
	"fmt"
	"strings"

	"github.com/mirryi/isc/worklist"
)

// Minimize returns the minimal DFA recognizing the same language with the same
// tags. States that cannot reach an accepting state are removed first; the
// remaining states are merged by partition refinement, starting from the
// partition by acceptance and tag. A missing transition counts as a transition
// into a class of its own.
func (d *DFA) Minimize() *DFA {
	live := d.liveStates()
	if !live[d.start] {
		empty := newDFA(nil)
		empty.start = empty.addState()
		return empty
	}

	class := make([]int, len(d.next))
	{
		keys := map[string]int{}
		for s := range d.next {
			if !live[s] {
				class[s] = -1
				continue
			}
			key := fmt.Sprintf("%v/%v", d.accepting[s], d.tags[s])
			id, ok := keys[key]
			if !ok {
				id = len(keys)
				keys[key] = id
			}
			class[s] = id
		}
	}

	classCount := countClasses(class)
	worklist.Until(func() (bool, error) {
		next := d.refine(class, live)
		n := countClasses(next)
		changed := n != classCount
		class = next
		classCount = n
		return changed, nil
	})

	reps := map[int]StateID{}
	for s, c := range class {
		if c < 0 {
			continue
		}
		if _, ok := reps[c]; !ok {
			reps[c] = StateID(s)
		}
	}
	minimal := d.renumber(func(s StateID) StateID {
		c := class[s]
		if c < 0 {
			return stateNil
		}
		return reps[c]
	})

	tracer().Debugf("minimized a DFA with %v states into %v states", d.StateCount(), minimal.StateCount())

	return minimal
}

// liveStates marks the states from which an accepting state is reachable.
func (d *DFA) liveStates() []bool {
	rev := make([][]StateID, len(d.next))
	for s, row := range d.next {
		for _, next := range row {
			if next == stateNil {
				continue
			}
			rev[next] = append(rev[next], StateID(s))
		}
	}

	live := make([]bool, len(d.next))
	wl := worklist.New[StateID]()
	for s, acc := range d.accepting {
		if acc {
			live[s] = true
			wl.Push(StateID(s))
		}
	}
	wl.Drain(func(s StateID) error {
		for _, prev := range rev[s] {
			if live[prev] {
				continue
			}
			live[prev] = true
			wl.Push(prev)
		}
		return nil
	})
	return live
}

// refine splits every class by the classes its members' successors belong to.
func (d *DFA) refine(class []int, live []bool) []int {
	next := make([]int, len(class))
	keys := map[string]int{}
	for s, row := range d.next {
		if !live[s] {
			next[s] = -1
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%v", class[s])
		for _, t := range row {
			c := -1
			if t != stateNil {
				c = class[t]
			}
			fmt.Fprintf(&b, ",%v", c)
		}
		key := b.String()
		id, ok := keys[key]
		if !ok {
			id = len(keys)
			keys[key] = id
		}
		next[s] = id
	}
	return next
}

func countClasses(class []int) int {
	seen := worklist.Seen[int]{}
	for _, c := range class {
		if c >= 0 {
			seen.Add(c)
		}
	}
	return len(seen)
}
