package automaton

import (
	"bytes"
	"errors"
	"testing"
	"unicode"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharClass(t *testing.T) {
	c := NewCharClass(
		Range{From: 'x', To: 'z'},
		Range{From: 'a', To: 'c'},
		Range{From: 'd', To: 'f'},
		Range{From: 'b', To: 'b'},
		Range{From: 'q', To: 'p'},
	)
	assert.Equal(t, []Range{{From: 'a', To: 'f'}, {From: 'x', To: 'z'}}, c.Ranges())
	assert.True(t, c.Contains('e'))
	assert.False(t, c.Contains('g'))
	assert.False(t, c.Contains('p'))

	comp := c.Complement()
	assert.Equal(t, []Range{
		{From: 0, To: 'a' - 1},
		{From: 'g', To: 'w'},
		{From: '{', To: unicode.MaxRune},
	}, comp.Ranges())
	assert.True(t, comp.Complement().Equal(c))
	assert.True(t, c.Union(comp).Equal(AnyChar()))

	assert.True(t, CharClass{}.IsEmpty())
	assert.True(t, AnyChar().Complement().IsEmpty())
	assert.False(t, AnyCharExceptNewline().Contains('\n'))
	assert.True(t, AnyCharExceptNewline().Contains('\t'))

	sub := NewCharClass(Range{From: 'a', To: 'z'}).Subtract(NewCharClass(Range{From: 'd', To: 'w'}))
	assert.Equal(t, []Range{{From: 'a', To: 'c'}, {From: 'x', To: 'z'}}, sub.Ranges())
}

func TestPartition(t *testing.T) {
	atoms := partition([]CharClass{
		NewCharClass(Range{From: 'a', To: 'z'}),
		NewCharClass(Range{From: 'm', To: 'p'}),
		Single('0'),
	})
	assert.Equal(t, []Range{
		{From: '0', To: '0'},
		{From: 'a', To: 'l'},
		{From: 'm', To: 'p'},
		{From: 'q', To: 'z'},
	}, atoms)
	assert.Equal(t, 2, findAtom(atoms, 'n'))
	assert.Equal(t, -1, findAtom(atoms, '5'))
}

func TestNFA_InvalidState(t *testing.T) {
	n := NewNFA()
	s := n.AddState(true, NoTag)

	err := n.AddTransition(n.Start(), Symbols(Single('a')), s+10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	err = n.AddTransition(-1, Epsilon(), s)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = n.EpsilonClosure(s + 1)
	assert.True(t, errors.Is(err, ErrInvalidState))

	err = n.AddTransition(n.Start(), Symbols(CharClass{}), s)
	assert.Error(t, err)

	require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), s))
	// Duplicates are allowed.
	require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), s))
}

func TestNFA_EpsilonClosure(t *testing.T) {
	n := NewNFA()
	s1 := n.AddState(false, NoTag)
	s2 := n.AddState(false, NoTag)
	s3 := n.AddState(true, NoTag)
	s4 := n.AddState(false, NoTag)
	require.NoError(t, n.AddTransition(n.Start(), Epsilon(), s2))
	require.NoError(t, n.AddTransition(s2, Epsilon(), s1))
	require.NoError(t, n.AddTransition(s1, Epsilon(), n.Start()))
	require.NoError(t, n.AddTransition(s1, Symbols(Single('x')), s3))
	require.NoError(t, n.AddTransition(s3, Epsilon(), s4))

	closure, err := n.EpsilonClosure(n.Start())
	require.NoError(t, err)
	assert.Equal(t, []StateID{n.Start(), s1, s2}, closure)

	closure, err = n.EpsilonClosure(s3, s2)
	require.NoError(t, err)
	assert.Equal(t, []StateID{n.Start(), s1, s2, s3, s4}, closure)
}

// newABB builds an NFA for (a|b)*abb.
func newABB(t *testing.T) *NFA {
	n := NewNFA()
	s1 := n.AddState(false, NoTag)
	s2 := n.AddState(false, NoTag)
	s3 := n.AddState(true, NoTag)
	ab := NewCharClass(Range{From: 'a', To: 'b'})
	require.NoError(t, n.AddTransition(n.Start(), Symbols(ab), n.Start()))
	require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), s1))
	require.NoError(t, n.AddTransition(s1, Symbols(Single('b')), s2))
	require.NoError(t, n.AddTransition(s2, Symbols(Single('b')), s3))
	return n
}

func TestNFA_Determinize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.automaton")
	defer teardown()

	n := newABB(t)
	d := n.Determinize()
	assert.Equal(t, 4, d.StateCount())
	assert.Equal(t, []StateID{0}, d.Subset(d.Start()))

	for _, s := range []string{"abb", "aabb", "babb", "abababb"} {
		assert.True(t, n.Accepts(s), s)
		assert.True(t, d.Accepts(s), s)
	}
	for _, s := range []string{"", "ab", "abba", "abc", "bbb"} {
		assert.False(t, n.Accepts(s), s)
		assert.False(t, d.Accepts(s), s)
	}

	// At most one successor per code point.
	for s := 0; s < d.StateCount(); s++ {
		seen := map[rune]bool{}
		for _, tr := range d.Transitions(StateID(s)) {
			for _, r := range tr.Class.Ranges() {
				for c := r.From; c <= r.To; c++ {
					assert.False(t, seen[c])
					seen[c] = true
				}
			}
		}
	}

	again := newABB(t).Determinize()
	for s := 0; s < d.StateCount(); s++ {
		assert.Equal(t, d.Transitions(StateID(s)), again.Transitions(StateID(s)))
		assert.Equal(t, d.IsAccepting(StateID(s)), again.IsAccepting(StateID(s)))
	}
}

func TestNFA_DeterminizeTagPriority(t *testing.T) {
	// Two rules match "if": a keyword (tag 0) and an identifier (tag 1).
	n := NewNFA()
	kw1 := n.AddState(false, NoTag)
	kw2 := n.AddState(true, 0)
	id := n.AddState(true, 1)
	lower := NewCharClass(Range{From: 'a', To: 'z'})
	require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('i')), kw1))
	require.NoError(t, n.AddTransition(kw1, Symbols(Single('f')), kw2))
	require.NoError(t, n.AddTransition(n.Start(), Symbols(lower), id))
	require.NoError(t, n.AddTransition(id, Symbols(lower), id))

	d := n.Determinize()
	m, ok := d.LongestMatch([]rune("if"))
	require.True(t, ok)
	assert.Equal(t, Tag(0), m.Tag)
	m, ok = d.LongestMatch([]rune("iff"))
	require.True(t, ok)
	assert.Equal(t, Tag(1), m.Tag)
	assert.Equal(t, 3, m.End)

	min := d.Minimize()
	m, ok = min.LongestMatch([]rune("if"))
	require.True(t, ok)
	assert.Equal(t, Tag(0), m.Tag)

	assert.True(t, higherPriority(0, NoTag))
	assert.False(t, higherPriority(NoTag, 3))
	assert.True(t, higherPriority(1, 2))
}

func TestDFA_Minimize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.automaton")
	defer teardown()

	newBranches := func(tagA, tagB Tag) *NFA {
		n := NewNFA()
		a := n.AddState(true, tagA)
		b := n.AddState(true, tagB)
		require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), a))
		require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('b')), b))
		return n
	}

	tests := []struct {
		caption string
		nfa     *NFA
		states  int
		accept  []string
		reject  []string
	}{
		{
			caption: "equivalent accepting states are merged",
			nfa:     newBranches(NoTag, NoTag),
			states:  2,
			accept:  []string{"a", "b"},
			reject:  []string{"", "ab", "c"},
		},
		{
			caption: "accepting states with different tags stay apart",
			nfa:     newBranches(0, 1),
			states:  3,
			accept:  []string{"a", "b"},
			reject:  []string{"", "ba"},
		},
		{
			caption: "an already minimal DFA keeps its size",
			nfa:     newABB(t),
			states:  4,
			accept:  []string{"abb", "bbabb"},
			reject:  []string{"ab", "abbb"},
		},
		{
			caption: "states that cannot reach an accepting state are removed",
			nfa: func() *NFA {
				n := NewNFA()
				dead := n.AddState(false, NoTag)
				acc := n.AddState(true, NoTag)
				require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), dead))
				require.NoError(t, n.AddTransition(dead, Symbols(Single('a')), dead))
				require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('b')), acc))
				return n
			}(),
			states: 2,
			accept: []string{"b"},
			reject: []string{"a", "aa", "ba"},
		},
		{
			caption: "the empty language yields a single state",
			nfa: func() *NFA {
				n := NewNFA()
				s := n.AddState(false, NoTag)
				require.NoError(t, n.AddTransition(n.Start(), Symbols(Single('a')), s))
				require.NoError(t, n.AddTransition(s, Symbols(Single('a')), n.Start()))
				return n
			}(),
			states: 1,
			reject: []string{"", "a", "aa"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			d := tt.nfa.Determinize()
			min := d.Minimize()
			assert.Equal(t, tt.states, min.StateCount())
			for _, s := range tt.accept {
				assert.True(t, min.Accepts(s), s)
				assert.True(t, d.Accepts(s), s)
			}
			for _, s := range tt.reject {
				assert.False(t, min.Accepts(s), s)
				assert.False(t, d.Accepts(s), s)
			}
			assert.Equal(t, min.StateCount(), min.Minimize().StateCount())
			assert.Empty(t, min.Subset(min.Start()))
		})
	}
}

func TestDFA_Find(t *testing.T) {
	d := newABB(t).Determinize().Minimize()

	m, ok := d.Find([]rune("xxababbab"), 0)
	require.True(t, ok)
	assert.Equal(t, 2, m.Start)
	assert.Equal(t, 7, m.End)

	_, ok = d.Find([]rune("xxababbab"), 5)
	assert.False(t, ok)

	_, ok = d.LongestMatch([]rune("ab"))
	assert.False(t, ok)
}

func TestWriteDot(t *testing.T) {
	n := newABB(t)
	var b bytes.Buffer
	require.NoError(t, n.WriteDot(&b))
	assert.Contains(t, b.String(), "doublecircle")
	assert.Contains(t, b.String(), `s0 -> s1 [label="a"]`)

	b.Reset()
	require.NoError(t, n.Determinize().WriteDot(&b))
	assert.Contains(t, b.String(), "start -> s0")
}
