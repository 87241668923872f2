package grammar

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mirryi/isc/compressor"
	ierr "github.com/mirryi/isc/error"
	"github.com/mirryi/isc/grammar/symbol"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var methods = []Method{MethodSLR1, MethodLR1, MethodLALR1}

// S → if E then S | if E then S else S | other
// E → b
func newDanglingElseGrammar(t *testing.T) *Grammar {
	t.Helper()

	b := NewBuilder("dangling-else")
	b.LHS("S").T("if").N("E").T("then").N("S").End()
	b.LHS("S").T("if").N("E").T("then").N("S").T("else").N("S").End()
	b.LHS("S").T("other").End()
	b.LHS("E").T("b").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

// S → A | B
// A → x
// B → x
func newReduceReduceGrammar(t *testing.T) *Grammar {
	t.Helper()

	b := NewBuilder("reduce-reduce")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x").End()
	b.LHS("B").T("x").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name   string
		method Method
	}{
		{name: "slr1", method: MethodSLR1},
		{name: "SLR(1)", method: MethodSLR1},
		{name: "lr1", method: MethodLR1},
		{name: "LR(1)", method: MethodLR1},
		{name: "lalr1", method: MethodLALR1},
		{name: "LALR(1)", method: MethodLALR1},
	}
	for _, tt := range tests {
		m, err := ParseMethod(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.method, m)
	}

	_, err := ParseMethod("ll1")
	assert.Error(t, err)
}

func TestCompile_StateCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newExprGrammar(t)
	tests := []struct {
		method     Method
		stateCount int
	}{
		{method: MethodSLR1, stateCount: 12},
		{method: MethodLALR1, stateCount: 12},
		{method: MethodLR1, stateCount: 22},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			tab, err := Compile(g, WithMethod(tt.method))
			require.NoError(t, err)
			assert.Equal(t, tt.method, tab.Method())
			assert.Equal(t, tt.stateCount, tab.StateCount())
			assert.Empty(t, tab.Conflicts())
			assert.Nil(t, tab.Report())
		})
	}
}

func TestCompile_DefaultMethod(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newExprGrammar(t))
	require.NoError(t, err)
	assert.Equal(t, MethodLALR1, tab.Method())

	_, err = Compile(newExprGrammar(t), WithMethod("ll1"))
	assert.Error(t, err)
}

func TestParsingTable_ActionAndGoTo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newExprGrammar(t)
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			tab, err := Compile(g, WithMethod(m))
			require.NoError(t, err)
			initial := tab.InitialState()

			act, err := tab.Action(initial, "id")
			require.NoError(t, err)
			assert.Equal(t, ActionTypeShift, act.Type)
			idState := act.State

			act, err = tab.Action(initial, "+")
			require.NoError(t, err)
			assert.Equal(t, ActionTypeError, act.Type)

			// F → id is reduced on every terminal that can follow F outside
			// parentheses.
			for _, la := range []string{"+", "*", symbol.NameEOF} {
				act, err := tab.Action(idState, la)
				require.NoError(t, err)
				assert.Equal(t, Action{Type: ActionTypeReduce, Production: 5}, act, "on %v", la)
			}

			next, ok, err := tab.GoTo(initial, "E")
			require.NoError(t, err)
			require.True(t, ok)
			act, err = tab.Action(next, symbol.NameEOF)
			require.NoError(t, err)
			assert.Equal(t, ActionTypeAccept, act.Type)

			_, ok, err = tab.GoTo(idState, "E")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestParsingTable_InvalidArguments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newExprGrammar(t))
	require.NoError(t, err)

	_, err = tab.Action(tab.StateCount(), "id")
	assert.ErrorIs(t, err, ierr.ErrInvalidState)
	_, err = tab.Action(-1, "id")
	assert.ErrorIs(t, err, ierr.ErrInvalidState)
	_, _, err = tab.GoTo(tab.StateCount(), "E")
	assert.ErrorIs(t, err, ierr.ErrInvalidState)

	_, err = tab.Action(0, "E")
	assert.ErrorIs(t, err, SemErrUndefinedSym)
	_, _, err = tab.GoTo(0, "id")
	assert.ErrorIs(t, err, SemErrUndefinedSym)
	_, _, err = tab.GoTo(0, "E'")
	assert.ErrorIs(t, err, SemErrUndefinedSym)
}

func TestCompile_ShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newDanglingElseGrammar(t)
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			tab, err := Compile(g, WithMethod(m))
			require.NoError(t, err)

			cs := tab.Conflicts()
			require.NotEmpty(t, cs)
			if m != MethodLR1 {
				assert.Len(t, cs, 1)
			}
			for _, c := range cs {
				assert.Equal(t, ConflictKindShiftReduce, c.Kind)
				assert.Equal(t, "else", c.Symbol)
				assert.Equal(t, []int{0}, c.Productions)
				assert.Equal(t, ResolvedByShift, c.ResolvedBy)
				assert.Equal(t, Action{Type: ActionTypeShift, State: c.NextState}, c.Adopted)
				assert.Contains(t, c.Items, itemText(m, "S → if E then S ・else S"))

				act, err := tab.Action(c.State, "else")
				require.NoError(t, err)
				assert.Equal(t, c.Adopted, act)
			}
		})
	}
}

// itemText appends the look-ahead symbols the kernel items of the
// dangling-else grammar carry under LR(1) and LALR(1).
func itemText(m Method, item string) string {
	if m == MethodSLR1 {
		return item
	}
	return item + " [else, <eof>]"
}

func TestCompile_ReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newReduceReduceGrammar(t)
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			tab, err := Compile(g, WithMethod(m))
			require.NoError(t, err)

			cs := tab.Conflicts()
			require.Len(t, cs, 1)
			c := cs[0]
			assert.Equal(t, ConflictKindReduceReduce, c.Kind)
			assert.Equal(t, symbol.NameEOF, c.Symbol)
			assert.Equal(t, []int{2, 3}, c.Productions)
			assert.Equal(t, ResolvedByProdOrder, c.ResolvedBy)
			assert.Equal(t, Action{Type: ActionTypeReduce, Production: 2}, c.Adopted)
			assert.True(t, strings.HasPrefix(c.String(), "reduce/reduce conflict"))

			act, err := tab.Action(c.State, symbol.NameEOF)
			require.NoError(t, err)
			assert.Equal(t, c.Adopted, act)
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			var prev []byte
			for i := 0; i < 5; i++ {
				tab, err := Compile(newDanglingElseGrammar(t), WithMethod(m), EnableReporting())
				require.NoError(t, err)
				cg, err := tab.Export(Compress(compressor.CompressionLevelMin))
				require.NoError(t, err)

				var b bytes.Buffer
				require.NoError(t, tab.WriteDot(&b))
				for _, c := range tab.Conflicts() {
					b.WriteString(c.String())
				}
				for _, v := range cg.Syntactic.Action {
					b.WriteByte(byte(v))
				}
				if prev != nil {
					assert.Equal(t, string(prev), b.String())
				}
				prev = b.Bytes()
			}
		})
	}
}

func TestParsingTable_Automaton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newExprGrammar(t))
	require.NoError(t, err)

	states := tab.Automaton()
	require.Len(t, states, tab.StateCount())
	initial := states[tab.InitialState()]
	assert.Equal(t, []string{"E' → ・E [<eof>]"}, initial.Kernel)
	assert.Len(t, initial.Closure, 7)

	var syms []string
	for _, tr := range initial.Transitions {
		syms = append(syms, tr.Symbol)
	}
	assert.Equal(t, []string{"E", "T", "F", "id", "("}, syms)

	accepting := 0
	for _, s := range states {
		if s.Accept {
			accepting++
		}
	}
	assert.Equal(t, 1, accepting)
}

func TestParsingTable_Report(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newDanglingElseGrammar(t), EnableReporting())
	require.NoError(t, err)
	report := tab.Report()
	require.NotNil(t, report)
	assert.Equal(t, "dangling-else", report.Name)
	assert.Equal(t, string(MethodLALR1), report.Method)
	require.Len(t, report.States, tab.StateCount())

	// Productions are numbered from 2; 1 is the augmented production.
	require.Len(t, report.Productions, 6)
	assert.Nil(t, report.Productions[0])
	assert.Equal(t, []int{-2}, report.Productions[1].RHS)

	srCount := 0
	accepting := 0
	for _, s := range report.States {
		srCount += len(s.SRConflict)
		assert.Empty(t, s.RRConflict)
		if s.Accept {
			accepting++
		}
	}
	assert.Equal(t, 1, srCount)
	assert.Equal(t, 1, accepting)
}

func TestParsingTable_WriteDot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newDanglingElseGrammar(t), WithMethod(MethodSLR1))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, tab.WriteDot(&b))
	dot := b.String()
	assert.True(t, strings.HasPrefix(dot, "digraph {"))
	assert.Contains(t, dot, "s000 [fillcolor=white")
	assert.Contains(t, dot, "fillcolor=lightpink")
	assert.Contains(t, dot, `s000 -> s001 [label="S"]`)
	assert.Contains(t, dot, `S' → ・S`)
}

func TestParsingTable_Export(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	tab, err := Compile(newExprGrammar(t))
	require.NoError(t, err)

	plain, err := tab.Export(Compress(compressor.CompressionLevelMin))
	require.NoError(t, err)
	assert.Equal(t, "expr", plain.Name)
	assert.Equal(t, string(MethodLALR1), plain.Method)

	syn := plain.Syntactic
	assert.Equal(t, tab.StateCount(), syn.StateCount)
	assert.Equal(t, 1, syn.StartProduction)
	assert.Equal(t, 1, syn.EOFSymbol)
	assert.Equal(t, []string{"", symbol.NameEOF, "id", "+", "*", "(", ")"}, syn.Terminals)
	assert.Equal(t, []string{"", "E'", "E", "T", "F"}, syn.NonTerminals)
	assert.Equal(t, []int{0, 1, 2, 2, 3, 3, 4, 4}, syn.LHSSymbols)
	assert.Equal(t, []int{0, 1, 3, 1, 3, 1, 3, 1}, syn.AlternativeSymbolCounts)
	require.Len(t, syn.Action, syn.StateCount*syn.TerminalCount)
	require.Len(t, syn.GoTo, syn.StateCount*syn.NonTerminalCount)

	lex := plain.Lexical
	assert.Equal(t, []string{"", "id", "ws", "+", "*", "(", ")"}, lex.KindNames)
	assert.Equal(t, []int{0, 2, 0, 3, 4, 5, 6}, lex.KindToTerminal)

	for _, lv := range []int{compressor.CompressionLevelUnique, compressor.CompressionLevelMax} {
		comp, err := tab.Export(Compress(lv))
		require.NoError(t, err)
		require.Nil(t, comp.Syntactic.Action)
		require.NotNil(t, comp.Syntactic.CompressedAction)
		for s := 0; s < syn.StateCount; s++ {
			for a := 0; a < syn.TerminalCount; a++ {
				v, err := compressor.Lookup(comp.Syntactic.CompressedAction, s, a)
				require.NoError(t, err)
				assert.Equal(t, syn.Action[s*syn.TerminalCount+a], v)
			}
			for n := 0; n < syn.NonTerminalCount; n++ {
				v, err := compressor.Lookup(comp.Syntactic.CompressedGoTo, s, n)
				require.NoError(t, err)
				assert.Equal(t, syn.GoTo[s*syn.NonTerminalCount+n], v)
			}
		}
	}

	_, err = tab.Export(Compress(3))
	assert.Error(t, err)
}

func TestParsingTable_ExportLexicalError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	b := NewBuilder("broken")
	b.Terminal("a", "(a")
	b.LHS("S").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	tab, err := Compile(g)
	require.NoError(t, err)

	_, err = tab.Export()
	require.Error(t, err)
	var specErrs ierr.SpecErrors
	assert.True(t, errors.As(err, &specErrs))
}

// S → L = R | R
// L → * R | id
// R → L
func newAssignmentGrammar(t *testing.T) *Grammar {
	t.Helper()

	b := NewBuilder("assignment")
	b.LHS("S").N("L").T("=").N("R").End()
	b.LHS("S").N("R").End()
	b.LHS("L").T("*").N("R").End()
	b.LHS("L").T("id").End()
	b.LHS("R").N("L").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

// S → a A d | b B d | a B e | b A e
// A → c
// B → c
func newLALRMergeGrammar(t *testing.T) *Grammar {
	t.Helper()

	b := NewBuilder("lalr-merge")
	b.LHS("S").T("a").N("A").T("d").End()
	b.LHS("S").T("b").N("B").T("d").End()
	b.LHS("S").T("a").N("B").T("e").End()
	b.LHS("S").T("b").N("A").T("e").End()
	b.LHS("A").T("c").End()
	b.LHS("B").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestCompile_FollowSetsAreCoarserThanLookAheads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newAssignmentGrammar(t)

	tab, err := Compile(g, WithMethod(MethodSLR1))
	require.NoError(t, err)
	cs := tab.Conflicts()
	require.Len(t, cs, 1)
	assert.Equal(t, ConflictKindShiftReduce, cs[0].Kind)
	assert.Equal(t, "=", cs[0].Symbol)
	// R → L
	assert.Equal(t, []int{4}, cs[0].Productions)

	for _, m := range []Method{MethodLR1, MethodLALR1} {
		tab, err := Compile(g, WithMethod(m))
		require.NoError(t, err)
		assert.Empty(t, tab.Conflicts(), "method: %v", m)
	}
}

func TestCompile_MergingCoresIntroducesConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	g := newLALRMergeGrammar(t)

	lr1, err := Compile(g, WithMethod(MethodLR1))
	require.NoError(t, err)
	assert.Empty(t, lr1.Conflicts())

	lalr1, err := Compile(g, WithMethod(MethodLALR1))
	require.NoError(t, err)
	assert.Less(t, lalr1.StateCount(), lr1.StateCount())

	cs := lalr1.Conflicts()
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Equal(t, ConflictKindReduceReduce, c.Kind)
		// A → c and B → c
		assert.Equal(t, []int{4, 5}, c.Productions)
		assert.Equal(t, Action{Type: ActionTypeReduce, Production: 4}, c.Adopted)
		assert.Equal(t, cs[0].State, c.State)
	}
	assert.Equal(t, "d", cs[0].Symbol)
	assert.Equal(t, "e", cs[1].Symbol)
}

func TestCompile_ConflictWithAugmentedProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "isc.grammar")
	defer teardown()

	// S → A
	// A → S | a
	b := NewBuilder("cyclic")
	b.LHS("S").N("A").End()
	b.LHS("A").N("S").End()
	b.LHS("A").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			tab, err := Compile(g, WithMethod(m), EnableReporting())
			require.NoError(t, err)

			cs := tab.Conflicts()
			require.Len(t, cs, 1)
			c := cs[0]
			assert.Equal(t, ConflictKindReduceReduce, c.Kind)
			assert.Equal(t, symbol.NameEOF, c.Symbol)
			assert.Equal(t, []int{AugmentedProduction, 1}, c.Productions)
			assert.Equal(t, ActionTypeAccept, c.Adopted.Type)

			var rr int
			for _, s := range tab.Report().States {
				for _, r := range s.RRConflict {
					rr++
					assert.Equal(t, 1, r.Production1)
					assert.Equal(t, 3, r.Production2)
					assert.Equal(t, 1, r.AdoptedProduction)
				}
			}
			assert.Equal(t, 1, rr)
		})
	}
}
