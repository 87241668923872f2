package grammar

import (
	"fmt"
	"strings"

	ierr "github.com/mirryi/isc/error"
	"github.com/mirryi/isc/grammar/symbol"
	spec "github.com/mirryi/isc/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// Action is an entry of the ACTION table. State is the target of a shift and
// Production the index of the production a reduction reduces by.
type Action struct {
	Type       ActionType
	State      int
	Production int
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("s%v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("r%v", a.Production)
	case ActionTypeAccept:
		return "acc"
	}
	return ""
}

// actionEntry encodes an action in one integer: 0 is an error, a negative
// value a shift to the state of the negated value, and a positive value a
// reduction by the production of that number. Reducing by the augmented
// production means accepting.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	if productionNum(e) == productionNumStart {
		return ActionTypeAccept, stateNumInitial, productionNumStart
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

func (e actionEntry) action() Action {
	ty, s, p := e.describe()
	switch ty {
	case ActionTypeShift:
		return Action{
			Type:  ty,
			State: s.Int(),
		}
	case ActionTypeReduce:
		return Action{
			Type:       ty,
			Production: p.index(),
		}
	}
	return Action{
		Type: ty,
	}
}

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

// newGoToEntry stores state numbers as they are. 0 can mean empty because
// no transition leads back to the initial state.
func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (stateNum, bool) {
	if e == goToEntryEmpty {
		return stateNumInitial, false
	}
	return stateNum(e), true
}

type ConflictKind string

// AugmentedProduction is the index of the augmented production S' → S. It
// only shows up in reduce/reduce conflicts, where reducing by it means
// accepting.
const AugmentedProduction = -1

const (
	ConflictKindShiftReduce  = ConflictKind("shift/reduce")
	ConflictKindReduceReduce = ConflictKind("reduce/reduce")
)

type Resolution int

func (m Resolution) Int() int {
	return int(m)
}

const (
	ResolvedByShift     Resolution = 3
	ResolvedByProdOrder Resolution = 4
)

// Conflict records two actions competing for one cell of the ACTION table and
// the action that was adopted.
type Conflict struct {
	Kind   ConflictKind
	State  int
	Symbol string

	// NextState is the target of the shift of a shift/reduce conflict.
	NextState int

	// Productions are the indices of the productions involved in ascending
	// order: one for a shift/reduce conflict, two for a reduce/reduce one.
	// The augmented production appears as AugmentedProduction.
	Productions []int

	Adopted    Action
	ResolvedBy Resolution

	// Items are the kernel items of the state.
	Items []string
}

func (c *Conflict) String() string {
	var b strings.Builder
	switch c.Kind {
	case ConflictKindShiftReduce:
		fmt.Fprintf(&b, "%v conflict in state %v on %v: shift to %v or reduce by %v; adopted %v",
			c.Kind, c.State, c.Symbol, c.NextState, c.Productions[0], c.Adopted)
	case ConflictKindReduceReduce:
		fmt.Fprintf(&b, "%v conflict in state %v on %v: reduce by %v or %v; adopted %v",
			c.Kind, c.State, c.Symbol, c.Productions[0], c.Productions[1], c.Adopted)
	}
	return b.String()
}

// ParsingTable holds the ACTION and GOTO tables of a grammar. Rows are states.
// The columns of ACTION are terminals and those of GOTO non-terminals, both
// indexed by symbol number. A ParsingTable is immutable.
type ParsingTable struct {
	method           Method
	gram             *Grammar
	automaton        *lrAutomaton
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int
	initialState     stateNum
	conflicts        []*Conflict
	report           *spec.Report
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) readGoTo(row int, col int) goToEntry {
	return t.goToTable[row*t.nonTerminalCount+col]
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, nextState stateNum) {
	t.goToTable[state.Int()*t.nonTerminalCount+sym.Num().Int()] = newGoToEntry(nextState)
}

func (t *ParsingTable) Method() Method {
	return t.method
}

func (t *ParsingTable) Grammar() *Grammar {
	return t.gram
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) InitialState() int {
	return t.initialState.Int()
}

// Conflicts returns the resolved conflicts ordered by state, then by the
// reduction they arise from, then by look-ahead symbol.
func (t *ParsingTable) Conflicts() []*Conflict {
	return append([]*Conflict{}, t.conflicts...)
}

func (t *ParsingTable) checkState(state int) error {
	if state < 0 || state >= t.stateCount {
		return &ierr.InvalidStateError{
			State: state,
			Count: t.stateCount,
		}
	}
	return nil
}

// Action returns ACTION[state, terminal]. The end of input is named
// symbol.NameEOF.
func (t *ParsingTable) Action(state int, terminal string) (Action, error) {
	if err := t.checkState(state); err != nil {
		return Action{}, err
	}
	sym, ok := t.gram.symTab.ToSymbol(terminal)
	if !ok || !sym.IsTerminal() {
		return Action{}, &ierr.GrammarError{
			Cause:  SemErrUndefinedSym,
			Symbol: terminal,
		}
	}
	return t.readAction(state, sym.Num().Int()).action(), nil
}

// GoTo returns GOTO[state, nonTerminal]; ok is false for an empty entry.
func (t *ParsingTable) GoTo(state int, nonTerminal string) (next int, ok bool, err error) {
	if err := t.checkState(state); err != nil {
		return 0, false, err
	}
	sym, found := t.gram.symTab.ToSymbol(nonTerminal)
	if !found || !sym.IsNonTerminal() || sym.IsStart() {
		return 0, false, &ierr.GrammarError{
			Cause:  SemErrUndefinedSym,
			Symbol: nonTerminal,
		}
	}
	s, ok := t.readGoTo(state, sym.Num().Int()).describe()
	return s.Int(), ok, nil
}

// Report returns the description of the states and conflicts, or nil unless
// the table was compiled with EnableReporting.
func (t *ParsingTable) Report() *spec.Report {
	return t.report
}

type lrTableBuilder struct {
	automaton *lrAutomaton
	gram      *Grammar
	conflicts []*Conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	termCount := len(b.gram.symTab.TerminalNames())
	nonTermCount := len(b.gram.symTab.NonTerminalNames())
	stateCount := len(b.automaton.states)
	ptab := &ParsingTable{
		gram:             b.gram,
		automaton:        b.automaton,
		actionTable:      make([]actionEntry, stateCount*termCount),
		goToTable:        make([]goToEntry, stateCount*nonTermCount),
		stateCount:       stateCount,
		terminalCount:    termCount,
		nonTerminalCount: nonTermCount,
		initialState:     b.automaton.initialState,
	}

	for _, state := range b.automaton.states {
		for _, sym := range state.nextSymbols() {
			next := state.next[sym]
			if sym.IsTerminal() {
				ptab.writeAction(state.num.Int(), sym.Num().Int(), newShiftActionEntry(next))
			} else {
				ptab.writeGoTo(state.num, sym, next)
			}
		}
		for _, r := range state.reductions {
			if r.lookAhead == nil {
				return nil, fmt.Errorf("a reduction has no look-ahead symbols; state: %v, production: %v", state.num, r.prod.num)
			}
			for _, a := range r.lookAhead.symbols() {
				b.writeReduceAction(ptab, state, a, r.prod.num)
			}
		}
	}
	ptab.conflicts = b.conflicts

	return ptab, nil
}

// writeReduceAction writes a reduce action. Shifts are written first, so a
// filled cell means a conflict. A shift/reduce conflict keeps the shift, and
// a reduce/reduce conflict keeps the production that comes first; reductions
// are written in ascending order of their productions, so that is the one
// already in the cell.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state *lrState, sym symbol.Symbol, prod productionNum) {
	act := tab.readAction(state.num.Int(), sym.Num().Int())
	if act.isEmpty() {
		tab.writeAction(state.num.Int(), sym.Num().Int(), newReduceActionEntry(prod))
		return
	}

	name, _ := b.gram.symTab.ToName(sym)
	c := &Conflict{
		State:   state.num.Int(),
		Symbol:  name,
		Adopted: act.action(),
		Items:   b.kernelTexts(state),
	}
	ty, s, p := act.describe()
	switch ty {
	case ActionTypeShift:
		c.Kind = ConflictKindShiftReduce
		c.NextState = s.Int()
		c.Productions = []int{conflictIndex(prod)}
		c.ResolvedBy = ResolvedByShift
	default:
		if p == prod {
			return
		}
		c.Kind = ConflictKindReduceReduce
		c.Productions = []int{conflictIndex(p), conflictIndex(prod)}
		c.ResolvedBy = ResolvedByProdOrder
		if prod < p {
			c.Productions = []int{conflictIndex(prod), conflictIndex(p)}
			tab.writeAction(state.num.Int(), sym.Num().Int(), newReduceActionEntry(prod))
			c.Adopted = newReduceActionEntry(prod).action()
		}
	}
	tracer().Infof("%v", c)
	b.conflicts = append(b.conflicts, c)
}

func conflictIndex(prod productionNum) int {
	if prod == productionNumStart {
		return AugmentedProduction
	}
	return prod.index()
}

func (b *lrTableBuilder) kernelTexts(state *lrState) []string {
	texts := make([]string, len(state.items))
	for i, item := range state.items {
		texts[i] = item.text(b.gram.symTab)
	}
	return texts
}
