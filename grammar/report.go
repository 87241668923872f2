package grammar

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mirryi/isc/grammar/symbol"
	spec "github.com/mirryi/isc/spec/grammar"
)

// genReport describes the symbols, productions, and states of the table.
// Productions are identified by their numbers; see spec.Production.
func (t *ParsingTable) genReport() (*spec.Report, error) {
	symTab := t.gram.symTab

	var terms []*spec.Terminal
	{
		termSyms := symTab.Terminals()
		terms = make([]*spec.Terminal, len(termSyms)+1)
		descs := map[string]*spec.TerminalDescription{}
		for _, d := range t.gram.terminals {
			descs[d.Name] = d
		}
		for _, sym := range termSyms {
			name, ok := symTab.ToName(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}
			term := &spec.Terminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
			if d, ok := descs[name]; ok {
				term.Pattern = d.TerminalPattern()
			}
			terms[sym.Num()] = term
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := symTab.NonTerminals()
		nonTerms = make([]*spec.NonTerminal, len(nonTermSyms)+1)
		for _, sym := range nonTermSyms {
			name, ok := symTab.ToName(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}
			nonTerms[sym.Num()] = &spec.NonTerminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
		}
	}

	var prods []*spec.Production
	{
		ps := t.gram.prods.all()
		prods = make([]*spec.Production, len(ps)+1)
		for _, p := range ps {
			prods[p.num.Int()] = &spec.Production{
				Number: p.num.Int(),
				LHS:    p.lhs.Num().Int(),
				RHS:    reportRHS(p.rhs),
			}
		}
	}

	srConflicts := map[int][]*Conflict{}
	rrConflicts := map[int][]*Conflict{}
	for _, c := range t.conflicts {
		switch c.Kind {
		case ConflictKindShiftReduce:
			srConflicts[c.State] = append(srConflicts[c.State], c)
		case ConflictKindReduceReduce:
			rrConflicts[c.State] = append(rrConflicts[c.State], c)
		}
	}

	states := make([]*spec.State, len(t.automaton.states))
	for _, s := range t.automaton.states {
		kernel := make([]*spec.Item, len(s.items))
		for i, item := range s.items {
			kernel[i] = &spec.Item{
				Production: item.prod.num.Int(),
				Dot:        item.dot,
			}
			if item.lookAhead != nil {
				for _, a := range item.lookAhead.symbols() {
					kernel[i].LookAhead = append(kernel[i].LookAhead, a.Num().Int())
				}
			}
		}

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
		accept := false
	TERMINALS_LOOP:
		for _, sym := range symTab.Terminals() {
			ty, next, prod := t.readAction(s.num.Int(), sym.Num().Int()).describe()
			switch ty {
			case ActionTypeShift:
				shift = append(shift, &spec.Transition{
					Symbol: sym.Num().Int(),
					State:  next.Int(),
				})
			case ActionTypeAccept:
				accept = true
			case ActionTypeReduce:
				for _, r := range reduce {
					if r.Production == prod.Int() {
						r.LookAhead = append(r.LookAhead, sym.Num().Int())
						continue TERMINALS_LOOP
					}
				}
				reduce = append(reduce, &spec.Reduce{
					LookAhead:  []int{sym.Num().Int()},
					Production: prod.Int(),
				})
			}
		}
		for _, sym := range symTab.NonTerminals() {
			if sym.IsStart() {
				continue
			}
			next, ok := t.readGoTo(s.num.Int(), sym.Num().Int()).describe()
			if !ok {
				continue
			}
			goTo = append(goTo, &spec.Transition{
				Symbol: sym.Num().Int(),
				State:  next.Int(),
			})
		}
		sort.Slice(reduce, func(i, j int) bool {
			return reduce[i].Production < reduce[j].Production
		})

		sr := []*spec.SRConflict{}
		for _, c := range srConflicts[s.num.Int()] {
			sym, _ := symTab.ToSymbol(c.Symbol)
			next := c.NextState
			sr = append(sr, &spec.SRConflict{
				Symbol:       sym.Num().Int(),
				State:        c.NextState,
				Production:   c.Productions[0] + productionNumMin.Int(),
				AdoptedState: &next,
				ResolvedBy:   c.ResolvedBy.Int(),
			})
		}
		rr := []*spec.RRConflict{}
		for _, c := range rrConflicts[s.num.Int()] {
			sym, _ := symTab.ToSymbol(c.Symbol)
			rr = append(rr, &spec.RRConflict{
				Symbol:            sym.Num().Int(),
				Production1:       c.Productions[0] + productionNumMin.Int(),
				Production2:       c.Productions[1] + productionNumMin.Int(),
				AdoptedProduction: adoptedProductionNum(c.Adopted),
				ResolvedBy:        c.ResolvedBy.Int(),
			})
		}

		states[s.num] = &spec.State{
			Number:     s.num.Int(),
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			Accept:     accept,
			SRConflict: sr,
			RRConflict: rr,
		}
	}

	return &spec.Report{
		Name:         t.gram.name,
		Method:       string(t.method),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}

func adoptedProductionNum(a Action) int {
	if a.Type == ActionTypeAccept {
		return productionNumStart.Int()
	}
	return a.Production + productionNumMin.Int()
}

func reportRHS(rhs []symbol.Symbol) []int {
	nums := make([]int, len(rhs))
	for i, sym := range rhs {
		if sym.IsTerminal() {
			nums[i] = sym.Num().Int()
		} else {
			nums[i] = sym.Num().Int() * -1
		}
	}
	return nums
}

// State is a state of the automaton a table was built from.
type State struct {
	Number int

	// Kernel and Closure are items like "E → E ・+ T [<eof>, +]". Look-ahead
	// symbols are shown for LR(1) and LALR(1) states only.
	Kernel  []string
	Closure []string

	// Transitions are ordered by symbol, non-terminals first.
	Transitions []*Transition
	Reductions  []*Reduction
	Accept      bool
}

type Transition struct {
	Symbol string
	State  int
}

type Reduction struct {
	Production int
	LookAhead  []string
}

// Automaton returns the states of the automaton the table was built from,
// ordered by number.
func (t *ParsingTable) Automaton() []*State {
	symTab := t.gram.symTab
	states := make([]*State, len(t.automaton.states))
	for _, s := range t.automaton.states {
		st := &State{
			Number: s.num.Int(),
		}
		for _, item := range s.items {
			st.Kernel = append(st.Kernel, item.text(symTab))
		}
		for _, item := range s.closure {
			st.Closure = append(st.Closure, item.text(symTab))
		}
		for _, sym := range s.nextSymbols() {
			name, _ := symTab.ToName(sym)
			st.Transitions = append(st.Transitions, &Transition{
				Symbol: name,
				State:  s.next[sym].Int(),
			})
		}
		for _, r := range s.reductions {
			if r.prod.num == productionNumStart {
				st.Accept = true
				continue
			}
			red := &Reduction{
				Production: r.prod.num.index(),
			}
			if r.lookAhead != nil {
				for _, a := range r.lookAhead.symbols() {
					name, _ := symTab.ToName(a)
					red.LookAhead = append(red.LookAhead, name)
				}
			}
			st.Reductions = append(st.Reductions, red)
		}
		states[s.num] = st
	}
	return states
}

// WriteDot writes the automaton in the Graphviz DOT format. States with a
// conflict are filled in red and accepting states in gray.
func (t *ParsingTable) WriteDot(w io.Writer) error {
	conflicting := map[int]bool{}
	for _, c := range t.conflicts {
		conflicting[c.State] = true
	}

	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	states := t.Automaton()
	for _, s := range states {
		color := "white"
		switch {
		case conflicting[s.Number]:
			color = "lightpink"
		case s.Accept:
			color = "lightgray"
		}
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n", s.Number, color, s.Number, dotItems(s.Kernel))
	}
	for _, s := range states {
		for _, tr := range s.Transitions {
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", s.Number, tr.State, dotEscape(tr.Symbol))
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func dotItems(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = dotEscape(item)
	}
	return strings.Join(escaped, "\\l") + "\\l"
}

var dotReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}
