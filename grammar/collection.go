package grammar

import (
	"fmt"

	"github.com/mirryi/isc/grammar/symbol"
	"github.com/mirryi/isc/worklist"
)

// collectionBuilder builds the canonical collection of item sets. With
// lookAhead it builds LR(1) item sets, otherwise LR(0) ones.
type collectionBuilder struct {
	prods     *productionSet
	first     *firstSet
	lookAhead bool
}

// build numbers states in breadth-first order, visiting the successors of a
// state in ascending order of their symbols, so the numbering is stable.
func (b *collectionBuilder) build() (*lrAutomaton, error) {
	augProd, ok := b.prods.findByNum(productionNumStart)
	if !ok {
		return nil, fmt.Errorf("the augmented production was not found")
	}
	var la *lookAhead
	if b.lookAhead {
		la = newLookAhead(symbol.EOF)
	}
	initialItem, err := newLRItem(augProd, 0, la)
	if err != nil {
		return nil, err
	}
	k, err := newKernel([]*lrItem{initialItem})
	if err != nil {
		return nil, err
	}

	automaton := &lrAutomaton{
		initialState: stateNumInitial,
		states: []*lrState{
			{
				kernel: k,
				num:    stateNumInitial,
			},
		},
	}
	knownKernels := map[kernelID]stateNum{
		k.id: stateNumInitial,
	}

	wl := worklist.New(stateNumInitial)
	err = wl.Drain(func(num stateNum) error {
		state := automaton.states[num]
		closure, err := b.closure(state.kernel)
		if err != nil {
			return err
		}
		state.closure = closure

		syms, neighbours, err := b.neighbours(closure)
		if err != nil {
			return err
		}
		state.next = map[symbol.Symbol]stateNum{}
		for _, sym := range syms {
			nk := neighbours[sym]
			next, known := knownKernels[nk.id]
			if !known {
				next = stateNum(len(automaton.states))
				knownKernels[nk.id] = next
				automaton.states = append(automaton.states, &lrState{
					kernel: nk,
					num:    next,
				})
				wl.Push(next)
			}
			state.next[sym] = next
		}

		for _, item := range closure {
			if !item.reducible() {
				continue
			}
			r := &reduction{
				prod: item.prod,
			}
			if item.lookAhead != nil {
				r.lookAhead = item.lookAhead.clone()
			}
			state.reductions = append(state.reductions, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tracer().Debugf("canonical collection (look-ahead: %v): %v states", b.lookAhead, len(automaton.states))
	return automaton, nil
}

// closure returns CLOSURE of a kernel ordered by production and dot. For
// LR(1) items [A → α・B β, a] it adds [B →・γ, b] for every b in FIRST(β a).
func (b *collectionBuilder) closure(k *kernel) ([]*lrItem, error) {
	items := map[itemCore]*lrItem{}
	wl := worklist.New[itemCore]()
	for _, item := range k.items {
		var la *lookAhead
		if item.lookAhead != nil {
			la = item.lookAhead.clone()
		}
		cp, err := newLRItem(item.prod, item.dot, la)
		if err != nil {
			return nil, err
		}
		items[cp.itemCore] = cp
		wl.Push(cp.itemCore)
	}

	err := wl.Drain(func(core itemCore) error {
		item := items[core]
		sym := item.dottedSymbol()
		if !sym.IsNonTerminal() {
			return nil
		}

		var la *lookAhead
		if b.lookAhead {
			fst, err := b.first.find(item.prod, item.dot+1)
			if err != nil {
				return err
			}
			la = newLookAhead(fst.sortedSymbols()...)
			if fst.empty {
				la.merge(item.lookAhead)
			}
		}

		for _, prod := range b.prods.findByLHS(sym) {
			c := itemCore{
				prod: prod.num,
				dot:  0,
			}
			if known, ok := items[c]; ok {
				if la != nil && known.lookAhead.merge(la) {
					wl.Push(c)
				}
				continue
			}
			var itemLA *lookAhead
			if la != nil {
				itemLA = la.clone()
			}
			newItem, err := newLRItem(prod, 0, itemLA)
			if err != nil {
				return err
			}
			items[c] = newItem
			wl.Push(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	closure := make([]*lrItem, 0, len(items))
	for _, item := range items {
		closure = append(closure, item)
	}
	sortItems(closure)
	return closure, nil
}

// neighbours computes the kernels of GOTO(I, X) for every symbol X after a
// dot in the item set I, and returns the symbols in ascending order.
func (b *collectionBuilder) neighbours(closure []*lrItem) ([]symbol.Symbol, map[symbol.Symbol]*kernel, error) {
	kItems := map[symbol.Symbol][]*lrItem{}
	for _, item := range closure {
		sym := item.dottedSymbol()
		if sym.IsNil() {
			continue
		}
		var la *lookAhead
		if item.lookAhead != nil {
			la = item.lookAhead.clone()
		}
		kItem, err := newLRItem(item.prod, item.dot+1, la)
		if err != nil {
			return nil, nil, err
		}
		kItems[sym] = append(kItems[sym], kItem)
	}

	syms := make([]symbol.Symbol, 0, len(kItems))
	for sym := range kItems {
		syms = append(syms, sym)
	}
	symbol.Sort(syms)

	kernels := map[symbol.Symbol]*kernel{}
	for _, sym := range syms {
		k, err := newKernel(kItems[sym])
		if err != nil {
			return nil, nil, err
		}
		kernels[sym] = k
	}
	return syms, kernels, nil
}

func genLR0Automaton(prods *productionSet) (*lrAutomaton, error) {
	b := &collectionBuilder{
		prods: prods,
	}
	return b.build()
}

func genLR1Automaton(prods *productionSet, first *firstSet) (*lrAutomaton, error) {
	b := &collectionBuilder{
		prods:     prods,
		first:     first,
		lookAhead: true,
	}
	return b.build()
}
