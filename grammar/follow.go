package grammar

import (
	"fmt"

	"github.com/mirryi/isc/grammar/symbol"
	"github.com/mirryi/isc/worklist"
)

// followEntry holds FOLLOW of a non-terminal. The end of input is stored as
// symbol.EOF like any other terminal.
type followEntry struct {
	symbols map[symbol.Symbol]struct{}
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false
	if fst != nil {
		for sym := range fst.symbols {
			if e.add(sym) {
				changed = true
			}
		}
	}
	if flw != nil {
		for sym := range flw.symbols {
			if e.add(sym) {
				changed = true
			}
		}
	}
	return changed
}

func (e *followEntry) sortedSymbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	symbol.Sort(syms)
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	all := prods.all()
	for _, prod := range all {
		if _, ok := flw.set[prod.lhs]; !ok {
			flw.set[prod.lhs] = newFollowEntry()
		}
	}
	flw.set[symbol.Start].add(symbol.EOF)

	// FOLLOW(A) grows by FIRST(β) for every B → α A β, and by FOLLOW(B) when β
	// is nullable.
	err := worklist.Until(func() (bool, error) {
		more := false
		for _, prod := range all {
			for i, sym := range prod.rhs {
				if !sym.IsNonTerminal() {
					continue
				}
				acc, err := flw.find(sym)
				if err != nil {
					return false, err
				}
				fst, err := first.find(prod, i+1)
				if err != nil {
					return false, err
				}
				if acc.merge(fst, nil) {
					more = true
				}
				if !fst.empty {
					continue
				}
				lhsFlw, err := flw.find(prod.lhs)
				if err != nil {
					return false, err
				}
				if acc.merge(nil, lhsFlw) {
					more = true
				}
			}
		}
		return more, nil
	})
	if err != nil {
		return nil, err
	}
	return flw, nil
}
