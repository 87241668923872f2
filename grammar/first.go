package grammar

import (
	"fmt"

	"github.com/mirryi/isc/grammar/symbol"
	"github.com/mirryi/isc/worklist"
)

type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) sortedSymbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.symbols))
	for sym := range e.symbols {
		syms = append(syms, sym)
	}
	symbol.Sort(syms)
	return syms
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

// findBySeq returns FIRST of a sequence of symbols.
func (fst *firstSet) findBySeq(seq []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}
		e, ok := fst.set[sym]
		if !ok {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// find returns FIRST of the part of the RHS of prod that follows the head-th
// symbol, inclusive.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if head > len(prod.rhs) {
		return nil, fmt.Errorf("head is out of range; production: %v, head: %v", prod.num, head)
	}
	return fst.findBySeq(prod.rhs[head:])
}

func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	all := prods.all()
	for _, prod := range all {
		if _, ok := fst.set[prod.lhs]; !ok {
			fst.set[prod.lhs] = newFirstEntry()
		}
	}

	err := worklist.Until(func() (bool, error) {
		more := false
		for _, prod := range all {
			changed, err := genProdFirstEntry(fst, fst.set[prod.lhs], prod)
			if err != nil {
				return false, err
			}
			if changed {
				more = true
			}
		}
		return more, nil
	})
	if err != nil {
		return nil, err
	}
	return fst, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e, ok := fst.set[sym]
		if !ok {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
