package grammar

import (
	"fmt"

	"github.com/mirryi/isc/grammar/symbol"
)

// genLALR1Automaton merges the states of the canonical LR(1) collection that
// have the same LR(0) core, uniting their look-ahead symbols. A merged state
// takes the number of the first state of its core in the canonical
// collection, counting merged states only.
func genLALR1Automaton(lr1 *lrAutomaton) (*lrAutomaton, error) {
	core2Num := map[kernelID]stateNum{}
	old2New := make([]stateNum, len(lr1.states))
	var merged []*lrState
	for _, s := range lr1.states {
		num, ok := core2Num[s.coreID]
		if !ok {
			num = stateNum(len(merged))
			core2Num[s.coreID] = num
			merged = append(merged, &lrState{
				kernel:     &kernel{items: cloneItems(s.items)},
				num:        num,
				closure:    cloneItems(s.closure),
				next:       map[symbol.Symbol]stateNum{},
				reductions: cloneReductions(s.reductions),
			})
			old2New[s.num] = num
			continue
		}
		old2New[s.num] = num

		m := merged[num]
		if err := mergeItems(m.items, s.items); err != nil {
			return nil, err
		}
		if err := mergeItems(m.closure, s.closure); err != nil {
			return nil, err
		}
		if len(m.reductions) != len(s.reductions) {
			return nil, fmt.Errorf("states of the same core have different reductions; state: %v", s.num)
		}
		for i, r := range s.reductions {
			m.reductions[i].lookAhead.merge(r.lookAhead)
		}
	}

	for _, s := range lr1.states {
		m := merged[old2New[s.num]]
		for sym, next := range s.next {
			m.next[sym] = old2New[next]
		}
	}

	for _, m := range merged {
		k, err := newKernel(m.items)
		if err != nil {
			return nil, err
		}
		m.kernel = k
	}

	tracer().Debugf("LALR(1): merged %v canonical LR(1) states into %v", len(lr1.states), len(merged))

	return &lrAutomaton{
		initialState: old2New[lr1.initialState],
		states:       merged,
	}, nil
}

func cloneItems(items []*lrItem) []*lrItem {
	cp := make([]*lrItem, len(items))
	for i, item := range items {
		var la *lookAhead
		if item.lookAhead != nil {
			la = item.lookAhead.clone()
		}
		cp[i] = &lrItem{
			itemCore:  item.itemCore,
			prod:      item.prod,
			lookAhead: la,
		}
	}
	return cp
}

func cloneReductions(rs []*reduction) []*reduction {
	cp := make([]*reduction, len(rs))
	for i, r := range rs {
		cp[i] = &reduction{
			prod:      r.prod,
			lookAhead: r.lookAhead.clone(),
		}
	}
	return cp
}

// mergeItems unites the look-ahead symbols of two item sets of the same core.
// Both sets are ordered by production and dot.
func mergeItems(dst, src []*lrItem) error {
	if len(dst) != len(src) {
		return fmt.Errorf("item sets of the same core have different sizes: %v, %v", len(dst), len(src))
	}
	for i, item := range src {
		if dst[i].itemCore != item.itemCore {
			return fmt.Errorf("item sets of the same core have different items: %v, %v", dst[i].itemCore, item.itemCore)
		}
		dst[i].lookAhead.merge(item.lookAhead)
	}
	return nil
}
