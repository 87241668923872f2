package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/mirryi/isc/grammar/symbol"
)

// itemCore is an LR(0) item, a production with a dot in its RHS.
//
//	E → E + T
//
//	Dot | Dotted Symbol | Item
//	----+---------------+------------
//	0   | E             | E →・E + T
//	1   | +             | E → E・+ T
//	2   | T             | E → E +・T
//	3   | Nil           | E → E + T・
type itemCore struct {
	prod productionNum
	dot  int
}

func lessCore(a, b itemCore) bool {
	if a.prod != b.prod {
		return a.prod < b.prod
	}
	return a.dot < b.dot
}

func symbolComparator(a, b interface{}) int {
	return utils.UInt16Comparator(uint16(a.(symbol.Symbol)), uint16(b.(symbol.Symbol)))
}

// lookAhead is an ordered set of terminals.
type lookAhead struct {
	set *treeset.Set
}

func newLookAhead(syms ...symbol.Symbol) *lookAhead {
	la := &lookAhead{
		set: treeset.NewWith(symbolComparator),
	}
	for _, sym := range syms {
		la.set.Add(sym)
	}
	return la
}

func (la *lookAhead) add(sym symbol.Symbol) bool {
	if la.set.Contains(sym) {
		return false
	}
	la.set.Add(sym)
	return true
}

func (la *lookAhead) merge(other *lookAhead) bool {
	changed := false
	for _, v := range other.set.Values() {
		if la.add(v.(symbol.Symbol)) {
			changed = true
		}
	}
	return changed
}

func (la *lookAhead) clone() *lookAhead {
	return newLookAhead(la.symbols()...)
}

func (la *lookAhead) symbols() []symbol.Symbol {
	vs := la.set.Values()
	syms := make([]symbol.Symbol, len(vs))
	for i, v := range vs {
		syms[i] = v.(symbol.Symbol)
	}
	return syms
}

// lrItem is an item of an item set. lookAhead is nil in LR(0) item sets.
type lrItem struct {
	itemCore
	prod      *production
	lookAhead *lookAhead
}

func newLRItem(prod *production, dot int, la *lookAhead) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > len(prod.rhs) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(prod.rhs))
	}
	return &lrItem{
		itemCore: itemCore{
			prod: prod.num,
			dot:  dot,
		},
		prod:      prod,
		lookAhead: la,
	}, nil
}

// dottedSymbol returns the symbol right after the dot, or symbol.Nil.
func (item *lrItem) dottedSymbol() symbol.Symbol {
	if item.dot >= len(item.prod.rhs) {
		return symbol.Nil
	}
	return item.prod.rhs[item.dot]
}

func (item *lrItem) reducible() bool {
	return item.dot == len(item.prod.rhs)
}

// isKernel reports whether the item can be part of a kernel: S' →・S or any
// item whose dot is not at the left end.
func (item *lrItem) isKernel() bool {
	return item.dot > 0 || item.prod.lhs.IsStart()
}

func (item *lrItem) text(symTab *symbol.Reader) string {
	var b strings.Builder
	lhs, _ := symTab.ToName(item.prod.lhs)
	fmt.Fprintf(&b, "%v →", lhs)
	for i, sym := range item.prod.rhs {
		if i == item.dot {
			b.WriteString(" ・")
		} else {
			b.WriteString(" ")
		}
		name, _ := symTab.ToName(sym)
		b.WriteString(name)
	}
	if item.reducible() {
		b.WriteString(" ・")
	}
	if item.lookAhead != nil {
		var las []string
		for _, sym := range item.lookAhead.symbols() {
			name, _ := symTab.ToName(sym)
			las = append(las, name)
		}
		fmt.Fprintf(&b, " [%v]", strings.Join(las, ", "))
	}
	return b.String()
}

func sortItems(items []*lrItem) {
	sort.Slice(items, func(i, j int) bool {
		return lessCore(items[i].itemCore, items[j].itemCore)
	})
}

// kernelKey is the structure hashed into the identity of a kernel.
type kernelKey struct {
	Items []kernelItemKey
}

type kernelItemKey struct {
	Production int
	Dot        int
	LookAhead  []int
}

type kernelID string

// kernel is the set of kernel items that identifies an item set. Two kernels
// with the same coreID differ in their look-ahead symbols only.
type kernel struct {
	id     kernelID
	coreID kernelID
	items  []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}
	sorted := make([]*lrItem, 0, len(items))
	seen := map[itemCore]*lrItem{}
	for _, item := range items {
		if !item.isKernel() {
			return nil, fmt.Errorf("not a kernel item: %v", item.itemCore)
		}
		if dup, ok := seen[item.itemCore]; ok {
			if dup.lookAhead != nil && item.lookAhead != nil {
				dup.lookAhead.merge(item.lookAhead)
			}
			continue
		}
		seen[item.itemCore] = item
		sorted = append(sorted, item)
	}
	sortItems(sorted)

	coreKey := kernelKey{}
	key := kernelKey{}
	for _, item := range sorted {
		k := kernelItemKey{
			Production: item.prod.num.Int(),
			Dot:        item.dot,
		}
		coreKey.Items = append(coreKey.Items, k)
		if item.lookAhead != nil {
			for _, sym := range item.lookAhead.symbols() {
				k.LookAhead = append(k.LookAhead, int(sym))
			}
		}
		key.Items = append(key.Items, k)
	}
	coreID, err := structhash.Hash(coreKey, 1)
	if err != nil {
		return nil, err
	}
	id, err := structhash.Hash(key, 1)
	if err != nil {
		return nil, err
	}
	return &kernel{
		id:     kernelID(id),
		coreID: kernelID(coreID),
		items:  sorted,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

// reduction is a production a state can reduce by, with the terminals that
// trigger it.
type reduction struct {
	prod      *production
	lookAhead *lookAhead
}

type lrState struct {
	*kernel
	num stateNum

	// closure is the whole item set, kernel items included, ordered by
	// production and dot.
	closure []*lrItem

	next       map[symbol.Symbol]stateNum
	reductions []*reduction
}

// nextSymbols returns the symbols with a transition, in ascending order.
func (s *lrState) nextSymbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(s.next))
	for sym := range s.next {
		syms = append(syms, sym)
	}
	symbol.Sort(syms)
	return syms
}

type lrAutomaton struct {
	initialState stateNum
	states       []*lrState
}
