package grammar

import (
	"fmt"
	"strings"

	"github.com/mirryi/isc/grammar/symbol"
)

type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
	productionNumMin   = productionNum(2)
)

func (n productionNum) Int() int {
	return int(n)
}

// index converts a production number into the 0-based index of the production
// in the grammar description. The augmented production has no index.
func (n productionNum) index() int {
	return int(n - productionNumMin)
}

type production struct {
	num productionNum
	lhs symbol.Symbol
	rhs []symbol.Symbol
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	return &production{
		lhs: lhs,
		rhs: rhs,
	}, nil
}

func (p *production) isEmpty() bool {
	return len(p.rhs) == 0
}

// key identifies a production by its symbols.
func (p *production) key() string {
	var b strings.Builder
	b.Write(p.lhs.Byte())
	for _, sym := range p.rhs {
		b.Write(sym.Byte())
	}
	return b.String()
}

// productionSet numbers productions in the order they are appended. The
// production of the augmented start symbol always gets productionNumStart.
type productionSet struct {
	prods     []*production
	lhs2Prods map[symbol.Symbol][]*production
	key2Prod  map[string]*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		prods:     []*production{nil, nil},
		lhs2Prods: map[symbol.Symbol][]*production{},
		key2Prod:  map[string]*production{},
	}
}

// append reports false when an equal production is already in the set.
func (ps *productionSet) append(prod *production) bool {
	key := prod.key()
	if _, ok := ps.key2Prod[key]; ok {
		return false
	}
	if prod.lhs.IsStart() {
		prod.num = productionNumStart
		ps.prods[productionNumStart] = prod
	} else {
		prod.num = productionNum(len(ps.prods))
		ps.prods = append(ps.prods, prod)
	}
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.key2Prod[key] = prod
	return true
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num == productionNumNil || num.Int() >= len(ps.prods) || ps.prods[num] == nil {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) []*production {
	return ps.lhs2Prods[lhs]
}

// all returns the productions in ascending order of their numbers, the
// augmented production first.
func (ps *productionSet) all() []*production {
	prods := make([]*production, 0, len(ps.prods))
	for _, p := range ps.prods {
		if p != nil {
			prods = append(prods, p)
		}
	}
	return prods
}

// Production is a production of a grammar as users see it.
type Production struct {
	// Index is the position of the production in the grammar description.
	Index int
	LHS   string
	RHS   []string
}

func (p *Production) String() string {
	if len(p.RHS) == 0 {
		return fmt.Sprintf("%v → ε", p.LHS)
	}
	return fmt.Sprintf("%v → %v", p.LHS, strings.Join(p.RHS, " "))
}
