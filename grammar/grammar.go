// Package grammar models context-free grammars and generates LR parsing tables
// for them.
//
// New validates a grammar description and computes the FIRST and FOLLOW sets
// of its symbols once. Compile builds the canonical collection of item sets
// for one of three methods and lays it out as ACTION and GOTO tables:
//
//   - SLR(1) builds the LR(0) collection and reduces on FOLLOW of the LHS.
//   - LR(1) builds the canonical LR(1) collection. The number of its states can
//     grow exponentially with the size of the grammar, and so can the time and
//     memory Compile needs for it.
//   - LALR(1) merges the states of the canonical LR(1) collection that share
//     their LR(0) core, which gives as many states as SLR(1).
//
// Conflicts never make Compile fail. A shift/reduce conflict is resolved in
// favor of the shift and a reduce/reduce conflict in favor of the production
// listed first in the description. Every resolution is recorded and can be
// read with ParsingTable.Conflicts.
package grammar

import (
	"fmt"
	"strings"

	ierr "github.com/mirryi/isc/error"
	"github.com/mirryi/isc/grammar/symbol"
	"github.com/mirryi/isc/lexical"
	spec "github.com/mirryi/isc/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("isc.grammar")
}

// Grammar is a validated context-free grammar, augmented with a production
// S' → S for its start symbol S. A Grammar is immutable.
type Grammar struct {
	name      string
	symTab    *symbol.Reader
	prods     *productionSet
	start     symbol.Symbol
	terminals []*spec.TerminalDescription
	first     *firstSet
	follow    *followSet
}

// New validates desc and builds a grammar from it. An ill-formed description
// yields an *error.GrammarError, or an error.SpecErrors of them when there are
// several problems.
//
// When desc declares no non-terminals, the LHS symbols of the productions are
// taken as the non-terminals.
func New(desc *spec.Description) (*Grammar, error) {
	if len(desc.Productions) == 0 {
		return nil, &ierr.GrammarError{
			Cause: SemErrNoProduction,
		}
	}

	var errs ierr.SpecErrors
	raise := func(cause error, sym string, prod string) {
		errs = append(errs, &ierr.GrammarError{
			Cause:      cause,
			Symbol:     sym,
			Production: prod,
		})
	}

	terms := map[string]*spec.TerminalDescription{}
	var termOrder []*spec.TerminalDescription
	for _, t := range desc.Terminals {
		switch {
		case t.Name == "":
			raise(SemErrEmptyName, "", "")
		case t.Name == symbol.NameEOF:
			raise(SemErrReservedName, t.Name, "")
		default:
			if _, ok := terms[t.Name]; ok {
				raise(SemErrDuplicateTerminal, t.Name, "")
				continue
			}
			terms[t.Name] = t
			termOrder = append(termOrder, t)
		}
	}

	nonTermNames := desc.NonTerminals
	if len(nonTermNames) == 0 {
		seen := map[string]struct{}{}
		for _, p := range desc.Productions {
			if _, ok := terms[p.LHS]; ok {
				continue
			}
			if _, ok := seen[p.LHS]; ok {
				continue
			}
			seen[p.LHS] = struct{}{}
			nonTermNames = append(nonTermNames, p.LHS)
		}
	}
	nonTerms := map[string]struct{}{}
	var nonTermOrder []string
	for _, n := range nonTermNames {
		switch {
		case n == "":
			raise(SemErrEmptyName, "", "")
		case n == symbol.NameEOF:
			raise(SemErrReservedName, n, "")
		default:
			if _, ok := terms[n]; ok {
				raise(SemErrDuplicateName, n, "")
				continue
			}
			if _, ok := nonTerms[n]; ok {
				raise(SemErrDuplicateNonTerminal, n, "")
				continue
			}
			nonTerms[n] = struct{}{}
			nonTermOrder = append(nonTermOrder, n)
		}
	}

	startOK := false
	if desc.Start == "" {
		raise(SemErrNoStart, "", "")
	} else if _, ok := nonTerms[desc.Start]; !ok {
		raise(SemErrUndefinedStart, desc.Start, "")
	} else {
		startOK = true
	}

	symTab := symbol.NewTable()
	w := symTab.Writer()
	if startOK {
		if _, err := w.RegisterStart(augmentedName(desc.Start, terms, nonTerms)); err != nil {
			return nil, err
		}
	}
	for _, n := range nonTermOrder {
		if _, err := w.RegisterNonTerminal(n); err != nil {
			return nil, err
		}
	}
	for _, t := range termOrder {
		if t.Skip {
			continue
		}
		if _, err := w.RegisterTerminal(t.Name); err != nil {
			return nil, err
		}
	}
	r := symTab.Reader()

	prods := newProductionSet()
	for _, p := range desc.Productions {
		text := productionText(p)
		if _, ok := terms[p.LHS]; ok {
			raise(SemErrLHSNotNonTerminal, p.LHS, text)
			continue
		}
		lhs, ok := r.ToSymbol(p.LHS)
		if !ok || !lhs.IsNonTerminal() {
			raise(SemErrUndefinedSym, p.LHS, text)
			continue
		}
		rhs := make([]symbol.Symbol, 0, len(p.RHS))
		valid := true
		for _, name := range p.RHS {
			if t, ok := terms[name]; ok && t.Skip {
				raise(SemErrSkippedTermInRHS, name, text)
				valid = false
				continue
			}
			sym, ok := r.ToSymbol(name)
			if !ok || sym.IsEOF() || sym.IsStart() {
				raise(SemErrUndefinedSym, name, text)
				valid = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !valid {
			continue
		}
		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			raise(SemErrDuplicateProduction, "", text)
		}
	}

	for _, n := range nonTermOrder {
		sym, _ := r.ToSymbol(n)
		if len(prods.findByLHS(sym)) == 0 {
			raise(SemErrNonTermNoProduction, n, "")
		}
	}

	if len(errs) == 1 {
		return nil, errs[0]
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	start, _ := r.ToSymbol(desc.Start)
	augProd, err := newProduction(symbol.Start, []symbol.Symbol{start})
	if err != nil {
		return nil, err
	}
	prods.append(augProd)

	first, err := genFirstSet(prods)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(prods, first)
	if err != nil {
		return nil, err
	}

	tracer().Debugf("grammar %v: %v terminals, %v non-terminals, %v productions",
		desc.Name, len(r.Terminals())-1, len(nonTermOrder), len(desc.Productions))

	return &Grammar{
		name:      desc.Name,
		symTab:    r,
		prods:     prods,
		start:     start,
		terminals: termOrder,
		first:     first,
		follow:    follow,
	}, nil
}

// augmentedName primes the start symbol until the name is unused.
func augmentedName(start string, terms map[string]*spec.TerminalDescription, nonTerms map[string]struct{}) string {
	name := start + "'"
	for {
		_, isTerm := terms[name]
		_, isNonTerm := nonTerms[name]
		if !isTerm && !isNonTerm {
			return name
		}
		name += "'"
	}
}

func productionText(p *spec.ProductionDescription) string {
	return (&Production{
		LHS: p.LHS,
		RHS: p.RHS,
	}).String()
}

func (g *Grammar) Name() string {
	return g.name
}

// Start returns the start symbol given in the description.
func (g *Grammar) Start() string {
	name, _ := g.symTab.ToName(g.start)
	return name
}

// Terminals returns the terminals that can appear in productions, in
// declaration order.
func (g *Grammar) Terminals() []string {
	names := g.symTab.TerminalNames()
	return names[2:]
}

// NonTerminals returns the non-terminals in declaration order, without the
// augmented start symbol.
func (g *Grammar) NonTerminals() []string {
	names := g.symTab.NonTerminalNames()
	return names[2:]
}

// Productions returns the productions in declaration order, without the
// augmented production.
func (g *Grammar) Productions() []*Production {
	all := g.prods.all()
	prods := make([]*Production, 0, len(all)-1)
	for _, p := range all {
		if p.num == productionNumStart {
			continue
		}
		prods = append(prods, g.toProduction(p))
	}
	return prods
}

func (g *Grammar) toProduction(p *production) *Production {
	lhs, _ := g.symTab.ToName(p.lhs)
	rhs := make([]string, len(p.rhs))
	for i, sym := range p.rhs {
		rhs[i], _ = g.symTab.ToName(sym)
	}
	return &Production{
		Index: p.num.index(),
		LHS:   lhs,
		RHS:   rhs,
	}
}

// First returns FIRST of the sequence of symbols names: the terminals that can
// begin a string derived from it, and whether it derives the empty string.
// FIRST of the empty sequence is empty and nullable.
func (g *Grammar) First(names ...string) ([]string, bool, error) {
	syms, err := g.toSymbols(names)
	if err != nil {
		return nil, false, err
	}
	e, err := g.first.findBySeq(syms)
	if err != nil {
		return nil, false, err
	}
	return g.toNames(e.sortedSymbols()), e.empty, nil
}

// Follow returns FOLLOW of the non-terminal name. The end of input appears as
// symbol.NameEOF.
func (g *Grammar) Follow(name string) ([]string, error) {
	sym, ok := g.symTab.ToSymbol(name)
	if !ok || !sym.IsNonTerminal() || sym.IsStart() {
		return nil, &ierr.GrammarError{
			Cause:  SemErrUndefinedSym,
			Symbol: name,
		}
	}
	e, err := g.follow.find(sym)
	if err != nil {
		return nil, err
	}
	return g.toNames(e.sortedSymbols()), nil
}

func (g *Grammar) toSymbols(names []string) ([]symbol.Symbol, error) {
	syms := make([]symbol.Symbol, len(names))
	for i, name := range names {
		sym, ok := g.symTab.ToSymbol(name)
		if !ok || sym.IsStart() || sym.IsEOF() {
			return nil, &ierr.GrammarError{
				Cause:  SemErrUndefinedSym,
				Symbol: name,
			}
		}
		syms[i] = sym
	}
	return syms, nil
}

func (g *Grammar) toNames(syms []symbol.Symbol) []string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i], _ = g.symTab.ToName(sym)
	}
	return names
}

// LexSpec returns the lexical specification recognizing the terminals. Kinds
// are listed in declaration order, so a terminal declared earlier wins when
// two terminals match a lexeme of the same length.
func (g *Grammar) LexSpec() *lexical.LexSpec {
	entries := make([]*lexical.LexEntry, len(g.terminals))
	for i, t := range g.terminals {
		entries[i] = &lexical.LexEntry{
			Kind:    t.Name,
			Pattern: t.TerminalPattern(),
			Skip:    t.Skip,
		}
	}
	return &lexical.LexSpec{
		Entries: entries,
	}
}

// Builder assembles a grammar description production by production.
//
//	b := NewBuilder("expr")
//	b.LHS("E").N("E").T("+").N("T").End()
//	b.LHS("E").N("T").End()
//
// Terminals used with T are declared on first use and match their name
// literally unless declared beforehand with Terminal. The start symbol is the
// LHS of the first production unless set with Start.
type Builder struct {
	desc     *spec.Description
	terms    map[string]*spec.TerminalDescription
	nonTerms map[string]struct{}
}

func NewBuilder(name string) *Builder {
	return &Builder{
		desc: &spec.Description{
			Name: name,
		},
		terms:    map[string]*spec.TerminalDescription{},
		nonTerms: map[string]struct{}{},
	}
}

// Terminal declares a terminal recognized by pattern.
func (b *Builder) Terminal(name, pattern string) *Builder {
	b.declareTerminal(name, pattern, false)
	return b
}

// Skip declares a terminal the lexer drops, like white spaces.
func (b *Builder) Skip(name, pattern string) *Builder {
	b.declareTerminal(name, pattern, true)
	return b
}

func (b *Builder) declareTerminal(name, pattern string, skip bool) {
	if t, ok := b.terms[name]; ok {
		if pattern != "" {
			t.Pattern = pattern
		}
		t.Skip = t.Skip || skip
		return
	}
	t := &spec.TerminalDescription{
		Name:    name,
		Pattern: pattern,
		Skip:    skip,
	}
	b.terms[name] = t
	b.desc.Terminals = append(b.desc.Terminals, t)
}

func (b *Builder) declareNonTerminal(name string) {
	if _, ok := b.nonTerms[name]; ok {
		return
	}
	b.nonTerms[name] = struct{}{}
	b.desc.NonTerminals = append(b.desc.NonTerminals, name)
}

func (b *Builder) Start(name string) *Builder {
	b.desc.Start = name
	return b
}

// LHS begins a production.
func (b *Builder) LHS(name string) *RuleBuilder {
	b.declareNonTerminal(name)
	if b.desc.Start == "" {
		b.desc.Start = name
	}
	return &RuleBuilder{
		b: b,
		prod: &spec.ProductionDescription{
			LHS: name,
			RHS: []string{},
		},
	}
}

// Description returns the description built so far.
func (b *Builder) Description() *spec.Description {
	return b.desc
}

// Grammar validates the description built so far; see New.
func (b *Builder) Grammar() (*Grammar, error) {
	return New(b.desc)
}

type RuleBuilder struct {
	b    *Builder
	prod *spec.ProductionDescription
}

// N appends a non-terminal to the RHS.
func (r *RuleBuilder) N(name string) *RuleBuilder {
	r.b.declareNonTerminal(name)
	r.prod.RHS = append(r.prod.RHS, name)
	return r
}

// T appends a terminal to the RHS.
func (r *RuleBuilder) T(name string) *RuleBuilder {
	r.b.declareTerminal(name, "", false)
	r.prod.RHS = append(r.prod.RHS, name)
	return r
}

// End finishes the production.
func (r *RuleBuilder) End() *Builder {
	r.b.desc.Productions = append(r.b.desc.Productions, r.prod)
	return r.b
}

// Epsilon finishes the production with an empty RHS. Symbols appended before
// are discarded.
func (r *RuleBuilder) Epsilon() *Builder {
	r.prod.RHS = []string{}
	return r.End()
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.Productions() {
		fmt.Fprintf(&b, "%v: %v\n", p.Index, p)
	}
	return b.String()
}
