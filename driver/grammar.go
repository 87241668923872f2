package driver

import (
	"fmt"

	"github.com/mirryi/isc/compressor"
	spec "github.com/mirryi/isc/spec/grammar"
)

// Grammar is the view of a compiled grammar a parser drives.
type Grammar interface {
	InitialState() int
	StartProduction() int

	// Action returns an entry of the ACTION table: 0 is an error, a negative
	// value a shift to the state of the negated value, and a positive value a
	// reduction by that production.
	Action(state int, terminal int) (int, error)

	// GoTo returns an entry of the GOTO table; 0 is empty.
	GoTo(state int, lhs int) (int, error)

	AlternativeSymbolCount(prod int) int
	LHS(prod int) int
	TerminalCount() int
	EOF() int
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

// NewGrammar reads the tables of g whether they are compressed or not.
func NewGrammar(g *spec.CompiledGrammar) (*grammarImpl, error) {
	if g.Syntactic == nil {
		return nil, fmt.Errorf("the compiled grammar has no syntactic specification")
	}
	syn := g.Syntactic
	if syn.Action == nil && syn.CompressedAction == nil {
		return nil, fmt.Errorf("the compiled grammar has no action table")
	}
	if syn.GoTo == nil && syn.CompressedGoTo == nil {
		return nil, fmt.Errorf("the compiled grammar has no goto table")
	}
	return &grammarImpl{
		g: g,
	}, nil
}

func (g *grammarImpl) InitialState() int {
	return g.g.Syntactic.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) (int, error) {
	syn := g.g.Syntactic
	if syn.Action == nil {
		return compressor.Lookup(syn.CompressedAction, state, terminal)
	}
	if state < 0 || state >= syn.StateCount || terminal < 0 || terminal >= syn.TerminalCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", state, terminal)
	}
	return syn.Action[state*syn.TerminalCount+terminal], nil
}

func (g *grammarImpl) GoTo(state int, lhs int) (int, error) {
	syn := g.g.Syntactic
	if syn.GoTo == nil {
		return compressor.Lookup(syn.CompressedGoTo, state, lhs)
	}
	if state < 0 || state >= syn.StateCount || lhs < 0 || lhs >= syn.NonTerminalCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", state, lhs)
	}
	return syn.GoTo[state*syn.NonTerminalCount+lhs], nil
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}
