// Package driver runs the LR parsing algorithm over the tables of a compiled
// grammar.
package driver

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("isc.driver")
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v: %q; expected: %v", e.Row, e.Col, e.Message, e.Token.Lexeme(), e.ExpectedTerminals)
}

type ParserOption func(p *Parser) error

// MakeCST makes the parser build a concrete syntax tree; see Parser.CST.
func MakeCST() ParserOption {
	return func(p *Parser) error {
		p.cstActs = NewCSTActionSet(p.gram)
		return nil
	}
}

// SemanticAction makes the parser call semAct.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// Parser is a table-driven LR parser. It stops at the first syntax error.
type Parser struct {
	toks       TokenStream
	gram       Grammar
	stateStack []int
	semAct     SemanticActionSet
	cstActs    *SyntaxTreeActionSet
	reductions []int
	synErrs    []*SyntaxError
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks: toks,
		gram: gram,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse parses the token stream. Syntax errors are not returned but
// collected; see SyntaxErrors.
func (p *Parser) Parse() error {
	p.push(p.gram.InitialState())
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		act, err := p.lookupAction(tok)
		if err != nil {
			return err
		}
		switch {
		case act < 0: // Shift
			p.push(act * -1)
			p.actOnShift(tok)

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case act == p.gram.StartProduction(): // Accept
			p.actOnAccepting()
			return nil
		case act > 0: // Reduce
			if err := p.reduce(act); err != nil {
				return err
			}
			p.actOnReduction(act)
		default: // Error
			expected, err := p.searchLookahead(p.top())
			if err != nil {
				return err
			}
			row, col := tok.Position()
			msg := "unexpected token"
			if tok.Invalid() {
				msg = "invalid token"
			} else if tok.EOF() {
				msg = "unexpected end of input"
			}
			synErr := &SyntaxError{
				Row:               row,
				Col:               col,
				Message:           msg,
				Token:             tok,
				ExpectedTerminals: expected,
			}
			tracer().Debugf("%v", synErr)
			p.synErrs = append(p.synErrs, synErr)
			p.actOnError(tok)
			return nil
		}
	}
}

func (p *Parser) lookupAction(tok VToken) (int, error) {
	term := tok.TerminalID()
	if tok.EOF() {
		term = p.gram.EOF()
	}
	return p.gram.Action(p.top(), term)
}

func (p *Parser) reduce(prodNum int) error {
	lhs := p.gram.LHS(prodNum)
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.pop(n)
	nextState, err := p.gram.GoTo(p.top(), lhs)
	if err != nil {
		return err
	}
	if nextState == 0 {
		return fmt.Errorf("a goto entry is empty; state: %v, non-terminal: %v", p.top(), p.gram.NonTerminal(lhs))
	}
	p.push(nextState)
	p.reductions = append(p.reductions, prodNum-p.gram.StartProduction()-1)
	return nil
}

func (p *Parser) actOnShift(tok VToken) {
	if p.cstActs != nil {
		p.cstActs.Shift(tok)
	}
	if p.semAct != nil {
		p.semAct.Shift(tok)
	}
}

func (p *Parser) actOnReduction(prodNum int) {
	if p.cstActs != nil {
		p.cstActs.Reduce(prodNum)
	}
	if p.semAct != nil {
		p.semAct.Reduce(prodNum)
	}
}

func (p *Parser) actOnAccepting() {
	if p.cstActs != nil {
		p.cstActs.Accept()
	}
	if p.semAct != nil {
		p.semAct.Accept()
	}
}

func (p *Parser) actOnError(cause VToken) {
	if p.cstActs != nil {
		p.cstActs.MissError(cause)
	}
	if p.semAct != nil {
		p.semAct.MissError(cause)
	}
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

// CST returns the concrete syntax tree of an accepted input when the parser
// was made with MakeCST, and nil otherwise.
func (p *Parser) CST() *Node {
	if p.cstActs == nil {
		return nil
	}
	return p.cstActs.Tree()
}

// Reductions returns the indices of the productions the parser reduced by, in
// order. The sequence is the reverse of a rightmost derivation.
func (p *Parser) Reductions() []int {
	return append([]int{}, p.reductions...)
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

// searchLookahead returns the terminals the state has an action on.
func (p *Parser) searchLookahead(state int) ([]string, error) {
	terms := []string{}
	for term := 0; term < p.gram.TerminalCount(); term++ {
		act, err := p.gram.Action(state, term)
		if err != nil {
			return nil, err
		}
		if act == 0 {
			continue
		}
		terms = append(terms, p.gram.Terminal(term))
	}
	return terms, nil
}
