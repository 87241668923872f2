package driver

import (
	"fmt"
	"io"

	"github.com/mirryi/isc/lexical"
	spec "github.com/mirryi/isc/spec/grammar"
)

// VToken is a token a parser reads.
type VToken interface {
	// TerminalID returns the number of the terminal the token is. Invalid
	// tokens are terminal 0, which no ACTION entry accepts.
	TerminalID() int

	Lexeme() []byte
	EOF() bool
	Invalid() bool

	// Position returns the 0-based row and column of the token.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *lexical.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return []byte(t.tok.Text)
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	scanner        *lexical.Scanner
	kindToTerminal []int
}

// NewTokenStream scans src with the lexical specification of g.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	if g.Lexical == nil {
		return nil, fmt.Errorf("the compiled grammar has no lexical specification")
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &tokenStream{
		scanner:        lexical.NewScanner(g.Lexical, string(b)),
		kindToTerminal: g.Lexical.KindToTerminal,
	}, nil
}

func (s *tokenStream) Next() (VToken, error) {
	tok, err := s.scanner.Next()
	if err != nil {
		return nil, err
	}
	return &vToken{
		terminalID: s.kindToTerminal[tok.KindID],
		tok:        tok,
	}, nil
}

type sliceToken struct {
	terminalID int
	lexeme     string
	col        int
	eof        bool
}

func (t *sliceToken) TerminalID() int {
	return t.terminalID
}

func (t *sliceToken) Lexeme() []byte {
	return []byte(t.lexeme)
}

func (t *sliceToken) EOF() bool {
	return t.eof
}

func (t *sliceToken) Invalid() bool {
	return false
}

func (t *sliceToken) Position() (int, int) {
	return 0, t.col
}

type sliceTokenStream struct {
	toks []*sliceToken
	next int
}

// NewSliceTokenStream returns a stream of the terminals named terminals, one
// token per terminal, followed by the end of input. Token i is at column i
// and its lexeme is the name of its terminal.
func NewSliceTokenStream(gram Grammar, terminals ...string) (TokenStream, error) {
	name2Term := map[string]int{}
	for term := 0; term < gram.TerminalCount(); term++ {
		if term == gram.EOF() {
			continue
		}
		if name := gram.Terminal(term); name != "" {
			name2Term[name] = term
		}
	}
	toks := make([]*sliceToken, 0, len(terminals)+1)
	for i, name := range terminals {
		term, ok := name2Term[name]
		if !ok {
			return nil, fmt.Errorf("undefined terminal: %v", name)
		}
		toks = append(toks, &sliceToken{
			terminalID: term,
			lexeme:     name,
			col:        i,
		})
	}
	toks = append(toks, &sliceToken{
		terminalID: gram.EOF(),
		col:        len(terminals),
		eof:        true,
	})
	return &sliceTokenStream{
		toks: toks,
	}, nil
}

func (s *sliceTokenStream) Next() (VToken, error) {
	tok := s.toks[s.next]
	if s.next < len(s.toks)-1 {
		s.next++
	}
	return tok, nil
}
