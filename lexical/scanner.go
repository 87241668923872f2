package lexical

import (
	"sort"

	"github.com/mirryi/isc/compressor"
	spec "github.com/mirryi/isc/spec/grammar"
)

// Token is a lexeme recognized by a Scanner.
type Token struct {
	KindID   spec.LexKindID
	KindName string

	// Text is the matched input.
	Text string

	// Row and Col are 0-based. Col is counted in code points.
	Row int
	Col int

	// EOF marks the end of the input; it is returned once and then again on
	// every further call.
	EOF bool

	// Invalid marks a single code point that no kind matches.
	Invalid bool
}

type scanState struct {
	ptr int
	row int
	col int
}

// Scanner splits text into tokens by the longest match rule. When two kinds
// match a lexeme of the same length, the kind listed first wins.
type Scanner struct {
	spec  *spec.LexicalSpecification
	src   []rune
	state scanState
}

func NewScanner(lexspec *spec.LexicalSpecification, src string) *Scanner {
	return &Scanner{
		spec: lexspec,
		src:  []rune(src),
	}
}

// Next returns the next token, skipping the kinds marked as skip.
func (s *Scanner) Next() (*Token, error) {
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		if tok.EOF || tok.Invalid || s.spec.Skip[tok.KindID] == 0 {
			return tok, nil
		}
	}
}

func (s *Scanner) next() (*Token, error) {
	if s.state.ptr >= len(s.src) {
		return &Token{
			Row: s.state.row,
			Col: s.state.col,
			EOF: true,
		}, nil
	}

	dfa := s.spec.DFA
	state := dfa.InitialStateID
	end := s.state.ptr
	kind := spec.LexKindIDNil
	for p := s.state.ptr; p < len(s.src); p++ {
		next, err := s.nextState(state, s.src[p])
		if err != nil {
			return nil, err
		}
		if next == spec.StateIDNil {
			break
		}
		state = next
		if k := dfa.AcceptingStates[state]; k != spec.LexKindIDNil {
			end = p + 1
			kind = k
		}
	}

	if kind == spec.LexKindIDNil {
		tok := &Token{
			Text:    string(s.src[s.state.ptr]),
			Row:     s.state.row,
			Col:     s.state.col,
			Invalid: true,
		}
		s.advance(s.state.ptr + 1)
		return tok, nil
	}

	tok := &Token{
		KindID:   kind,
		KindName: s.spec.KindNames[kind],
		Text:     string(s.src[s.state.ptr:end]),
		Row:      s.state.row,
		Col:      s.state.col,
	}
	s.advance(end)
	return tok, nil
}

// advance moves to the offset to, counting rows at LF.
func (s *Scanner) advance(to int) {
	for ; s.state.ptr < to; s.state.ptr++ {
		if s.src[s.state.ptr] == '\n' {
			s.state.row++
			s.state.col = 0
		} else {
			s.state.col++
		}
	}
}

func (s *Scanner) nextState(state spec.StateID, c rune) (spec.StateID, error) {
	dfa := s.spec.DFA
	atom := sort.Search(len(dfa.Atoms), func(i int) bool {
		return dfa.Atoms[i].To >= c
	})
	if atom >= len(dfa.Atoms) || dfa.Atoms[atom].From > c {
		return spec.StateIDNil, nil
	}
	if dfa.Transition == nil {
		return dfa.UncompressedTransition[state.Int()*dfa.ColCount+atom], nil
	}
	next, err := compressor.Lookup(dfa.Transition, state.Int(), atom)
	if err != nil {
		return spec.StateIDNil, err
	}
	return spec.StateID(next), nil
}
