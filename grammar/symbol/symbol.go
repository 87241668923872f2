// Package symbol numbers the symbols of a grammar.
//
// A Symbol packs a symbol into 16 bits:
//
//	bit 15     1 for terminals, 0 for non-terminals
//	bit 14     set for the augmented start symbol and the end-of-input marker
//	bits 0-13  the number of the symbol, unique among symbols of its kind
//
// Number 0 is the nil symbol. Number 1 is taken by the augmented start symbol
// among the non-terminals and by the end-of-input marker among the terminals,
// so user symbols are numbered from 2 in registration order. Parsing tables
// use these numbers as their column indexes.
package symbol

import (
	"errors"
	"fmt"
	"sort"
)

type Num uint16

func (n Num) Int() int {
	return int(n)
}

type Symbol uint16

const (
	bitTerminal = uint16(0x8000)
	bitSpecial  = uint16(0x4000)
	maskNum     = uint16(0x3fff)

	numSpecial = Num(1)
	numMin     = Num(2)

	// NumMax is the largest number a symbol can have.
	NumMax = Num(maskNum)

	Nil   = Symbol(0)
	Start = Symbol(bitSpecial | uint16(numSpecial))
	EOF   = Symbol(bitTerminal | bitSpecial | uint16(numSpecial))

	// NameEOF is the name of the end-of-input marker. The angle brackets keep
	// it apart from user-defined names.
	NameEOF = "<eof>"
)

func (s Symbol) Num() Num {
	return Num(uint16(s) & maskNum)
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && uint16(s)&bitTerminal != 0
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && uint16(s)&bitTerminal == 0
}

// IsStart reports whether s is the augmented start symbol.
func (s Symbol) IsStart() bool {
	return s.IsNonTerminal() && uint16(s)&bitSpecial != 0
}

func (s Symbol) IsEOF() bool {
	return s.IsTerminal() && uint16(s)&bitSpecial != 0
}

// Byte returns the big-endian encoding of s.
func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s))}
}

func (s Symbol) String() string {
	switch {
	case s.IsNil():
		return "nil"
	case s.IsStart():
		return fmt.Sprintf("s%v", s.Num())
	case s.IsEOF():
		return fmt.Sprintf("e%v", s.Num())
	case s.IsTerminal():
		return fmt.Sprintf("t%v", s.Num())
	}
	return fmt.Sprintf("n%v", s.Num())
}

var (
	ErrKindConflict = errors.New("a symbol is used as both a terminal and a non-terminal")
	ErrTooMany      = errors.New("too many symbols")
)

// Table maps names to symbols. Write to it through a Writer and read from it
// through a Reader.
type Table struct {
	name2Sym     map[string]Symbol
	termNames    []string
	nonTermNames []string
}

func NewTable() *Table {
	return &Table{
		name2Sym: map[string]Symbol{
			NameEOF: EOF,
		},
		termNames: []string{
			"",
			NameEOF,
		},
		nonTermNames: []string{
			"",
			"",
		},
	}
}

type Writer struct {
	*Table
}

type Reader struct {
	*Table
}

func (t *Table) Writer() *Writer {
	return &Writer{
		Table: t,
	}
}

func (t *Table) Reader() *Reader {
	return &Reader{
		Table: t,
	}
}

// RegisterStart names the augmented start symbol.
func (w *Writer) RegisterStart(name string) (Symbol, error) {
	if sym, ok := w.name2Sym[name]; ok && sym != Start {
		return Nil, fmt.Errorf("%w: %v", ErrKindConflict, name)
	}
	w.name2Sym[name] = Start
	w.nonTermNames[numSpecial] = name
	return Start, nil
}

// RegisterNonTerminal returns the symbol of name, registering it first when
// it is new.
func (w *Writer) RegisterNonTerminal(name string) (Symbol, error) {
	return w.register(name, false)
}

// RegisterTerminal returns the symbol of name, registering it first when it is
// new.
func (w *Writer) RegisterTerminal(name string) (Symbol, error) {
	return w.register(name, true)
}

func (w *Writer) register(name string, terminal bool) (Symbol, error) {
	if sym, ok := w.name2Sym[name]; ok {
		if sym.IsTerminal() != terminal {
			return Nil, fmt.Errorf("%w: %v", ErrKindConflict, name)
		}
		return sym, nil
	}

	names := &w.nonTermNames
	kind := uint16(0)
	if terminal {
		names = &w.termNames
		kind = bitTerminal
	}
	num := Num(len(*names))
	if num > NumMax {
		return Nil, fmt.Errorf("%w: the limit is %v per kind", ErrTooMany, NumMax)
	}
	sym := Symbol(kind | uint16(num))
	*names = append(*names, name)
	w.name2Sym[name] = sym
	return sym, nil
}

func (r *Reader) ToSymbol(name string) (Symbol, bool) {
	sym, ok := r.name2Sym[name]
	return sym, ok
}

func (r *Reader) ToName(sym Symbol) (string, bool) {
	names := r.nonTermNames
	if sym.IsTerminal() {
		names = r.termNames
	}
	n := sym.Num().Int()
	if sym.IsNil() || n >= len(names) || names[n] == "" {
		return "", false
	}
	return names[n], true
}

// Terminals returns the terminals in ascending order, the end-of-input marker
// first.
func (r *Reader) Terminals() []Symbol {
	syms := make([]Symbol, 0, len(r.termNames)-1)
	for n := numSpecial.Int(); n < len(r.termNames); n++ {
		syms = append(syms, Symbol(bitTerminal|uint16(n))|Symbol(special(n)))
	}
	return syms
}

// NonTerminals returns the non-terminals in ascending order, the augmented
// start symbol first when it is registered.
func (r *Reader) NonTerminals() []Symbol {
	syms := make([]Symbol, 0, len(r.nonTermNames)-1)
	for n := numSpecial.Int(); n < len(r.nonTermNames); n++ {
		if r.nonTermNames[n] == "" {
			continue
		}
		syms = append(syms, Symbol(uint16(n))|Symbol(special(n)))
	}
	return syms
}

func special(n int) uint16 {
	if Num(n) == numSpecial {
		return bitSpecial
	}
	return 0
}

// TerminalNames returns the names of the terminals indexed by number. Index 0
// is the empty name of the nil symbol.
func (r *Reader) TerminalNames() []string {
	return append([]string{}, r.termNames...)
}

// NonTerminalNames returns the names of the non-terminals indexed by number.
func (r *Reader) NonTerminalNames() []string {
	return append([]string{}, r.nonTermNames...)
}

// Sort orders symbols by their encoding, which puts non-terminals before
// terminals.
func Sort(syms []Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
}
