package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	tab := NewTable()
	w := tab.Writer()
	start, err := w.RegisterStart("E'")
	require.NoError(t, err)
	for _, name := range []string{"E", "T", "F"} {
		_, err := w.RegisterNonTerminal(name)
		require.NoError(t, err)
	}
	for _, name := range []string{"+", "*", "(", ")", "id"} {
		_, err := w.RegisterTerminal(name)
		require.NoError(t, err)
	}

	r := tab.Reader()
	assert.Equal(t, []string{"", "E'", "E", "T", "F"}, r.NonTerminalNames())
	assert.Equal(t, []string{"", NameEOF, "+", "*", "(", ")", "id"}, r.TerminalNames())

	tests := []struct {
		name          string
		num           Num
		isStart       bool
		isEOF         bool
		isNonTerminal bool
	}{
		{name: "E'", num: 1, isStart: true, isNonTerminal: true},
		{name: "E", num: 2, isNonTerminal: true},
		{name: "F", num: 4, isNonTerminal: true},
		{name: NameEOF, num: 1, isEOF: true},
		{name: "+", num: 2},
		{name: "id", num: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := r.ToSymbol(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.num, sym.Num())
			assert.Equal(t, tt.isStart, sym.IsStart())
			assert.Equal(t, tt.isEOF, sym.IsEOF())
			assert.Equal(t, tt.isNonTerminal, sym.IsNonTerminal())
			assert.Equal(t, !tt.isNonTerminal, sym.IsTerminal())
			assert.False(t, sym.IsNil())

			name, ok := r.ToName(sym)
			require.True(t, ok)
			assert.Equal(t, tt.name, name)
		})
	}

	assert.Equal(t, Start, start)
	assert.Len(t, r.Terminals(), 6)
	assert.Equal(t, EOF, r.Terminals()[0])
	assert.Equal(t, Start, r.NonTerminals()[0])
	assert.Len(t, r.NonTerminals(), 4)

	_, ok := r.ToSymbol("G")
	assert.False(t, ok)
	_, ok = r.ToName(Nil)
	assert.False(t, ok)
	assert.True(t, Nil.IsNil())
	assert.False(t, Nil.IsTerminal())
	assert.False(t, Nil.IsNonTerminal())
}

func TestTable_Register(t *testing.T) {
	w := NewTable().Writer()
	a1, err := w.RegisterTerminal("a")
	require.NoError(t, err)
	a2, err := w.RegisterTerminal("a")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	_, err = w.RegisterNonTerminal("a")
	assert.True(t, errors.Is(err, ErrKindConflict))
	_, err = w.RegisterTerminal(NameEOF)
	assert.NoError(t, err)
	_, err = w.RegisterNonTerminal(NameEOF)
	assert.True(t, errors.Is(err, ErrKindConflict))
	_, err = w.RegisterStart("a")
	assert.True(t, errors.Is(err, ErrKindConflict))
}

func TestSymbol_String(t *testing.T) {
	w := NewTable().Writer()
	n, _ := w.RegisterNonTerminal("A")
	tm, _ := w.RegisterTerminal("a")
	assert.Equal(t, "s1", Start.String())
	assert.Equal(t, "e1", EOF.String())
	assert.Equal(t, "n2", n.String())
	assert.Equal(t, "t2", tm.String())
	assert.Equal(t, "nil", Nil.String())
	assert.Equal(t, []byte{0x80, 0x02}, tm.Byte())

	syms := []Symbol{tm, EOF, n, Start}
	Sort(syms)
	assert.Equal(t, []Symbol{n, Start, tm, EOF}, syms)
}
