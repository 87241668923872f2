package grammar

// CompiledGrammar is the output of the generator: the lexical DFA and the
// ACTION/GOTO tables, in a form a driver can load without the generator.
type CompiledGrammar struct {
	Name      string                  `json:"name"`
	Method    string                  `json:"method"`
	Lexical   *LexicalSpecification   `json:"lexical"`
	Syntactic *SyntacticSpecification `json:"syntactic"`
}

// StateID represents an ID of a state of a transition table.
type StateID int

const (
	// StateIDNil represents an empty entry of a transition table.
	// When the driver reads this value, it raises an error meaning lexical analysis failed.
	StateIDNil = StateID(0)

	// StateIDMin is the minimum value of the state ID. All valid state IDs are represented as
	// sequential numbers starting from this value.
	StateIDMin = StateID(1)
)

func (id StateID) Int() int {
	return int(id)
}

// LexKindID represents an ID of a lexical kind. The ID 0 is reserved for the
// invalid kind.
type LexKindID int

const (
	LexKindIDNil = LexKindID(0)
	LexKindIDMin = LexKindID(1)
)

func (id LexKindID) Int() int {
	return int(id)
}

type CharRange struct {
	From rune `json:"from"`
	To   rune `json:"to"`
}

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                 `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

// TransitionTable is a DFA over atoms: the columns of the table are indexes
// into Atoms, the rows are state IDs.
type TransitionTable struct {
	InitialStateID         StateID             `json:"initial_state_id"`
	AcceptingStates        []LexKindID         `json:"accepting_states"`
	Atoms                  []CharRange         `json:"atoms"`
	RowCount               int                 `json:"row_count"`
	ColCount               int                 `json:"col_count"`
	Transition             *UniqueEntriesTable `json:"transition,omitempty"`
	UncompressedTransition []StateID           `json:"uncompressed_transition,omitempty"`
}

type LexicalSpecification struct {
	KindNames        []string         `json:"kind_names"`
	Patterns         []string         `json:"patterns"`
	Skip             []int            `json:"skip"`
	KindToTerminal   []int            `json:"kind_to_terminal,omitempty"`
	CompressionLevel int              `json:"compression_level"`
	DFA              *TransitionTable `json:"dfa"`
}

type SyntacticSpecification struct {
	Action                  []int               `json:"action,omitempty"`
	GoTo                    []int               `json:"goto,omitempty"`
	CompressedAction        *UniqueEntriesTable `json:"compressed_action,omitempty"`
	CompressedGoTo          *UniqueEntriesTable `json:"compressed_goto,omitempty"`
	StateCount              int                 `json:"state_count"`
	InitialState            int                 `json:"initial_state"`
	StartProduction         int                 `json:"start_production"`
	LHSSymbols              []int               `json:"lhs_symbols"`
	AlternativeSymbolCounts []int               `json:"alternative_symbol_counts"`
	Terminals               []string            `json:"terminals"`
	TerminalCount           int                 `json:"terminal_count"`
	NonTerminals            []string            `json:"non_terminals"`
	NonTerminalCount        int                 `json:"non_terminal_count"`
	EOFSymbol               int                 `json:"eof_symbol"`
}
