package grammar

// Description is the input form of a grammar. Productions are numbered in the
// order they appear, starting from 0.
type Description struct {
	Name         string                   `json:"name"`
	Start        string                   `json:"start"`
	Terminals    []*TerminalDescription   `json:"terminals"`
	NonTerminals []string                 `json:"non_terminals"`
	Productions  []*ProductionDescription `json:"productions"`
}

// TerminalDescription declares a terminal. An empty pattern makes the
// terminal match its own name literally. Skip terminals are recognized by the
// lexer and then dropped, so they cannot appear in productions.
type TerminalDescription struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
	Skip    bool   `json:"skip,omitempty"`
}

// ProductionDescription is a production LHS → RHS. An empty RHS is an
// ε-production.
type ProductionDescription struct {
	LHS string   `json:"lhs"`
	RHS []string `json:"rhs"`
}

type Terminal struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
	Skip    bool   `json:"skip,omitempty"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Production is a production in a report. Number 1 is the augmented production
// S' → S and the production at index i of the description is number i+2.
// Positive RHS elements are terminal numbers and negative ones are
// non-terminal numbers multiplied by -1.
type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type Item struct {
	Production int   `json:"production"`
	Dot        int   `json:"dot"`
	LookAhead  []int `json:"look_ahead,omitempty"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol            int  `json:"symbol"`
	State             int  `json:"state"`
	Production        int  `json:"production"`
	AdoptedState      *int `json:"adopted_state"`
	AdoptedProduction *int `json:"adopted_production"`
	ResolvedBy        int  `json:"resolved_by"`
}

type RRConflict struct {
	Symbol            int `json:"symbol"`
	Production1       int `json:"production_1"`
	Production2       int `json:"production_2"`
	AdoptedProduction int `json:"adopted_production"`
	ResolvedBy        int `json:"resolved_by"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	Accept     bool          `json:"accept,omitempty"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

type Report struct {
	Name         string         `json:"name"`
	Method       string         `json:"method"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}
