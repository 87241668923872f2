package grammar

import (
	"fmt"
)

type Method string

const (
	MethodSLR1  = Method("slr1")
	MethodLR1   = Method("lr1")
	MethodLALR1 = Method("lalr1")
)

// ParseMethod accepts the names of the methods in any case, with or without
// the parentheses, like "LALR(1)".
func ParseMethod(s string) (Method, error) {
	switch normalizeMethodName(s) {
	case "slr1", "slr":
		return MethodSLR1, nil
	case "lr1", "clr1", "clr":
		return MethodLR1, nil
	case "lalr1", "lalr":
		return MethodLALR1, nil
	}
	return "", fmt.Errorf("unknown method: %v", s)
}

func normalizeMethodName(s string) string {
	var b []rune
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			b = append(b, c-'A'+'a')
		case c == '(' || c == ')' || c == '-' || c == ' ':
		default:
			b = append(b, c)
		}
	}
	return string(b)
}

type compileConfig struct {
	method    Method
	reporting bool
}

type CompileOption func(config *compileConfig)

// WithMethod selects the table construction method. The default is LALR(1).
func WithMethod(m Method) CompileOption {
	return func(config *compileConfig) {
		config.method = m
	}
}

// EnableReporting makes Compile describe every state and conflict in a
// report; see ParsingTable.Report.
func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.reporting = true
	}
}

// Compile builds the parsing table of gram. Conflicts are resolved and
// recorded rather than reported as errors.
func Compile(gram *Grammar, opts ...CompileOption) (*ParsingTable, error) {
	config := &compileConfig{
		method: MethodLALR1,
	}
	for _, opt := range opts {
		opt(config)
	}

	var automaton *lrAutomaton
	switch config.method {
	case MethodSLR1:
		a, err := genSLR1Automaton(gram.prods, gram.follow)
		if err != nil {
			return nil, fmt.Errorf("failed to generate the LR(0) automaton: %w", err)
		}
		automaton = a
	case MethodLR1:
		a, err := genLR1Automaton(gram.prods, gram.first)
		if err != nil {
			return nil, fmt.Errorf("failed to generate the LR(1) automaton: %w", err)
		}
		automaton = a
	case MethodLALR1:
		lr1, err := genLR1Automaton(gram.prods, gram.first)
		if err != nil {
			return nil, fmt.Errorf("failed to generate the LR(1) automaton: %w", err)
		}
		a, err := genLALR1Automaton(lr1)
		if err != nil {
			return nil, fmt.Errorf("failed to generate the LALR(1) automaton: %w", err)
		}
		automaton = a
	default:
		return nil, fmt.Errorf("unknown method: %v", config.method)
	}

	b := &lrTableBuilder{
		automaton: automaton,
		gram:      gram,
	}
	tab, err := b.build()
	if err != nil {
		return nil, err
	}
	tab.method = config.method

	tracer().Infof("%v: %v states, %v conflicts", config.method, tab.stateCount, len(tab.conflicts))

	if config.reporting {
		report, err := tab.genReport()
		if err != nil {
			return nil, err
		}
		tab.report = report
	}

	return tab, nil
}
