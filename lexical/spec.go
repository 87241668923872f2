package lexical

import (
	"fmt"

	"github.com/mirryi/isc/automaton"
	"github.com/mirryi/isc/compressor"
	ierr "github.com/mirryi/isc/error"
	psr "github.com/mirryi/isc/lexical/parser"
	spec "github.com/mirryi/isc/spec/grammar"
)

// CompileSpec compiles all entries into a single DFA whose accepting states
// carry the kind of the entry they recognize. Entry i becomes kind i+1; kind 0
// is the nil kind.
//
// An invalid specification yields the error.SpecErrors of Validate; patterns
// that fail to parse yield an error.SpecErrors of *CompileError, one per entry.
func CompileSpec(lexspec *LexSpec, opts ...CompileOption) (*spec.LexicalSpecification, error) {
	config := newCompileConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := lexspec.Validate(); err != nil {
		return nil, err
	}

	nfa := automaton.NewNFA()
	var errs ierr.SpecErrors
	for i, e := range lexspec.Entries {
		tree, err := psr.Parse(e.Pattern)
		if err != nil {
			errs = append(errs, &CompileError{
				Kind:  e.Kind,
				Cause: err,
			})
			continue
		}
		if err := addPattern(nfa, tree, automaton.Tag(i)); err != nil {
			return nil, err
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	dfa := nfa.Determinize()
	if config.minimize {
		dfa = dfa.Minimize()
	}
	tracer().Debugf("lexical DFA: %v states", dfa.StateCount())

	tab, err := genTransitionTable(dfa, config.compLv)
	if err != nil {
		return nil, err
	}

	kindNames := make([]string, len(lexspec.Entries)+1)
	patterns := make([]string, len(lexspec.Entries)+1)
	skip := make([]int, len(lexspec.Entries)+1)
	for i, e := range lexspec.Entries {
		kindNames[i+1] = e.Kind
		patterns[i+1] = e.Pattern
		if e.Skip {
			skip[i+1] = 1
		}
	}

	return &spec.LexicalSpecification{
		KindNames:        kindNames,
		Patterns:         patterns,
		Skip:             skip,
		CompressionLevel: config.compLv,
		DFA:              tab,
	}, nil
}

// genTransitionTable lays a DFA out as a table. DFA state s becomes row s+1
// because row 0 stands for the nil state.
func genTransitionTable(dfa *automaton.DFA, compLv int) (*spec.TransitionTable, error) {
	atoms := dfa.Atoms()
	rowCount := dfa.StateCount() + 1
	colCount := len(atoms)

	acc := make([]spec.LexKindID, rowCount)
	tran := make([]int, rowCount*colCount)
	for s := 0; s < dfa.StateCount(); s++ {
		id := automaton.StateID(s)
		if dfa.IsAccepting(id) && dfa.Tag(id) != automaton.NoTag {
			acc[s+1] = spec.LexKindID(dfa.Tag(id) + 1)
		}
		for a := range atoms {
			next, ok := dfa.NextOnAtom(id, a)
			if !ok {
				continue
			}
			tran[(s+1)*colCount+a] = int(next) + 1
		}
	}

	crs := make([]spec.CharRange, len(atoms))
	for i, r := range atoms {
		crs[i] = spec.CharRange{
			From: r.From,
			To:   r.To,
		}
	}
	tab := &spec.TransitionTable{
		InitialStateID:  spec.StateID(dfa.Start() + 1),
		AcceptingStates: acc,
		Atoms:           crs,
		RowCount:        rowCount,
		ColCount:        colCount,
	}

	if colCount == 0 || compLv <= compressor.CompressionLevelMin {
		tab.UncompressedTransition = make([]spec.StateID, len(tran))
		for i, v := range tran {
			tab.UncompressedTransition[i] = spec.StateID(v)
		}
		return tab, nil
	}
	comp, err := compressor.Compress(tran, colCount, spec.StateIDNil.Int(), compLv)
	if err != nil {
		return nil, fmt.Errorf("failed to compress the transition table: %w", err)
	}
	tab.Transition = comp
	return tab, nil
}
