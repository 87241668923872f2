package grammar

import (
	"fmt"

	"github.com/mirryi/isc/compressor"
	"github.com/mirryi/isc/grammar/symbol"
	"github.com/mirryi/isc/lexical"
	spec "github.com/mirryi/isc/spec/grammar"
)

type exportConfig struct {
	compLv int
}

type ExportOption func(config *exportConfig)

// Compress sets the compression level of the exported tables, from
// compressor.CompressionLevelMin to compressor.CompressionLevelMax. The
// default is the maximum.
func Compress(lv int) ExportOption {
	return func(config *exportConfig) {
		config.compLv = lv
	}
}

// Export lays the table and the lexical DFA of the terminals out in the form a
// driver loads. The ACTION table keeps the encoding of the table: 0 is an
// error, -s shifts to state s, and p reduces by production number p, which
// accepts when p is spec.CompiledGrammar.Syntactic.StartProduction.
func (t *ParsingTable) Export(opts ...ExportOption) (*spec.CompiledGrammar, error) {
	config := &exportConfig{
		compLv: compressor.CompressionLevelMax,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.compLv < compressor.CompressionLevelMin || config.compLv > compressor.CompressionLevelMax {
		return nil, fmt.Errorf("compression level must be %v to %v: %v",
			compressor.CompressionLevelMin, compressor.CompressionLevelMax, config.compLv)
	}

	lexSpec, err := t.exportLexical(config.compLv)
	if err != nil {
		return nil, err
	}
	synSpec, err := t.exportSyntactic(config.compLv)
	if err != nil {
		return nil, err
	}

	return &spec.CompiledGrammar{
		Name:      t.gram.name,
		Method:    string(t.method),
		Lexical:   lexSpec,
		Syntactic: synSpec,
	}, nil
}

func (t *ParsingTable) exportLexical(compLv int) (*spec.LexicalSpecification, error) {
	lexSpec, err := lexical.CompileSpec(t.gram.LexSpec(), lexical.CompressionLevel(compLv))
	if err != nil {
		return nil, fmt.Errorf("failed to compile the lexical specification: %w", err)
	}

	// Kinds follow the declaration order of the terminals, skipped ones
	// included, so a kind ID is not a terminal number.
	kind2Term := make([]int, len(lexSpec.KindNames))
	for i, name := range lexSpec.KindNames {
		if i == spec.LexKindIDNil.Int() || lexSpec.Skip[i] != 0 {
			continue
		}
		sym, ok := t.gram.symTab.ToSymbol(name)
		if !ok || !sym.IsTerminal() {
			return nil, fmt.Errorf("a lexical kind has no terminal: %v", name)
		}
		kind2Term[i] = sym.Num().Int()
	}
	lexSpec.KindToTerminal = kind2Term

	return lexSpec, nil
}

func (t *ParsingTable) exportSyntactic(compLv int) (*spec.SyntacticSpecification, error) {
	action := make([]int, len(t.actionTable))
	for i, e := range t.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(t.goToTable))
	for i, e := range t.goToTable {
		goTo[i] = int(e)
	}

	prods := t.gram.prods.all()
	lhsSyms := make([]int, len(prods)+1)
	altSymCounts := make([]int, len(prods)+1)
	for _, p := range prods {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = len(p.rhs)
	}

	synSpec := &spec.SyntacticSpecification{
		StateCount:              t.stateCount,
		InitialState:            t.initialState.Int(),
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Terminals:               t.gram.symTab.TerminalNames(),
		TerminalCount:           t.terminalCount,
		NonTerminals:            t.gram.symTab.NonTerminalNames(),
		NonTerminalCount:        t.nonTerminalCount,
		EOFSymbol:               symbol.EOF.Num().Int(),
	}

	if compLv <= compressor.CompressionLevelMin {
		synSpec.Action = action
		synSpec.GoTo = goTo
		return synSpec, nil
	}
	compAction, err := compressor.Compress(action, t.terminalCount, int(actionEntryEmpty), compLv)
	if err != nil {
		return nil, fmt.Errorf("failed to compress the action table: %w", err)
	}
	compGoTo, err := compressor.Compress(goTo, t.nonTerminalCount, int(goToEntryEmpty), compLv)
	if err != nil {
		return nil, fmt.Errorf("failed to compress the goto table: %w", err)
	}
	synSpec.CompressedAction = compAction
	synSpec.CompressedGoTo = compGoTo

	return synSpec, nil
}
