package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var traceKeys = []string{
	"isc.automaton",
	"isc.lexical",
	"isc.grammar",
	"isc.driver",
}

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "isc",
	Short: "Generate LR parsing tables and lexical DFAs",
	Long: `isc provides the following features:
- Compiles a grammar into SLR(1), LR(1), or LALR(1) parsing tables and a lexical DFA.
- Prints the report of a compiled grammar in a readable format.
- Compiles a regular expression into a DFA.
- Parses a text stream with a compiled grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setTraceLevel,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

func setTraceLevel(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}
