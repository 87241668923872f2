package main

import (
	"fmt"
	"os"

	"github.com/mirryi/isc/lexical"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var regexFlags = struct {
	nfa        *bool
	dot        *bool
	noMinimize *bool
	match      *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "regex <pattern>",
		Short: "Compile a regular expression into a DFA",
		Example: `  isc regex 'a(b|c)*d' --match abcd --match ad
  isc regex '[a-z0-9]+' --dot | dot -Tsvg > dfa.svg`,
		Args: cobra.ExactArgs(1),
		RunE: runRegex,
	}
	regexFlags.nfa = cmd.Flags().Bool("nfa", false, "print the NFA instead of the DFA (implies --dot)")
	regexFlags.dot = cmd.Flags().Bool("dot", false, "print the automaton in the DOT format")
	regexFlags.noMinimize = cmd.Flags().Bool("no-minimize", false, "skip the minimization of the DFA")
	regexFlags.match = cmd.Flags().StringArray("match", nil, "report whether the DFA accepts this string (repeatable)")
	rootCmd.AddCommand(cmd)
}

func runRegex(cmd *cobra.Command, args []string) error {
	pattern := args[0]

	if *regexFlags.nfa {
		nfa, err := lexical.Compile(pattern)
		if err != nil {
			return err
		}
		return nfa.WriteDot(os.Stdout)
	}

	var opts []lexical.CompileOption
	if *regexFlags.noMinimize {
		opts = append(opts, lexical.WithoutMinimization())
	}
	dfa, err := lexical.CompileDFA(pattern, opts...)
	if err != nil {
		return err
	}

	if *regexFlags.dot {
		return dfa.WriteDot(os.Stdout)
	}

	pterm.Info.Printf("%v: %v states, %v atoms\n", pattern, dfa.StateCount(), len(dfa.Atoms()))
	for _, s := range *regexFlags.match {
		if dfa.Accepts(s) {
			pterm.Success.Println(fmt.Sprintf("%q matches", s))
		} else {
			pterm.Error.Println(fmt.Sprintf("%q does not match", s))
		}
	}
	return nil
}
