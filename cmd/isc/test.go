package main

import (
	"fmt"

	"github.com/mirryi/isc/tester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <compiled grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar against test cases",
		Example: `  isc test compiled.json test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	cs := tester.ListTestCases(args[1])
	t := &tester.Tester{
		Grammar: cgram,
		Cases:   cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		if r.Error != nil {
			testFailed = true
			pterm.Error.Println(r.String())
		} else {
			pterm.Success.Println(r.String())
		}
	}
	if testFailed {
		return fmt.Errorf("Test failed")
	}
	return nil
}
