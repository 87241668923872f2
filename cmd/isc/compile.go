package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mirryi/isc/compressor"
	"github.com/mirryi/isc/grammar"
	spec "github.com/mirryi/isc/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output      *string
	method      *string
	compression *int
	dot         *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into parsing tables",
		Example: `  isc compile grammar.json -o compiled.json --method lr1`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.method = cmd.Flags().StringP("method", "m", string(grammar.MethodLALR1), "construction method [slr1|lr1|lalr1]")
	compileFlags.compression = cmd.Flags().Int("compression", compressor.CompressionLevelMax, "compression level of the tables [0|1|2]")
	compileFlags.dot = cmd.Flags().String("dot", "", "write the LR automaton in the DOT format to this file path")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	method, err := grammar.ParseMethod(*compileFlags.method)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("Cannot open the grammar file %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	}
	desc, err := readDescription(src)
	if err != nil {
		return err
	}

	gram, err := grammar.New(desc)
	if err != nil {
		return err
	}
	tab, err := grammar.Compile(gram, grammar.WithMethod(method), grammar.EnableReporting())
	if err != nil {
		return err
	}
	cgram, err := tab.Export(grammar.Compress(*compileFlags.compression))
	if err != nil {
		return err
	}

	err = writeCompiledGrammarAndReport(cgram, tab.Report(), *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	if *compileFlags.dot != "" {
		f, err := os.OpenFile(*compileFlags.dot, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		err = tab.WriteDot(f)
		if err != nil {
			return err
		}
	}

	if conflicts := tab.Conflicts(); len(conflicts) > 0 {
		for _, c := range conflicts {
			pterm.Warning.Println(c.String())
		}
		if len(conflicts) == 1 {
			pterm.Info.Println("1 conflict")
		} else {
			pterm.Info.Printf("%v conflicts\n", len(conflicts))
		}
	}

	return nil
}

func readDescription(r io.Reader) (*spec.Description, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	desc := &spec.Description{}
	err = json.Unmarshal(d, desc)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the grammar: %w", err)
	}
	return desc, nil
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to files located at a specified path.
//
//  1. When the path is a directory path, the compiled grammar and the report go to
//     <path>/<grammar-name>.json and <path>/<grammar-name>-report.json, respectively.
//  2. When the path is a file path or a non-existent path, the path is the compiled grammar's.
//     The report goes to <grammar-name>-report.json in the same directory.
//  3. When the path is an empty string, the compiled grammar goes to the stdout and the report
//     to <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *spec.CompiledGrammar, report *spec.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		b, err := json.Marshal(cgram)
		if err != nil {
			return err
		}
		fmt.Fprintf(cgramW, "%v\n", string(b))
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
