package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mirryi/isc/driver"
	spec "github.com/mirryi/isc/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source     *string
	cst        *bool
	json       *bool
	reductions *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled grammar file path>",
		Short:   "Parse a text stream",
		Example: `  echo 'a + b * c' | isc parse compiled.json --cst`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print the concrete syntax tree")
	parseFlags.json = cmd.Flags().Bool("json", false, "print the concrete syntax tree in JSON")
	parseFlags.reductions = cmd.Flags().Bool("reductions", false, "print the productions the parser reduced by")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	toks, err := driver.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}
	gram, err := driver.NewGrammar(cgram)
	if err != nil {
		return err
	}
	var opts []driver.ParserOption
	if *parseFlags.cst || *parseFlags.json {
		opts = append(opts, driver.MakeCST())
	}
	p, err := driver.NewParser(toks, gram, opts...)
	if err != nil {
		return err
	}

	err = p.Parse()
	if err != nil {
		return err
	}

	synErrs := p.SyntaxErrors()
	for _, synErr := range synErrs {
		tok := synErr.Token

		var msg string
		switch {
		case tok.EOF():
			msg = "<eof>"
		case tok.Invalid():
			msg = fmt.Sprintf("'%v' (<invalid>)", string(tok.Lexeme()))
		default:
			msg = fmt.Sprintf("'%v' (%v)", string(tok.Lexeme()), gram.Terminal(tok.TerminalID()))
		}

		pterm.Error.Println(fmt.Sprintf("%v:%v: %v: %v; expected: %v", synErr.Row+1, synErr.Col+1, synErr.Message, msg, strings.Join(synErr.ExpectedTerminals, ", ")))
	}
	if len(synErrs) > 0 {
		return fmt.Errorf("%v syntax error(s)", len(synErrs))
	}

	if *parseFlags.reductions {
		reds := p.Reductions()
		texts := make([]string, len(reds))
		for i, r := range reds {
			texts[i] = strconv.Itoa(r)
		}
		pterm.Println(strings.Join(texts, " "))
	}

	switch {
	case *parseFlags.json:
		b, err := json.Marshal(p.CST())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
	case *parseFlags.cst:
		root := pterm.NewTreeFromLeveledList(leveledNodes(p.CST(), pterm.LeveledList{}, 0))
		pterm.DefaultTree.WithRoot(root).Render()
	default:
		pterm.Success.Println("accepted")
	}

	return nil
}

func leveledNodes(node *driver.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if node == nil {
		return ll
	}
	text := node.KindName
	if node.Type == driver.NodeTypeTerminal {
		text = fmt.Sprintf("%v %v", node.KindName, strconv.Quote(node.Text))
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  text,
	})
	for _, child := range node.Children {
		ll = leveledNodes(child, ll, level+1)
	}
	return ll
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}
