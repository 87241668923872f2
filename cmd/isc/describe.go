package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/mirryi/isc/grammar"
	spec "github.com/mirryi/isc/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a report in a readable format",
		Example: `  isc describe grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# {{ .Name }} ({{ .Method }})

# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end -}}
{{ if .Accept -}}
accept on <eof>
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		return report.NonTerminals[sym].Name
	}

	symbolsText := func(syms []int) string {
		names := make([]string, len(syms))
		for i, sym := range syms {
			if sym > 0 {
				names[i] = termName(sym)
			} else {
				names[i] = nonTermName(sym * -1)
			}
		}
		return strings.Join(names, " ")
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			var count int
			for _, s := range report.States {
				count += len(s.SRConflict) + len(s.RRConflict)
			}

			switch count {
			case 0:
				return "No conflict"
			case 1:
				return "1 conflict occurred and resolved implicitly."
			default:
				return fmt.Sprintf("%v conflicts occurred and resolved implicitly.", count)
			}
		},
		"printTerminal": func(term *spec.Terminal) string {
			switch {
			case term.Skip:
				return fmt.Sprintf("%4v %v %v (skip)", term.Number, term.Name, term.Pattern)
			case term.Pattern != "":
				return fmt.Sprintf("%4v %v %v", term.Number, term.Name, term.Pattern)
			default:
				return fmt.Sprintf("%4v %v", term.Number, term.Name)
			}
		},
		"printProduction": func(prod *spec.Production) string {
			rhs := "ε"
			if len(prod.RHS) > 0 {
				rhs = symbolsText(prod.RHS)
			}
			return fmt.Sprintf("%4v %v → %v", prod.Number, nonTermName(prod.LHS), rhs)
		},
		"printItem": func(item *spec.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symbolsText([]int{e}))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}
			if len(item.LookAhead) > 0 {
				la := make([]string, len(item.LookAhead))
				for i, a := range item.LookAhead {
					la[i] = termName(a)
				}
				fmt.Fprintf(&b, " [%v]", strings.Join(la, ", "))
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			la := make([]string, len(reduce.LookAhead))
			for i, a := range reduce.LookAhead {
				la[i] = termName(a)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(la, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}
			var resolvedBy string
			switch sr.ResolvedBy {
			case grammar.ResolvedByShift.Int():
				resolvedBy = "a shift wins over a reduction (default rule)"
			default:
				resolvedBy = "?" // This is a bug.
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted because %v", sr.State, sr.Production, termName(sr.Symbol), adopted, resolvedBy)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			var resolvedBy string
			switch rr.ResolvedBy {
			case grammar.ResolvedByProdOrder.Int():
				resolvedBy = fmt.Sprintf("production %v appears first (default rule)", rr.AdoptedProduction)
			default:
				resolvedBy = "?" // This is a bug.
			}
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted because %v", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction, resolvedBy)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
