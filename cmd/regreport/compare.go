package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/regreport/internal/database"
	"github.com/nao1215/regreport/internal/model"
	"github.com/spf13/cobra"
)

// Constants for change kinds.
const (
	changeChanged = "changed"
	changeAdded   = "added"
	changeRemoved = "removed"
)

// NewCompareCmd creates the compare command.
// This command compares two runs stored in the report history.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <previous-run-id> <current-run-id>",
		Short: "Compare the coefficients of two stored runs",
		Long: `Compare displays the differences between two runs saved by 'regreport render'.

Parameters are matched by equation and name, so the rows of a
multi-equation model are paired within their own equation. The comparison
shows:
- Coefficients that changed, with their delta and p-values
- Parameters present in only one of the runs
- Whether both runs produced the identical report text

Runs may be given by full id or by a unique id prefix. Use 'regreport history'
to see the stored runs.

Examples:
  # Compare two runs
  regreport compare 0192f3a4-7b1c 0192f3b0-2d4e

  # Ignore coefficient changes up to 1e-6
  regreport compare --tolerance 1e-6 0192f3a4-7b1c 0192f3b0-2d4e

  # Output comparison in JSON format
  regreport compare --json 0192f3a4-7b1c 0192f3b0-2d4e`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().Float64P("tolerance", "t", 0,
		"Largest absolute coefficient change reported as unchanged")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	tolerance, err := cmd.Flags().GetFloat64("tolerance")
	if err != nil {
		return err
	}
	if tolerance < 0 || math.IsNaN(tolerance) {
		return fmt.Errorf("invalid tolerance %v: must be non-negative", tolerance)
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	previous, err := findRun(cmd, db, args[0])
	if err != nil {
		return err
	}
	current, err := findRun(cmd, db, args[1])
	if err != nil {
		return err
	}

	comparison := compareRuns(previous, current, tolerance)

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return encodeJSON(out, comparison)
	case markdownOutput:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// ComparisonResult holds the result of comparing two stored runs.
type ComparisonResult struct {
	// Previous and Current describe the compared runs.
	Previous database.ReportMetadata `json:"previous_run"`
	Current  database.ReportMetadata `json:"current_run"`

	// Identical is true when both runs produced the same report text.
	Identical bool `json:"identical"`

	// Changes lists changed, added and removed parameters in the order of
	// the current run, removed parameters last.
	Changes []CoefficientChange `json:"changes,omitempty"`

	// UnchangedCount is the number of parameters whose coefficient stayed
	// within the tolerance.
	UnchangedCount int `json:"unchanged_count"`
}

// CoefficientChange is the change of one parameter between two runs.
type CoefficientChange struct {
	// Parameter is the parameter name, prefixed with its equation id for
	// multi-equation models.
	Parameter string `json:"parameter"`

	// Kind is "changed", "added" or "removed".
	Kind string `json:"kind"`

	Previous *float64 `json:"previous,omitempty"`
	Current  *float64 `json:"current,omitempty"`
	Delta    *float64 `json:"delta,omitempty"`

	PreviousPValue *float64 `json:"previous_prob,omitempty"`
	CurrentPValue  *float64 `json:"current_prob,omitempty"`
}

// keyedRows keys the rows of a results table by equation and parameter
// name, "<equation>: <name>" for multi-equation models. A key that repeats
// is suffixed with its occurrence, "name (2)" for the second one.
func keyedRows(res *model.Result) ([]string, map[string]model.OutputRow) {
	if res == nil {
		return nil, nil
	}
	rows := res.Output
	equations := res.OutputEquations
	if len(equations) != len(rows) {
		equations = nil
	}

	keys := make([]string, 0, len(rows))
	byKey := make(map[string]model.OutputRow, len(rows))
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		base := row.Name
		if equations != nil && equations[i] != "" {
			base = equations[i] + ": " + row.Name
		}
		seen[base]++
		key := base
		if n := seen[base]; n > 1 {
			key = base + " (" + strconv.Itoa(n) + ")"
		}
		keys = append(keys, key)
		byKey[key] = row
	}
	return keys, byKey
}

// compareRuns compares the results tables of two runs.
func compareRuns(previous, current *database.ReportRecord, tolerance float64) *ComparisonResult {
	result := &ComparisonResult{
		Previous:  previous.ReportMetadata,
		Current:   current.ReportMetadata,
		Identical: previous.Digest == current.Digest,
	}

	previousKeys, previousByKey := keyedRows(previous.Result)
	currentKeys, currentByKey := keyedRows(current.Result)

	for _, key := range currentKeys {
		cur := currentByKey[key]
		prev, ok := previousByKey[key]
		if !ok {
			result.Changes = append(result.Changes, CoefficientChange{
				Parameter:     key,
				Kind:          changeAdded,
				Current:       ptr(cur.Coefficient),
				CurrentPValue: cur.PValue,
			})
			continue
		}

		delta := cur.Coefficient - prev.Coefficient
		if math.Abs(delta) <= tolerance || sameValue(prev.Coefficient, cur.Coefficient) {
			result.UnchangedCount++
			continue
		}
		result.Changes = append(result.Changes, CoefficientChange{
			Parameter:      key,
			Kind:           changeChanged,
			Previous:       ptr(prev.Coefficient),
			Current:        ptr(cur.Coefficient),
			Delta:          ptr(delta),
			PreviousPValue: prev.PValue,
			CurrentPValue:  cur.PValue,
		})
	}

	for _, key := range previousKeys {
		if _, ok := currentByKey[key]; ok {
			continue
		}
		prev := previousByKey[key]
		result.Changes = append(result.Changes, CoefficientChange{
			Parameter:      key,
			Kind:           changeRemoved,
			Previous:       ptr(prev.Coefficient),
			PreviousPValue: prev.PValue,
		})
	}

	return result
}

// sameValue reports whether a and b are equal, counting NaN as equal to
// itself.
func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func ptr[T any](v T) *T {
	return &v
}

// countKind returns the number of changes of the given kind.
func (r *ComparisonResult) countKind(kind string) int {
	n := 0
	for _, c := range r.Changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Run Comparison: %s\n", displayDataset(result.Current.Dataset))
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: %s  %s  %s\n", result.Previous.ID,
		result.Previous.Timestamp.Format(time.DateTime), result.Previous.Title)
	fmt.Fprintf(out, "Current run:  %s  %s  %s\n", result.Current.ID,
		result.Current.Timestamp.Format(time.DateTime), result.Current.Title)

	if result.Identical {
		fmt.Fprintln(out, "\nReport text: IDENTICAL")
	} else {
		fmt.Fprintln(out, "\nReport text: DIFFERS")
	}

	fmt.Fprintf(out, "\nCoefficients: %d changed, %d added, %d removed, %d unchanged\n",
		result.countKind(changeChanged), result.countKind(changeAdded),
		result.countKind(changeRemoved), result.UnchangedCount)

	if len(result.Changes) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\n  %-3s %-24s  %14s  %14s  %14s\n", "", "Parameter", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))
	for _, c := range result.Changes {
		fmt.Fprintf(out, "  %-3s %-24s  %14s  %14s  %14s\n",
			changeMarker(c.Kind),
			c.Parameter,
			formatValue(c.Previous),
			formatValue(c.Current),
			formatDelta(c.Delta),
		)
	}

	return nil
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Run Comparison: " + displayDataset(result.Current.Dataset))
	md.PlainText("")

	status := "differs"
	if result.Identical {
		status = "identical"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Title"},
		Rows: [][]string{
			{"Previous", "`" + result.Previous.ID + "`",
				result.Previous.Timestamp.Format("2006-01-02 15:04"), result.Previous.Title},
			{"Current", "`" + result.Current.ID + "`",
				result.Current.Timestamp.Format("2006-01-02 15:04"), result.Current.Title},
		},
	})
	md.PlainText("")
	md.PlainTextf("**Report text:** %s", status)
	md.PlainText("")

	if len(result.Changes) > 0 {
		md.H2("Coefficient Changes")
		md.PlainText("")
		rows := make([][]string, 0, len(result.Changes))
		for _, c := range result.Changes {
			rows = append(rows, []string{
				c.Parameter,
				c.Kind,
				formatValue(c.Previous),
				formatValue(c.Current),
				formatDelta(c.Delta),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Parameter", "Kind", "Previous", "Current", "Change"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainTextf("*%d coefficients unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// changeMarker returns the text marker of a change kind.
func changeMarker(kind string) string {
	switch kind {
	case changeAdded:
		return "[+]"
	case changeRemoved:
		return "[-]"
	default:
		return "[~]"
	}
}

// formatValue formats an optional coefficient for display.
func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// formatDelta formats an optional delta with sign for display.
func formatDelta(v *float64) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + strconv.FormatFloat(*v, 'f', 6, 64)
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}
