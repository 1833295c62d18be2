package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/regreport/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs reports in Markdown format: the fixed-width
// report as a code block followed by the results and Chow tables.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeCoefficients(md, result)
	w.writeEquations(md, result)
	w.writeChow(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.Result) {
	title := "Regression Report"
	if result.Title != "" {
		title += ": " + result.Title
	}
	md.H1(title)
	md.PlainText("")

	dataset := result.Dataset
	if dataset == "" {
		dataset = "-"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dataset", dataset},
			{"Equations", strconv.Itoa(len(result.Equations))},
			{"Parameters", strconv.Itoa(len(result.Output))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.Result) {
	md.H2("Summary")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlight("text"), result.Summary)
	md.PlainText("")
}

func (w *MarkdownWriter) writeCoefficients(md *markdown.Markdown, result *model.Result) {
	md.H2("Coefficients")
	md.PlainText("")

	partial := 0
	rows := make([][]string, len(result.Output))
	for i, r := range result.Output {
		if r.StdErr == nil {
			partial++
		}
		rows[i] = []string{
			"`" + r.Name + "`",
			formatCell(&r.Coefficient, 5),
			formatCell(r.StdErr, 5),
			formatCell(r.Statistic, 5),
			formatCell(r.PValue, 5),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Variable", "Coefficient", "Std.Error", "Statistic", "Probability"},
		Rows:   rows,
	})
	md.PlainText("")

	if partial > 0 {
		md.Note(strconv.Itoa(partial) + " parameter(s) carry no inference; only the coefficient is reported.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeEquations(md *markdown.Markdown, result *model.Result) {
	md.H2("Equations")
	md.PlainText("")

	caser := cases.Title(language.English)
	for _, eq := range result.Equations {
		heading := eq.Title
		if eq.ID != "" {
			heading = "Equation " + eq.ID + ": " + eq.Title
		}
		md.PlainText("### " + heading)
		md.PlainText("")

		sections := make([]string, 0, len(eq.Sections)+2)
		sections = append(sections,
			"Family: "+caser.String(eq.Family.String()),
			"Degrees of freedom: "+strconv.Itoa(eq.DegreesOfFreedom))
		for _, s := range eq.Sections {
			sections = append(sections, caser.String(strings.ReplaceAll(s, "_", " ")))
		}
		md.BulletList(sections...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeChow(md *markdown.Markdown, result *model.Result) {
	tables := result.ChowTables()
	if len(tables) == 0 {
		return
	}

	md.H2("Regimes Diagnostics: Chow Test")
	md.PlainText("")
	for _, c := range tables {
		switch {
		case c.EquationID != "":
			md.PlainText("### Equation " + c.EquationID)
		case c == result.GlobalChow:
			md.PlainText("### Global")
		default:
			md.PlainText("### " + c.Variable)
		}
		md.PlainText("")

		rows := make([][]string, len(c.Rows))
		for i, r := range c.Rows {
			rows[i] = []string{
				r.Name,
				strconv.Itoa(r.DF),
				strconv.FormatFloat(r.Value, 'f', 3, 64),
				strconv.FormatFloat(r.PValue, 'f', 4, 64),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Variable", "DF", "Value", "Prob"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by regreport*")
}

// formatCell formats an optional value, "-" when absent.
func formatCell(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
