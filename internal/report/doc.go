// Package report composes regression reports and writes them out.
//
// The composer turns a fitted model into a fixed-width text report and a
// results table:
//   - Resolve decides once per equation which optional sections apply
//   - the section renderers format one block each (header, coefficient
//     table, Chow test, fit quality, diagnostics, variance matrix)
//   - Generator assembles the blocks in report order and finalizes the
//     results table
//
// The column widths, precisions and banners of the text report are fixed;
// downstream consumers parse them.
//
// Writers export a composed Result:
//   - TextWriter: the report text as composed
//   - MarkdownWriter: the report with its tables for documentation
//   - JSONWriter: structured output for tool integration
package report
