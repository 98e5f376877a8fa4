package output

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/fvarrui/dbtools/pkg/check"
	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// MarkdownFormatter renders results as a markdown document. Reports get a
// dedicated layout; other tabular values become markdown tables.
type MarkdownFormatter struct{}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	doc := md.NewMarkdown(w)

	switch v := data.(type) {
	case mapper.Report:
		writeReport(doc, v)
	case *mapper.Report:
		writeReport(doc, *v)
	case check.Report:
		writeCheck(doc, v)
	case *check.Report:
		writeCheck(doc, *v)
	case *schema.Schema:
		writeSchema(doc, v)
	default:
		tables, ok := ToData(data)
		if !ok {
			if t := structsToData(data); t != nil {
				tables = []Data{*t}
			} else {
				return (&JSONFormatter{Indent: "  "}).Format(w, data)
			}
		}
		for _, t := range tables {
			writeData(doc, t)
		}
	}

	return doc.Build()
}

func writeReport(doc *md.Markdown, rep mapper.Report) {
	sum := rep.Summarize()
	doc.H1("Schema mapping").LF()
	doc.BulletList(
		fmt.Sprintf("Matched tables: %d of %d (%s)", sum.MatchedTables, sum.SourceTables, FormatRatio(sum.Coverage)),
		fmt.Sprintf("Matched columns: %d", sum.MatchedColumns),
		fmt.Sprintf("Unmatched source tables: %d", len(rep.Unmatched.Srcs)),
		fmt.Sprintf("Unmatched destination tables: %d", len(rep.Unmatched.Dsts)),
	).LF()

	data := ReportToData(rep)
	doc.H2("Matched tables").LF()
	writeRows(doc, data[0])

	for _, cols := range data[1 : len(data)-1] {
		doc.H3(md.Code(cols.Title)).LF()
		writeRows(doc, cols)
	}

	doc.H2("Unmatched tables").LF()
	doc.PlainText(md.Bold("Source")).LF()
	writeNames(doc, rep.Unmatched.Srcs)
	doc.PlainText(md.Bold("Destination")).LF()
	writeNames(doc, rep.Unmatched.Dsts)
}

func writeCheck(doc *md.Markdown, rep check.Report) {
	doc.H1(fmt.Sprintf("Relationship check: %s", rep.Schema)).LF()
	doc.BulletList(
		fmt.Sprintf("Tables: %d", rep.Tables),
		fmt.Sprintf("Declared foreign keys: %d", len(rep.Relations)),
		fmt.Sprintf("Missing relationships: %d", len(rep.Missing)),
		fmt.Sprintf("Dangling foreign keys: %d", len(rep.Dangling)),
		fmt.Sprintf("Cycles: %d", len(rep.Cycles)),
	).LF()
	for _, t := range CheckToData(rep) {
		doc.H2(t.Title).LF()
		writeRows(doc, t)
	}
}

func writeSchema(doc *md.Markdown, s *schema.Schema) {
	doc.H1(s.Name).LF()
	if s.Database != nil {
		doc.PlainTextf("Database %s on %s", md.Code(s.Database.Database), md.Code(s.Database.Server)).LF()
	}
	for i := range s.Tables {
		t := &s.Tables[i]
		doc.H2(t.Name).LF()
		if t.Comment != "" {
			doc.PlainText(t.Comment).LF()
		}
		writeRows(doc, TableToData(t))
	}
}

func writeData(doc *md.Markdown, data Data) {
	if data.Title != "" {
		doc.H2(data.Title).LF()
	}
	writeRows(doc, data)
}

func writeRows(doc *md.Markdown, data Data) {
	if len(data.Rows) == 0 {
		doc.PlainText(md.Italic("none")).LF()
		return
	}
	doc.Table(md.TableSet{Header: data.Headers, Rows: data.Rows}).LF()
}

func writeNames(doc *md.Markdown, names []string) {
	if len(names) == 0 {
		doc.PlainText(md.Italic("none")).LF()
		return
	}
	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, md.Code(n))
	}
	doc.BulletList(items...).LF()
}
