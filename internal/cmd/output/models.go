package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fvarrui/dbtools/internal/introspect"
	"github.com/fvarrui/dbtools/pkg/check"
	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// ToData converts the result types printed by dbtools into one or more
// tables. The second return is false for values it does not know.
func ToData(v any) ([]Data, bool) {
	switch v := v.(type) {
	case Data:
		return []Data{v}, true
	case []Data:
		return v, true
	case []string:
		return []Data{StringsToData("Name", v)}, true
	case mapper.Report:
		return ReportToData(v), true
	case *mapper.Report:
		return ReportToData(*v), true
	case *schema.Schema:
		return []Data{SchemaToData(v)}, true
	case *schema.Table:
		return []Data{TableToData(v)}, true
	case check.Report:
		return CheckToData(v), true
	case *check.Report:
		return CheckToData(*v), true
	case *introspect.Rows:
		return []Data{RowsToData(v)}, true
	}
	return nil, false
}

// StringsToData renders a list of names as a single column.
func StringsToData(header string, values []string) Data {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{v})
	}
	return Data{Headers: []string{header}, Rows: rows}
}

// RowsToData renders query results. NULL values print as "NULL".
func RowsToData(r *introspect.Rows) Data {
	data := Data{Headers: r.Columns, Rows: make([][]string, 0, r.Len())}
	for _, values := range r.Values {
		row := make([]string, len(values))
		for i, v := range values {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case time.Time:
				row[i] = v.Format(time.RFC3339)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// ReportToData renders a reconciliation report: one table for matched
// tables, one per matched pair for its columns, and one for leftovers.
func ReportToData(rep mapper.Report) []Data {
	tables := Data{
		Title:           "Matched tables",
		Headers:         []string{"Source", "Destination", "Ratio", "Columns"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
	for _, m := range rep.Matched {
		total := len(m.Columns.Matched) + len(m.Columns.Unmatched.Srcs)
		tables.Rows = append(tables.Rows, []string{
			m.Src, m.Dst, FormatRatio(m.Ratio),
			fmt.Sprintf("%d/%d", len(m.Columns.Matched), total),
		})
	}

	out := []Data{tables}
	for _, m := range rep.Matched {
		cols := Data{
			Title:           fmt.Sprintf("%s -> %s", m.Src, m.Dst),
			Headers:         []string{"Source", "Destination", "Name ratio", "Type ratio"},
			ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
		}
		for _, c := range m.Columns.Matched {
			cols.Rows = append(cols.Rows, []string{
				columnLabel(c.Src), columnLabel(c.Dst),
				FormatRatio(c.NameRatio), FormatRatio(c.TypeRatio),
			})
		}
		for _, name := range m.Columns.Unmatched.Srcs {
			cols.Rows = append(cols.Rows, []string{name, "-", "", ""})
		}
		for _, name := range m.Columns.Unmatched.Dsts {
			cols.Rows = append(cols.Rows, []string{"-", name, "", ""})
		}
		out = append(out, cols)
	}

	out = append(out, unmatchedToData("Unmatched tables", rep.Unmatched))
	return out
}

func unmatchedToData(title string, u mapper.Unmatched) Data {
	data := Data{Title: title, Headers: []string{"Source", "Destination"}}
	for i := 0; i < max(len(u.Srcs), len(u.Dsts)); i++ {
		row := []string{"", ""}
		if i < len(u.Srcs) {
			row[0] = u.Srcs[i]
		}
		if i < len(u.Dsts) {
			row[1] = u.Dsts[i]
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// SchemaToData lists the tables of a schema.
func SchemaToData(s *schema.Schema) Data {
	data := Data{
		Title:           s.Name,
		Headers:         []string{"Table", "Columns", "Primary key", "Foreign keys", "Comment"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignRight, AlignLeft},
	}
	for i := range s.Tables {
		t := &s.Tables[i]
		data.Rows = append(data.Rows, []string{
			t.Name,
			strconv.Itoa(len(t.Columns)),
			strings.Join(t.PrimaryKeys, ", "),
			strconv.Itoa(len(t.ForeignKeys)),
			Truncate(t.Comment, 60),
		})
	}
	return data
}

// TableToData lists the columns of one table.
func TableToData(t *schema.Table) Data {
	data := Data{
		Title:   t.Name,
		Headers: []string{"Column", "Type", "Null", "Key", "References", "Comment"},
	}
	for _, c := range t.Columns {
		key := ""
		if c.PrimaryKey || t.IsPrimaryKey(c.Name) {
			key = "PK"
		}
		ref := ""
		if fk, ok := t.ForeignKey(c.Name); ok {
			ref = fk.ReferencedTable + "." + fk.ReferencedColumn
		}
		data.Rows = append(data.Rows, []string{
			c.Name, c.Type, yesNo(c.Nullable), key, ref, Truncate(c.Comment, 60),
		})
	}
	return data
}

// CheckToData renders a relationship check report.
func CheckToData(rep check.Report) []Data {
	missing := Data{Title: "Missing relationships", Headers: []string{"Table", "Column", "Target"}}
	for _, m := range rep.Missing {
		missing.Rows = append(missing.Rows, []string{m.Table, m.Column, m.Target})
	}

	dangling := Data{Title: "Dangling foreign keys", Headers: []string{"Table", "Column", "References"}}
	for _, d := range rep.Dangling {
		dangling.Rows = append(dangling.Rows, []string{d.Table, d.Column, d.ReferencedTable + "." + d.ReferencedColumn})
	}

	cycles := Data{Title: "Cycles", Headers: []string{"#", "Tables"}}
	for i, c := range rep.Cycles {
		cycles.Rows = append(cycles.Rows, []string{strconv.Itoa(i + 1), CycleString(c)})
	}

	return []Data{missing, dangling, cycles}
}

// CycleString renders a cycle as a closed path, a -> b -> a.
func CycleString(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, cycle...), cycle[0]), " -> ")
}

// FormatRatio prints a rounded ratio with two decimals.
func FormatRatio(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64)
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func columnLabel(c mapper.ColumnRef) string {
	if c.Type == "" {
		return c.Name
	}
	return c.Name + " " + c.Type
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
