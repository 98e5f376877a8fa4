// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatMarkdown represents a markdown document.
	FormatMarkdown Format = "markdown"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault leaves alignment to tablewriter.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents data formatted for table output.
type Data struct {
	Title           string
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format. Known result types are converted with
// ToData; anything else is rendered through reflection or, failing that, JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if tables, ok := ToData(data); ok {
		for i, t := range tables {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeTable(w, t); err != nil {
				return err
			}
		}
		return nil
	}

	if t := structsToData(data); t != nil {
		return writeTable(w, *t)
	}

	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func writeTable(w io.Writer, data Data) error {
	if data.Title != "" {
		if _, err := fmt.Fprintln(w, data.Title); err != nil {
			return err
		}
	}

	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			switch a {
			case AlignLeft:
				align[i] = tw.AlignLeft
			case AlignCenter:
				align[i] = tw.AlignCenter
			case AlignRight:
				align[i] = tw.AlignRight
			default:
				align[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// pipes and redirects get machine-readable output
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, markdown", s)
	}
}

// FromPath picks a format from a file extension, falling back to JSON.
func FromPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown
	case strings.HasSuffix(lower, ".txt"):
		return FormatTable
	default:
		return FormatJSON
	}
}

// structsToData converts a struct or a slice of structs using json tags as
// headers.
func structsToData(data any) *Data {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct:
		elemType := v.Index(0).Type()
		headers := make([]string, 0, elemType.NumField())
		for i := 0; i < elemType.NumField(); i++ {
			headers = append(headers, fieldTitle(elemType.Field(i)))
		}
		rows := make([][]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			row := make([]string, 0, elem.NumField())
			for j := 0; j < elem.NumField(); j++ {
				row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
			}
			rows = append(rows, row)
		}
		return &Data{Headers: headers, Rows: rows}

	case v.Kind() == reflect.Struct:
		t := v.Type()
		rows := make([][]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			rows = append(rows, []string{
				fieldTitle(t.Field(i)),
				fmt.Sprintf("%v", v.Field(i).Interface()),
			})
		}
		return &Data{Headers: []string{"Property", "Value"}, Rows: rows}
	}

	return nil
}

// fieldTitle uses the json tag if available, otherwise the field name.
func fieldTitle(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx > 0 {
		tag = tag[:idx]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}
