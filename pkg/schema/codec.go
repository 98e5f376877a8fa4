package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// Format is a schema file encoding.
type Format string

const (
	// FormatJSON is the JSON encoding.
	FormatJSON Format = "json"
	// FormatYAML is the YAML encoding.
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension. Anything that
// is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the on-disk shape. Tables may be a list of tables or the
// map keyed by table name written by the schema dumper.
type document struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Database *Database `json:"database,omitempty" yaml:"database,omitempty"`
	Tables   tableList `json:"tables" yaml:"tables"`
}

type tableList []Table

// dumpTable is one entry of the dumper's tables map.
type dumpTable struct {
	Comment     string                    `json:"comment" yaml:"comment"`
	Columns     map[string]dumpColumn     `json:"columns" yaml:"columns"`
	PrimaryKey  []string                  `json:"primary_key" yaml:"primary_key"`
	ForeignKeys map[string]dumpForeignKey `json:"foreign_keys" yaml:"foreign_keys"`
}

type dumpColumn struct {
	Type    string `json:"type" yaml:"type"`
	Comment string `json:"comment" yaml:"comment"`
}

type dumpForeignKey struct {
	References string `json:"references" yaml:"references"`
	Column     string `json:"column" yaml:"column"`
}

// UnmarshalJSON accepts both the list and the map form.
func (l *tableList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var dump map[string]dumpTable
		if err := json.Unmarshal(trimmed, &dump); err != nil {
			return err
		}
		*l = fromDump(dump)
		return nil
	}
	var tables []Table
	if err := json.Unmarshal(trimmed, &tables); err != nil {
		return err
	}
	*l = tables
	return nil
}

// UnmarshalYAML accepts both the list and the map form.
func (l *tableList) UnmarshalYAML(unmarshal func(any) error) error {
	var tables []Table
	if err := unmarshal(&tables); err == nil {
		*l = tables
		return nil
	}
	var dump map[string]dumpTable
	if err := unmarshal(&dump); err != nil {
		return err
	}
	*l = fromDump(dump)
	return nil
}

// fromDump converts the dumper's map form. Map order is not preserved by
// the decoders, so tables and columns are sorted by name.
func fromDump(dump map[string]dumpTable) []Table {
	names := make([]string, 0, len(dump))
	for name := range dump {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		dt := dump[name]
		t := Table{
			Name:        name,
			Comment:     dt.Comment,
			PrimaryKeys: dt.PrimaryKey,
		}

		columns := make([]string, 0, len(dt.Columns))
		for c := range dt.Columns {
			columns = append(columns, c)
		}
		sort.Strings(columns)
		for _, c := range columns {
			dc := dt.Columns[c]
			t.Columns = append(t.Columns, Column{Name: c, Type: dc.Type, Comment: dc.Comment})
		}

		fkColumns := make([]string, 0, len(dt.ForeignKeys))
		for c := range dt.ForeignKeys {
			fkColumns = append(fkColumns, c)
		}
		sort.Strings(fkColumns)
		for _, c := range fkColumns {
			fk := dt.ForeignKeys[c]
			t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
				Column:           c,
				ReferencedTable:  fk.References,
				ReferencedColumn: fk.Column,
			})
		}
		tables = append(tables, t)
	}
	return tables
}

// Load reads a schema file. The format is inferred from the extension and
// the schema name defaults to the file name without extension.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("schema file", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	s, err := decode(f, FormatFromPath(path), path)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := s.normalize(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Decode reads a schema in the given format.
func Decode(r io.Reader, format Format) (*Schema, error) {
	return decode(r, format, "")
}

func decode(r io.Reader, format Format, file string) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", file, err)
	}

	var doc document
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.Unsupported("schema format", string(format))
	}
	if err != nil {
		return nil, errors.WrapParse(string(format), file, err)
	}

	s := &Schema{Name: doc.Name, Database: doc.Database, Tables: doc.Tables}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes the schema in list form.
func Encode(w io.Writer, s *Schema, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.Unsupported("schema format", string(format))
	}
}

// Save writes the schema to path, creating parent directories.
func Save(path string, s *Schema) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, FormatFromPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
