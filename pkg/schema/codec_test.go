package schema_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/schema"
)

const listJSON = `{
  "name": "shop",
  "tables": [
    {
      "name": "customers",
      "primary_keys": ["id"],
      "columns": [
        {"name": "id", "type": "INTEGER"},
        {"name": "email", "type": "VARCHAR", "nullable": true, "comment": "contact"}
      ]
    }
  ]
}`

const dumpJSON = `{
    "database": {"server": "db.local", "port": 5432, "database": "pec"},
    "tables": {
        "pec_cursos": {
            "comment": null,
            "columns": {
                "id": {"type": "INTEGER", "comment": null},
                "nombre": {"type": "VARCHAR(100)", "comment": "Nombre del curso"}
            },
            "primary_key": ["id"],
            "foreign_keys": {}
        },
        "pec_alumnos": {
            "comment": "Alumnos",
            "columns": {
                "id": {"type": "INTEGER", "comment": null},
                "curso_id": {"type": "INTEGER", "comment": null}
            },
            "primary_key": ["id"],
            "foreign_keys": {"curso_id": {"references": "pec_cursos", "column": "id"}}
        }
    }
}`

const listYAML = `name: shop
tables:
  - name: customers
    primary_keys: [id]
    columns:
      - name: id
        type: INTEGER
      - name: email
        type: VARCHAR
        nullable: true
        comment: contact
`

const dumpYAML = `database:
  server: db.local
  port: 5432
  database: pec
tables:
  pec_alumnos:
    comment: Alumnos
    columns:
      id:
        type: INTEGER
      curso_id:
        type: INTEGER
    primary_key: [id]
    foreign_keys:
      curso_id:
        references: pec_cursos
        column: id
  pec_cursos:
    columns:
      id:
        type: INTEGER
      nombre:
        type: VARCHAR(100)
        comment: Nombre del curso
    primary_key: [id]
`

func wantShop() []schema.Table {
	return []schema.Table{{
		Schema:      "shop",
		Name:        "customers",
		PrimaryKeys: []string{"id"},
		Columns: []schema.Column{
			{Table: "customers", Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Table: "customers", Name: "email", Type: "VARCHAR", Nullable: true, Comment: "contact"},
		},
	}}
}

func wantPec(name string) []schema.Table {
	return []schema.Table{
		{
			Schema:      name,
			Name:        "pec_alumnos",
			Comment:     "Alumnos",
			PrimaryKeys: []string{"id"},
			Columns: []schema.Column{
				{Table: "pec_alumnos", Name: "curso_id", Type: "INTEGER"},
				{Table: "pec_alumnos", Name: "id", Type: "INTEGER", PrimaryKey: true},
			},
			ForeignKeys: []schema.ForeignKey{{Column: "curso_id", ReferencedTable: "pec_cursos", ReferencedColumn: "id"}},
		},
		{
			Schema:      name,
			Name:        "pec_cursos",
			PrimaryKeys: []string{"id"},
			Columns: []schema.Column{
				{Table: "pec_cursos", Name: "id", Type: "INTEGER", PrimaryKey: true},
				{Table: "pec_cursos", Name: "nombre", Type: "VARCHAR(100)", Comment: "Nombre del curso"},
			},
		},
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format schema.Format
		want   []schema.Table
		server string
	}{
		{"json list form", listJSON, schema.FormatJSON, wantShop(), ""},
		{"yaml list form", listYAML, schema.FormatYAML, wantShop(), ""},
		{"json dump form", dumpJSON, schema.FormatJSON, wantPec(""), "db.local"},
		{"yaml dump form", dumpYAML, schema.FormatYAML, wantPec(""), "db.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Decode(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)

			want := tt.want
			for i := range want {
				want[i].Schema = s.Name
			}
			if diff := cmp.Diff(want, s.Tables); diff != "" {
				t.Errorf("tables mismatch (-want +got):\n%s", diff)
			}
			if tt.server != "" {
				require.NotNil(t, s.Database)
				assert.Equal(t, tt.server, s.Database.Server)
				assert.Equal(t, 5432, s.Database.Port)
				assert.Equal(t, "pec", s.Database.Database)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := schema.Decode(strings.NewReader("{not json"), schema.FormatJSON)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)

	_, err = schema.Decode(strings.NewReader(`{"tables":[{"name":""}]}`), schema.FormatJSON)
	assert.True(t, errors.IsValidationError(err))

	_, err = schema.Decode(strings.NewReader(""), schema.Format("xml"))
	assert.True(t, errors.IsUnsupported(err))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	dumpPath := filepath.Join(dir, "pec.json")
	require.NoError(t, os.WriteFile(dumpPath, []byte(dumpJSON), 0o644))

	s, err := schema.Load(dumpPath)
	require.NoError(t, err)
	assert.Equal(t, "pec", s.Name, "name defaults to the file stem")
	if diff := cmp.Diff(wantPec("pec"), s.Tables); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}

	out := filepath.Join(dir, "nested", "pec.yaml")
	require.NoError(t, schema.Save(out, s))

	reloaded, err := schema.Load(out)
	require.NoError(t, err)
	assert.Equal(t, s.Name, reloaded.Name)
	if diff := cmp.Diff(s.Tables, reloaded.Tables); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = schema.Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.IsNotFound(err))
}

func TestEncodeListForm(t *testing.T) {
	s, err := schema.Decode(strings.NewReader(listJSON), schema.FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, schema.Encode(&buf, s, schema.FormatJSON))
	assert.Contains(t, buf.String(), `"tables": [`)
	assert.NotContains(t, buf.String(), `"Schema"`)
	assert.NotContains(t, buf.String(), `"Table"`)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("a/b.YML"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("b.yaml"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("b.json"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("b"))
}
