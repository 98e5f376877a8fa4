package match

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/mapper"
	"github.com/fvarrui/dbtools/pkg/schema"
)

func fixtures(t *testing.T) (dir, src, dst string) {
	t.Helper()
	dir = t.TempDir()
	src = filepath.Join(dir, "src.yaml")
	dst = filepath.Join(dir, "dst.json")

	require.NoError(t, schema.Save(src, schema.MustNew("src",
		schema.Table{Name: "customers", Columns: []schema.Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "email", Type: "VARCHAR"},
		}},
		schema.Table{Name: "tmp_import"},
	)))
	require.NoError(t, schema.Save(dst, schema.MustNew("dst",
		schema.Table{Name: "clients", Columns: []schema.Column{
			{Name: "id", Type: "INTEGER"},
			{Name: "email_address", Type: "VARCHAR"},
		}},
	)))
	return dir, src, dst
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMatchJSON(t *testing.T) {
	_, src, dst := fixtures(t)

	out, err := execute(t, &application.Mock{}, src, dst, "--threshold", "0.3", "--exclude", "tmp_*")
	require.NoError(t, err)

	var report mapper.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Matched, 1)
	assert.Equal(t, "customers", report.Matched[0].Src)
	assert.Equal(t, "clients", report.Matched[0].Dst)
	assert.Equal(t, 0.69, report.Matched[0].Ratio)
	assert.Empty(t, report.Unmatched.Srcs)
}

func TestMatchDefaultThreshold(t *testing.T) {
	_, src, dst := fixtures(t)

	out, err := execute(t, &application.Mock{}, src, dst)
	require.NoError(t, err)

	var report mapper.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Empty(t, report.Matched)
	assert.Equal(t, []string{"customers", "tmp_import"}, report.Unmatched.Srcs)
}

func TestMatchWritesFile(t *testing.T) {
	dir, src, dst := fixtures(t)
	target := filepath.Join(dir, "out", "mapping.md")

	out, err := execute(t, &application.Mock{OutputFormatFunc: func() string { return "" }},
		src, dst, "--threshold", "0.3", "--out", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Schema mapping")
	assert.Contains(t, string(data), "customers")
}

func TestMatchNamedConnections(t *testing.T) {
	_, src, dst := fixtures(t)

	var names []string
	app := &application.Mock{
		ConnectionURLFunc: func(explicitURL, name, password string) (string, error) {
			names = append(names, name)
			assert.Equal(t, "s3cret", password)
			switch name {
			case "legacy":
				return src, nil
			case "current":
				return dst, nil
			}
			return "", errors.NewNotFoundError("connection", name)
		},
	}

	_, err := execute(t, app, "@legacy", "@current", "-p", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy", "current"}, names)

	_, err = execute(t, app, "@nope", dst, "-p", "s3cret")
	assert.True(t, errors.IsNotFound(err))
}

func TestMatchInvalidThreshold(t *testing.T) {
	_, src, dst := fixtures(t)

	_, err := execute(t, &application.Mock{}, src, dst, "--column-threshold", "1.5")
	assert.True(t, errors.IsValidationError(err))
}

func TestMatchArgs(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "only-one.json")
	assert.Error(t, err)
}
