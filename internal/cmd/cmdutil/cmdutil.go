// Package cmdutil provides helpers shared by the dbtools commands.
package cmdutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fvarrui/dbtools"
	"github.com/fvarrui/dbtools/cmd/application"
	"github.com/fvarrui/dbtools/internal/cmd/globals"
	"github.com/fvarrui/dbtools/internal/cmd/output"
	"github.com/fvarrui/dbtools/internal/introspect"
	"github.com/fvarrui/dbtools/pkg/constants"
	"github.com/fvarrui/dbtools/pkg/errors"
)

// ConnectionPrefix marks a command argument as a named connection, as in
// "dbtools match @legacy @default".
const ConnectionPrefix = "@"

// ResolveRef turns a command argument into something a dbtools client can
// load. Named connections are resolved through the application; files and
// URLs are returned unchanged.
func ResolveRef(app application.Application, ref, password string) (string, error) {
	if name, ok := strings.CutPrefix(ref, ConnectionPrefix); ok {
		return app.ConnectionURL("", name, password)
	}
	return ref, nil
}

// Emit prints data to the command output, or writes it to out when set.
// The format comes from -o, then the extension of out, then the terminal.
func Emit(cmd *cobra.Command, app application.Application, out string, data any) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	if out == "" {
		if format == "" {
			format = output.DetectFormat("")
		}
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
	}

	if format == "" {
		format = output.FromPath(out)
	}
	var buf bytes.Buffer
	if err := output.NewFormatter(format).Format(&buf, data); err != nil {
		return err
	}
	if err := WriteFile(out, buf.Bytes()); err != nil {
		return err
	}
	app.Logger().Info().Str("path", out).Str("format", string(format)).Msg("Output written")
	return nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// MustGetString retrieves a string flag value or panics if the flag
// doesn't exist.
func MustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist.
func MustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetFloat64 retrieves a float flag value or panics if the flag
// doesn't exist.
func MustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// Connection resolves the connection flags into a driver name and DSN.
// URLs carry their driver; bare DSNs need --driver.
func Connection(app application.Application, flags *globals.ConnectionFlags) (driver, dsn string, err error) {
	raw, err := app.ConnectionURL(flags.URL, flags.Name, flags.Password)
	if err != nil {
		return "", "", err
	}
	if dbtools.IsURL(raw) {
		return introspect.ParseURL(raw)
	}
	if flags.Driver == "" {
		return "", "", errors.NewValidationError("driver", "", "required when the connection is not a URL")
	}
	return flags.Driver, raw, nil
}

// Connect opens an introspector for the connection flags.
func Connect(ctx context.Context, app application.Application, flags *globals.ConnectionFlags) (*introspect.Introspector, error) {
	driver, dsn, err := Connection(app, flags)
	if err != nil {
		return nil, err
	}
	return introspect.Open(ctx, driver, dsn)
}
