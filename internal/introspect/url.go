package introspect

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fvarrui/dbtools/pkg/errors"
	"github.com/fvarrui/dbtools/pkg/schema"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// NormalizeDriver maps driver aliases to a registered driver name.
func NormalizeDriver(driver string) (string, error) {
	// SQLAlchemy style URLs carry the client library after a plus sign.
	base, _, _ := strings.Cut(strings.ToLower(driver), "+")
	switch base {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", errors.Unsupported("driver", driver)
	}
}

// ParseURL splits a connection URL into a driver name and the DSN that
// driver expects. SQLite URLs take the form sqlite:///relative/path or
// sqlite:////absolute/path. PostgreSQL URLs are passed through.
func ParseURL(raw string) (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", errors.NewValidationError("url", raw, "missing scheme")
	}
	driver, err = NormalizeDriver(scheme)
	if err != nil {
		return "", "", err
	}

	switch driver {
	case DriverSQLite:
		// sqlite:///file.db leaves "/file.db" after the authority.
		dsn = strings.TrimPrefix(rest, "/")
		if dsn == "" {
			return "", "", errors.NewValidationError("url", Redact(raw), "missing database file")
		}
	case DriverPostgres:
		dsn = "postgres://" + rest
	}
	return driver, dsn, nil
}

// Describe returns the database coordinates of a connection, never the
// credentials.
func Describe(driver, dsn string) *schema.Database {
	if driver == DriverSQLite {
		path, _, _ := strings.Cut(dsn, "?")
		return &schema.Database{Database: filepath.Base(path)}
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return &schema.Database{}
	}
	db := &schema.Database{
		Server:   u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
	}
	if p, err := strconv.Atoi(u.Port()); err == nil {
		db.Port = p
	}
	return db
}

// Redact hides the password of a connection URL.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// target is the short label used in errors and logs.
func target(driver, dsn string) string {
	d := Describe(driver, dsn)
	if d.Server == "" {
		return d.Database
	}
	return d.Server + "/" + d.Database
}
