package config

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/fvarrui/dbtools/pkg/errors"
)

// PasswordPlaceholder is replaced by the password given on the command
// line or typed at the prompt.
const PasswordPlaceholder = "PASSWORD"

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)

// Connection is a named database connection. Either URL is set, possibly
// with {PLACEHOLDER} markers, or the URL is assembled from the parts.
type Connection struct {
	Name     string            `mapstructure:"-" yaml:"-"`
	URL      string            `mapstructure:"url" yaml:"url,omitempty"`
	Driver   string            `mapstructure:"driver" yaml:"driver,omitempty"`
	Host     string            `mapstructure:"host" yaml:"host,omitempty"`
	Port     int               `mapstructure:"port" yaml:"port,omitempty"`
	Username string            `mapstructure:"username" yaml:"username,omitempty"`
	Password string            `mapstructure:"password" yaml:"password,omitempty"`
	Database string            `mapstructure:"database" yaml:"database,omitempty"`
	Path     string            `mapstructure:"path" yaml:"path,omitempty"`
	Options  map[string]string `mapstructure:"options" yaml:"options,omitempty"`
}

// ConnectionURL returns the connection URL, building it from the parts
// when URL is empty. A missing password becomes {PASSWORD}.
func (c Connection) ConnectionURL() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	switch strings.ToLower(c.Driver) {
	case "sqlite", "sqlite3":
		if c.Path == "" {
			return "", errors.NewConfigError("connections."+c.Name, "sqlite connection needs a path", nil)
		}
		return "sqlite:///" + c.Path, nil
	case "postgres", "postgresql", "pg":
		if c.Host == "" || c.Database == "" {
			return "", errors.NewConfigError("connections."+c.Name, "postgres connection needs host and database", nil)
		}
		port := c.Port
		if port == 0 {
			port = 5432
		}
		var b strings.Builder
		b.WriteString("postgres://")
		if c.Username != "" {
			password := "{" + PasswordPlaceholder + "}"
			if c.Password != "" {
				password = escape(c.Password)
			}
			b.WriteString(escape(c.Username) + ":" + password + "@")
		}
		fmt.Fprintf(&b, "%s:%d/%s", c.Host, port, escape(c.Database))
		if len(c.Options) > 0 {
			q := url.Values{}
			for k, v := range c.Options {
				q.Set(k, v)
			}
			b.WriteString("?" + q.Encode())
		}
		return b.String(), nil
	case "":
		return "", errors.NewConfigError("connections."+c.Name, "either url or driver is required", nil)
	default:
		return "", errors.Unsupported("driver", c.Driver)
	}
}

// Placeholders returns the distinct placeholder names in s, sorted.
func Placeholders(s string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		seen[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasUndefinedPassword reports whether s still carries {PASSWORD}.
func HasUndefinedPassword(s string) bool {
	return strings.Contains(s, "{"+PasswordPlaceholder+"}")
}

// ReplacePlaceholder substitutes every {name} in s with the URL escaped value.
func ReplacePlaceholder(s, name, value string) string {
	return strings.ReplaceAll(s, "{"+name+"}", escape(value))
}

// escape encodes a value for the userinfo or query part of a URL.
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
