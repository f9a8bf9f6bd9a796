// Package sql validates and quotes identifiers that reach datasource queries.
package sql

import (
	"fmt"
	"strings"
	"unicode/utf8"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// MaxIdentifierLength bounds a single identifier part (SQL Server's limit;
// PostgreSQL truncates at 63 bytes on its own).
const MaxIdentifierLength = 128

// TableName is a parsed, optionally schema-qualified table reference.
type TableName struct {
	Schema string
	Table  string
}

// String renders the reference unquoted.
func (t TableName) String() string {
	if t.Schema == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

// ParseTableName splits "schema.table" or "table" and rejects references that
// cannot be safely quoted or that libinjection flags as SQL injection.
// Errors wrap apperrors.ErrUnsafeIdentifier.
func ParseTableName(ref string) (TableName, error) {
	if isSQLi, fingerprint := libinjection.IsSQLi(ref); isSQLi {
		return TableName{}, fmt.Errorf("%w: %q matches injection pattern %s",
			apperrors.ErrUnsafeIdentifier, ref, fingerprint)
	}

	parts := strings.Split(ref, ".")
	if len(parts) > 2 {
		return TableName{}, fmt.Errorf("%w: %q has more than one qualifier", apperrors.ErrUnsafeIdentifier, ref)
	}
	for _, p := range parts {
		if err := CheckIdentifier(p); err != nil {
			return TableName{}, err
		}
	}

	if len(parts) == 2 {
		return TableName{Schema: parts[0], Table: parts[1]}, nil
	}
	return TableName{Table: parts[0]}, nil
}

// CheckIdentifier validates one identifier part.
func CheckIdentifier(ident string) error {
	switch {
	case ident == "":
		return fmt.Errorf("%w: empty identifier", apperrors.ErrUnsafeIdentifier)
	case utf8.RuneCountInString(ident) > MaxIdentifierLength:
		return fmt.Errorf("%w: identifier longer than %d characters", apperrors.ErrUnsafeIdentifier, MaxIdentifierLength)
	case !utf8.ValidString(ident):
		return fmt.Errorf("%w: identifier is not valid UTF-8", apperrors.ErrUnsafeIdentifier)
	case strings.ContainsAny(ident, "\x00;"):
		return fmt.Errorf("%w: %q contains a forbidden character", apperrors.ErrUnsafeIdentifier, ident)
	}
	return nil
}

// QuotePostgres renders the reference with double-quoted identifiers.
func (t TableName) QuotePostgres() string {
	table := `"` + strings.ReplaceAll(t.Table, `"`, `""`) + `"`
	if t.Schema == "" {
		return table
	}
	return `"` + strings.ReplaceAll(t.Schema, `"`, `""`) + `".` + table
}

// QuoteSQLServer renders the reference with bracket-quoted identifiers.
func (t TableName) QuoteSQLServer() string {
	table := "[" + strings.ReplaceAll(t.Table, "]", "]]") + "]"
	if t.Schema == "" {
		return table
	}
	return "[" + strings.ReplaceAll(t.Schema, "]", "]]") + "]." + table
}
