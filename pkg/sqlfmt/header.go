package sqlfmt

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ClearMode selects the statement that empties the table before the insert
type ClearMode string

const (
	ClearTruncate ClearMode = "truncate"
	ClearDelete   ClearMode = "delete"
	ClearNone     ClearMode = "none"
)

var (
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrUnknownClearMode  = errors.New("unknown clear mode")
	ErrNoColumns         = errors.New("no columns defined")
)

// Banner is the comment line that opens every generated script
const Banner = "/* AUTO-GENERATED SECURITY EVENT DATA */"

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// ParseClearMode validates a clear mode name
func ParseClearMode(s string) (ClearMode, error) {
	switch m := ClearMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ClearTruncate, ClearDelete, ClearNone:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownClearMode, s)
	}
}

// ValidateTable reports whether name is a plain or schema-qualified identifier
func ValidateTable(name string) error {
	if !tablePattern.MatchString(name) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// Column is a target table column with the SQL type used by CREATE TABLE
type Column struct {
	Name string
	Type string
}

// Header describes everything written before the first tuple
type Header struct {
	Table       string
	Columns     []Column
	Clear       ClearMode
	ColumnList  bool // name the columns in the INSERT preamble
	CreateTable bool // emit CREATE TABLE IF NOT EXISTS
}

// Validate checks the table and column names
func (h Header) Validate() error {
	if err := ValidateTable(h.Table); err != nil {
		return err
	}
	if len(h.Columns) == 0 {
		return ErrNoColumns
	}
	for _, c := range h.Columns {
		if !identPattern.MatchString(c.Name) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, c.Name)
		}
	}
	if _, err := ParseClearMode(string(h.Clear)); err != nil {
		return err
	}
	return nil
}

// WriteTo writes the banner, optional CREATE TABLE, clearing statement and
// INSERT preamble. The preamble ends with VALUES and a newline.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	var b strings.Builder
	b.WriteString(Banner)
	b.WriteByte('\n')

	if h.CreateTable {
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", h.Table)
		for i, c := range h.Columns {
			fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
			if i < len(h.Columns)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(");\n")
	}

	switch h.Clear {
	case ClearTruncate:
		fmt.Fprintf(&b, "TRUNCATE TABLE %s;\n", h.Table)
	case ClearDelete:
		fmt.Fprintf(&b, "DELETE FROM %s;\n", h.Table)
	}

	fmt.Fprintf(&b, "INSERT INTO %s", h.Table)
	if h.ColumnList {
		names := make([]string, len(h.Columns))
		for i, c := range h.Columns {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(names, ", "))
	}
	b.WriteString(" VALUES\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Terminator returns the separator that follows a tuple
func Terminator(last bool) string {
	if last {
		return ";"
	}
	return ","
}
