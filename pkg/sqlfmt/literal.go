// Package sqlfmt renders SQL literals, row tuples and the statement preamble
// of a seed script. All quoting and NULL rules live here.
package sqlfmt

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the literal form used for timestamp values
const TimestampLayout = "2006-01-02 15:04:05"

// Null is the SQL null literal
const Null = "NULL"

// Literal is a value already rendered as SQL text
type Literal string

// Int renders an integer literal
func Int(v int64) Literal {
	return Literal(strconv.FormatInt(v, 10))
}

// String renders a single-quoted string literal, doubling embedded quotes
func String(v string) Literal {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(v); i++ {
		if v[i] == '\'' {
			b.WriteByte('\'')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('\'')
	return Literal(b.String())
}

// NullString renders a string literal, or NULL when v is nil
func NullString(v *string) Literal {
	if v == nil {
		return Null
	}
	return String(*v)
}

// Bool renders TRUE or FALSE
func Bool(v bool) Literal {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// Timestamp renders a quoted timestamp with second precision
func Timestamp(v time.Time) Literal {
	return String(v.Format(TimestampLayout))
}

// Tuple renders a parenthesized, comma separated row
func Tuple(values ...Literal) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(v))
	}
	b.WriteByte(')')
	return b.String()
}
