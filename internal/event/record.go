// Package event defines the synthetic security event record and the
// randomized synthesis of its fields.
package event

import (
	"net/netip"
	"time"

	"pkg.jsn.cam/seceventgen/pkg/sqlfmt"
)

// Severity of a security event
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Record is one synthesized security event row
type Record struct {
	ID            int64
	Time          time.Time
	Category      string
	Subcategory   string
	SourceIP      netip.Addr
	Actor         *string // nil renders as NULL
	Target        string
	Narrative     string
	Severity      Severity
	Malicious     bool
	CorrelationID *string // nil renders as NULL
}

// Columns is the target table layout, in tuple order
var Columns = []sqlfmt.Column{
	{Name: "event_id", Type: "INTEGER PRIMARY KEY"},
	{Name: "event_time", Type: "TIMESTAMP NOT NULL"},
	{Name: "event_type", Type: "VARCHAR(32) NOT NULL"},
	{Name: "event_subtype", Type: "VARCHAR(32) NOT NULL"},
	{Name: "source_ip", Type: "VARCHAR(45) NOT NULL"},
	{Name: "user_id", Type: "VARCHAR(64)"},
	{Name: "target_resource", Type: "VARCHAR(64) NOT NULL"},
	{Name: "details", Type: "VARCHAR(255) NOT NULL"},
	{Name: "severity", Type: "VARCHAR(16) NOT NULL"},
	{Name: "is_malicious", Type: "BOOLEAN NOT NULL"},
	{Name: "correlation_id", Type: "VARCHAR(64)"},
}

// Values renders the record as SQL literals matching Columns
func (r Record) Values() []sqlfmt.Literal {
	return []sqlfmt.Literal{
		sqlfmt.Int(r.ID),
		sqlfmt.Timestamp(r.Time),
		sqlfmt.String(r.Category),
		sqlfmt.String(r.Subcategory),
		sqlfmt.String(r.SourceIP.String()),
		sqlfmt.NullString(r.Actor),
		sqlfmt.String(r.Target),
		sqlfmt.String(r.Narrative),
		sqlfmt.String(string(r.Severity)),
		sqlfmt.Bool(r.Malicious),
		sqlfmt.NullString(r.CorrelationID),
	}
}

// Tuple renders the record as a single SQL row literal
func (r Record) Tuple() string {
	return sqlfmt.Tuple(r.Values()...)
}
