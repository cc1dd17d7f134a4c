// Package diagnostics implements the position, severity and diagnostic-bag
// model shared by the parser adapter, the semantic analyzer and the
// evaluator.
package diagnostics

import "fmt"

// Severity classifies how serious a Diagnostic is. Only Error and Internal
// fail a run.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Internal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported condition: where it happened, how bad it
// is, a stable code identifying its kind, and a human-readable message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Position Position
	Message  string
}

// String renders the canonical diagnostic format:
// <file>(<line>,<col>): error <code>: <message>
func (d Diagnostic) String() string {
	if d.Position.IsNone() {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	file := d.Position.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s(%d,%d): %s %s: %s", file, d.Position.Line, d.Position.Column, d.Severity, d.Code, d.Message)
}

// New builds a Diagnostic with a formatted message.
func New(severity Severity, code Code, pos Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity: severity,
		Code:     code,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Bag is an append-only ordered collection of diagnostics.
type Bag struct {
	entries []Diagnostic
}

// Add appends d to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.entries = append(b.entries, d)
}

// Addf is a convenience wrapper building and appending a Diagnostic in one
// call.
func (b *Bag) Addf(severity Severity, code Code, pos Position, format string, args ...interface{}) {
	b.Add(New(severity, code, pos, format, args...))
}

// Entries returns the diagnostics in report order. The returned slice must
// not be mutated by callers.
func (b *Bag) Entries() []Diagnostic {
	return b.entries
}

// Len reports the number of diagnostics recorded so far.
func (b *Bag) Len() int {
	return len(b.entries)
}

// HasErrors is true iff any entry has severity Error or Internal.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == Error || d.Severity == Internal {
			return true
		}
	}
	return false
}

// Merge appends every entry of other onto b, preserving order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.entries = append(b.entries, other.entries...)
}

// String renders every diagnostic, one per line, through the canonical
// formatter.
func (b *Bag) String() string {
	out := ""
	for i, d := range b.entries {
		if i > 0 {
			out += "\n"
		}
		out += d.String()
	}
	return out
}
