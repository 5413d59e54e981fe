package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dataplan/internal/common"
)

// Severity ranks a diagnostic. Only errors stop a run.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}

	return common.UnknownStr
}

// Level is the slog level a diagnostic of this severity is logged at.
// Infos are chatty and go to DEBUG.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// Diagnostic is one finding about an object or one of its fields.
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Object      string
	Field       string
	Suggestions []string
}

// Subject is "Object.Field", "Object" or empty.
func (d Diagnostic) Subject() string {
	if d.Field == "" || d.Object == "" {
		return d.Object
	}

	return d.Object + "." + d.Field
}

func (d Diagnostic) String() string {
	var b strings.Builder

	if s := d.Subject(); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	return b.String()
}

// Diagnostics collects the findings of a planning run by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

func (d *Diagnostics) AddError(code, message, object, field string, suggestions ...string) {
	d.add(Diagnostic{SeverityError, code, message, object, field, suggestions})
}

func (d *Diagnostics) AddWarning(code, message, object, field string, suggestions ...string) {
	d.add(Diagnostic{SeverityWarning, code, message, object, field, suggestions})
}

func (d *Diagnostics) AddInfo(code, message, object, field string) {
	d.add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Object: object, Field: field})
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid is the inverse of HasErrors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Has reports whether any diagnostic carries code.
func (d *Diagnostics) Has(code string) bool {
	return len(d.ByCode(code)) > 0
}

// ByCode returns every diagnostic carrying code, errors first.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Merge appends the diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	for _, diag := range other.All() {
		d.add(diag)
	}
}

// Error joins the error diagnostics with "; ", or returns nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	msgs := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		msgs[i] = e.String()
	}

	return errors.New(strings.Join(msgs, "; "))
}

// Log writes every diagnostic to logger at its severity's level.
func (d *Diagnostics) Log(logger *slog.Logger) {
	for _, diag := range d.All() {
		logger.Log(context.Background(), diag.Severity.Level(), diag.Message, diag.attrs()...)
	}
}

func (d Diagnostic) attrs() []any {
	attrs := []any{"code", d.Code}

	if d.Object != "" {
		attrs = append(attrs, "object", d.Object)
	}

	if d.Field != "" {
		attrs = append(attrs, "field", d.Field)
	}

	if len(d.Suggestions) > 0 {
		attrs = append(attrs, "suggestions", d.Suggestions)
	}

	return attrs
}
