// Package diagnostics defines the shape the parser reports errors in
// and a sink that accumulates them. The diagnostic formatter that turns
// these into user-facing text is, per the compiler core's contract, an
// external collaborator — CLI-level rendering lives in cmd/peregrine.
package diagnostics

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Diagnostic is one reported problem, positioned for a human reader.
type Diagnostic struct {
	File      string
	Line      int
	Column    int
	Statement string
	Message   string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s\n    %s", d.File, d.Line, d.Column, d.Message, d.Statement)
}

// Sink accumulates diagnostics without ever panicking or aborting —
// it is the concrete form of spec.md §7's "accumulated, not thrown"
// policy.
type Sink struct {
	file string
	errs *multierror.Error
}

// NewSink creates a sink that stamps every diagnostic with file.
func NewSink(file string) *Sink {
	return &Sink{file: file}
}

// Report records a diagnostic at line:column.
func (s *Sink) Report(line, column int, statement, message string) {
	s.errs = multierror.Append(s.errs, Diagnostic{
		File: s.file, Line: line, Column: column, Statement: statement, Message: message,
	})
}

// HasErrors reports whether anything has been recorded.
func (s *Sink) HasErrors() bool {
	return s.errs != nil && s.errs.Len() > 0
}

// Diagnostics returns the accumulated diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	if s.errs == nil {
		return nil
	}
	out := make([]Diagnostic, 0, len(s.errs.Errors))
	for _, e := range s.errs.Errors {
		if d, ok := e.(Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}

// Err returns the accumulated errors as a single error (nil if none),
// suitable for returning from a function that follows Go's normal
// error-return convention while still preserving every diagnostic.
func (s *Sink) Err() error {
	if s.errs == nil {
		return nil
	}
	return s.errs.ErrorOrNil()
}
