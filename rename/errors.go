// Copyright © 2024 The ELPS authors

package rename

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/token"
)

// PassName identifies the renamer in diagnostic reports.
const PassName = "Renamer"

// Diagnostic is a recoverable error found while renaming.
type Diagnostic interface {
	error
	// Pos returns the location of the offending definition, or nil.
	Pos() *token.Location
}

// DuplicateDefinition reports a symbol defined twice in one scope.  Previous
// is the location of the definition that stays in effect, if known.
type DuplicateDefinition struct {
	Symbol   intern.Symbol
	Location *token.Location
	Previous *token.Location
}

func (d *DuplicateDefinition) Error() string {
	return fmt.Sprintf("%s is defined multiple times", d.Symbol)
}

func (d *DuplicateDefinition) Pos() *token.Location {
	return d.Location
}

// Errors accumulates diagnostics without interrupting the traversal that
// finds them.
type Errors struct {
	diags []Diagnostic
}

// Record appends d.
func (e *Errors) Record(d Diagnostic) {
	e.diags = append(e.diags, d)
}

func (e *Errors) HasErrors() bool {
	return len(e.diags) != 0
}

func (e *Errors) Len() int {
	return len(e.diags)
}

// Drain returns the recorded diagnostics in the order they were recorded and
// empties e.
func (e *Errors) Drain() []Diagnostic {
	diags := e.diags
	e.diags = nil
	return diags
}

// Report writes a header naming the pass followed by one line per
// diagnostic.
func (e *Errors) Report(w io.Writer, pass string) error {
	return writeReport(w, pass, e.diags)
}

// ErrorList is returned in place of a renamed program when renaming found
// any diagnostics.
type ErrorList struct {
	Pass        string
	Diagnostics []Diagnostic
}

func (l *ErrorList) Error() string {
	switch len(l.Diagnostics) {
	case 0:
		return l.Pass + ": no errors"
	case 1:
		return l.Pass + ": " + l.Diagnostics[0].Error()
	}
	msgs := make([]string, len(l.Diagnostics))
	for i, d := range l.Diagnostics {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("%s: %d errors: %s", l.Pass, len(l.Diagnostics), strings.Join(msgs, "; "))
}

// Report writes l in the same format as Errors.Report.
func (l *ErrorList) Report(w io.Writer) error {
	return writeReport(w, l.Pass, l.Diagnostics)
}

// ReportHeader returns the first line of a report of n diagnostics.
func ReportHeader(n int, pass string) string {
	return fmt.Sprintf("Found %d errors in compiler pass: %s", n, pass)
}

func writeReport(w io.Writer, pass string, diags []Diagnostic) error {
	if _, err := fmt.Fprintln(w, ReportHeader(len(diags), pass)); err != nil {
		return err
	}
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.Error()); err != nil {
			return err
		}
	}
	return nil
}
