// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"errors"

	"github.com/luthersystems/corelang/parser/token"
	"github.com/luthersystems/corelang/rename"
)

// FromError converts err into diagnostics.  A *rename.ErrorList yields one
// diagnostic per entry.  Errors without a source location produce a
// diagnostic with no spans.
func FromError(err error) []Diagnostic {
	var list *rename.ErrorList
	if errors.As(err, &list) {
		diags := make([]Diagnostic, len(list.Diagnostics))
		for i, d := range list.Diagnostics {
			diags[i] = FromRename(d)
		}
		return diags
	}
	var rd rename.Diagnostic
	if errors.As(err, &rd) {
		return []Diagnostic{FromRename(rd)}
	}
	var lerr *token.LocationError
	if errors.As(err, &lerr) {
		return []Diagnostic{FromLocationError(lerr)}
	}
	return []Diagnostic{{Severity: SeverityError, Message: err.Error()}}
}

// FromRename converts a renamer diagnostic.
func FromRename(d rename.Diagnostic) Diagnostic {
	diag := Diagnostic{Severity: SeverityError, Message: d.Error()}
	switch d := d.(type) {
	case *rename.DuplicateDefinition:
		if span, ok := spanAt(d.Location, "redefined here"); ok {
			diag.Spans = append(diag.Spans, span)
		}
		if span, ok := spanAt(d.Previous, "first defined here"); ok {
			diag.Spans = append(diag.Spans, span)
		}
		diag.Notes = append(diag.Notes,
			"clauses of one definition must be adjacent; the first definition of "+
				d.Symbol.String()+" stays in effect")
	default:
		if span, ok := spanAt(d.Pos(), ""); ok {
			diag.Spans = append(diag.Spans, span)
		}
	}
	return diag
}

// FromLocationError converts a parse error.  The message excludes the
// location, which is shown by the span.
func FromLocationError(err *token.LocationError) Diagnostic {
	diag := Diagnostic{Severity: SeverityError, Message: err.Error()}
	if err.Err != nil {
		diag.Message = err.Err.Error()
	}
	if span, ok := spanAt(err.Source, ""); ok {
		diag.Spans = append(diag.Spans, span)
	}
	return diag
}

func spanAt(loc *token.Location, label string) (Span, bool) {
	if loc == nil || loc.File == "" {
		return Span{}, false
	}
	return Span{
		File:  loc.File,
		Path:  loc.Path,
		Line:  loc.Line,
		Col:   loc.Col,
		Label: label,
	}, true
}
