// Copyright © 2024 The ELPS authors

package rename

import (
	"context"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/astutil"
	"github.com/luthersystems/corelang/intern"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TracerName is the instrumentation name of spans created by this package.
const TracerName = "github.com/luthersystems/corelang/rename"

// RenameModules renames a program through a single Renamer, so that every
// minted UID is unique program wide.  If any diagnostic is found no modules
// are returned and the error is an *ErrorList holding every diagnostic in
// the order it was found.
func RenameModules(ctx context.Context, modules []ast.Module[intern.Symbol], opts ...Option) ([]ast.Module[Name], error) {
	r := New(opts...)
	tracer := r.tp.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, "rename.modules")
	defer span.End()
	span.SetAttributes(attribute.Int("corelang.modules", len(modules)))

	out := make([]ast.Module[Name], len(modules))
	for i, m := range modules {
		_, mspan := tracer.Start(ctx, "rename.module")
		mspan.SetAttributes(
			attribute.String("corelang.module", m.Name.String()),
			attribute.Int("corelang.bindings", len(m.Bindings)),
		)
		before := r.errors.Len()
		out[i] = r.RenameModule(m)
		mspan.SetAttributes(attribute.Int("corelang.binders", len(astutil.Binders(out[i].Bindings))))
		if n := r.errors.Len() - before; n > 0 {
			mspan.SetAttributes(attribute.Int("corelang.diagnostics", n))
		}
		mspan.End()
		r.log.WithFields(logrus.Fields{
			"module":   out[i].Name.String(),
			"bindings": len(out[i].Bindings),
		}).Info("renamed module")
	}

	span.SetAttributes(attribute.Int("corelang.diagnostics", r.errors.Len()))
	if r.errors.HasErrors() {
		span.SetStatus(codes.Error, "duplicate definitions")
		return nil, &ErrorList{Pass: PassName, Diagnostics: r.errors.Drain()}
	}
	return out, nil
}
