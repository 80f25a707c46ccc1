// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerName is the instrumentation name of spans created by commands.
const TracerName = "github.com/luthersystems/corelang/cmd"

// logExporter is a SpanExporter that logs every finished span at info
// level.
type logExporter struct {
	log *logrus.Entry
}

var _ sdktrace.SpanExporter = (*logExporter)(nil)

func newLogExporter(log *logrus.Entry) *logExporter {
	return &logExporter{log: log}
}

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"trace_id": span.SpanContext().TraceID().String(),
			"duration": span.EndTime().Sub(span.StartTime()).String(),
		}
		if span.Parent().IsValid() {
			fields["parent_id"] = span.Parent().SpanID().String()
		}
		for _, kv := range span.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		if status := span.Status(); status.Code == codes.Error {
			fields["error"] = status.Description
		}
		e.log.WithFields(fields).Info("span")
	}
	return nil
}

func (e *logExporter) Shutdown(ctx context.Context) error {
	return nil
}
