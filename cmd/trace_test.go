// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLogExporter(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	exp := newLogExporter(logrus.NewEntry(logger))

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	spans := tracetest.SpanStubs{
		{
			Name:       "rename.module",
			StartTime:  start,
			EndTime:    start.Add(1500 * time.Millisecond),
			Attributes: []attribute.KeyValue{attribute.String("corelang.module", "Main")},
			Status:     sdktrace.Status{Code: codes.Error, Description: "1 diagnostics"},
		},
	}.Snapshots()
	require.NoError(t, exp.ExportSpans(context.Background(), spans))
	require.NoError(t, exp.Shutdown(context.Background()))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "span", entry.Message)
	assert.Equal(t, "rename.module", entry.Data["span"])
	assert.Equal(t, "1.5s", entry.Data["duration"])
	assert.Equal(t, "Main", entry.Data["corelang.module"])
	assert.Equal(t, "1 diagnostics", entry.Data["error"])
	assert.NotContains(t, entry.Data, "parent_id")
}
