// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the command tree built by NewRootCommand.
type Option func(*settings)

// WithTracerProvider sets the tracer provider used by every command.  It
// takes precedence over the --trace flag.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) { s.tp = tp }
}

// WithLogger sets the logger used by every command.  Its level is still
// set from --log-level.
func WithLogger(log *logrus.Logger) Option {
	return func(s *settings) { s.logger = log }
}
