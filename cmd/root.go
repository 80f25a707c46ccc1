// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/corelang/diagnostic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// EnvPrefix prefixes the environment variables read by viper, as in
// CORELANG_LOG_LEVEL.
const EnvPrefix = "CORELANG"

// settings holds the configuration and services shared by the commands of
// one command tree.  They are set up before any command runs.
type settings struct {
	v      *viper.Viper
	logger *logrus.Logger
	log    *logrus.Entry
	color  diagnostic.ColorMode
	tp     trace.TracerProvider

	cfgFile  string
	shutdown func(context.Context) error
}

// NewRootCommand returns the corelang command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := &settings{v: viper.New()}
	for _, opt := range opts {
		opt(s)
	}

	root := &cobra.Command{
		Use:   "corelang",
		Short: "corelang: the renaming pass of a small functional language",
		Long: `corelang parses modules of a small lazy functional language and resolves
every identifier to a unique name.

Each binding occurrence of a local variable gets a fresh numeric id, every
use refers to the innermost enclosing binding, and top-level definitions and
constructors get id 0.  Names are printed as symbol_id.

Getting started:
  corelang rename file.core             Print the renamed module
  corelang rename --format=yaml a.core  Dump the renamed tree as YAML
  corelang rename -e '\x -> f x'        Rename a single expression
  corelang fmt file.core                Format source code
  corelang repl                         Rename expressions interactively

Configuration is read from $HOME/.corelang.yaml, or the file named by
--config, and from CORELANG_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.shutdown == nil {
				return nil
			}
			return s.shutdown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.corelang.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "error", "Log level: panic, fatal, error, warn, info, debug or trace.")
	flags.Bool("trace", false, "Log every finished tracing span at info level.")
	for _, name := range []string{"color", "log-level", "trace"} {
		_ = s.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newRenameCommand(s),
		newFmtCommand(s),
		newReplCommand(s),
	)
	return root
}

// Execute runs the command tree and exits with the status of the failed
// command, if any.  This is called by main.main().
func Execute() {
	root := NewRootCommand()
	err := root.Execute()
	if err == nil {
		return
	}
	var exit *ExitError
	if !errors.As(err, &exit) {
		exit = &ExitError{Code: ExitUsage, Err: err}
	}
	if exit.Err != nil {
		fmt.Fprintln(os.Stderr, exit.Err) //nolint:errcheck // nothing else to report to
	}
	os.Exit(exit.Code)
}

// setup reads the configuration and builds the logger and tracer provider.
func (s *settings) setup(cmd *cobra.Command) error {
	if err := s.initConfig(); err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	level, err := logrus.ParseLevel(s.v.GetString("log-level"))
	if err != nil {
		return usageErrorf("--log-level: %w", err)
	}
	if s.v.GetBool("trace") && level < logrus.InfoLevel {
		level = logrus.InfoLevel
	}
	if s.logger == nil {
		s.logger = logrus.New()
		s.logger.SetOutput(cmd.ErrOrStderr())
	}
	s.logger.SetLevel(level)
	s.log = logrus.NewEntry(s.logger).WithField("command", cmd.Name())

	s.color, err = diagnostic.ParseColorMode(s.v.GetString("color"))
	if err != nil {
		return usageErrorf("--color: %w", err)
	}

	if s.tp == nil {
		s.tp = otel.GetTracerProvider()
		if s.v.GetBool("trace") {
			tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(newLogExporter(s.log)))
			s.tp = tp
			s.shutdown = tp.Shutdown
		}
	}
	if used := s.v.ConfigFileUsed(); used != "" {
		s.log.WithField("config", used).Debug("using config file")
	}
	return nil
}

// initConfig reads in config file and ENV variables if set.
func (s *settings) initConfig() error {
	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	if s.cfgFile != "" {
		// Use config file from the flag.
		s.v.SetConfigFile(s.cfgFile)
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	// Search config in home directory with name ".corelang" (without extension).
	s.v.AddConfigPath(home)
	s.v.SetConfigName(".corelang")
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newRenderer returns a diagnostic renderer honoring --color.
func (s *settings) newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: s.color}
}
