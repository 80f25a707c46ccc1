// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/diagnostic"
	"github.com/luthersystems/corelang/formatter"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser"
	"github.com/luthersystems/corelang/rename"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ExprSourceName is the file name used in locations within -e expressions.
const ExprSourceName = "<expr>"

const (
	formatSource = "source"
	formatYAML   = "yaml"
)

type renameFlags struct {
	expression string
	excludes   []string
}

func newRenameCommand(s *settings) *cobra.Command {
	var flags renameFlags
	cmd := &cobra.Command{
		Use:   "rename [flags] files...",
		Short: "Resolve every identifier to a unique name",
		Long: `Parse each file as one module and rename all of them together, so that
every local name is unique across the program.  The renamed program is
printed to stdout as source, or as a YAML tree with --format=yaml.

All modules share one top-level scope unless --isolate-modules is given, so
a top-level name defined in two files is reported as a duplicate.  Every
duplicate definition in the program is reported before exiting.

Arguments ending in "/..." are expanded to every .core file under the
directory.

Exit codes:
  0  The program was renamed
  1  Duplicate definitions were reported
  2  Bad invocation, unreadable files or parse errors

Examples:
  corelang rename main.core                 # Rename one module
  corelang rename a.core b.core             # Rename a program of two modules
  corelang rename --format=yaml ./...       # Dump every module under . as YAML
  corelang rename -e '\x -> let { y = x } in y'  # Rename an expression`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runRename(cmd, flags, args)
		},
	}

	cmd.Flags().String("format", formatSource, `Output format: "source" or "yaml".`)
	cmd.Flags().Bool("isolate-modules", false,
		"Give each module its own top-level scope.")
	cmd.Flags().StringVarP(&flags.expression, "expression", "e", "",
		"Rename the given expression instead of files.")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	for _, name := range []string{"format", "isolate-modules"} {
		_ = s.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

func (s *settings) runRename(cmd *cobra.Command, flags renameFlags, args []string) error {
	format := s.v.GetString("format")
	if format != formatSource && format != formatYAML {
		return usageErrorf("invalid format %q: must be %s or %s", format, formatSource, formatYAML)
	}
	if flags.expression != "" {
		if len(args) > 0 {
			return usageErrorf("files cannot be given with --expression")
		}
		if format != formatSource {
			return usageErrorf("--expression only supports the %s format", formatSource)
		}
		return s.renameExpr(cmd, flags.expression)
	}
	if len(args) == 0 {
		return usageErrorf("no files given")
	}

	files, err := expandArgs(args, flags.excludes)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	if len(files) == 0 {
		return usageErrorf("no .core files matched %s", strings.Join(args, " "))
	}

	ctx, span := s.tp.Tracer(TracerName).Start(cmd.Context(), "corelang.rename")
	defer span.End()

	modules := make([]ast.Module[intern.Symbol], 0, len(files))
	for _, path := range files {
		m, err := s.parseFile(ctx, path)
		if err != nil {
			span.SetStatus(codes.Error, "parse error")
			s.renderErrors(cmd.ErrOrStderr(), err)
			return &ExitError{Code: ExitUsage}
		}
		modules = append(modules, m)
	}

	renamed, err := rename.RenameModules(ctx, modules,
		rename.WithOptions(rename.Options{IsolateModules: s.v.GetBool("isolate-modules")}),
		rename.WithLogger(s.log),
		rename.WithTracerProvider(s.tp),
	)
	if err != nil {
		var list *rename.ErrorList
		if !errors.As(err, &list) {
			return fmt.Errorf("rename: %w", err)
		}
		span.SetStatus(codes.Error, list.Error())
		fmt.Fprintln(cmd.ErrOrStderr(), rename.ReportHeader(len(list.Diagnostics), list.Pass)) //nolint:errcheck // best-effort error display
		s.renderErrors(cmd.ErrOrStderr(), err)
		return &ExitError{Code: ExitDiagnostics}
	}

	if err := writeModules(cmd.OutOrStdout(), renamed, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseFile parses the module in path.  The path doubles as the name used
// in source locations.
func (s *settings) parseFile(ctx context.Context, path string) (ast.Module[intern.Symbol], error) {
	_, span := s.tp.Tracer(TracerName).Start(ctx, "corelang.parse")
	defer span.End()
	span.SetAttributes(semconv.CodeFilepath(path))

	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ast.Module[intern.Symbol]{}, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	m, err := parser.ParseModuleLocation(path, path, f)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return m, err
	}
	span.SetAttributes(
		attribute.String("corelang.module", m.Name.String()),
		attribute.Int("corelang.bindings", len(m.Bindings)),
	)
	s.log.WithFields(logrus.Fields{
		"file":   path,
		"module": m.Name.String(),
	}).Debug("parsed module")
	return m, nil
}

func (s *settings) renameExpr(cmd *cobra.Command, src string) error {
	e, err := parser.ParseExpr(ExprSourceName, strings.NewReader(src))
	if err != nil {
		s.renderSource(cmd.ErrOrStderr(), src, err)
		return &ExitError{Code: ExitUsage}
	}
	r := rename.New(rename.WithLogger(s.log))
	renamed := r.RenameExpr(e)
	if r.Errors().HasErrors() {
		diags := r.Errors().Drain()
		fmt.Fprintln(cmd.ErrOrStderr(), rename.ReportHeader(len(diags), rename.PassName)) //nolint:errcheck // best-effort error display
		s.renderSource(cmd.ErrOrStderr(), src, &rename.ErrorList{Pass: rename.PassName, Diagnostics: diags})
		return &ExitError{Code: ExitDiagnostics}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), formatter.Expr(renamed, nil))
	return err
}

func writeModules(w io.Writer, modules []ast.Module[rename.Name], format string) error {
	if format == formatYAML {
		out, err := formatter.YAML(modules)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	_, err := io.WriteString(w, formatter.Modules(modules, nil))
	return err
}

// renderErrors renders err as diagnostics with snippets read from the
// source files.
func (s *settings) renderErrors(w io.Writer, err error) {
	_ = s.newRenderer().RenderAll(w, diagnostic.FromError(err))
}

// renderSource renders err as diagnostics with snippets from an
// expression given on the command line.
func (s *settings) renderSource(w io.Writer, src string, err error) {
	r := s.newRenderer()
	r.SourceReader = func(name string) ([]byte, error) {
		if name != ExprSourceName {
			return nil, os.ErrNotExist
		}
		return []byte(src), nil
	}
	_ = r.RenderAll(w, diagnostic.FromError(err))
}
