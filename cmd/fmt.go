// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/corelang/formatter"
	"github.com/spf13/cobra"
)

type fmtFlags struct {
	write      bool
	diff       bool
	list       bool
	indentSize int
	lineWidth  int
	excludes   []string
}

func newFmtCommand(s *settings) *cobra.Command {
	var flags fmtFlags
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format corelang source files",
		Long: `Format corelang source files, similar to gofmt for Go.

Declarations are separated by blank lines, blocks are written with braces
and semicolons, and blocks that do not fit on one line are broken one item
per line.  Comments are not preserved.  The formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  corelang fmt file.core               Print formatted output
  corelang fmt -w ./...                Format all source files in place
  corelang fmt -l *.core               List files needing formatting
  cat file.core | corelang fmt         Format from stdin
  corelang fmt --indent-size 4 f.core  Use 4-space indentation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runFmt(cmd, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false,
		"List files whose formatting differs from corelang fmt's.")
	cmd.Flags().IntVar(&flags.indentSize, "indent-size", 2,
		"Number of spaces per indentation level.")
	cmd.Flags().IntVar(&flags.lineWidth, "line-width", 80,
		"Width past which blocks are broken over several lines.")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

func (s *settings) runFmt(cmd *cobra.Command, flags fmtFlags, args []string) error {
	cfg := &formatter.Config{IndentSize: flags.indentSize, LineWidth: flags.lineWidth}
	if cfg.IndentSize < 0 || cfg.LineWidth <= 0 {
		return usageErrorf("--indent-size must not be negative and --line-width must be positive")
	}

	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return usageErrorf("reading stdin: %w", err)
		}
		out, err := formatter.FormatFile(src, "<stdin>", cfg)
		if err != nil {
			s.renderErrors(cmd.ErrOrStderr(), err)
			return &ExitError{Code: ExitDiagnostics}
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	expanded, err := expandArgs(args, flags.excludes)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	failed := false
	for _, path := range expanded {
		changed, err := fmtFile(cmd.OutOrStdout(), path, cfg, flags)
		if err != nil {
			s.renderErrors(cmd.ErrOrStderr(), err)
			failed = true
		} else if flags.list && changed {
			failed = true
		}
	}
	if failed {
		return &ExitError{Code: ExitDiagnostics}
	}
	return nil
}

func fmtFile(w io.Writer, path string, cfg *formatter.Config, flags fmtFlags) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, err
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}

	changed := string(src) != string(out)

	if flags.list {
		if changed {
			fmt.Fprintln(w, path) //nolint:errcheck // best-effort listing
		}
		return changed, nil
	}

	if flags.diff {
		if changed {
			printUnifiedDiff(w, path, src, out)
		}
		return changed, nil
	}

	if flags.write {
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	}

	_, err = w.Write(out)
	return changed, err
}

func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	// Simple line-by-line diff output
	fmt.Fprintf(w, "--- %s\n", path) //nolint:errcheck // best-effort diff output
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck // best-effort diff output

	origLines := splitLines(original)
	fmtLines := splitLines(formatted)

	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		if i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j] {
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck // best-effort diff output
			i++
			j++
		} else if i < len(origLines) {
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck // best-effort diff output
			i++
		} else {
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort diff output
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
