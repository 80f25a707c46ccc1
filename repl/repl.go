// Copyright © 2018 The ELPS authors

// Package repl implements an interactive renamer.  Each line read is parsed
// as an expression, renamed with a fresh Renamer and printed.
package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/corelang/diagnostic"
	"github.com/luthersystems/corelang/formatter"
	"github.com/luthersystems/corelang/parser"
	"github.com/luthersystems/corelang/rename"
	"github.com/sirupsen/logrus"
)

// SourceName is the file name used in the locations of REPL input.
const SourceName = "stdin"

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	color  diagnostic.ColorMode
	log    *logrus.Entry
	format *formatter.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithLogger sets the logger passed to each Renamer.
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithFormat sets the formatter configuration used to print results.
func WithFormat(cfg *formatter.Config) Option {
	return func(c *config) {
		c.format = cfg
	}
}

// RunRepl reads expressions until EOF and prints each one renamed.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	out := io.Writer(os.Stderr)
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	completer := newNameCompleter()
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      completer,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	ensureHistoryFilePermissions(rlCfg.HistoryFile)
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	ev := &evaluator{cfg: cfg, names: completer}
	for {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		ev.eval(out, string(line))
	}
}

type evaluator struct {
	cfg   *config
	names *nameCompleter
}

// eval renames line and writes the result, or the diagnostics found, to w.
func (ev *evaluator) eval(w io.Writer, line string) {
	e, err := parser.ParseExpr(SourceName, strings.NewReader(line))
	if err != nil {
		ev.render(w, line, err)
		return
	}
	var ropts []rename.Option
	if ev.cfg.log != nil {
		ropts = append(ropts, rename.WithLogger(ev.cfg.log))
	}
	r := rename.New(ropts...)
	renamed := r.RenameExpr(e)
	if r.Errors().HasErrors() {
		ev.render(w, line, &rename.ErrorList{Pass: rename.PassName, Diagnostics: r.Errors().Drain()})
		return
	}
	ev.names.add(e)
	fmt.Fprintln(w, formatter.Expr(renamed, ev.cfg.format)) //nolint:errcheck // best-effort REPL output
}

// render writes err as diagnostics.  The input line is the source of the
// snippets.
func (ev *evaluator) render(w io.Writer, line string, err error) {
	r := &diagnostic.Renderer{
		Color: ev.cfg.color,
		SourceReader: func(name string) ([]byte, error) {
			if name != SourceName {
				return nil, os.ErrNotExist
			}
			return []byte(line), nil
		},
	}
	_ = r.RenderAll(w, diagnostic.FromError(err))
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".corelang_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is under the user's home directory
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
