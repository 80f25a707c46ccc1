// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/corelang/repl"
	"github.com/spf13/cobra"
)

func newReplCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Rename expressions interactively",
		Long: `Start an interactive loop that renames expressions.

Each line is parsed as one expression, renamed with a fresh renamer and
printed with unique names.  Free identifiers are printed as global names
with id 0.  Line editing and command history are supported via readline.
Use Ctrl-D to exit.

Example session:
  corelang> \x -> f x
  \x_2 -> f_0 x_2
  corelang> \x -> let { x = 1 } in x
  \x_2 -> let { x_3 = 1 } in x_3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.RunRepl(filepath.Base(os.Args[0])+"> ",
				repl.WithColor(s.color),
				repl.WithLogger(s.log),
			)
		},
	}
}
