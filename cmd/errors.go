// Copyright © 2024 The ELPS authors

package cmd

import "fmt"

// Exit statuses of corelang commands.
const (
	ExitDiagnostics = 1 // the program has errors
	ExitUsage       = 2 // bad invocation, unreadable or unparsable input
)

// ExitError is returned by a command that fails with a specific exit
// status.  Err is nil when the failure has already been reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, v ...interface{}) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, v...)}
}
