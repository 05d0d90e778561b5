package commands

import "fmt"

// ExitError carries a process exit code out of a command.
// The command has already reported the failure, so callers should exit without logging it again.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
