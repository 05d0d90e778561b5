package domain

import (
	"io"
	"strings"
	"time"
)

// Command is an argument-vector invocation of an external program.
type Command struct {
	Program string
	Args    []string
	// Env holds extra "KEY=VALUE" entries appended to the inherited environment.
	Env     []string
	Dir     string
	Timeout time.Duration
	// Stdout and Stderr, when set, receive the output as it is produced in addition to capture.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command for logs and error messages.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// ProcessResult holds the captured output of a finished command.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Combined returns stdout followed by stderr.
func (r *ProcessResult) Combined() string {
	if r == nil {
		return ""
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}
