package packer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/oshokin/empkg/internal/domain/bundle"
	"github.com/oshokin/empkg/internal/logger"
)

// ToolError reports a packer process that exited unsuccessfully.
type ToolError struct {
	// Command is the shell-quoted invocation.
	Command string
	// ExitCode is the process exit code, or -1 when it did not exit normally.
	ExitCode int
	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *ToolError) Error() string {
	return fmt.Sprintf("packer exited with code %d: %v", e.ExitCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// External runs the toolchain packer script:
//
//	python file_packager.py app.data --preload src@/name ... --js-output=app.preload.js
type External struct {
	// python is the interpreter executable.
	python string
	// script is the packer script path.
	script string
	// echo prints the invocation to echoOut before running it.
	echo    bool
	echoOut io.Writer
	// stdout and stderr receive the child process output.
	stdout io.Writer
	stderr io.Writer
}

// ExternalOption customizes External.
type ExternalOption func(*External)

// WithEcho toggles printing of the exact invocation.
func WithEcho(echo bool) ExternalOption {
	return func(e *External) {
		e.echo = echo
	}
}

// WithEchoOutput redirects the printed invocation.
func WithEchoOutput(w io.Writer) ExternalOption {
	return func(e *External) {
		e.echoOut = w
	}
}

// WithOutput redirects the child process output.
func WithOutput(stdout, stderr io.Writer) ExternalOption {
	return func(e *External) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewExternal creates a packer running script with python.
func NewExternal(python, script string, opts ...ExternalOption) *External {
	e := &External{
		python: python,
		script: script,
		echo:    true,
		echoOut: os.Stdout,
		stdout:  os.Stderr,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Args returns the command line for the given manifest and outputs.
func (e *External) Args(manifest *bundle.Manifest, blobPath, loaderPath string) []string {
	entries := manifest.Entries()
	args := make([]string, 0, len(entries)+5)

	args = append(args, e.python, e.script, blobPath)
	if len(entries) > 0 {
		args = append(args, "--preload")
		for _, entry := range entries {
			args = append(args, escapeAt(filepath.ToSlash(entry.Source))+"@/"+escapeAt(entry.Name))
		}
	}

	return append(args, "--js-output="+loaderPath)
}

// Pack runs the packer script synchronously.
func (e *External) Pack(ctx context.Context, manifest *bundle.Manifest, blobPath, loaderPath string) error {
	var (
		args    = e.Args(manifest, blobPath, loaderPath)
		command = QuoteCommand(args)
	)

	// The echo does not depend on the log level.
	if e.echo {
		if _, err := fmt.Fprintln(e.echoOut, command); err != nil {
			return fmt.Errorf("echo packer command: %w", err)
		}
	}

	logger.DebugKV(ctx, "Running packer", "command", command)

	//nolint:gosec // The interpreter and script come from the operator's settings and environment.
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		return &ToolError{
			Command:  command,
			ExitCode: exitCode,
			Err:      err,
		}
	}

	return nil
}

// escapeAt doubles every '@', which the packer script reads as a literal '@'
// instead of the source and destination separator.
func escapeAt(s string) string {
	return strings.ReplaceAll(s, "@", "@@")
}

// QuoteCommand renders args as a bash command line.
func QuoteCommand(args []string) string {
	quoted := make([]string, 0, len(args))

	for _, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}

		quoted = append(quoted, q)
	}

	return strings.Join(quoted, " ")
}
