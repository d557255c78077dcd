// Package shell provides the external program executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs argv, feeding stdin and collecting standard output into stdout.
// Standard error is forwarded to the logger line by line.
func (e *Executor) Execute(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer) error {
	if len(argv) == 0 {
		return zerr.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Command comes from the configuration file
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &logWriter{logger: e.logger, program: argv[0]}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "command", strings.Join(argv, " "))
	}

	return nil
}

type logWriter struct {
	logger  ports.Logger
	program string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		w.logger.Warn(w.program + ": " + line)
	}
	return len(p), nil
}
