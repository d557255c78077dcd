package compress

import (
	"bytes"
	"context"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Command pipes content through an external program and returns its output.
type Command struct {
	executor ports.Executor
}

// NewCommand creates the command engine.
func NewCommand(executor ports.Executor) *Command {
	return &Command{executor: executor}
}

// Name implements ports.Compressor.
func (*Command) Name() string { return "command" }

// Supports implements ports.Compressor.
func (*Command) Supports(kind domain.Kind) bool {
	return kind == domain.KindStyle || kind == domain.KindScript
}

// Validate implements ports.Compressor.
func (*Command) Validate(_ domain.Kind, options map[string]string) error {
	if err := unknownOptions(options, "cmd"); err != nil {
		return err
	}
	if len(strings.Fields(options["cmd"])) == 0 {
		return invalidOption("command engine requires a cmd option", "cmd", options["cmd"])
	}
	return nil
}

// Compress implements ports.Compressor.
func (c *Command) Compress(ctx context.Context, content string, kind domain.Kind, options map[string]string) (string, error) {
	argv := strings.Fields(options["cmd"])
	var out bytes.Buffer
	if err := c.executor.Execute(ctx, argv, strings.NewReader(content), &out); err != nil {
		return "", zerr.With(zerr.Wrap(err, "compression command failed"), "kind", kind.String())
	}
	return out.String(), nil
}
