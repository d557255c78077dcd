// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor runs external programs.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs argv with stdin as input, writing standard output to stdout.
	//
	// It returns an error if the program cannot be started or exits non-zero.
	Execute(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer) error
}
