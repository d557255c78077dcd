package ports

import (
	"context"

	"go.trai.ch/assetpack/internal/core/domain"
)

// Compressor is a pluggable minification engine.
//
//go:generate go run go.uber.org/mock/mockgen -source=compressor.go -destination=mocks/mock_compressor.go -package=mocks
type Compressor interface {
	// Name returns the engine name used in configuration.
	Name() string

	// Supports reports whether the engine can compress content of the given kind.
	Supports(kind domain.Kind) bool

	// Validate checks engine options at setup time.
	Validate(kind domain.Kind, options map[string]string) error

	// Compress minifies content of the given kind.
	Compress(ctx context.Context, content string, kind domain.Kind, options map[string]string) (string, error)
}
