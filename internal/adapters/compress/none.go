package compress

import (
	"context"

	"go.trai.ch/assetpack/internal/core/domain"
)

// None passes content through unchanged.
type None struct{}

// NewNone creates the passthrough engine.
func NewNone() *None { return &None{} }

// Name implements ports.Compressor.
func (*None) Name() string { return "none" }

// Supports implements ports.Compressor.
func (*None) Supports(domain.Kind) bool { return true }

// Validate implements ports.Compressor.
func (*None) Validate(_ domain.Kind, options map[string]string) error {
	return unknownOptions(options)
}

// Compress implements ports.Compressor.
func (*None) Compress(_ context.Context, content string, _ domain.Kind, _ map[string]string) (string, error) {
	return content, nil
}
