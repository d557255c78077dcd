package compress

import (
	"context"
	"regexp"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
)

var (
	cssComment     = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssWhitespace  = regexp.MustCompile(`\s+`)
	cssPunctuation = regexp.MustCompile(`\s*([{};:,>])\s*`)
)

// Simple strips comments and collapses whitespace in stylesheets.
type Simple struct{}

// NewSimple creates the simple stylesheet engine.
func NewSimple() *Simple { return &Simple{} }

// Name implements ports.Compressor.
func (*Simple) Name() string { return "simple" }

// Supports implements ports.Compressor.
func (*Simple) Supports(kind domain.Kind) bool { return kind == domain.KindStyle }

// Validate implements ports.Compressor.
func (*Simple) Validate(_ domain.Kind, options map[string]string) error {
	return unknownOptions(options)
}

// Compress implements ports.Compressor.
func (*Simple) Compress(_ context.Context, content string, _ domain.Kind, _ map[string]string) (string, error) {
	out := cssComment.ReplaceAllString(content, "")
	out = cssWhitespace.ReplaceAllString(out, " ")
	out = cssPunctuation.ReplaceAllString(out, "$1")
	out = strings.ReplaceAll(out, ";}", "}")
	return strings.TrimSpace(out), nil
}
