package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Kind is the asset kind of a package. It decides which compression engine
// and which markup tag apply.
type Kind string

const (
	// KindStyle is a stylesheet package.
	KindStyle Kind = "css"
	// KindScript is a script package.
	KindScript Kind = "js"
)

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css", "style", "stylesheet":
		return KindStyle, nil
	case "js", "script", "javascript":
		return KindScript, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownKind, "failed to parse asset kind"), "kind", s)
	}
}

// String returns the short kind name used in cache keys.
func (k Kind) String() string {
	return string(k)
}

// MediaType returns the media type of content of this kind.
func (k Kind) MediaType() string {
	if k == KindStyle {
		return "text/css"
	}
	return "text/javascript"
}
