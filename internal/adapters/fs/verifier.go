package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier checks whether built bundles exist below an output directory.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Exists reports whether route exists as a file below root.
func (v *Verifier) Exists(root, route string) (bool, error) {
	p := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(route, "/")))
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", p)
	}
	return info.Mode().IsRegular(), nil
}
