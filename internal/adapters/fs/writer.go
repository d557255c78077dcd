package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Writer stores built bundles below an output directory.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write atomically stores content at route below root and returns the local path.
func (w *Writer) Write(root, route string, content []byte) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(route, "/")))
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".assetpack-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // No-op once renamed

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", zerr.With(zerr.Wrap(err, "failed to write bundle"), "path", p)
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to close bundle"), "path", p)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // Bundles are public assets
		return "", zerr.With(zerr.Wrap(err, "failed to set bundle permissions"), "path", p)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to move bundle into place"), "path", p)
	}
	return p, nil
}
