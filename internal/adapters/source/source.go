// Package source reads the contents of resolved source files.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.SourceFetcher = (*Disk)(nil)
	_ ports.SourceFetcher = (*HTTP)(nil)
)

// Disk reads entries from their local file.
type Disk struct{}

// NewDisk creates a new Disk fetcher.
func NewDisk() *Disk {
	return &Disk{}
}

// Fetch implements ports.SourceFetcher.
func (d *Disk) Fetch(_ context.Context, entry domain.Entry) ([]byte, error) {
	data, err := os.ReadFile(entry.Local)
	if err != nil {
		return nil, unreadable(err, "failed to read source file", "path", entry.Local)
	}
	return data, nil
}

// HTTP reads entries from a running server by their route, so that bundles
// are assembled from the responses the server already produces.
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP creates an HTTP fetcher rooted at base.
func NewHTTP(base string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTP{
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch implements ports.SourceFetcher.
func (h *HTTP) Fetch(ctx context.Context, entry domain.Entry) ([]byte, error) {
	url := h.base + entry.Route

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, unreadable(err, "failed to create source request", "url", url)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, unreadable(err, "failed to fetch source", "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode != http.StatusOK {
		return nil, unreadable(zerr.With(zerr.New("unexpected status"), "status", resp.StatusCode), "failed to fetch source", "url", url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unreadable(err, "failed to read source response", "url", url)
	}
	return data, nil
}

func unreadable(err error, msg, key, value string) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrUnreadableSource, err), msg), key, value)
}
