// Package probe checks whether published bundles already exist remotely and uploads new ones.
package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Observer receives probe outcomes.
type Observer interface {
	ObserveProbe(backend string, found bool)
}

var _ ports.RemoteProber = (*HTTPProber)(nil)

// HTTPProber checks bundles on the production host with HEAD requests.
type HTTPProber struct {
	host     string
	timeout  time.Duration
	client   *http.Client
	logger   ports.Logger
	observer Observer
}

// NewHTTPProber creates a prober for host. A zero timeout uses the default.
func NewHTTPProber(host string, timeout time.Duration, logger ports.Logger, observer Observer) *HTTPProber {
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	return &HTTPProber{
		host:     strings.TrimSuffix(host, "/"),
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		observer: observer,
	}
}

// Exists reports whether HEAD host+path answers 200 or 304.
func (p *HTTPProber) Exists(ctx context.Context, path string) bool {
	found := p.head(ctx, path)
	if p.observer != nil {
		p.observer.ObserveProbe("http", found)
	}
	return found
}

func (p *HTTPProber) head(ctx context.Context, path string) bool {
	url := p.host + path

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		p.warn(err, url)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.warn(err, url)
		return false
	}
	defer resp.Body.Close() //nolint:errcheck // HEAD responses carry no body

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotModified:
		return true
	case http.StatusNotFound:
		return false
	default:
		p.warn(zerr.With(zerr.New("unexpected status"), "status", resp.StatusCode), url)
		return false
	}
}

func (p *HTTPProber) warn(err error, url string) {
	if p.logger == nil {
		return
	}
	wrapped := zerr.With(zerr.Wrap(domain.ErrProbeFailed, err.Error()), "url", url)
	p.logger.Warn(wrapped.Error())
}

// Composite tries each prober in order; the first hit wins.
type Composite struct {
	probers []ports.RemoteProber
}

// NewComposite creates a Composite over probers.
func NewComposite(probers ...ports.RemoteProber) *Composite {
	return &Composite{probers: probers}
}

// Exists implements ports.RemoteProber.
func (c *Composite) Exists(ctx context.Context, path string) bool {
	for _, p := range c.probers {
		if p.Exists(ctx, path) {
			return true
		}
	}
	return false
}

// Len returns the number of probers.
func (c *Composite) Len() int {
	return len(c.probers)
}
