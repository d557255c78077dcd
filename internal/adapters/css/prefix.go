package css

import "strings"

// HostPrefixer prepends a host to root-relative url() references. It serves
// stylesheets fetched from a running server, whose references are already busted.
type HostPrefixer struct {
	host string
}

// NewHostPrefixer creates a HostPrefixer for host.
func NewHostPrefixer(host string) *HostPrefixer {
	return &HostPrefixer{host: strings.TrimSuffix(host, "/")}
}

// Rewrite prefixes every root-relative url() reference in stylesheet. Absolute,
// protocol-relative, data and relative references are left unchanged.
func (h *HostPrefixer) Rewrite(stylesheet, _ string) (string, error) {
	if h.host == "" {
		return stylesheet, nil
	}
	return urlPattern.ReplaceAllStringFunc(stylesheet, func(match string) string {
		sub := urlPattern.FindStringSubmatch(match)
		ref := sub[2]
		if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
			return match
		}
		return "url(" + sub[1] + h.host + ref + sub[3] + ")"
	}), nil
}
