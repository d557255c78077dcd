package domain

import (
	"regexp"
	"strings"
)

var bustedRoute = regexp.MustCompile(`^(.*)\.([a-f0-9]+)(\.[^./]+)$`)

// splitExt splits p into everything before the extension of its last segment
// and the extension itself. Dotfiles have no extension.
func splitExt(p string) (string, string) {
	slash := strings.LastIndex(p, "/")
	dot := strings.LastIndex(p, ".")
	if dot <= slash+1 {
		return p, ""
	}
	return p[:dot], p[dot:]
}

// BustPath inserts token before the final extension of p
// ("/css/app.css" -> "/css/app.<token>.css"). Without an extension the
// token is appended as a final dotted component.
func BustPath(p, token string) string {
	base, ext := splitExt(p)
	return base + "." + token + ext
}

// RoutePattern returns a regexp matching p with or without a fingerprint
// segment before its extension. Metacharacters in p are matched literally.
func RoutePattern(p string) *regexp.Regexp {
	base, ext := splitExt(p)
	return regexp.MustCompile("^" + regexp.QuoteMeta(base) + `(?:\.[a-f0-9]+)?` + regexp.QuoteMeta(ext) + "$")
}

// UnbustPath removes a fingerprint segment from a busted route. It reports
// false when the route carries no fingerprint-shaped segment.
func UnbustPath(route string) (string, string, bool) {
	m := bustedRoute.FindStringSubmatch(route)
	if m == nil {
		return route, "", false
	}
	return m[1] + m[3], m[2], true
}
