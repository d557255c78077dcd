package bundler

import (
	"html"
	"sort"
	"strings"

	"go.trai.ch/assetpack/internal/core/domain"
)

// Tag renders the markup referencing url for an asset of kind. Extra
// attributes are emitted sorted by name; they cannot replace the reference.
func Tag(kind domain.Kind, url string, attrs map[string]string) string {
	var b strings.Builder
	if kind == domain.KindStyle {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(url))
		b.WriteByte('"')
		writeAttrs(&b, attrs, "rel", "href")
		b.WriteString(" />")
		return b.String()
	}

	b.WriteString(`<script src="`)
	b.WriteString(html.EscapeString(url))
	b.WriteByte('"')
	writeAttrs(&b, attrs, "src")
	b.WriteString("></script>")
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs map[string]string, reserved ...string) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		skip := name == ""
		for _, r := range reserved {
			if strings.EqualFold(name, r) {
				skip = true
			}
		}
		if !skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(name))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[name]))
		b.WriteByte('"')
	}
}
