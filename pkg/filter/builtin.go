package filter

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

// Builtin returns a registry with the filters that ship with yamlpage:
//
//	md     render the value as markdown, producing html
//	upper  uppercase the value
//	lower  lowercase the value
//	trim   trim leading and trailing whitespace
//
// The returned registry is a fresh copy; callers may add or replace entries.
func Builtin() Registry {
	return Registry{
		"md":    Markdown,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
	}
}

// Markdown renders a markdown value to html.
// A value the renderer chokes on is returned unchanged; filters have no
// error channel, and a legible un-rendered page beats a hard failure here.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}
