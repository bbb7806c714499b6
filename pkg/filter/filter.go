// Package filter rewrites decoded documents according to filter chains
// embedded in field names.
//
// A field named "body|md|upper" is field "body" with the pending filters
// "md" then "upper".  Filters run at read time only; nothing is rewritten
// on disk.
package filter

import (
	"strings"

	"github.com/pagetools/yamlpage/ypapi"
)

// Func transforms one field value.
type Func func(string) string

// Registry maps filter tags to transforms.
type Registry map[string]Func

// Apply resolves the filter chain on every field name containing a '|'.
// Tags are folded left to right: a tag present in the registry is applied to
// the running value and dropped from the name; a tag that is unknown (or that
// lands on a non-string value) is kept appended to the name so it stays
// visible in the output rather than being silently dropped.
// Fields without a '|' pass through unchanged.
func Apply(doc ypapi.Document, reg Registry) ypapi.Document {
	out := make(ypapi.Document, 0, len(doc))
	for _, f := range doc {
		if !strings.Contains(f.Name, "|") {
			out = append(out, f)
			continue
		}
		parts := strings.Split(f.Name, "|")
		name := parts[0]
		value := f.Value
		for _, tag := range parts[1:] {
			fn, known := reg[tag]
			str, isString := value.(string)
			if !known || !isString {
				name += "|" + tag
				continue
			}
			value = fn(str)
		}
		out = append(out, ypapi.Field{Name: name, Value: value})
	}
	return out
}
