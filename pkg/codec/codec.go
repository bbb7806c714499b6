// Package codec turns documents into block-style YAML text and back.
//
// Encoding is deterministic: map input is sorted ascending by field name,
// ypapi.Document input keeps its order, and the same input always produces
// the same bytes.  Multi-line string values are emitted as literal blocks,
// which the underlying encoder cannot represent losslessly when lines carry
// trailing whitespace; such whitespace is trimmed before encoding (and tabs
// expanded, carriage returns dropped).  This matches the historical on-disk
// format and is the one documented exception to value round-tripping.
package codec

import (
	"bytes"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pagetools/yamlpage/ypapi"
)

const indent = 4

// Encode serializes a document to YAML text.
//
// Accepted input shapes:
//   - ypapi.Document: encoded as a mapping in the given field order.
//   - map[string]interface{}: encoded as a mapping, fields sorted ascending by name.
//   - anything else (slices, scalars): handed to the yaml encoder as-is,
//     so the codec also serves for encoding plain lists.
//
// Errors:
//
//    - yamlpage-error-serialization -- when the input cannot be represented as yaml
func Encode(data interface{}) ([]byte, error) {
	node, err := buildNode(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return nil, ypapi.ErrorSerialization("cannot encode document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, ypapi.ErrorSerialization("cannot encode document", err)
	}
	return buf.Bytes(), nil
}

// Decode parses YAML text into a document.
// Mappings come back as ypapi.Document with field order preserved,
// sequences as []interface{}, and scalars as native Go values.
// An empty input decodes to nil.
//
// Errors:
//
//    - yamlpage-error-serialization -- when the text is not valid yaml
func Decode(text []byte) (interface{}, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(text, &root); err != nil {
		return nil, ypapi.ErrorSerialization("cannot parse stored document", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	return fromNode(root.Content[0])
}

func buildNode(data interface{}) (*yaml.Node, error) {
	switch d := data.(type) {
	case ypapi.Document:
		return mappingNode(d)
	case map[string]interface{}:
		fields := make(ypapi.Document, 0, len(d))
		for name, value := range d {
			fields = append(fields, ypapi.Field{Name: name, Value: value})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		return mappingNode(fields)
	default:
		// Not pair-shaped: the whole input is one opaque value.
		n := &yaml.Node{}
		if err := n.Encode(data); err != nil {
			return nil, ypapi.ErrorSerialization("cannot encode value", err)
		}
		return n, nil
	}
}

func mappingNode(fields ypapi.Document) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		value, err := valueNode(f.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, key, value)
	}
	return n, nil
}

// valueNode picks the scalar style for one field value.
// Only top-level field values get the string special-casing;
// nested collections are left entirely to the yaml encoder.
func valueNode(value interface{}) (*yaml.Node, error) {
	switch v := value.(type) {
	case string:
		if strings.Contains(v, "\n") {
			return &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Style: yaml.LiteralStyle,
				Value: normalizeBlock(v),
			}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case ypapi.Document:
		return mappingNode(v)
	default:
		n := &yaml.Node{}
		if err := n.Encode(value); err != nil {
			return nil, ypapi.ErrorSerialization("cannot encode field value", err)
		}
		return n, nil
	}
}

// normalizeBlock rewrites a multi-line string so the encoder can emit it as a
// literal block: carriage returns dropped, tabs expanded to four spaces, and
// trailing whitespace trimmed from every line (literal blocks cannot carry it).
func normalizeBlock(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

func fromNode(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.MappingNode:
		doc := make(ypapi.Document, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			value, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			doc = append(doc, ypapi.Field{Name: name, Value: value})
		}
		return doc, nil
	case yaml.SequenceNode:
		seq := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	default:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, ypapi.ErrorSerialization("cannot decode scalar value", err)
		}
		return v, nil
	}
}
