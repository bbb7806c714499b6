package ypapi

import (
	"bytes"
	"encoding/json"
)

// Field is one named value within a Document.
//
// A Name containing pipe characters (e.g. "body|md") carries a filter chain;
// see the filter package for how those are resolved at read time.
type Field struct {
	Name  string
	Value interface{}
}

// Document is an ordered list of uniquely-named fields.
// Order is significant: a Document round-trips through the codec with its
// field order intact, unlike map input, which is sorted before encoding.
type Document []Field

// Value returns the value of the named field, or nil if no such field exists.
func (d Document) Value(name string) interface{} {
	for _, f := range d {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// Has reports whether the document contains a field with the given name.
func (d Document) Has(name string) bool {
	for _, f := range d {
		if f.Name == name {
			return true
		}
	}
	return false
}

// MarshalJSON emits the document as a JSON object, preserving field order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
