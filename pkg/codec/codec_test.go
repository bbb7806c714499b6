package codec

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/pagetools/yamlpage/ypapi"
)

func TestEncode(t *testing.T) {
	t.Run("ordered-input-keeps-order", func(t *testing.T) {
		serial, err := Encode(ypapi.Document{
			{Name: "title", Value: "foo"},
			{Name: "body", Value: "foo\nbar"},
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(serial), qt.Equals, "title: foo\nbody: |-\n    foo\n    bar\n")
	})
	t.Run("map-input-sorts-ascending", func(t *testing.T) {
		serial, err := Encode(map[string]interface{}{
			"foo": 1,
			"bar": 2,
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(serial), qt.Equals, "bar: 2\nfoo: 1\n")
	})
	t.Run("plain-list-encodes-opaquely", func(t *testing.T) {
		serial, err := Encode([]interface{}{1, 2, 3})
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(serial), qt.Equals, "- 1\n- 2\n- 3\n")
	})
	t.Run("multi-line-values-become-literal-blocks", func(t *testing.T) {
		serial, err := Encode(ypapi.Document{
			{Name: "body", Value: "one\ntwo\nthree"},
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(serial), qt.Equals, "body: |-\n    one\n    two\n    three\n")
	})
	t.Run("block-normalization", func(t *testing.T) {
		// carriage returns dropped, tabs expanded, trailing whitespace trimmed
		serial, err := Encode(ypapi.Document{
			{Name: "body", Value: "one \r\n\ttwo  \nthree"},
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(serial), qt.Equals, "body: |-\n    one\n        two\n    three\n")
	})
	t.Run("deterministic", func(t *testing.T) {
		doc := map[string]interface{}{"a": 1, "b": "x", "c": []interface{}{1, 2}}
		first, err := Encode(doc)
		qt.Assert(t, err, qt.IsNil)
		second, err := Encode(doc)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(first), qt.Equals, string(second))
	})
}

func TestDecode(t *testing.T) {
	t.Run("mapping-preserves-order", func(t *testing.T) {
		data, err := Decode([]byte("zz: 1\naa: 2\nmm: 3\n"))
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, data, qt.DeepEquals, ypapi.Document{
			{Name: "zz", Value: 1},
			{Name: "aa", Value: 2},
			{Name: "mm", Value: 3},
		})
	})
	t.Run("sequences-and-scalars", func(t *testing.T) {
		data, err := Decode([]byte("- 1\n- two\n"))
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, data, qt.DeepEquals, []interface{}{1, "two"})

		data, err = Decode([]byte("just a string\n"))
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, data, qt.Equals, "just a string")
	})
	t.Run("empty-input-decodes-to-nil", func(t *testing.T) {
		data, err := Decode(nil)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, data, qt.IsNil)
	})
	t.Run("invalid-yaml-is-a-serialization-error", func(t *testing.T) {
		_, err := Decode([]byte("key: [unclosed\n"))
		qt.Assert(t, err, qt.IsNotNil)
		qt.Assert(t, serum.Code(err), qt.Equals, ypapi.ECodeSerialization)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("ordered-document", func(t *testing.T) {
		doc := ypapi.Document{
			{Name: "title", Value: "foo"},
			{Name: "count", Value: 42},
			{Name: "enabled", Value: true},
		}
		serial, err := Encode(doc)
		qt.Assert(t, err, qt.IsNil)
		back, err := Decode(serial)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, back, qt.DeepEquals, doc)
	})
	t.Run("map-input-comes-back-sorted", func(t *testing.T) {
		serial, err := Encode(map[string]interface{}{
			"zebra": "z",
			"apple": "a",
		})
		qt.Assert(t, err, qt.IsNil)
		back, err := Decode(serial)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, back, qt.DeepEquals, ypapi.Document{
			{Name: "apple", Value: "a"},
			{Name: "zebra", Value: "z"},
		})
	})
	t.Run("multi-line-value", func(t *testing.T) {
		doc := ypapi.Document{
			{Name: "body", Value: "foo\nbar"},
		}
		serial, err := Encode(doc)
		qt.Assert(t, err, qt.IsNil)
		back, err := Decode(serial)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, back, qt.DeepEquals, doc)
	})
	t.Run("trailing-whitespace-is-trimmed-per-line", func(t *testing.T) {
		// the one documented exception to value round-tripping
		serial, err := Encode(ypapi.Document{
			{Name: "body", Value: "foo  \nbar"},
		})
		qt.Assert(t, err, qt.IsNil)
		back, err := Decode(serial)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, back, qt.DeepEquals, ypapi.Document{
			{Name: "body", Value: "foo\nbar"},
		})
	})
}
