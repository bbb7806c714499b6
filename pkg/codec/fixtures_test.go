package codec

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/warpfork/go-testmark"
)

func TestCanonicalPageFixtures(t *testing.T) {
	doc, err := testmark.ReadFile("fixtures/canonical-pages.md")
	if err != nil {
		t.Fatalf("fixture file parse failed?!: %s", err)
	}

	// Data hunks in this file are in "directories" of a test scenario each.
	doc.BuildDirIndex()
	for _, dir := range doc.DirEnt.ChildrenList {
		t.Run(dir.Name, func(t *testing.T) {
			input := dir.Children["input"].Hunk.Body
			canonical := dir.Children["canonical"].Hunk.Body

			data, err := Decode(input)
			qt.Assert(t, err, qt.IsNil)

			reserial, err := Encode(data)
			qt.Assert(t, err, qt.IsNil)
			qt.Assert(t, string(reserial), qt.Equals, string(canonical))

			// canonical text is a fixpoint: decoding and re-encoding it
			// must change nothing
			data, err = Decode(canonical)
			qt.Assert(t, err, qt.IsNil)
			reserial, err = Encode(data)
			qt.Assert(t, err, qt.IsNil)
			qt.Assert(t, string(reserial), qt.Equals, string(canonical))
		})
	}
}
