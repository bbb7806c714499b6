package store

import (
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"
	"github.com/warpfork/go-fsx"
	"github.com/warpfork/go-fsx/osfs"

	"github.com/pagetools/yamlpage/pkg/backend"
	"github.com/pagetools/yamlpage/pkg/filter"
	"github.com/pagetools/yamlpage/ypapi"
)

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	cfg.FS = osfs.DirFS(t.TempDir())
	cfg.RootDir = "pages"
	s, err := New(context.Background(), cfg)
	qt.Assert(t, err, qt.IsNil)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{})

	t.Run("fresh-store-reads-as-absent", func(t *testing.T) {
		qt.Check(t, s.Exists(ctx, "my/url"), qt.IsFalse)
		data, err := s.Get(ctx, "my/url")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, data, qt.IsNil)
	})
	t.Run("put-then-get", func(t *testing.T) {
		doc := ypapi.Document{
			{Name: "title", Value: "foo"},
			{Name: "body", Value: "foo\nbar"},
		}
		qt.Assert(t, s.Put(ctx, "my/url", doc), qt.IsNil)
		qt.Check(t, s.Exists(ctx, "my/url"), qt.IsTrue)

		data, err := s.Get(ctx, "my/url")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, data, qt.DeepEquals, doc)
	})
	t.Run("map-input-is-stored-sorted", func(t *testing.T) {
		err := s.Put(ctx, "sorted", map[string]interface{}{
			"zebra": 1,
			"apple": 2,
		})
		qt.Assert(t, err, qt.IsNil)
		data, err := s.Get(ctx, "sorted")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, data, qt.DeepEquals, ypapi.Document{
			{Name: "apple", Value: 2},
			{Name: "zebra", Value: 1},
		})
	})
	t.Run("list", func(t *testing.T) {
		keys, err := s.List(ctx)
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, keys, qt.DeepEquals, []string{"my/url", "sorted"})
	})
}

func TestStorePathFor(t *testing.T) {
	t.Run("single-folder", func(t *testing.T) {
		s, err := New(context.Background(), Config{
			FS:      osfs.DirFS(t.TempDir()),
			RootDir: "root/dir",
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, s.PathFor("a/b/c"), qt.Equals, "root/dir/a^b^c.yaml")
	})
	t.Run("multi-folder", func(t *testing.T) {
		s, err := New(context.Background(), Config{
			FS:      osfs.DirFS(t.TempDir()),
			RootDir: "root/dir",
			Backend: backend.KindMultiFolder,
		})
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, s.PathFor("a/b/c"), qt.Equals, "root/dir/a/b/c.yaml")
	})
	t.Run("unknown-backend-kind", func(t *testing.T) {
		_, err := New(context.Background(), Config{Backend: backend.Kind("bogus")})
		qt.Assert(t, err, qt.IsNotNil)
		qt.Check(t, serum.Code(err), qt.Equals, ypapi.ECodeInvalid)
	})
}

func TestStoreCorruptPage(t *testing.T) {
	ctx := context.Background()
	fsys := osfs.DirFS(t.TempDir())
	s, err := New(ctx, Config{FS: fsys, RootDir: "pages"})
	qt.Assert(t, err, qt.IsNil)

	// a present-but-broken page must fail loudly, not read as absent
	qt.Assert(t, fsx.MkdirAll(fsys, "pages", 0755), qt.IsNil)
	qt.Assert(t, fsx.WriteFile(fsys, "pages/broken.yaml", 0644, []byte("key: [unclosed\n")), qt.IsNil)

	qt.Check(t, s.Exists(ctx, "broken"), qt.IsTrue)
	_, err = s.Get(ctx, "broken")
	qt.Assert(t, err, qt.IsNotNil)
	qt.Check(t, serum.Code(err), qt.Equals, ypapi.ECodeSerialization)
}

func TestStoreFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{
		Filters: filter.Registry{
			"upper": strings.ToUpper,
		},
	})

	doc := ypapi.Document{
		{Name: "title|upper", Value: "foo"},
		{Name: "body|unknown", Value: "bar"},
	}
	qt.Assert(t, s.Put(ctx, "page", doc), qt.IsNil)

	t.Run("filters-run-at-read-time", func(t *testing.T) {
		data, err := s.Get(ctx, "page")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, data, qt.DeepEquals, ypapi.Document{
			{Name: "title", Value: "FOO"},
			{Name: "body|unknown", Value: "bar"},
		})
	})
	t.Run("stored-text-keeps-the-tags", func(t *testing.T) {
		// the pipeline transforms reads only; the page on disk is untouched
		data, err := s.Get(ctx, "page")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, data.(ypapi.Document).Has("title|upper"), qt.IsFalse)

		again, err := s.Get(ctx, "page")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, again, qt.DeepEquals, data)
	})
}

func TestStoreMultilineNormalization(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Config{})

	qt.Assert(t, s.Put(ctx, "page", ypapi.Document{
		{Name: "body", Value: "one \r\n\ttwo  \nthree"},
	}), qt.IsNil)
	data, err := s.Get(ctx, "page")
	qt.Assert(t, err, qt.IsNil)
	qt.Check(t, data, qt.DeepEquals, ypapi.Document{
		{Name: "body", Value: "one\n    two\nthree"},
	})
}
