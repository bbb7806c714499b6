package backend

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/facette/natsort"
	"github.com/warpfork/go-fsx"

	"github.com/pagetools/yamlpage/pkg/logging"
	"github.com/pagetools/yamlpage/ypapi"
)

// SingleFolder stores one file per key in a single flat directory, replacing
// the key's path separators with a delimiter character.  Directory fan-out
// never happens, which suits storage that dislikes deep trees; the price is
// that a key whose literal text coincides with another key's delimited form
// collides with it.  Accepted limitation.
type SingleFolder struct {
	fsys      fsx.FS
	root      string
	delimiter string
	extension string
}

var _ Backend = (*SingleFolder)(nil)

// NewSingleFolder constructs a SingleFolder backend rooted at root.
// The fsys handle is typically `osfs.DirFS("/")` outside of tests.
func NewSingleFolder(fsys fsx.FS, root, delimiter, extension string) *SingleFolder {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &SingleFolder{
		fsys:      fsys,
		root:      filepath.Clean(root),
		delimiter: delimiter,
		extension: NormalizeExtension(extension),
	}
}

// PathFor replaces every path separator in the key with the delimiter and
// joins the result under the root directory, extension appended.
// The empty key maps to the root path itself plus the extension, with no
// joining separator inserted.
func (b *SingleFolder) PathFor(key string) string {
	name := strings.TrimLeft(key, "/")
	name = strings.ReplaceAll(name, "/", b.delimiter)
	if name == "" {
		return b.root + b.extension
	}
	return filepath.Join(b.root, name+b.extension)
}

func (b *SingleFolder) Has(ctx context.Context, key string) bool {
	return statIsRegular(b.fsys, b.PathFor(key))
}

func (b *SingleFolder) Get(ctx context.Context, key string) ([]byte, error) {
	return readPage(ctx, b.fsys, b.PathFor(key))
}

func (b *SingleFolder) Put(ctx context.Context, key string, body []byte) error {
	return writePage(b.fsys, b.PathFor(key), body)
}

// List reads the root directory and inverts the filename mapping:
// extension stripped, delimiters restored to slashes.
func (b *SingleFolder) List(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(b.fsys, fsPath(b.root))
	if err != nil {
		logging.Ctx(ctx).Debug("backend", "listing empty: %s", err)
		return nil, nil
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if b.extension != "" && !strings.HasSuffix(name, b.extension) {
			continue
		}
		name = strings.TrimSuffix(name, b.extension)
		keys = append(keys, strings.ReplaceAll(name, b.delimiter, "/"))
	}
	natsort.Sort(keys)
	return keys, nil
}

// fsPath adapts a derived path for the io/fs API, which rejects leading slashes.
func fsPath(p string) string {
	return strings.TrimPrefix(p, "/")
}

func statIsRegular(fsys fsx.FS, path string) bool {
	fi, err := fs.Stat(fsys, fsPath(path))
	return err == nil && fi.Mode().IsRegular()
}

// readPage implements the shared read contract: any failure to produce valid
// UTF-8 text from the path -- absence, unreadability, or bad encoding --
// reads as (nil, nil).  The cause goes to the debug log and nowhere else.
func readPage(ctx context.Context, fsys fsx.FS, path string) ([]byte, error) {
	body, err := fs.ReadFile(fsys, fsPath(path))
	if err != nil {
		logging.Ctx(ctx).Debug("backend", "treating page at %q as absent: %s", path, err)
		return nil, nil
	}
	if !validUTF8(body) {
		logging.Ctx(ctx).Debug("backend", "treating page at %q as absent: not valid utf-8", path)
		return nil, nil
	}
	return body, nil
}

func validUTF8(body []byte) bool {
	return utf8.Valid(body)
}

func writePage(fsys fsx.FS, path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := fsx.MkdirAll(fsys, fsPath(dir), 0755); err != nil {
		return ypapi.ErrorIo("could not create page directory", dir, err)
	}
	if err := fsx.WriteFile(fsys, fsPath(path), 0644, body); err != nil {
		return ypapi.ErrorIo("could not write page file", path, err)
	}
	return nil
}
