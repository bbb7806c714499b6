package backend

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"
	"github.com/warpfork/go-fsx"

	"github.com/pagetools/yamlpage/pkg/logging"
	"github.com/pagetools/yamlpage/ypapi"
)

// MultiFolder stores pages in a directory tree mirroring the key hierarchy,
// so the stored content stays browsable with ordinary filesystem tools.
type MultiFolder struct {
	fsys      fsx.FS
	root      string
	extension string
}

var _ Backend = (*MultiFolder)(nil)

// NewMultiFolder constructs a MultiFolder backend rooted at root.
// The fsys handle is typically `osfs.DirFS("/")` outside of tests.
func NewMultiFolder(fsys fsx.FS, root, extension string) *MultiFolder {
	return &MultiFolder{
		fsys:      fsys,
		root:      filepath.Clean(root),
		extension: NormalizeExtension(extension),
	}
}

// PathFor nests the key's segments under the root directory, extension on
// the final segment.  The key is normalized as a rooted path first, which
// collapses '.' and redundant separators and strips any leading '..'
// segments -- a key can never escape the root.
// The empty key maps to the root path itself plus the extension.
func (b *MultiFolder) PathFor(key string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return b.root + b.extension
	}
	return filepath.Join(b.root, cleaned) + b.extension
}

func (b *MultiFolder) Has(ctx context.Context, key string) bool {
	return statIsRegular(b.fsys, b.PathFor(key))
}

func (b *MultiFolder) Get(ctx context.Context, key string) ([]byte, error) {
	return readPage(ctx, b.fsys, b.PathFor(key))
}

func (b *MultiFolder) Put(ctx context.Context, key string, body []byte) error {
	return writePage(b.fsys, b.PathFor(key), body)
}

// List walks the tree under root and inverts the path mapping.
func (b *MultiFolder) List(ctx context.Context) ([]string, error) {
	root := fsPath(b.root)
	var keys []string
	err := fsx.WalkDir(b.fsys, root, func(p string, d fsx.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if b.extension != "" && !strings.HasSuffix(p, b.extension) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		keys = append(keys, strings.TrimSuffix(filepath.ToSlash(rel), b.extension))
		return nil
	})
	if err != nil {
		if _, statErr := fs.Stat(b.fsys, root); statErr != nil {
			// no root directory yet means no pages, not a failure
			logging.Ctx(ctx).Debug("backend", "listing empty: %s", statErr)
			return nil, nil
		}
		return nil, ypapi.ErrorIo("could not walk page tree", b.root, err)
	}
	natsort.Sort(keys)
	return keys, nil
}
