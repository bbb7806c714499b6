// Package store is the public face of yamlpage: it composes a path-mapping
// backend with the yaml codec and the read-time filter pipeline.
package store

import (
	"context"
	"path/filepath"

	"github.com/warpfork/go-fsx"
	"github.com/warpfork/go-fsx/osfs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagetools/yamlpage/pkg/backend"
	"github.com/pagetools/yamlpage/pkg/codec"
	"github.com/pagetools/yamlpage/pkg/filter"
	"github.com/pagetools/yamlpage/pkg/tracing"
	"github.com/pagetools/yamlpage/ypapi"
)

// Config carries the construction parameters for a Store.
// The zero value is usable: single-folder layout under the current
// directory, '^' delimiter, '.yaml' extension, no filters.
type Config struct {
	// RootDir is the base directory for all derived paths.  Default ".".
	RootDir string
	// Backend selects the path-mapping strategy.  Default single-folder.
	Backend backend.Kind
	// Extension is appended to derived paths; a leading dot is optional
	// and normalized to exactly one.  Default "yaml".
	Extension string
	// Delimiter substitutes path separators in single-folder filenames.
	// Default "^".
	Delimiter string
	// Filters is the registry consulted by the read-time filter pipeline.
	Filters filter.Registry
	// FS is the filesystem capability backing the filesystem backends.
	// Defaults to the host filesystem; injectable for tests.
	FS fsx.FS
	// S3 must be set when Backend is KindS3; ignored otherwise.
	S3 backend.S3Config
}

// Store is a flat-file document store.  It is immutable after construction
// and safe for concurrent readers; concurrent writers to the same key race
// at the storage layer, by contract.
type Store struct {
	backend backend.Backend
	kind    backend.Kind
	filters filter.Registry
}

// New constructs a Store from a Config.
//
// Errors:
//
//    - yamlpage-error-initialization -- when the s3 backend cannot be constructed
//    - yamlpage-error-invalid -- when the backend kind is not recognized
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	if cfg.Backend == "" {
		cfg.Backend = backend.KindSingleFolder
	}
	if cfg.Extension == "" {
		cfg.Extension = "yaml"
	}
	fsys := cfg.FS
	root := cfg.RootDir
	if fsys == nil {
		// default to the host filesystem, rooted at / in the fs.FS style
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, ypapi.ErrorInitialization("could not resolve root directory", err)
		}
		fsys = osfs.DirFS("/")
		root = abs
	}

	var b backend.Backend
	switch cfg.Backend {
	case backend.KindSingleFolder:
		b = backend.NewSingleFolder(fsys, root, cfg.Delimiter, cfg.Extension)
	case backend.KindMultiFolder:
		b = backend.NewMultiFolder(fsys, root, cfg.Extension)
	case backend.KindS3:
		s3b, err := backend.NewS3(ctx, cfg.S3, cfg.Extension)
		if err != nil {
			return nil, err
		}
		b = s3b
	default:
		return nil, ypapi.ErrorInvalid("unrecognized backend kind",
			[2]string{"backend", string(cfg.Backend)})
	}
	return &Store{backend: b, kind: cfg.Backend, filters: cfg.Filters}, nil
}

// PathFor reports the physical path the active backend derives for a key.
func (s *Store) PathFor(key string) string {
	return s.backend.PathFor(key)
}

// Exists reports whether a page is stored for the key.  It never fails;
// a key whose derived path cannot be inspected reads as absent.
func (s *Store) Exists(ctx context.Context, key string) bool {
	ctx, span := tracing.Start(ctx, "store.exists", trace.WithAttributes(s.spanAttrs(key)...))
	defer span.End()
	return s.backend.Has(ctx, key)
}

// Get loads, decodes, and filters the page stored for the key.
// Absence -- a missing, unreadable, or non-UTF-8 file -- is reported as
// (nil, nil), never as an error.  A file that is present but not valid yaml
// is a hard error: corruption must not masquerade as absence.
//
// Errors:
//
//    - yamlpage-error-serialization -- when the stored text is not valid yaml
func (s *Store) Get(ctx context.Context, key string) (interface{}, error) {
	ctx, span := tracing.Start(ctx, "store.get", trace.WithAttributes(s.spanAttrs(key)...))
	defer span.End()

	body, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	data, err := codec.Decode(body)
	if err != nil {
		tracing.SetSpanError(ctx, err)
		return nil, err
	}
	if doc, ok := data.(ypapi.Document); ok {
		data = filter.Apply(doc, s.filters)
	}
	return data, nil
}

// Put encodes the document and writes it at the key's derived path,
// creating parent directories as needed and overwriting unconditionally.
//
// Errors:
//
//    - yamlpage-error-serialization -- when the document cannot be encoded
//    - yamlpage-error-io -- when directory creation or the write fails
func (s *Store) Put(ctx context.Context, key string, data interface{}) error {
	ctx, span := tracing.Start(ctx, "store.put", trace.WithAttributes(s.spanAttrs(key)...))
	defer span.End()

	body, err := codec.Encode(data)
	if err != nil {
		tracing.SetSpanError(ctx, err)
		return err
	}
	if err := s.backend.Put(ctx, key, body); err != nil {
		tracing.SetSpanError(ctx, err)
		return err
	}
	return nil
}

// List enumerates the keys of every stored page, naturally sorted.
//
// Errors:
//
//    - yamlpage-error-io -- when the storage tree cannot be listed
func (s *Store) List(ctx context.Context) ([]string, error) {
	ctx, span := tracing.Start(ctx, "store.list")
	defer span.End()
	return s.backend.List(ctx)
}

func (s *Store) spanAttrs(key string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(tracing.AttrKeyKey, key),
		attribute.String(tracing.AttrKeyPath, s.backend.PathFor(key)),
		attribute.String(tracing.AttrKeyBackend, string(s.kind)),
	}
}
