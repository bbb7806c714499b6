// Package backend maps logical page keys to physical storage and moves raw
// bytes in and out of it.
//
// A backend owns exactly three concerns: deriving a physical path from a key,
// checking for presence, and reading or writing bytes at that path.  Document
// semantics (yaml, field order, filters) live above this package, in codec,
// filter, and store.
package backend

import (
	"context"
)

// Backend is the strategy for mapping keys to storage.
//
// Get reports absence as (nil, nil), never as an error: a missing file, an
// unreadable file, and a file that is not valid UTF-8 are indistinguishable
// to callers.  This conflation is part of the storage contract; the
// underlying cause is logged at debug level via the context logger.
// Put is the one operation allowed to fail loudly.
type Backend interface {
	// PathFor derives the physical location for a key.  It is deterministic
	// and depends only on construction parameters.
	PathFor(key string) string

	// Has reports whether a readable page is stored for the key.
	// It never fails; any trouble inspecting the path reads as false.
	Has(ctx context.Context, key string) bool

	// Get returns the stored bytes for a key, or (nil, nil) when absent.
	//
	// Errors: none -- absence covers all read failures by contract.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes bytes for a key, creating parent directories as needed and
	// overwriting any previous content unconditionally.
	//
	// Errors:
	//
	//    - yamlpage-error-io -- when directory creation or the write fails
	Put(ctx context.Context, key string, body []byte) error

	// List enumerates the keys of every stored page, naturally sorted.
	//
	// Errors:
	//
	//    - yamlpage-error-io -- when the storage tree cannot be listed
	List(ctx context.Context) ([]string, error)
}

// Kind selects a concrete backend strategy at construction time.
type Kind string

const (
	KindSingleFolder Kind = "single"
	KindMultiFolder  Kind = "multi"
	KindS3           Kind = "s3"
)

const (
	// DefaultDelimiter replaces path separators in single-folder filenames.
	DefaultDelimiter = "^"
	// DefaultExtension is appended to every derived path.
	DefaultExtension = ".yaml"
)

// NormalizeExtension returns the extension with exactly one leading dot.
// An empty extension stays empty.
func NormalizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	for len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	if ext == "" {
		return ""
	}
	return "." + ext
}
