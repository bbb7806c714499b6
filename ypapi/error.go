package ypapi

import (
	"github.com/serum-errors/go-serum"
)

const (
	ECodeIo             = "yamlpage-error-io"
	ECodeSerialization  = "yamlpage-error-serialization"
	ECodeInvalid        = "yamlpage-error-invalid"
	ECodeMissing        = "yamlpage-error-missing"
	ECodeInitialization = "yamlpage-error-initialization"
	ECodeInternal       = "yamlpage-error-internal"
)

// ErrorIo wraps generic I/O errors from the Go stdlib
//
// Errors:
//
//    - yamlpage-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(ECodeIo,
		"io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorSerialization is returned when a document cannot be encoded or decoded
//
// Errors:
//
//    - yamlpage-error-serialization --
func ErrorSerialization(context string, cause error) error {
	result := serum.Errorf(ECodeSerialization,
		"serialization error: %s: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
	})
	return result
}

// ErrorInvalid is returned when something is invalid.
// In most cases, prefer to use more specific errors.
// The caller must format the message string.
//
// Errors:
//
//  - yamlpage-error-invalid --
func ErrorInvalid(message string, deets ...[2]string) error {
	opts := make([]serum.WithConstruction, 0, len(deets))
	for _, d := range deets {
		opts = append(opts, serum.WithDetail(d[0], d[1]))
	}
	opts = append(opts, serum.WithMessageLiteral(message))
	return serum.Error(ECodeInvalid, opts...)
}

// ErrorMissing is returned by surfaces that must report absence loudly
// (e.g. the CLI); the store API itself reports absence as a nil value.
//
// Errors:
//
//    - yamlpage-error-missing --
func ErrorMissing(key string) error {
	return serum.Error(ECodeMissing,
		serum.WithMessageTemplate("no page stored for key {{key|q}}"),
		serum.WithDetail("key", key),
	)
}

// ErrorInitialization is returned when constructing a store or backend fails
//
// Errors:
//
//    - yamlpage-error-initialization --
func ErrorInitialization(context string, cause error) error {
	result := serum.Errorf(ECodeInitialization,
		"initialization failed: %s: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
	})
	return result
}

// ErrorInternal is for miscellaneous errors that should be handled internally.
// Can be used when an end user is not expected to have viable intervention strategies.
//
// Errors:
//
// - yamlpage-error-internal --
func ErrorInternal(msgTmpl string, cause error) error {
	return serum.Errorf(ECodeInternal, "%s: %w", msgTmpl, cause)
}

func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}
