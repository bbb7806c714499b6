package config

// Environment variables recognized by the yamlpage CLI.
// Each one backs the CLI flag of the same concern; flags win over the
// environment, the environment wins over built-in defaults.
const (
	// EnvRoot overrides the base directory for derived paths.
	EnvRoot = "YAMLPAGE_ROOT"
	// EnvBackend selects the path-mapping strategy: single, multi, or s3.
	EnvBackend = "YAMLPAGE_BACKEND"
	// EnvExtension overrides the file extension appended to derived paths.
	EnvExtension = "YAMLPAGE_EXTENSION"
	// EnvDelimiter overrides the separator substitution character
	// used by the single-folder backend.
	EnvDelimiter = "YAMLPAGE_DELIMITER"
	// EnvS3Bucket names the bucket used by the s3 backend.
	EnvS3Bucket = "YAMLPAGE_S3_BUCKET"
	// EnvS3Region names the region used by the s3 backend.
	EnvS3Region = "YAMLPAGE_S3_REGION"
	// EnvS3Endpoint points the s3 backend at an s3-compatible service.
	EnvS3Endpoint = "YAMLPAGE_S3_ENDPOINT"
	// EnvS3Prefix nests all object keys under a prefix.
	EnvS3Prefix = "YAMLPAGE_S3_PREFIX"
	// EnvDebug enables verbose output, same as --verbose.
	EnvDebug = "YAMLPAGE_DEBUG"
)
