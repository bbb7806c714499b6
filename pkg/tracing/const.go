package tracing

// Span attribute keys used by yamlpage
const (
	AttrKeyErrorCode = "yamlpage.error.code"
	AttrKeyKey       = "yamlpage.key"
	AttrKeyPath      = "yamlpage.path"
	AttrKeyBackend   = "yamlpage.backend"
)
