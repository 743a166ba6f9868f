package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryRender,
		Message:  "Rendered output is not valid UTF-8",
		Detail:   "A raw node supplied bytes that are not valid UTF-8, so the output cannot be returned as a string. The byte output is still available.",
		DocURL:   "https://loom.vango.dev/docs/errors/R001",
	},
	"R004": {
		Category: CategoryRender,
		Message:  "Node failed to render",
		Detail:   "A custom node returned an error while rendering. Rendering stopped at that node.",
		DocURL:   "https://loom.vango.dev/docs/errors/R004",
	},

	// ============================================
	// Stream Errors (R020-R039)
	// ============================================

	"R020": {
		Category: CategoryStream,
		Message:  "Invalid chunk size",
		Detail:   "Streaming requires a positive chunk size.",
		DocURL:   "https://loom.vango.dev/docs/errors/R020",
	},
	"R021": {
		Category: CategoryStream,
		Message:  "Unknown stream mode",
		Detail:   "The stream mode must be one of sync, async, batch, progressive or backpressure.",
		DocURL:   "https://loom.vango.dev/docs/errors/R021",
	},
	"R022": {
		Category: CategoryStream,
		Message:  "Stream cancelled",
		Detail:   "The consumer stopped reading or its context was cancelled before the document was complete.",
		DocURL:   "https://loom.vango.dev/docs/errors/R022",
	},

	// ============================================
	// Page Errors (P001-P019)
	// ============================================

	"P001": {
		Category: CategoryPage,
		Message:  "Page file could not be decoded",
		Detail:   "The page file is not valid YAML or does not match the page schema.",
		DocURL:   "https://loom.vango.dev/docs/errors/P001",
	},
	"P002": {
		Category: CategoryPage,
		Message:  "Page not found",
		Detail:   "No page with that name has been loaded.",
		DocURL:   "https://loom.vango.dev/docs/errors/P002",
	},
	"P003": {
		Category: CategoryPage,
		Message:  "Invalid page element",
		Detail:   "An element must set tag, text or raw, cannot set both text and raw, and needs a tag to have attributes, styles or children.",
		DocURL:   "https://loom.vango.dev/docs/errors/P003",
	},

	// ============================================
	// Config Errors (C001-C019)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No loom.yaml was found in the current directory or its parents.",
		DocURL:   "https://loom.vango.dev/docs/errors/C001",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "The configuration file could not be parsed or contains invalid values.",
		DocURL:   "https://loom.vango.dev/docs/errors/C002",
	},

	// ============================================
	// Publish Errors (S001-S019)
	// ============================================

	"S001": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "The rendered document could not be stored in the bucket.",
		DocURL:   "https://loom.vango.dev/docs/errors/S001",
	},
	"S002": {
		Category: CategoryPublish,
		Message:  "Missing bucket",
		Detail:   "Publishing requires a bucket name.",
		DocURL:   "https://loom.vango.dev/docs/errors/S002",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
