// Package errors provides structured, coded errors for loom.
//
// Every error has a unique code (e.g., "R001") registered with a category,
// a short message, a longer explanation and a documentation URL. Errors can
// carry a source location (used for page files) and wrap an underlying
// cause, so errors.Is and errors.As work across package boundaries.
//
// # Error Categories
//
//   - render: serialization failures (invalid UTF-8, failing nodes)
//   - stream: chunked delivery problems (invalid chunk size, cancellation)
//   - page: page file decoding and lookup
//   - config: project configuration loading
//   - publish: uploading rendered documents
//
// # Usage
//
//	err := errors.New("P001").
//	    WithLocation("pages/index.yaml", 12, 5).
//	    WithSuggestion("Each element needs a tag, text or raw field").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
package errors
