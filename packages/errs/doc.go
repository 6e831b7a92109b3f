// Package errs defines the error taxonomy shared by every hitcurl pipeline stage.
//
// Errors fall into four categories:
//   - ValidationError: bad flags, detected before any I/O
//   - ResourceError: local files that cannot be read
//   - SigningError: credentials or schemes that cannot produce a signature
//   - TransportError: failures reported by the HTTP transport
//
// Every concrete failure is an *Error carrying a Kind. Use errors.Is with a
// Kind sentinel (ErrInvalidMethod, ...) or a category sentinel
// (ErrValidation, ...) to classify it.
package errs
