// Package http sends a built request and collects the response.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts
//   - Redirect handling
//   - Proxy and TLS verification settings
//   - An immutable request descriptor shared with the builder
package http
