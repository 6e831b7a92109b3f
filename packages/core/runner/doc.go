// Package runner drives a single hitcurl invocation.
//
// It builds the request from validated options, hands it to the HTTP
// client and returns both, so the caller can render the exchange. One
// invocation sends exactly one request; nothing is retried.
package runner
