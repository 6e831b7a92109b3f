// Package output renders a request/response exchange.
//
// Supported output formats:
//   - Console: the response body, plus curl-style "> " and "< " trace lines
//     in verbose mode
//   - JSON: the whole exchange as one JSON document
//
// Errors are always printed by FormatError as "Error: <category>: <kind>".
package output
