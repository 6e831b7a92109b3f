// Package options builds the validated, immutable Option Model for a single
// hitcurl invocation.
//
// The CLI fills a Flags record from the command line, environment and config
// file; New validates it and returns an Options value. Every rule that can be
// checked without I/O is enforced here:
//   - the method is a valid HTTP token
//   - the URL is absolute http or https
//   - -d and -F are mutually exclusive
//   - --access-key and --secret-key come together
//   - -H and -F values are well formed
//
// Exclusivity of --json, --binary and --form-urlencoded is re-checked here
// rather than trusted from the flag layer: the first set in the order
// JSON, Binary, FormUrlEncoded wins.
package options
