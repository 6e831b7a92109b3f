// Package config loads hitcurl defaults.
//
// Settings come from, lowest precedence first:
//   - built-in defaults
//   - a YAML file (.hitcurl.yaml in the working directory, then the home
//     directory, or the file named by --config)
//   - HITCURL_* environment variables
//
// Command-line flags override all of them; that merge happens in the CLI.
package config
