// Package body resolves the request body from the -d and -F options.
//
// A body is one of:
//   - the literal bytes given to -d
//   - the contents of the file named by -d @path (or stdin for @-)
//   - an encoding of the -F fields: multipart/form-data by default,
//     application/x-www-form-urlencoded with --form-urlencoded, or a
//     JSON object with --json
//   - empty
//
// Files are read through a FileReader so the resolver stays testable with
// in-memory fixtures. Each file is opened once, read fully and closed.
package body
