// Package headers implements the ordered header set used to build requests.
//
// A Set keeps headers in insertion order and allows duplicate names, as HTTP
// permits multi-valued headers. Name comparisons are case-insensitive.
//
// Assemble merges implicit headers (User-Agent, Content-Type, Content-MD5)
// with the headers the user supplied on the command line. An explicit header
// always overrides an implicit one of the same name and never duplicates it.
package headers
