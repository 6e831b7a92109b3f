// Package env loads dotenv files named by --env-file.
//
// Values are exported to the process environment before configuration is
// read, so HITCURL_* variables in the file behave like real ones. Variables
// already set in the environment are left alone.
package env
