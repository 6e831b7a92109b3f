// Package cmd implements the hitcurl command line using Cobra.
//
// hitcurl sends one HTTP request built from curl-like flags and can sign
// it with access/secret key credentials:
//
//	hitcurl -X PUT -d @photo.jpg --access-key AK --secret-key SK \
//	    --region us-east-1 https://bucket.s3.amazonaws.com/photo.jpg
//
// Subcommands:
//   - version: Show hitcurl version information
//   - completion: Generate shell completion scripts
package cmd
