// Package signer authenticates a fully built request with caller-supplied
// credentials.
//
// Exactly one Strategy runs per request, chosen by Select from the signing
// mode of the options:
//   - Unsigned: passes the request through untouched
//   - HeaderSigner: adds an Authorization header and its date/hash headers
//   - URLSigner: appends signed query parameters (pre-signed URL style)
//   - PolicySigner: signs an upload policy document and attaches it as
//     form fields or X-Upload-* headers
//
// Strategies never modify the request. They return an Augmentation that the
// request assembler applies. The signature algorithm itself is pluggable:
// strategies look it up by scheme name in a Registry. Built in are
// AWS4-HMAC-SHA256 (the default) and the legacy HMAC-SHA1 "AWS" scheme.
package signer
