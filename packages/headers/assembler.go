package headers

const (
	UserAgent   = "User-Agent"
	ContentType = "Content-Type"
	ContentMD5  = "Content-MD5"
)

// Implicit holds the headers hitcurl derives from options rather than -H.
type Implicit struct {
	UserAgent string
	// ContentTypeHint comes from --json, --binary or --form-urlencoded.
	ContentTypeHint string
	// InferredContentType comes from form encoding and loses to the hint.
	InferredContentType string
	ContentMD5          string
}

// Assemble merges implicit and explicit headers.
//
// Precedence on a name collision is explicit > hint > inferred content type.
// Implicit headers come first, then explicit ones in the order given.
// Duplicate explicit headers are kept verbatim.
func Assemble(imp Implicit, explicit Set) Set {
	out := Set{}

	if imp.UserAgent != "" && !explicit.Has(UserAgent) {
		out.Add(UserAgent, imp.UserAgent)
	}

	contentType := imp.ContentTypeHint
	if contentType == "" {
		contentType = imp.InferredContentType
	}
	if contentType != "" && !explicit.Has(ContentType) {
		out.Add(ContentType, contentType)
	}

	if imp.ContentMD5 != "" && !explicit.Has(ContentMD5) {
		out.Add(ContentMD5, imp.ContentMD5)
	}

	for _, h := range explicit.entries {
		out.Add(h.Name, h.Value)
	}
	return out
}
