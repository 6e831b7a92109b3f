package options

import "time"

type ContentTypeHint int

const (
	HintNone ContentTypeHint = iota
	HintJSON
	HintBinary
	HintFormURLEncoded
)

// MediaType returns the Content-Type implied by the hint, or "".
func (h ContentTypeHint) MediaType() string {
	switch h {
	case HintJSON:
		return "application/json"
	case HintBinary:
		return "application/octet-stream"
	case HintFormURLEncoded:
		return "application/x-www-form-urlencoded"
	}
	return ""
}

func (h ContentTypeHint) String() string {
	switch h {
	case HintJSON:
		return "json"
	case HintBinary:
		return "binary"
	case HintFormURLEncoded:
		return "form-urlencoded"
	}
	return "none"
}

type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceLiteral
	SourceFile
)

// Source is either literal bytes or a reference to a file. Path "-" means
// standard input.
type Source struct {
	Kind SourceKind
	Data []byte
	Path string
}

// IsSet reports whether the source carries anything.
func (s Source) IsSet() bool {
	return s.Kind != SourceNone
}

type FormFieldKind int

const (
	// FormValue is name=value.
	FormValue FormFieldKind = iota
	// FormFile is name=@path, uploaded as a file part.
	FormFile
	// FormFileContent is name=<path, the file's content used as a plain value.
	FormFileContent
)

type FormField struct {
	Kind  FormFieldKind
	Name  string
	Value string
	Path  string
}

type Credentials struct {
	AccessKey string
	SecretKey string
}

type SigningMode int

const (
	ModeUnsigned SigningMode = iota
	ModeHeader
	ModeURL
	ModePolicy
)

func (m SigningMode) String() string {
	switch m {
	case ModeHeader:
		return "header"
	case ModeURL:
		return "url"
	case ModePolicy:
		return "policy"
	}
	return "unsigned"
}

const (
	DefaultMethod  = "GET"
	DefaultService = "s3"
	DefaultExpires = time.Hour
)
