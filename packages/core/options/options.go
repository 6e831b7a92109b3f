package options

import (
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
	"golang.org/x/net/http/httpguts"
)

// Options is the validated intent of one invocation. It is never modified
// after New returns; accessors hand out copies of mutable parts.
type Options struct {
	url     *url.URL
	method  string
	headers headers.Set

	body       Source
	formFields []FormField
	hint       ContentTypeHint
	userAgent  string
	contentMD5 string

	credentials  *Credentials
	authScheme   string
	authViaURL   bool
	uploadPolicy Source
	uploadForm   bool
	region       string
	service      string
	expires      time.Duration

	output  string
	verbose bool
	pretty  bool
}

// New validates f and builds the Option Model.
func New(f Flags) (*Options, error) {
	if err := validateFlags(&f); err != nil {
		return nil, err
	}

	method := f.Method
	if method == "" {
		method = DefaultMethod
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, errs.New(errs.ErrInvalidMethod, "%q is not a valid HTTP method", method)
	}

	u, err := parseURL(f.URL)
	if err != nil {
		return nil, err
	}

	hs, err := headers.ParseAll(f.Headers)
	if err != nil {
		return nil, err
	}

	if f.HasData && len(f.Form) > 0 {
		return nil, errs.New(errs.ErrConflictingBodySource, "--data and --form cannot be used together")
	}

	fields, err := parseFormFields(f.Form)
	if err != nil {
		return nil, err
	}

	if (f.AccessKey == "") != (f.SecretKey == "") {
		missing := "--secret-key"
		if f.AccessKey == "" {
			missing = "--access-key"
		}
		return nil, errs.New(errs.ErrIncompleteCredentials, "%s is required when the other key is set", missing)
	}

	if f.AuthUpForm && f.AuthUpPolicy == "" {
		return nil, errs.New(errs.ErrInvalidOption, "--auth-up-form requires --auth-up-policy")
	}

	o := &Options{
		url:          u,
		method:       method,
		headers:      hs,
		formFields:   fields,
		hint:         hintFromFlags(f),
		userAgent:    f.UserAgent,
		contentMD5:   f.ContentMD5,
		authScheme:   f.Auth,
		authViaURL:   f.AuthURL,
		uploadForm:   f.AuthUpForm,
		region:       f.Region,
		service:      f.Service,
		expires:      f.Expires,
		output:       f.Output,
		verbose:      f.Verbose,
		pretty:       f.Pretty,
		body:         sourceFromArg(f.Data, f.HasData),
		uploadPolicy: sourceFromArg(f.AuthUpPolicy, f.AuthUpPolicy != ""),
	}
	if o.service == "" {
		o.service = DefaultService
	}
	if o.expires == 0 {
		o.expires = DefaultExpires
	}
	if f.AccessKey != "" {
		o.credentials = &Credentials{AccessKey: f.AccessKey, SecretKey: f.SecretKey}
	}

	return o, nil
}

func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidURL, err, "%q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errs.New(errs.ErrInvalidURL, "%q: unsupported scheme %q (only http and https are allowed)", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, errs.New(errs.ErrInvalidURL, "%q: URL must have a host", raw)
	}
	return u, nil
}

// hintFromFlags applies JSON > Binary > FormUrlEncoded.
func hintFromFlags(f Flags) ContentTypeHint {
	switch {
	case f.JSON:
		return HintJSON
	case f.Binary:
		return HintBinary
	case f.FormURLEncoded:
		return HintFormURLEncoded
	}
	return HintNone
}

// sourceFromArg interprets a curl-style value: "@path" is a file, anything
// else is literal.
func sourceFromArg(arg string, set bool) Source {
	if !set {
		return Source{}
	}
	if path, ok := strings.CutPrefix(arg, "@"); ok && path != "" {
		return Source{Kind: SourceFile, Path: path}
	}
	return Source{Kind: SourceLiteral, Data: []byte(arg)}
}

func parseFormFields(raws []string) ([]FormField, error) {
	fields := make([]FormField, 0, len(raws))
	for _, raw := range raws {
		name, value, found := strings.Cut(raw, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, errs.New(errs.ErrMalformedFormField, "%q must be name=value, name=@file or name=<file", raw)
		}

		field := FormField{Kind: FormValue, Name: name, Value: value}
		switch {
		case strings.HasPrefix(value, "@") && len(value) > 1:
			field = FormField{Kind: FormFile, Name: name, Path: value[1:]}
		case strings.HasPrefix(value, "<") && len(value) > 1:
			field = FormField{Kind: FormFileContent, Name: name, Path: value[1:]}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// URL returns a copy of the target URL.
func (o *Options) URL() *url.URL {
	u := *o.url
	if o.url.User != nil {
		user := *o.url.User
		u.User = &user
	}
	return &u
}

func (o *Options) Method() string { return o.method }

// Headers returns a copy of the explicit -H headers in order.
func (o *Options) Headers() headers.Set { return o.headers.Clone() }

// Body returns the -d source.
func (o *Options) Body() Source {
	return Source{Kind: o.body.Kind, Data: cloneBytes(o.body.Data), Path: o.body.Path}
}

// FormFields returns a copy of the -F fields in order.
func (o *Options) FormFields() []FormField {
	out := make([]FormField, len(o.formFields))
	copy(out, o.formFields)
	return out
}

func (o *Options) ContentTypeHint() ContentTypeHint { return o.hint }
func (o *Options) UserAgent() string                { return o.userAgent }
func (o *Options) ContentMD5() string               { return o.contentMD5 }

// Credentials returns a copy of the key pair, or nil when unsigned.
func (o *Options) Credentials() *Credentials {
	if o.credentials == nil {
		return nil
	}
	c := *o.credentials
	return &c
}

func (o *Options) AuthScheme() string     { return o.authScheme }
func (o *Options) AuthViaURL() bool       { return o.authViaURL }
func (o *Options) UploadForm() bool       { return o.uploadForm }
func (o *Options) Region() string         { return o.region }
func (o *Options) Service() string        { return o.service }
func (o *Options) Expires() time.Duration { return o.expires }
func (o *Options) Output() string         { return o.output }
func (o *Options) Verbose() bool          { return o.verbose }
func (o *Options) Pretty() bool           { return o.pretty }

// UploadPolicy returns the --auth-up-policy document source.
func (o *Options) UploadPolicy() Source {
	return Source{Kind: o.uploadPolicy.Kind, Data: cloneBytes(o.uploadPolicy.Data), Path: o.uploadPolicy.Path}
}

// SigningMode selects exactly one signing strategy. URL signing wins over
// policy signing, which wins over header signing.
func (o *Options) SigningMode() SigningMode {
	switch {
	case o.authViaURL:
		return ModeURL
	case o.uploadPolicy.IsSet():
		return ModePolicy
	case o.credentials != nil:
		return ModeHeader
	}
	return ModeUnsigned
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
