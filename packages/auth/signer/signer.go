package signer

import (
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
)

// Context is the snapshot a strategy signs. It lives only for the duration
// of the signing step.
type Context struct {
	Credentials *options.Credentials
	Scheme      string
	Region      string
	Service     string
	Expires     time.Duration

	Method      string
	URL         *url.URL
	Headers     headers.Set
	PayloadHash string

	// Policy is the raw upload policy document, used by PolicySigner only.
	Policy       []byte
	PolicyAsForm bool

	Time time.Time
}

// QueryParam is a single query string addition.
type QueryParam struct {
	Name  string
	Value string
}

// Augmentation is what signing adds to a request. Headers replace any
// header of the same name, Query is appended to the URL and Form is placed
// before the user's form fields.
type Augmentation struct {
	Headers headers.Set
	Query   []QueryParam
	Form    []body.Field
}

// IsEmpty reports whether the augmentation adds nothing.
func (a *Augmentation) IsEmpty() bool {
	return a == nil || (a.Headers.Len() == 0 && len(a.Query) == 0 && len(a.Form) == 0)
}

// Strategy computes the authentication material for one request.
type Strategy interface {
	Sign(ctx *Context) (*Augmentation, error)
}

// Select returns the strategy for mode, backed by reg.
func Select(mode options.SigningMode, reg *Registry) Strategy {
	switch mode {
	case options.ModeHeader:
		return &HeaderSigner{Registry: reg}
	case options.ModeURL:
		return &URLSigner{Registry: reg}
	case options.ModePolicy:
		return &PolicySigner{Registry: reg}
	}
	return Unsigned{}
}

// Unsigned adds nothing.
type Unsigned struct{}

func (Unsigned) Sign(*Context) (*Augmentation, error) {
	return &Augmentation{}, nil
}

// HeaderSigner signs into an Authorization header.
type HeaderSigner struct {
	Registry *Registry
}

func (s *HeaderSigner) Sign(ctx *Context) (*Augmentation, error) {
	alg, err := prepare(ctx, s.Registry)
	if err != nil {
		return nil, err
	}
	hs, err := alg.SignHeaders(ctx)
	if err != nil {
		return nil, err
	}
	return &Augmentation{Headers: hs}, nil
}

// URLSigner signs into query parameters and leaves headers alone.
type URLSigner struct {
	Registry *Registry
}

func (s *URLSigner) Sign(ctx *Context) (*Augmentation, error) {
	alg, err := prepare(ctx, s.Registry)
	if err != nil {
		return nil, err
	}
	q, err := alg.SignURL(ctx)
	if err != nil {
		return nil, err
	}
	return &Augmentation{Query: q}, nil
}

func prepare(ctx *Context, reg *Registry) (Algorithm, error) {
	if ctx.Credentials == nil {
		return nil, errs.New(errs.ErrMissingCredentials, "--access-key and --secret-key are required to sign")
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	return reg.Lookup(ctx.Scheme)
}

// AppendQuery returns a copy of u with params appended after the existing
// query, encoded the same way signers canonicalize them.
func AppendQuery(u *url.URL, params []QueryParam) *url.URL {
	out := *u
	if len(params) == 0 {
		return &out
	}

	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, p := range params {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(uriEncode(p.Name, true))
		sb.WriteByte('=')
		sb.WriteString(uriEncode(p.Value, true))
	}
	out.RawQuery = sb.String()
	return &out
}
