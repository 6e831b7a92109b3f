package http

import (
	"net/url"

	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
)

// Request is the fully built, signed request. It is never modified in
// place; the With* methods return copies.
type Request struct {
	method  string
	url     *url.URL
	headers headers.Set
	body    []byte
}

func NewRequest(method string, u *url.URL, hs headers.Set, body []byte) *Request {
	r := &Request{method: method, headers: hs.Clone(), body: cloneBytes(body)}
	if u != nil {
		cp := *u
		r.url = &cp
	}
	return r
}

func (r *Request) Method() string { return r.method }

// URL returns a copy of the target URL.
func (r *Request) URL() *url.URL {
	if r.url == nil {
		return nil
	}
	cp := *r.url
	return &cp
}

func (r *Request) Headers() headers.Set { return r.headers.Clone() }

func (r *Request) Body() []byte { return cloneBytes(r.body) }

func (r *Request) BodyLen() int { return len(r.body) }

func (r *Request) WithURL(u *url.URL) *Request {
	return NewRequest(r.method, u, r.headers, r.body)
}

func (r *Request) WithHeaders(hs headers.Set) *Request {
	return NewRequest(r.method, r.url, hs, r.body)
}

func (r *Request) WithBody(body []byte) *Request {
	return NewRequest(r.method, r.url, r.headers, body)
}

// Equal reports whether both requests would put the same bytes on the wire.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.method == other.method &&
		r.URL().String() == other.URL().String() &&
		r.headers.Equal(other.headers) &&
		string(r.body) == string(other.body)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
