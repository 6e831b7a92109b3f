package signer

import (
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
)

// DefaultScheme is used when no --auth scheme is given.
const DefaultScheme = SchemeAWS4

// Algorithm is a concrete signature scheme.
type Algorithm interface {
	// Name is the canonical scheme name, used as the Authorization prefix.
	Name() string
	SignHeaders(ctx *Context) (headers.Set, error)
	SignURL(ctx *Context) ([]QueryParam, error)
	// SignPolicy signs the base64-encoded policy document and returns the
	// fields to submit alongside it, policy included.
	SignPolicy(ctx *Context, encodedPolicy string) ([]body.Field, error)
}

// Registry maps case-insensitive scheme names and aliases to algorithms.
type Registry struct {
	algorithms map[string]Algorithm
}

func NewRegistry() *Registry {
	return &Registry{algorithms: make(map[string]Algorithm)}
}

// DefaultRegistry returns a registry with the built-in schemes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(AWS4{}, "aws4", "sigv4")
	r.Register(S3V2{}, "s3v2", "hmac-sha1")
	return r
}

// Register adds alg under its name and any aliases.
func (r *Registry) Register(alg Algorithm, aliases ...string) {
	r.algorithms[strings.ToLower(alg.Name())] = alg
	for _, a := range aliases {
		r.algorithms[strings.ToLower(a)] = alg
	}
}

// Lookup finds the algorithm for name. An empty name selects DefaultScheme.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	if name == "" {
		name = DefaultScheme
	}
	alg, ok := r.algorithms[strings.ToLower(name)]
	if !ok {
		return nil, errs.New(errs.ErrUnsupportedScheme, "%q (supported: %s)", name, strings.Join(r.Names(), ", "))
	}
	return alg, nil
}

// Names returns every registered name and alias, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.algorithms))
	for n := range r.algorithms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
