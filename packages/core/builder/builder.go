package builder

import (
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/auth/signer"
	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
	"github.com/abdul-hamid-achik/hitcurl/packages/http"
	"github.com/rs/zerolog"
)

// Clock returns the signing time.
type Clock func() time.Time

type Builder struct {
	files    body.FileReader
	clock    Clock
	registry *signer.Registry
	logger   zerolog.Logger
}

type Option func(*Builder)

func New(opts ...Option) *Builder {
	b := &Builder{
		files:    body.OSFiles{},
		clock:    time.Now,
		registry: signer.DefaultRegistry(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithFiles sets where @path bodies, form files and policy files are read from.
func WithFiles(files body.FileReader) Option {
	return func(b *Builder) {
		b.files = files
	}
}

func WithClock(clock Clock) Option {
	return func(b *Builder) {
		b.clock = clock
	}
}

func WithRegistry(reg *signer.Registry) Option {
	return func(b *Builder) {
		b.registry = reg
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// Build produces the request descriptor for opts.
func (b *Builder) Build(opts *options.Options) (*http.Request, error) {
	bd, err := body.Resolve(opts.Body(), opts.FormFields(), opts.ContentTypeHint(), b.files)
	if err != nil {
		return nil, err
	}

	hs := headers.Assemble(headers.Implicit{
		UserAgent:           opts.UserAgent(),
		ContentTypeHint:     opts.ContentTypeHint().MediaType(),
		InferredContentType: bd.InferredContentType(),
		ContentMD5:          opts.ContentMD5(),
	}, opts.Headers())

	mode := opts.SigningMode()
	b.logger.Debug().
		Str("mode", mode.String()).
		Int("body_bytes", bd.Len()).
		Int("headers", hs.Len()).
		Msg("assembled request")

	var policy []byte
	if mode == options.ModePolicy {
		policy, err = b.readPolicy(opts.UploadPolicy())
		if err != nil {
			return nil, err
		}
	}

	req := http.NewRequest(opts.Method(), opts.URL(), hs, bd.Bytes())
	ctx := &signer.Context{
		Credentials:  opts.Credentials(),
		Scheme:       opts.AuthScheme(),
		Region:       opts.Region(),
		Service:      opts.Service(),
		Expires:      opts.Expires(),
		Method:       req.Method(),
		URL:          req.URL(),
		Headers:      req.Headers(),
		PayloadHash:  bd.SHA256(),
		Policy:       policy,
		PolicyAsForm: opts.UploadForm(),
		Time:         b.clock(),
	}

	aug, err := signer.Select(mode, b.registry).Sign(ctx)
	if err != nil {
		return nil, err
	}
	if aug.IsEmpty() {
		return req, nil
	}

	if len(aug.Query) > 0 {
		req = req.WithURL(signer.AppendQuery(req.URL(), aug.Query))
	}
	if aug.Headers.Len() > 0 {
		signed := req.Headers()
		for _, h := range aug.Headers.All() {
			signed.Set(h.Name, h.Value)
		}
		req = req.WithHeaders(signed)
	}
	if len(aug.Form) > 0 {
		bd, err = b.applyForm(bd, opts, aug.Form)
		if err != nil {
			return nil, err
		}
		// The form encoding may have changed the content type of an
		// empty body; the hint and explicit headers still take precedence.
		if !opts.Headers().Has(headers.ContentType) && opts.ContentTypeHint() == options.HintNone {
			formHeaders := req.Headers()
			formHeaders.Set(headers.ContentType, bd.InferredContentType())
			req = req.WithHeaders(formHeaders)
		}
		req = req.WithBody(bd.Bytes())
	}

	b.logger.Debug().
		Int("signed_headers", aug.Headers.Len()).
		Int("signed_query", len(aug.Query)).
		Int("signed_fields", len(aug.Form)).
		Msg("applied signature")

	return req, nil
}

func (b *Builder) readPolicy(src options.Source) ([]byte, error) {
	switch src.Kind {
	case options.SourceLiteral:
		return src.Data, nil
	case options.SourceFile:
		return body.ReadFile(b.files, src.Path)
	}
	return nil, nil
}

// applyForm places signed policy fields before the user's form fields.
func (b *Builder) applyForm(bd *body.Body, opts *options.Options, fields []body.Field) (*body.Body, error) {
	if bd.IsForm() {
		return bd.WithLeadingFields(fields...)
	}
	if !bd.IsEmpty() || opts.Body().IsSet() {
		return nil, errs.New(errs.ErrPolicyFormBody, "--auth-up-form cannot be combined with --data; use -F for upload fields")
	}
	return body.FromFields(opts.ContentTypeHint(), fields...)
}
