package runner

import (
	"context"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/builder"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/http"
	"github.com/rs/zerolog"
)

type Runner struct {
	client  *http.Client
	builder *builder.Builder
	config  *Config
	logger  zerolog.Logger
}

// Config holds transport settings. Zero values fall back to the client's
// defaults.
type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
	MaxRedirects   int
	Insecure       bool
	Proxy          string
	Files          body.FileReader
	Clock          builder.Clock
	Logger         *zerolog.Logger
}

// Result is one request/response exchange.
type Result struct {
	Request  *http.Request
	Response *http.Response
	Duration time.Duration
}

func NewRunner(cfg *Config) (*Runner, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	clientOpts := []http.ClientOption{http.WithLogger(logger)}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	clientOpts = append(clientOpts, http.WithFollowRedirects(cfg.FollowRedirect))
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	clientOpts = append(clientOpts, http.WithValidateSSL(!cfg.Insecure))
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}

	client, err := http.NewClient(clientOpts...)
	if err != nil {
		return nil, err
	}

	builderOpts := []builder.Option{builder.WithLogger(logger)}
	if cfg.Files != nil {
		builderOpts = append(builderOpts, builder.WithFiles(cfg.Files))
	}
	if cfg.Clock != nil {
		builderOpts = append(builderOpts, builder.WithClock(cfg.Clock))
	}

	return &Runner{
		client:  client,
		builder: builder.New(builderOpts...),
		config:  cfg,
		logger:  logger,
	}, nil
}

// Build returns the request opts describes without sending it.
func (r *Runner) Build(opts *options.Options) (*http.Request, error) {
	return r.builder.Build(opts)
}

// Run builds and sends the request. On a transport failure the built
// request is still returned in the result.
func (r *Runner) Run(ctx context.Context, opts *options.Options) (*Result, error) {
	start := time.Now()

	req, err := r.builder.Build(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Request: req}
	resp, err := r.client.Execute(ctx, req)
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}
	result.Response = resp

	r.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("total", result.Duration).
		Msg("exchange complete")

	return result, nil
}
