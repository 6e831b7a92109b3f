package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
)

type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	logger         zerolog.Logger
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		timeout:      DefaultTimeout,
		maxRedirects: DefaultMaxRedirects,
		validateSSL:  true,
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Configure TLS verification
	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // -k/--insecure
		}
	}

	// Configure proxy if specified
	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err != nil || proxyURL.Host == "" {
			return nil, errs.New(errs.ErrInvalidOption, "--proxy %q is not a valid URL", c.proxyURL)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c, nil
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithFollowRedirects enables following 3xx responses. Off by default.
func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Execute sends req exactly as built. Any failure to get a response is a
// TransportError; non-2xx statuses are not errors.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	u := req.URL()
	if u == nil {
		return nil, errs.New(errs.ErrRequestFailed, "request has no URL")
	}

	var body io.Reader
	if req.BodyLen() > 0 {
		body = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), u.String(), body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRequestFailed, err, "%s %s", req.Method(), u.Redacted())
	}

	hs := req.Headers()
	httpReq.Header = hs.ToHTTP()
	if host := hs.Get("Host"); host != "" {
		httpReq.Host = host
	}
	// net/http would otherwise add its own.
	if !hs.Has("User-Agent") {
		httpReq.Header["User-Agent"] = []string{""}
	}

	c.logger.Debug().
		Str("method", req.Method()).
		Str("url", u.Redacted()).
		Int("headers", hs.Len()).
		Int("body_bytes", req.BodyLen()).
		Msg("sending request")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, errs.Wrap(errs.ErrRequestFailed, err, "%s %s", req.Method(), hostOf(u))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRequestFailed, err, "reading response body")
	}

	c.logger.Debug().
		Int("status", httpResp.StatusCode).
		Dur("duration", duration).
		Int("body_bytes", len(respBody)).
		Msg("received response")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Proto:      httpResp.Proto,
		Headers:    httpResp.Header,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

func hostOf(u *neturl.URL) string {
	return strings.TrimSuffix(u.Scheme+"://"+u.Host, "://")
}
