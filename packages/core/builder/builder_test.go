package builder

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPolicy = `{"expiration":"2030-01-01T00:00:00Z","conditions":[{"bucket":"uploads"}]}`

var signTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func mustOptions(t *testing.T, f options.Flags) *options.Options {
	t.Helper()
	o, err := options.New(f)
	require.NoError(t, err)
	return o
}

func withCreds(f options.Flags) options.Flags {
	f.AccessKey = "AKIDEXAMPLE"
	f.SecretKey = "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY"
	f.Region = "us-east-1"
	return f
}

func newBuilder(files *body.MemFiles) *Builder {
	if files == nil {
		files = body.NewMemFiles(nil)
	}
	return New(WithFiles(files), WithClock(fixedClock(signTime)))
}

func TestBuild_RoundTripsMethodAndURL(t *testing.T) {
	tests := []struct {
		method string
		url    string
	}{
		{"GET", "https://example.com"},
		{"DELETE", "http://localhost:8080/items/1?force=true"},
		{"PROPFIND", "https://example.com/dav/"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req, err := newBuilder(nil).Build(mustOptions(t, options.Flags{URL: tt.url, Method: tt.method}))
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method())
			assert.Equal(t, tt.url, req.URL().String())
		})
	}
}

func TestBuild_PostJSON(t *testing.T) {
	o := mustOptions(t, options.Flags{
		URL:     "https://example.com/x",
		Method:  "POST",
		JSON:    true,
		Data:    `{"a":1}`,
		HasData: true,
	})

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method())
	assert.Equal(t, []string{"application/json"}, req.Headers().Values("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(req.Body()))
}

func TestBuild_ExplicitContentTypeWins(t *testing.T) {
	o := mustOptions(t, options.Flags{
		URL:     "https://example.com",
		JSON:    true,
		Headers: []string{"Content-Type: text/plain"},
	})

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)
	assert.Equal(t, []string{"text/plain"}, req.Headers().Values("content-type"))
}

func TestBuild_UserAgentAndContentMD5(t *testing.T) {
	o := mustOptions(t, options.Flags{
		URL:        "https://example.com",
		UserAgent:  "hitcurl/1.0",
		ContentMD5: "XrY7u+Ae7tCTyyK7j1rNww==",
	})

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)
	hs := req.Headers()
	assert.Equal(t, "hitcurl/1.0", hs.Get("User-Agent"))
	assert.Equal(t, "XrY7u+Ae7tCTyyK7j1rNww==", hs.Get("Content-MD5"))
}

func TestBuild_UnsignedIgnoresRegion(t *testing.T) {
	base := options.Flags{URL: "https://example.com/a", Headers: []string{"X-A: 1"}, Data: "x", HasData: true}
	withRegion := base
	withRegion.Region = "eu-west-1"

	a, err := newBuilder(nil).Build(mustOptions(t, base))
	require.NoError(t, err)
	b, err := newBuilder(nil).Build(mustOptions(t, withRegion))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestBuild_HeaderSigning(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:     "https://bucket.s3.amazonaws.com/key",
		Method:  "PUT",
		Headers: []string{"Authorization: Bearer user", "X-Amz-Meta-A: 1"},
		Data:    "hello",
		HasData: true,
	}))

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)

	hs := req.Headers()
	auths := hs.Values("Authorization")
	require.Len(t, auths, 1)
	assert.True(t, strings.HasPrefix(auths[0], "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20240301/us-east-1/s3/aws4_request"))
	assert.Contains(t, auths[0], "x-amz-meta-a")
	assert.Equal(t, "20240301T120000Z", hs.Get("X-Amz-Date"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hs.Get("X-Amz-Content-Sha256"))
	assert.Equal(t, "https://bucket.s3.amazonaws.com/key", req.URL().String())
}

func TestBuild_URLSigningTakesPrecedence(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:          "https://bucket.s3.amazonaws.com/key?versionId=3",
		AuthURL:      true,
		AuthUpPolicy: testPolicy,
	}))
	require.Equal(t, options.ModeURL, o.SigningMode())

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)

	q := req.URL().Query()
	assert.Equal(t, "3", q.Get("versionId"))
	assert.Equal(t, "AWS4-HMAC-SHA256", q.Get("X-Amz-Algorithm"))
	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.False(t, req.Headers().Has("Authorization"))
	assert.Equal(t, 0, req.Headers().Len())
}

func TestBuild_URLSigningSkipsPolicyFile(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"readable policy file", map[string]string{"policy.json": testPolicy}},
		{"missing policy file", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := body.NewMemFiles(tt.files)
			o := mustOptions(t, withCreds(options.Flags{
				URL:          "https://bucket.s3.amazonaws.com/key",
				AuthURL:      true,
				AuthUpPolicy: "@policy.json",
			}))

			req, err := newBuilder(files).Build(o)
			require.NoError(t, err)
			assert.NotEmpty(t, req.URL().Query().Get("X-Amz-Signature"))
			assert.Equal(t, 0, files.Opens("policy.json"))
		})
	}
}

func TestBuild_MissingRegion(t *testing.T) {
	f := withCreds(options.Flags{URL: "https://example.com"})
	f.Region = ""

	_, err := newBuilder(nil).Build(mustOptions(t, f))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMissingRegion))
}

func TestBuild_S3V2NeedsNoRegion(t *testing.T) {
	f := withCreds(options.Flags{URL: "https://example.com/obj", Auth: "s3v2"})
	f.Region = ""

	req, err := newBuilder(nil).Build(mustOptions(t, f))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.Headers().Get("Authorization"), "AWS AKIDEXAMPLE:"))
	assert.Equal(t, "Fri, 01 Mar 2024 12:00:00 GMT", req.Headers().Get("Date"))
}

func TestBuild_Idempotent(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:  "https://example.com/upload",
		Form: []string{"a=1", "file=@data.txt"},
	}))
	files := body.NewMemFiles(map[string]string{"data.txt": "contents"})

	first, err := newBuilder(files).Build(o)
	require.NoError(t, err)
	second, err := newBuilder(files).Build(o)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))

	later, err := New(WithFiles(files), WithClock(fixedClock(signTime.Add(time.Second)))).Build(o)
	require.NoError(t, err)
	assert.Equal(t, first.Method(), later.Method())
	assert.Equal(t, first.URL().String(), later.URL().String())
	assert.Equal(t, first.Body(), later.Body())
	assert.NotEqual(t, first.Headers().Get("X-Amz-Date"), later.Headers().Get("X-Amz-Date"))
	assert.Equal(t, first.Headers().Get("Content-Type"), later.Headers().Get("Content-Type"))
}

func TestBuild_PolicyFormPrependsFields(t *testing.T) {
	files := body.NewMemFiles(map[string]string{"photo.jpg": "JPEGDATA"})
	o := mustOptions(t, withCreds(options.Flags{
		URL:          "https://uploads.example.com/",
		Method:       "POST",
		Form:         []string{"key=photos/1.jpg", "file=@photo.jpg"},
		AuthUpPolicy: testPolicy,
		AuthUpForm:   true,
	}))

	req, err := newBuilder(files).Build(o)
	require.NoError(t, err)
	assert.Equal(t, 1, files.Opens("photo.jpg"))
	assert.False(t, req.Headers().Has("Authorization"))

	mediaType, params, err := mime.ParseMediaType(req.Headers().Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(req.Body()), params["boundary"])
	var names []string
	values := map[string]string{}
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, _ := io.ReadAll(p)
		names = append(names, p.FormName())
		values[p.FormName()] = string(data)
	}

	assert.Equal(t, []string{
		"x-amz-algorithm", "x-amz-credential", "x-amz-date", "policy", "x-amz-signature",
		"key", "file",
	}, names)
	assert.Equal(t, "JPEGDATA", values["file"])
	assert.Equal(t, "photos/1.jpg", values["key"])
}

func TestBuild_PolicyFormWithoutBody(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:            "https://uploads.example.com/",
		AuthUpPolicy:   "@policy.json",
		AuthUpForm:     true,
		FormURLEncoded: true,
	}))
	files := body.NewMemFiles(map[string]string{"policy.json": testPolicy})

	req, err := newBuilder(files).Build(o)
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", req.Headers().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(req.Body()), "x-amz-algorithm=AWS4-HMAC-SHA256&"))
	assert.Contains(t, string(req.Body()), "&policy=")
}

func TestBuild_PolicyFormRejectsLiteralBody(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:          "https://uploads.example.com/",
		Data:         "raw",
		HasData:      true,
		AuthUpPolicy: testPolicy,
		AuthUpForm:   true,
	}))

	_, err := newBuilder(nil).Build(o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPolicyFormBody))
}

func TestBuild_PolicyHeaders(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{
		URL:          "https://uploads.example.com/",
		AuthUpPolicy: testPolicy,
	}))

	req, err := newBuilder(nil).Build(o)
	require.NoError(t, err)

	hs := req.Headers()
	assert.True(t, hs.Has("X-Upload-Policy"))
	assert.True(t, hs.Has("X-Upload-Signature"))
	assert.False(t, hs.Has("Authorization"))
	assert.True(t, req.Body() == nil || len(req.Body()) == 0)
}

func TestBuild_PolicyWithoutCredentials(t *testing.T) {
	o := mustOptions(t, options.Flags{URL: "https://uploads.example.com/", AuthUpPolicy: testPolicy})

	_, err := newBuilder(nil).Build(o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMissingCredentials))
}

func TestBuild_InvalidPolicy(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{URL: "https://example.com", AuthUpPolicy: `{"conditions":[]}`}))

	_, err := newBuilder(nil).Build(o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidPolicy))
}

func TestBuild_UnreadablePolicyFile(t *testing.T) {
	o := mustOptions(t, withCreds(options.Flags{URL: "https://example.com", AuthUpPolicy: "@missing.json"}))

	_, err := newBuilder(nil).Build(o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBodySourceUnreadable))
}

func TestBuild_UnreadableBody(t *testing.T) {
	o := mustOptions(t, options.Flags{URL: "https://example.com", Data: "@nope.bin", HasData: true})

	_, err := newBuilder(nil).Build(o)
	require.Error(t, err)
	assert.Equal(t, errs.CategoryResource, errs.CategoryOf(err))
}
