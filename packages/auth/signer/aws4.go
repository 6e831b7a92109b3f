package signer

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
)

const (
	SchemeAWS4 = "AWS4-HMAC-SHA256"

	amzDateFormat   = "20060102T150405Z"
	amzDayFormat    = "20060102"
	amzRequestScope = "aws4_request"

	HeaderAmzDate          = "X-Amz-Date"
	HeaderAmzContentSHA256 = "X-Amz-Content-Sha256"
	HeaderAuthorization    = "Authorization"
)

// AWS4 is AWS Signature Version 4. It needs a region.
type AWS4 struct{}

func (AWS4) Name() string { return SchemeAWS4 }

// SignHeaders returns Authorization, X-Amz-Date and X-Amz-Content-Sha256.
func (a AWS4) SignHeaders(ctx *Context) (headers.Set, error) {
	if ctx.Region == "" {
		return headers.Set{}, errs.New(errs.ErrMissingRegion, "--region is required by %s", SchemeAWS4)
	}

	amzDate := ctx.Time.UTC().Format(amzDateFormat)
	payloadHash := ctx.PayloadHash
	if payloadHash == "" {
		payloadHash = sha256Hex(nil)
	}

	// The added headers take part in the signature, so sign over the
	// headers as they will be sent.
	signed := ctx.Headers.Clone()
	signed.Set(HeaderAmzDate, amzDate)
	signed.Set(HeaderAmzContentSHA256, payloadHash)

	names, canonicalHeaders := canonicalHeadersAWS4(ctx.URL.Host, signed)
	signedHeaders := strings.Join(names, ";")

	canonicalRequest := strings.Join([]string{
		ctx.Method,
		canonicalURI(ctx.URL),
		canonicalQuery(ctx.URL.Query()),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := a.scope(ctx)
	signature := a.signature(ctx, amzDate, scope, canonicalRequest)

	out := headers.Set{}
	out.Set(HeaderAuthorization, fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		SchemeAWS4, ctx.Credentials.AccessKey, scope, signedHeaders, signature))
	out.Set(HeaderAmzDate, amzDate)
	out.Set(HeaderAmzContentSHA256, payloadHash)
	return out, nil
}

// SignURL returns the X-Amz-* query parameters of a pre-signed URL.
func (a AWS4) SignURL(ctx *Context) ([]QueryParam, error) {
	if ctx.Region == "" {
		return nil, errs.New(errs.ErrMissingRegion, "--region is required by %s", SchemeAWS4)
	}

	amzDate := ctx.Time.UTC().Format(amzDateFormat)
	scope := a.scope(ctx)

	params := []QueryParam{
		{Name: "X-Amz-Algorithm", Value: SchemeAWS4},
		{Name: "X-Amz-Credential", Value: ctx.Credentials.AccessKey + "/" + scope},
		{Name: "X-Amz-Date", Value: amzDate},
		{Name: "X-Amz-Expires", Value: strconv.FormatInt(int64(ctx.Expires.Seconds()), 10)},
		{Name: "X-Amz-SignedHeaders", Value: "host"},
	}

	query := ctx.URL.Query()
	for _, p := range params {
		query.Set(p.Name, p.Value)
	}

	canonicalRequest := strings.Join([]string{
		ctx.Method,
		canonicalURI(ctx.URL),
		canonicalQuery(query),
		"host:" + ctx.URL.Host + "\n",
		"host",
		UnsignedPayload,
	}, "\n")

	signature := a.signature(ctx, amzDate, scope, canonicalRequest)
	return append(params, QueryParam{Name: "X-Amz-Signature", Value: signature}), nil
}

// SignPolicy returns the POST policy fields for a browser-style upload.
func (a AWS4) SignPolicy(ctx *Context, encodedPolicy string) ([]body.Field, error) {
	if ctx.Region == "" {
		return nil, errs.New(errs.ErrMissingRegion, "--region is required by %s", SchemeAWS4)
	}

	amzDate := ctx.Time.UTC().Format(amzDateFormat)
	scope := a.scope(ctx)
	key := signingKey(ctx.Credentials.SecretKey, ctx.Time.UTC().Format(amzDayFormat), ctx.Region, ctx.Service)
	signature := hex.EncodeToString(hmacSHA256(key, encodedPolicy))

	return []body.Field{
		{Name: "x-amz-algorithm", Value: SchemeAWS4},
		{Name: "x-amz-credential", Value: ctx.Credentials.AccessKey + "/" + scope},
		{Name: "x-amz-date", Value: amzDate},
		{Name: "policy", Value: encodedPolicy},
		{Name: "x-amz-signature", Value: signature},
	}, nil
}

func (AWS4) scope(ctx *Context) string {
	return fmt.Sprintf("%s/%s/%s/%s", ctx.Time.UTC().Format(amzDayFormat), ctx.Region, ctx.Service, amzRequestScope)
}

func (AWS4) signature(ctx *Context, amzDate, scope, canonicalRequest string) string {
	stringToSign := strings.Join([]string{
		SchemeAWS4,
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	key := signingKey(ctx.Credentials.SecretKey, ctx.Time.UTC().Format(amzDayFormat), ctx.Region, ctx.Service)
	return hex.EncodeToString(hmacSHA256(key, stringToSign))
}

func signingKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, amzRequestScope)
}

// canonicalHeadersAWS4 signs host, content-type, content-md5 and every
// x-amz-* header. It returns the sorted lower-case names and the canonical
// header block.
func canonicalHeadersAWS4(host string, hs headers.Set) ([]string, string) {
	values := map[string][]string{"host": {host}}
	for _, h := range hs.All() {
		name := strings.ToLower(h.Name)
		if name == "host" {
			continue
		}
		if name == "content-type" || name == "content-md5" || strings.HasPrefix(name, "x-amz-") {
			values[name] = append(values[name], strings.Join(strings.Fields(h.Value), " "))
		}
	}

	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte(':')
		sb.WriteString(strings.Join(values[n], ","))
		sb.WriteByte('\n')
	}
	return names, sb.String()
}
