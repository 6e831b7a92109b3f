package signer

import (
	"encoding/base64"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/body"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
)

const SchemeS3V2 = "AWS"

// subresources that take part in the S3 v2 canonical resource.
var s3Subresources = map[string]bool{
	"acl": true, "cors": true, "delete": true, "lifecycle": true, "location": true,
	"logging": true, "notification": true, "partNumber": true, "policy": true,
	"requestPayment": true, "tagging": true, "torrent": true, "uploadId": true,
	"uploads": true, "versionId": true, "versioning": true, "versions": true,
	"website": true,
	"response-cache-control": true, "response-content-disposition": true,
	"response-content-encoding": true, "response-content-language": true,
	"response-content-type": true, "response-expires": true,
}

// S3V2 is the legacy HMAC-SHA1 S3 signature. Region is not used.
type S3V2 struct{}

func (S3V2) Name() string { return SchemeS3V2 }

// SignHeaders returns Date and Authorization headers.
func (s S3V2) SignHeaders(ctx *Context) (headers.Set, error) {
	date := ctx.Time.UTC().Format(http.TimeFormat)

	signed := ctx.Headers.Clone()
	signed.Set("Date", date)

	stringToSign := strings.Join([]string{
		ctx.Method,
		signed.Get(headers.ContentMD5),
		signed.Get(headers.ContentType),
		date,
		canonicalAmzHeaders(signed) + canonicalResource(ctx),
	}, "\n")

	signature := base64.StdEncoding.EncodeToString(hmacSHA1([]byte(ctx.Credentials.SecretKey), stringToSign))

	out := headers.Set{}
	out.Set("Date", date)
	out.Set(HeaderAuthorization, SchemeS3V2+" "+ctx.Credentials.AccessKey+":"+signature)
	return out, nil
}

// SignURL returns AWSAccessKeyId, Expires and Signature query parameters.
func (s S3V2) SignURL(ctx *Context) ([]QueryParam, error) {
	expires := strconv.FormatInt(ctx.Time.Add(ctx.Expires).Unix(), 10)

	stringToSign := strings.Join([]string{
		ctx.Method,
		ctx.Headers.Get(headers.ContentMD5),
		ctx.Headers.Get(headers.ContentType),
		expires,
		canonicalAmzHeaders(ctx.Headers) + canonicalResource(ctx),
	}, "\n")

	signature := base64.StdEncoding.EncodeToString(hmacSHA1([]byte(ctx.Credentials.SecretKey), stringToSign))

	return []QueryParam{
		{Name: "AWSAccessKeyId", Value: ctx.Credentials.AccessKey},
		{Name: "Expires", Value: expires},
		{Name: "Signature", Value: signature},
	}, nil
}

// SignPolicy signs the encoded policy directly.
func (s S3V2) SignPolicy(ctx *Context, encodedPolicy string) ([]body.Field, error) {
	signature := base64.StdEncoding.EncodeToString(hmacSHA1([]byte(ctx.Credentials.SecretKey), encodedPolicy))
	return []body.Field{
		{Name: "AWSAccessKeyId", Value: ctx.Credentials.AccessKey},
		{Name: "policy", Value: encodedPolicy},
		{Name: "signature", Value: signature},
	}, nil
}

func canonicalAmzHeaders(hs headers.Set) string {
	values := map[string][]string{}
	for _, h := range hs.All() {
		name := strings.ToLower(h.Name)
		if strings.HasPrefix(name, "x-amz-") {
			values[name] = append(values[name], strings.TrimSpace(h.Value))
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
	return sb.String()
}

// canonicalResource is /bucket/key for both virtual-hosted and path-style
// URLs, followed by any sub-resources.
func canonicalResource(ctx *Context) string {
	resource := canonicalURI(ctx.URL)
	if bucket := virtualHostedBucket(ctx.URL.Hostname()); bucket != "" {
		resource = "/" + bucket + resource
	}

	query := ctx.URL.Query()
	var keys []string
	for k := range query {
		if s3Subresources[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return resource
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := query.Get(k); v != "" {
			parts = append(parts, k+"="+v)
		} else {
			parts = append(parts, k)
		}
	}
	return resource + "?" + strings.Join(parts, "&")
}

// virtualHostedBucket returns the bucket of a <bucket>.s3[.-]...amazonaws.com
// host, or "" for path-style and non-AWS hosts.
func virtualHostedBucket(host string) string {
	host = strings.ToLower(host)
	if !strings.HasSuffix(host, ".amazonaws.com") && !strings.HasSuffix(host, ".amazonaws.com.cn") {
		return ""
	}
	for _, marker := range []string{".s3.", ".s3-"} {
		if i := strings.LastIndex(host, marker); i > 0 {
			return host[:i]
		}
	}
	return ""
}
