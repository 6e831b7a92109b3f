package signer

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/abdul-hamid-achik/hitcurl/packages/headers"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// UploadHeaderPrefix prefixes policy fields emitted as headers.
const UploadHeaderPrefix = "X-Upload-"

const policySchema = `{
  "type": "object",
  "required": ["expiration", "conditions"],
  "properties": {
    "expiration": {"type": "string", "minLength": 1},
    "conditions": {"type": "array"}
  }
}`

var policySchemaLoader = gojsonschema.NewStringLoader(policySchema)

// PolicySigner signs a browser-style upload policy document.
type PolicySigner struct {
	Registry *Registry
}

func (s *PolicySigner) Sign(ctx *Context) (*Augmentation, error) {
	alg, err := prepare(ctx, s.Registry)
	if err != nil {
		return nil, err
	}
	if err := ValidatePolicy(ctx.Policy); err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(ctx.Policy)
	fields, err := alg.SignPolicy(ctx, encoded)
	if err != nil {
		return nil, err
	}

	if ctx.PolicyAsForm {
		return &Augmentation{Form: fields}, nil
	}

	hs := headers.Set{}
	for _, f := range fields {
		name := f.Name
		if len(name) > len("x-amz-") && strings.EqualFold(name[:len("x-amz-")], "x-amz-") {
			name = name[len("x-amz-"):]
		}
		hs.Set(UploadHeaderPrefix+http.CanonicalHeaderKey(name), f.Value)
	}
	return &Augmentation{Headers: hs}, nil
}

// ValidatePolicy checks doc is a JSON object with a string expiration and
// a conditions array.
func ValidatePolicy(doc []byte) error {
	if len(doc) == 0 {
		return errs.New(errs.ErrInvalidPolicy, "policy document is empty")
	}
	if !gjson.ValidBytes(doc) {
		return errs.New(errs.ErrInvalidPolicy, "policy document is not valid JSON")
	}

	result, err := gojsonschema.Validate(policySchemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errs.Wrap(errs.ErrInvalidPolicy, err, "validating policy document")
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errs.New(errs.ErrInvalidPolicy, "%s", strings.Join(msgs, "; "))
	}
	return nil
}
