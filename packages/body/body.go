package body

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
)

// Body is a resolved request body. It is immutable; WithLeadingFields
// returns a new Body.
type Body struct {
	data        []byte
	contentType string
	form        *form
}

// Resolve decides what the request body is.
//
// src and fields are mutually exclusive. The returned body's inferred
// content type is set only for form encodings and is lower precedence than
// the hint or an explicit header.
func Resolve(src options.Source, fields []options.FormField, hint options.ContentTypeHint, files FileReader) (*Body, error) {
	if src.IsSet() && len(fields) > 0 {
		return nil, errs.New(errs.ErrConflictingBodySource, "a body and form fields cannot be used together")
	}

	switch {
	case src.Kind == options.SourceLiteral:
		return &Body{data: cloneBytes(src.Data)}, nil
	case src.Kind == options.SourceFile:
		data, err := ReadFile(files, src.Path)
		if err != nil {
			return nil, err
		}
		return &Body{data: data}, nil
	case len(fields) > 0:
		f, err := loadForm(fields, encodingFor(hint), files)
		if err != nil {
			return nil, err
		}
		return f.body()
	}

	return &Body{}, nil
}

// Bytes returns a copy of the encoded body.
func (b *Body) Bytes() []byte { return cloneBytes(b.data) }

func (b *Body) Len() int { return len(b.data) }

func (b *Body) IsEmpty() bool { return len(b.data) == 0 }

// InferredContentType is the Content-Type implied by form encoding, or "".
func (b *Body) InferredContentType() string { return b.contentType }

// IsForm reports whether the body was built from -F fields.
func (b *Body) IsForm() bool { return b.form != nil }

// SHA256 returns the hex-encoded SHA-256 of the encoded body.
func (b *Body) SHA256() string {
	sum := sha256.Sum256(b.data)
	return hex.EncodeToString(sum[:])
}

// Field is a plain form field added after resolution, e.g. by policy signing.
type Field struct {
	Name  string
	Value string
}

// WithLeadingFields re-encodes a form body with fields placed before the
// user's fields. Files are not read again. It is an error on non-form bodies.
func (b *Body) WithLeadingFields(fields ...Field) (*Body, error) {
	if b.form == nil {
		return nil, errs.New(errs.ErrPolicyFormBody, "form fields can only be added to a -F form body")
	}
	if len(fields) == 0 {
		return b, nil
	}

	parts := make([]part, 0, len(fields)+len(b.form.parts))
	for _, f := range fields {
		parts = append(parts, part{name: f.Name, value: []byte(f.Value)})
	}
	parts = append(parts, b.form.parts...)

	f := &form{encoding: b.form.encoding, parts: parts}
	return f.body()
}

// FromFields builds a form body from plain fields only.
func FromFields(hint options.ContentTypeHint, fields ...Field) (*Body, error) {
	parts := make([]part, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, part{name: f.Name, value: []byte(f.Value)})
	}
	f := &form{encoding: encodingFor(hint), parts: parts}
	return f.body()
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
