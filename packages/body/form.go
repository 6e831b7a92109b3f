package body

import (
	"bytes"
	"crypto/sha256"
	"mime/multipart"
	"net/url"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitcurl/packages/core/options"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	ContentTypeURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeJSON       = "application/json"

	boundaryPrefix = "hitcurl-"
)

// boundaryNamespace seeds name-based boundaries so that identical forms
// encode to identical bytes.
var boundaryNamespace = uuid.MustParse("6f1d0c57-3c0e-4b8e-9a51-6b2f3d1e9c20")

type encoding int

const (
	encodingMultipart encoding = iota
	encodingURL
	encodingJSON
)

func encodingFor(hint options.ContentTypeHint) encoding {
	switch hint {
	case options.HintFormURLEncoded:
		return encodingURL
	case options.HintJSON:
		return encodingJSON
	}
	return encodingMultipart
}

// part is one loaded form field. File contents are held in memory so the
// form can be re-encoded without touching the filesystem again.
type part struct {
	name     string
	value    []byte
	file     bool
	filename string
}

type form struct {
	encoding encoding
	parts    []part
}

func loadForm(fields []options.FormField, enc encoding, files FileReader) (*form, error) {
	f := &form{encoding: enc, parts: make([]part, 0, len(fields))}
	for _, field := range fields {
		p := part{name: field.Name}
		switch field.Kind {
		case options.FormValue:
			p.value = []byte(field.Value)
		case options.FormFile, options.FormFileContent:
			data, err := ReadFile(files, field.Path)
			if err != nil {
				return nil, err
			}
			p.value = data
			if field.Kind == options.FormFile {
				p.file = true
				p.filename = uploadName(field.Path)
			}
		}
		f.parts = append(f.parts, p)
	}
	return f, nil
}

func (f *form) body() (*Body, error) {
	var (
		data        []byte
		contentType string
		err         error
	)

	switch f.encoding {
	case encodingURL:
		data, contentType = f.encodeURL(), ContentTypeURLEncoded
	case encodingJSON:
		data, err = f.encodeJSON()
		contentType = ContentTypeJSON
	default:
		data, contentType, err = f.encodeMultipart()
	}
	if err != nil {
		return nil, err
	}

	return &Body{data: data, contentType: contentType, form: f}, nil
}

// encodeURL keeps the order fields were given in, unlike url.Values.Encode.
func (f *form) encodeURL() []byte {
	var buf bytes.Buffer
	for i, p := range f.parts {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(p.name))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(string(p.value)))
	}
	return buf.Bytes()
}

// encodeJSON writes the fields as a flat JSON object of strings in order.
func (f *form) encodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f.parts {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(string(p.value))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *form) encodeMultipart() ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.SetBoundary(f.boundary()); err != nil {
		return nil, "", err
	}

	for _, p := range f.parts {
		if !p.file {
			if err := writer.WriteField(p.name, string(p.value)); err != nil {
				return nil, "", err
			}
			continue
		}

		w, err := writer.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

// boundary derives a multipart boundary from the form content.
func (f *form) boundary() string {
	h := sha256.New()
	for _, p := range f.parts {
		h.Write([]byte(p.name))
		h.Write([]byte{0})
		h.Write([]byte(p.filename))
		h.Write([]byte{0})
		h.Write(p.value)
		h.Write([]byte{0})
	}
	return boundaryPrefix + uuid.NewSHA1(boundaryNamespace, h.Sum(nil)).String()
}

func uploadName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
