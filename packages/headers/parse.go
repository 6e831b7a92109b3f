package headers

import (
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"golang.org/x/net/http/httpguts"
)

// Parse parses a "Key: Value" header string as given to -H.
// It splits on the first colon only and trims whitespace around the value.
func Parse(raw string) (Header, error) {
	name, value, found := strings.Cut(raw, ":")
	if !found {
		return Header{}, errs.New(errs.ErrMalformedHeader, "%q has no colon", raw)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Header{}, errs.New(errs.ErrMalformedHeader, "%q has an empty name", raw)
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return Header{}, errs.New(errs.ErrMalformedHeader, "%q has an invalid name", raw)
	}

	value = strings.TrimSpace(value)
	if !httpguts.ValidHeaderFieldValue(value) {
		return Header{}, errs.New(errs.ErrMalformedHeader, "%q has an invalid value", raw)
	}

	return Header{Name: name, Value: value}, nil
}

// ParseAll parses every raw header in order.
func ParseAll(raws []string) (Set, error) {
	s := Set{}
	for _, raw := range raws {
		h, err := Parse(raw)
		if err != nil {
			return Set{}, err
		}
		s.Add(h.Name, h.Value)
	}
	return s, nil
}
