package headers

import (
	"net/http"
	"strings"
)

// Header is a single name/value pair.
type Header struct {
	Name  string
	Value string
}

// Set is an ordered sequence of headers. The zero value is an empty set.
type Set struct {
	entries []Header
}

// NewSet returns a set holding the given headers in order.
func NewSet(hs ...Header) Set {
	s := Set{}
	for _, h := range hs {
		s.Add(h.Name, h.Value)
	}
	return s
}

// Add appends a header, keeping any existing headers with the same name.
func (s *Set) Add(name, value string) {
	s.entries = append(s.entries, Header{Name: name, Value: value})
}

// Set replaces every header named name with a single entry. The new entry
// takes the position of the first match, or is appended if there is none.
func (s *Set) Set(name, value string) {
	out := s.entries[:0:0]
	replaced := false
	for _, h := range s.entries {
		if !strings.EqualFold(h.Name, name) {
			out = append(out, h)
			continue
		}
		if !replaced {
			out = append(out, Header{Name: name, Value: value})
			replaced = true
		}
	}
	if !replaced {
		out = append(out, Header{Name: name, Value: value})
	}
	s.entries = out
}

// Del removes every header named name.
func (s *Set) Del(name string) {
	out := s.entries[:0:0]
	for _, h := range s.entries {
		if !strings.EqualFold(h.Name, name) {
			out = append(out, h)
		}
	}
	s.entries = out
}

// Get returns the first value for name, or "".
func (s Set) Get(name string) string {
	for _, h := range s.entries {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Values returns all values for name in order.
func (s Set) Values(name string) []string {
	var vals []string
	for _, h := range s.entries {
		if strings.EqualFold(h.Name, name) {
			vals = append(vals, h.Value)
		}
	}
	return vals
}

// Has reports whether a header named name is present.
func (s Set) Has(name string) bool {
	for _, h := range s.entries {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

func (s Set) Len() int { return len(s.entries) }

// All returns a copy of the entries in order.
func (s Set) All() []Header {
	out := make([]Header, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	return Set{entries: s.All()}
}

// Equal reports whether both sets hold the same entries in the same order.
// Names compare case-insensitively, values exactly.
func (s Set) Equal(other Set) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for i, h := range s.entries {
		o := other.entries[i]
		if !strings.EqualFold(h.Name, o.Name) || h.Value != o.Value {
			return false
		}
	}
	return true
}

// ToHTTP converts the set to an http.Header, preserving value order per name.
func (s Set) ToHTTP() http.Header {
	h := make(http.Header, len(s.entries))
	for _, e := range s.entries {
		h.Add(e.Name, e.Value)
	}
	return h
}
