package errs

import (
	"errors"
	"fmt"
)

// Category groups error kinds by the pipeline stage that raises them.
type Category string

const (
	CategoryValidation Category = "ValidationError"
	CategoryResource   Category = "ResourceError"
	CategorySigning    Category = "SigningError"
	CategoryTransport  Category = "TransportError"
)

// Category sentinels, matched by errors.Is against any *Error of that category.
var (
	ErrValidation = errors.New(string(CategoryValidation))
	ErrResource   = errors.New(string(CategoryResource))
	ErrSigning    = errors.New(string(CategorySigning))
	ErrTransport  = errors.New(string(CategoryTransport))
)

// Kind identifies a single rule or failure.
type Kind struct {
	name     string
	category Category
}

func (k *Kind) Error() string { return k.name }

// Name returns the kind's identifier, e.g. "InvalidMethod".
func (k *Kind) Name() string { return k.name }

// Category returns the category the kind belongs to.
func (k *Kind) Category() Category { return k.category }

// Is lets errors.Is(kind, ErrValidation) hold for kinds of that category.
func (k *Kind) Is(target error) bool {
	return categorySentinel(k.category) == target
}

func newKind(name string, c Category) *Kind {
	return &Kind{name: name, category: c}
}

// Validation kinds
var (
	ErrInvalidMethod         = newKind("InvalidMethod", CategoryValidation)
	ErrInvalidURL            = newKind("InvalidUrl", CategoryValidation)
	ErrConflictingBodySource = newKind("ConflictingBodySource", CategoryValidation)
	ErrIncompleteCredentials = newKind("IncompleteCredentials", CategoryValidation)
	ErrMalformedHeader       = newKind("MalformedHeader", CategoryValidation)
	ErrMalformedFormField    = newKind("MalformedFormField", CategoryValidation)
	ErrInvalidOption         = newKind("InvalidOption", CategoryValidation)
	ErrInvalidConfig         = newKind("InvalidConfig", CategoryValidation)
)

// Resource kinds
var (
	ErrBodySourceUnreadable = newKind("BodySourceUnreadable", CategoryResource)
	ErrConfigUnreadable     = newKind("ConfigUnreadable", CategoryResource)
	ErrOutputUnwritable     = newKind("OutputUnwritable", CategoryResource)
)

// Signing kinds
var (
	ErrMissingRegion      = newKind("MissingRegion", CategorySigning)
	ErrUnsupportedScheme  = newKind("UnsupportedScheme", CategorySigning)
	ErrMissingCredentials = newKind("MissingCredentials", CategorySigning)
	ErrInvalidPolicy      = newKind("InvalidPolicy", CategorySigning)
	ErrPolicyFormBody     = newKind("PolicyFormBody", CategorySigning)
)

// Transport kinds
var (
	ErrRequestFailed = newKind("RequestFailed", CategoryTransport)
)

// Error is a classified failure with enough context to identify the
// offending flag or value.
type Error struct {
	Kind   *Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.category, e.Kind.name)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns an *Error of the given kind.
func New(kind *Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind *Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// CategoryOf reports the category of err, or "" if err is not classified.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.category
	}
	return ""
}

// KindOf returns the kind of err, or nil if err is not classified.
func KindOf(err error) *Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func categorySentinel(c Category) error {
	switch c {
	case CategoryValidation:
		return ErrValidation
	case CategoryResource:
		return ErrResource
	case CategorySigning:
		return ErrSigning
	case CategoryTransport:
		return ErrTransport
	}
	return nil
}
