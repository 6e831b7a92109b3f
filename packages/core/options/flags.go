package options

import "time"

// Flags is the raw, unvalidated record of everything the user asked for.
// Field names in the flag tag are used in validation messages.
type Flags struct {
	URL       string   `flag:"url" validate:"required"`
	Method    string   `flag:"request"`
	Headers   []string `flag:"header"`
	Data      string   `flag:"data"`
	HasData   bool     `flag:"-"`
	Form      []string `flag:"form"`
	UserAgent string   `flag:"user-agent"`

	AccessKey    string        `flag:"access-key"`
	SecretKey    string        `flag:"secret-key"`
	Auth         string        `flag:"auth" validate:"omitempty,printascii"`
	AuthURL      bool          `flag:"auth-url"`
	AuthUpPolicy string        `flag:"auth-up-policy"`
	AuthUpForm   bool          `flag:"auth-up-form"`
	Region       string        `flag:"region" validate:"omitempty,hostname_rfc1123"`
	Service      string        `flag:"service" validate:"omitempty,hostname_rfc1123"`
	Expires      time.Duration `flag:"auth-expires" validate:"gte=0,lte=168h"`

	JSON           bool   `flag:"json"`
	Binary         bool   `flag:"binary"`
	FormURLEncoded bool   `flag:"form-urlencoded"`
	ContentMD5     string `flag:"content-md5" validate:"omitempty,printascii"`

	Output  string `flag:"output"`
	Verbose bool   `flag:"verbose"`
	Pretty  bool   `flag:"pretty"`
}
