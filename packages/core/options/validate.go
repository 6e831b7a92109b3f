package options

import (
	"errors"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("options: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("flag")
		if name == "-" {
			return ""
		}
		return "--" + name
	})
}

// validateFlags checks the declarative constraints on f.
func validateFlags(f *Flags) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return errs.Wrap(errs.ErrInvalidOption, err, "validating flags")
	}

	msgs := make([]string, 0, len(verrors))
	kind := errs.ErrInvalidOption
	for _, verror := range verrors {
		if verror.StructField() == "URL" {
			kind = errs.ErrInvalidURL
		}
		msgs = append(msgs, customErrForTag(verror.Tag(), verror))
	}
	return errs.New(kind, "%s", strings.Join(msgs, "; "))
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return verror.Field() + " is required"
	case "hostname_rfc1123":
		return verror.Field() + " must be a name like us-east-1"
	default:
		return verror.Translate(translator)
	}
}
