package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// jsSpace is the ECMAScript \s class (WhiteSpace plus LineTerminator). Go's
// \s only covers ASCII, which would let NBSP, U+2028 or BOM through.
const jsSpace = `\t\n\x{000B}\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

// Regex patterns
var (
	// local-part@domain.tld with no whitespace or '@' in any part
	contactEmailRegex = regexp.MustCompile(
		`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`,
	)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("contact_email", ContactEmail)
}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// ContactEmail validates the loose email shape accepted by the contact form.
// It is intentionally simpler than RFC 5322.
func ContactEmail(fl validator.FieldLevel) bool {
	return IsContactEmail(fl.Field().String())
}

// IsContactEmail reports whether s has the local@domain.tld shape.
func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}
