package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New()
	frPhone    = regexp.MustCompile(`^(?:(?:\+33|0)[1-9](?:[0-9]{8}))$`)
	phoneNoise = strings.NewReplacer(" ", "", ".", "", "-", "")
)

// Errors maps a form field to a message displayed next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Set records msg for field unless the field already has an error.
func (e Errors) Set(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Email(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// FrenchPhone accepts 0X XX XX XX XX and +33 X XX XX XX XX, ignoring spaces, dots and dashes.
func FrenchPhone(s string) bool {
	return frPhone.MatchString(phoneNoise.Replace(strings.TrimSpace(s)))
}

// MinLen counts characters, not bytes.
func MinLen(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}
