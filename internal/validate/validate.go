// Package validate checks user-entered forms before they reach the API.
package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/planit-ai/planit/pkg/domain"
)

// MaxImageBytes is the upload size limit for profile and post images.
const MaxImageBytes = 5 << 20

// MaxPostImages is the number of images a post may carry.
const MaxPostImages = 5

// ImageExtensions are the accepted upload extensions.
var ImageExtensions = []string{"jpg", "jpeg", "png", "webp"}

var loginIDPattern = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)

// FieldError is a single user-facing validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is returned when a form fails validation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the first message for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// FieldMessage extracts the message for field from err if err is Errors.
func FieldMessage(err error, field string) string {
	var errs Errors
	if errors.As(err, &errs) {
		return errs.For(field)
	}
	return ""
}

// Validator validates planit forms. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the planit rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})

	rules := map[string]validator.Func{
		"notblank":    notBlank,
		"loginid":     func(fl validator.FieldLevel) bool { return ValidLoginID(fl.Field().String()) },
		"password":    func(fl validator.FieldLevel) bool { return ValidPassword(fl.Field().String()) },
		"nickname":    func(fl validator.FieldLevel) bool { return ValidNickname(fl.Field().String()) },
		"searchquery": func(fl validator.FieldLevel) bool { return validSearchChars(fl.Field().String()) },
		"imageext":    func(fl validator.FieldLevel) bool { return ValidImageExtension(fl.Field().String()) },
		"board":       func(fl validator.FieldLevel) bool { return domain.ValidBoardType(fl.Field().String()) },
		"theme":       func(fl validator.FieldLevel) bool { return domain.ValidTheme(fl.Field().String()) },
		"destination": func(fl validator.FieldLevel) bool { return domain.ValidDestinationCode(fl.Field().String()) },
	}
	for tag, fn := range rules {
		// Registration only fails on an empty tag or nil func.
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validate: register %s: %v", tag, err))
		}
	}
	return &Validator{v: v}
}

// Struct validates a form struct and returns Errors on failure.
func (val *Validator) Struct(form any) error {
	if err := val.v.Struct(form); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidLoginID reports whether id is 4-20 lower-case letters, digits or
// underscores.
func ValidLoginID(id string) bool {
	return loginIDPattern.MatchString(id)
}

// ValidPassword reports whether pw is 8-20 characters with an upper-case
// letter, a lower-case letter, a digit and a symbol.
func ValidPassword(pw string) bool {
	n := len([]rune(pw))
	if n < 8 || n > 20 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// ValidNickname reports whether nick is 1-10 characters with no
// whitespace and no emoji.
func ValidNickname(nick string) bool {
	n := len([]rune(nick))
	if n == 0 || n > 10 {
		return false
	}
	for _, r := range nick {
		if unicode.IsSpace(r) || isEmoji(r) {
			return false
		}
	}
	return true
}

func isEmoji(r rune) bool {
	switch {
	case r == 0x200D, r == 0xFE0F:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	}
	return unicode.Is(unicode.So, r)
}

// validSearchChars allows letters, digits and spaces, but not bare Hangul
// jamo left over from an unfinished composition.
func validSearchChars(q string) bool {
	for _, r := range q {
		if r >= 0x3131 && r <= 0x3163 {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ImageExtension returns the lower-cased extension of name without the dot.
func ImageExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// ValidImageExtension reports whether ext (with or without a dot) is accepted.
func ValidImageExtension(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, ok := range ImageExtensions {
		if ext == ok {
			return true
		}
	}
	return false
}

// ContentType maps an accepted image extension to its MIME type.
func ContentType(ext string) string {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: formatSingleValidationError(e)})
	}
	return out
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s allows at most %s items", field, e.Param())
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("pick at least %s %s", e.Param(), field)
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "eqfield":
		return "passwords do not match"
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, e.Param())
	case "loginid":
		return "login id must be 4-20 lowercase letters, digits or underscores"
	case "password":
		return "password must be 8-20 characters with upper, lower, digit and symbol"
	case "nickname":
		return "nickname must be 1-10 characters without spaces or emoji"
	case "searchquery":
		return "search may only contain letters, digits and spaces"
	case "imageext":
		return "only jpg, jpeg, png and webp images are allowed"
	case "board":
		return "unknown board"
	case "theme":
		return "unknown travel theme"
	case "destination":
		return "pick a destination from the list"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
