package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

// MessageFailed is the top-level message of every validation error.
const MessageFailed = "Validation failed"

// Tags reported by struct-level predicates.
const (
	TagRequiredIf = "required_if"
	TagExactlyOne = "exactly_one"
	TagNotFound   = "exists"
)

// Validator wraps go-playground/validator and converts its errors to
// apperr validation errors keyed by JSON field path.
type Validator struct {
	v *validator.Validate
}

// New creates a validator using JSON tag names in error keys.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("country_code", func(fl validator.FieldLevel) bool {
		return IsValidCountryCode(fl.Field().String())
	})
	return &Validator{v: v}
}

// RegisterStructRule attaches a struct-level predicate to the given types.
// Call before the validator is used.
func (v *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...interface{}) {
	v.v.RegisterStructValidation(fn, types...)
}

// Validate validates a struct and returns an apperr validation error.
func (v *Validator) Validate(s interface{}) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldPath(e.Namespace())] = friendlyMessage(e)
	}
	return apperr.Validation(MessageFailed, fields)
}

// fieldPath drops the root struct name: "SetBedsInput.beds[0].count" -> "beds[0].count".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case TagRequiredIf:
		return "is required when " + e.Param()
	case TagExactlyOne:
		return "exactly one of " + e.Param() + " must be provided"
	case TagNotFound:
		return "does not exist"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "password":
		return "must be 6 to 15 characters with at least one letter and one number"
	case "country_code":
		return "must be a valid country code"
	case "min":
		if isNumber(e.Kind()) {
			return "must be at least " + e.Param()
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if isNumber(e.Kind()) {
			return "must not exceed " + e.Param()
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must be greater than or equal to " + e.Param()
	case "eqfield":
		return "must match " + e.Param()
	case "datetime":
		return "must be a date in format " + e.Param()
	case "cover_in_images":
		return "must be one of the submitted images"
	default:
		return "is invalid"
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// RequireWhen reports field as missing when cond holds and the field is absent.
func RequireWhen(sl validator.StructLevel, cond, present bool, field, reason string) {
	if cond && !present {
		sl.ReportError(nil, field, field, TagRequiredIf, reason)
	}
}

// RequireExactlyOne reports both fields unless exactly one of them is present.
func RequireExactlyOne(sl validator.StructLevel, aPresent, bPresent bool, fieldA, fieldB string) {
	if aPresent == bPresent {
		pair := fieldA + "," + fieldB
		sl.ReportError(nil, fieldA, fieldA, TagExactlyOne, pair)
		sl.ReportError(nil, fieldB, fieldB, TagExactlyOne, pair)
	}
}

// isValidEmail matches /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var phoneRe = regexp.MustCompile(`^[0-9]{6,15}$`)

var countryCodeRe = regexp.MustCompile(`^\+?[0-9]{1,4}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPhone accepts 6 to 15 digits, without country code.
func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidCountryCode(code string) bool {
	return countryCodeRe.MatchString(code)
}

// IsValidPassword enforces:
// - 6 to 15 characters
// - contains at least one letter
// - contains at least one number
func IsValidPassword(password string) bool {
	if len(password) < 6 || len(password) > 15 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// NormalizePhone strips spaces and leading zeros.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	return strings.TrimLeft(phone, "0")
}

// NormalizeCountryCode makes sure the code starts with "+".
func NormalizeCountryCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.HasPrefix(code, "+") {
		return code
	}
	return "+" + code
}
