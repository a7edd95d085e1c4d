package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Lookup resolves another field's current value by name.
// Form implements it, so cross-field rules see the value at validation time.
type Lookup interface {
	Value(name string) any
}

// Rule is one check applied to a field value.
// Error holds the default message and translation data; Field is filled in
// when the rule fails on a registered field.
type Rule struct {
	Check      func(value any, form Lookup) bool
	Error      ValidationError
	overridden bool
}

// WithMessage returns a copy of the rule reporting msg instead of the
// default message. Overridden messages are never translated.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	r.overridden = true
	return r
}

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	passwordChars = regexp.MustCompile(`^[a-zA-Z\d@$!%*?&]{8,}$`)
	spaceRegex    = regexp.MustCompile(`\s`)
)

// Required fails on nil, empty strings, false, zero numbers and nil
// pointers, slices and maps.
func Required() Rule {
	return Rule{
		Check: func(v any, _ Lookup) bool { return !isEmpty(v) },
		Error: ValidationError{
			Message:        "This field is required",
			TranslationKey: "validation.required",
		},
	}
}

// MinLength requires at least n characters (or elements).
func MinLength(n int) Rule {
	return Rule{
		Check: func(v any, _ Lookup) bool {
			if isEmpty(v) {
				return true
			}
			l, ok := length(v)
			return ok && l >= n
		},
		Error: ValidationError{
			Message:           fmt.Sprintf("Must be at least %d characters", n),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"min": n},
		},
	}
}

// MaxLength allows at most n characters (or elements).
func MaxLength(n int) Rule {
	return Rule{
		Check: func(v any, _ Lookup) bool {
			if isEmpty(v) {
				return true
			}
			l, ok := length(v)
			return ok && l <= n
		},
		Error: ValidationError{
			Message:           fmt.Sprintf("Must be at most %d characters", n),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"max": n},
		},
	}
}

// Email is a light local@domain.tld shape check.
func Email() Rule {
	return matchRule(emailRegex.MatchString, ValidationError{
		Message:        "Must be a valid email address",
		TranslationKey: "validation.email",
	})
}

// Password requires 8 or more characters from [A-Za-z0-9@$!%*?&] with at
// least one lowercase letter, one uppercase letter and one digit.
func Password() Rule {
	return matchRule(isStrongPassword, ValidationError{
		Message:        "Password must have at least 8 characters, one uppercase letter, one lowercase letter and one number",
		TranslationKey: "validation.password",
	})
}

// Username allows 3 to 30 letters, digits or underscores.
func Username() Rule {
	return matchRule(usernameRegex.MatchString, ValidationError{
		Message:        "Username must be 3-30 alphanumeric characters",
		TranslationKey: "validation.username",
	})
}

// ConfirmPassword requires the value to equal the current value of field.
func ConfirmPassword(field string) Rule {
	return Rule{
		Check: func(v any, form Lookup) bool {
			if isEmpty(v) {
				return true
			}
			if form == nil {
				return false
			}
			return reflect.DeepEqual(v, form.Value(field))
		},
		Error: ValidationError{
			Message:           "Passwords do not match",
			TranslationKey:    "validation.confirm_password",
			TranslationValues: map[string]any{"other": field},
		},
	}
}

// NoSpaces rejects values containing any whitespace.
func NoSpaces() Rule {
	return matchRule(func(s string) bool { return !spaceRegex.MatchString(s) }, ValidationError{
		Message:        "This field cannot contain spaces",
		TranslationKey: "validation.no_spaces",
	})
}

// Custom wraps an arbitrary predicate. Unlike the built-in rules it is
// called for empty values too. An empty message falls back to a generic one.
func Custom(fn func(value any) bool, message string) Rule {
	r := Rule{
		Check: func(v any, _ Lookup) bool { return fn(v) },
		Error: ValidationError{
			Message:        "Invalid value",
			TranslationKey: "validation.invalid",
		},
	}
	if message != "" {
		r = r.WithMessage(message)
	}
	return r
}

func matchRule(match func(string) bool, e ValidationError) Rule {
	return Rule{
		Check: func(v any, _ Lookup) bool {
			if isEmpty(v) {
				return true
			}
			return match(toString(v))
		},
		Error: e,
	}
}

func isStrongPassword(s string) bool {
	if !passwordChars.MatchString(s) {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
