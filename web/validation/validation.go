// Package validation registers the panel's custom field rules with gin's
// validator and renders validation failures as human-readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const passwordMinLength = 4

var once sync.Once

// Init registers the custom rules on gin's default validator engine. Safe to
// call more than once.
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("validation: unexpected gin validator engine")
		}
		Register(v)
	})
}

// Register adds the custom rules to v and makes field errors report JSON names.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("password", PasswordValidator); err != nil {
		panic(err)
	}
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// PasswordValidator requires at least one upper-case letter, at least one
// digit and a minimum length of four characters.
func PasswordValidator(fl validator.FieldLevel) bool {
	return IsValidPassword(fl.Field().String())
}

func IsValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// Messages converts a binding error into one message per failed field. Errors
// that are not field validation failures (malformed JSON, bad path segments)
// yield a single generic message.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"malformed request: " + err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		if fe.Kind() == reflect.Slice {
			return field + " must not be null"
		}
		return field + " must not be null or empty"
	case "max":
		return fmt.Sprintf("%s size must be between 0 and %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "password":
		return "password must have >0 alphabetic in upper case and number. size must be >=4"
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
