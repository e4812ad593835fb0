package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates (date_of_birth).
const DateLayout = "2006-01-02"

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
// - Registers isodate for YYYY-MM-DD strings.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8")
		v.RegisterAlias("strongpwd", "min=8,containsany=!@#$%^&*(),containsany=0123456789,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ,containsany=abcdefghijklmnopqrstuvwxyz")
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, err := time.Parse(DateLayout, s)
			return err == nil
		})
	})
}

// Struct validates v with the same engine and tags Gin uses for binding.
// Failures come back as *Error.
func Struct(v any) error {
	Init()
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return FromError(err)
	}
	return nil
}

// ToDetails converts validation/binding errors into a map[field][]message suitable for API error.details.
func ToDetails(err error) map[string][]string {
	if err == nil {
		return nil
	}
	return FromError(err).Fields
}

// FromError normalises binder, decoder and validator failures into *Error.
func FromError(err error) *Error {
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return NewFieldError(ute.Field, "must be a "+jsonKind(ute.Type))
	}
	var se *json.SyntaxError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return NewNonFieldError("invalid json")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &Error{}
		for _, fe := range verrs {
			out.Add(fe.Field(), formatFieldError(fe))
		}
		return out
	}

	return NewNonFieldError("invalid payload")
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return "valid value"
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "isodate":
		return "Date has wrong format. Use YYYY-MM-DD."
	case "min":
		if isNumberKind(fe.Kind()) {
			return "Ensure this value is greater than or equal to " + param + "."
		}
		return "Ensure this field has at least " + param + " characters."
	case "max":
		if isNumberKind(fe.Kind()) {
			return "Ensure this value is less than or equal to " + param + "."
		}
		return "Ensure this field has no more than " + param + " characters."
	case "eqfield":
		return "must be equal to " + param + " field"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "min length 8"
	case "strongpwd":
		return "must be at least 8 characters with uppercase, lowercase, number and special character"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
