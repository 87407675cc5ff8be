package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single failed rule, addressed by its JSON path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns nil when every rule passes.
func (v *Validator) Struct(s interface{}) []FieldError {
	return v.collect(v.validate.Struct(s), true)
}

// Var validates a single value under the given field name.
func (v *Validator) Var(field string, value interface{}, tag string) []FieldError {
	errs := v.collect(v.validate.Var(value, tag), false)
	for i := range errs {
		errs[i].Path = field
		errs[i].Message = field + errs[i].Message
	}
	return errs
}

func (v *Validator) collect(err error, nested bool) []FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Path: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if !nested {
			out = append(out, FieldError{Message: suffix(fe)})
			continue
		}
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, FieldError{Path: path, Message: path + suffix(fe)})
	}
	return out
}

func suffix(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(" must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(" must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf(" must be at most %s", fe.Param())
	case "uuid", "uuid4":
		return " must be a valid UUID"
	case "oneof":
		return " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return " is invalid"
	}
}
