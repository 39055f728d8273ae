package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// Ключи ошибок отдаём в терминах json-полей, не Go-имён.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Map validates a struct and returns field->message, or nil when the
// value is valid.
func Map(s any) map[string]string {
	if err := v.Struct(s); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"error": err.Error()}
		}
		out := make(map[string]string, len(errs))
		for _, fe := range errs {
			out[fe.Field()] = fe.Tag()
		}
		return out
	}
	return nil
}
