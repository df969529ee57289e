package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})
	return v
}

// checkInput runs struct validation and converts failures into a ValidationError.
func checkInput(v *validator.Validate, in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = ruleMessage(fe.Tag(), fe.Param())
	}
	return newValidationError("invalid input", fields)
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return "must be at most " + param
	case "min":
		return "must be at least " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		return "failed " + rule + " validation"
	}
}
