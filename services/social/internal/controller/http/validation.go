package http

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"social-feed/services/social/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerValidatorOnce sync.Once

// RegisterValidation makes binding errors report the json or form name of
// a field instead of its Go name and adds the notblank rule.
func RegisterValidation() {
	registerValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// bind decodes and validates the request into obj. An empty body is
// validated as a zero value so required fields are reported.
func bind(c *gin.Context, obj any) *entity.ValidationError {
	err := c.ShouldBind(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	return translateValidation(err)
}

func translateValidation(err error) *entity.ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return entity.NewValidationError("body", "The request body is invalid.")
	}

	result := &entity.ValidationError{}
	for _, fe := range fieldErrors {
		field, message := fieldMessage(fe)
		result.Add(field, message)
	}
	return result
}

func fieldMessage(fe validator.FieldError) (string, string) {
	field := fe.Field()
	label := strings.ReplaceAll(field, "_", " ")

	switch fe.Tag() {
	case "required", "notblank":
		return field, fmt.Sprintf("The %s field is required.", label)
	case "email":
		return field, fmt.Sprintf("The %s field must be a valid email address.", label)
	case "max":
		return field, fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	case "min":
		return field, fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "eqfield":
		// password_confirmation reports against the confirmed field.
		target := strings.TrimSuffix(field, "_confirmation")
		return target, fmt.Sprintf("The %s field confirmation does not match.", target)
	default:
		return field, fmt.Sprintf("The %s field is invalid.", label)
	}
}
