package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a dto's validate tags and folds failures into one
// InputError the error handler can surface directly.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewInputError("invalid request payload")
	}
	var fields []string
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return NewInputError("invalid request: " + strings.Join(fields, ", "))
}
