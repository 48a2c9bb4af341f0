// Package validation validates request payloads at the HTTP boundary before
// any domain logic runs.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a tagged request DTO. The returned error message is safe
// to surface to clients.
func Struct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
}
