package crud

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate runs struct tag validation over model, mirroring the validation
// models perform before persistence.
func Validate(model interface{}) error {
	validate := validator.New()

	if err := validate.Struct(model); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
