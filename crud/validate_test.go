//go:build unit
// +build unit

package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedModel struct {
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=150"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		model         validatedModel
		expectedError bool
	}{
		{
			name:          "valid model",
			model:         validatedModel{Email: "user@example.com", Age: 30},
			expectedError: false,
		},
		{
			name:          "missing email",
			model:         validatedModel{Age: 30},
			expectedError: true,
		},
		{
			name:          "invalid email",
			model:         validatedModel{Email: "nope", Age: 30},
			expectedError: true,
		},
		{
			name:          "age out of range",
			model:         validatedModel{Email: "user@example.com", Age: 200},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.model)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "validation error")
			} else {
				require.NoError(t, err)
			}
		})
	}
}
