package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInput struct {
	Name string `validate:"required"`
	Qty  int    `validate:"required,gt=0"`
	Unit string `validate:"required,oneof=unit slice"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(testInput{Name: "Croissant", Qty: 2, Unit: "unit"}))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(testInput{Qty: -1, Unit: "dozen"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be greater than 0", fields["Qty"])
	assert.Equal(t, "must be one of: unit slice", fields["Unit"])
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(testInput{Name: "x", Qty: 1, Unit: "dozen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Unit' must be one of: unit slice")
}
