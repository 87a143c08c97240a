package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	err := New(ErrAlreadyPermitted, "vehicle already permitted in this apartment").
		WithApartment("apt-1").
		WithPlate("VEH-1")

	assert.True(t, errors.Is(err, ErrAlreadyPermitted))
	assert.True(t, IsAlreadyPermitted(err))
	assert.False(t, IsNotFound(err))

	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "apt-1", ae.ApartmentID)
	assert.Equal(t, "VEH-1", ae.Plate)

	// Still matches after another layer of wrapping.
	wrapped := fmt.Errorf("add permit: %w", err)
	assert.True(t, IsAlreadyPermitted(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "parkgate: not found", New(ErrNotFound, "").Error())
	assert.Equal(t, "parkgate: not found: apartment not found", New(ErrNotFound, "apartment not found").Error())
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsForbidden(New(ErrForbidden, "")))
	assert.True(t, IsNotPermitted(New(ErrNotPermitted, "")))
	assert.True(t, IsInvalidArgument(New(ErrInvalidArgument, "limit")))
	assert.False(t, IsForbidden(errors.New("unrelated")))
}
