package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidatorStruct(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	fields, err := v.Struct(signupPayload{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = v.Struct(signupPayload{Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "password is a required field", fields["password"])
}

func TestValidatorStructInvalidInput(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	_, err = v.Struct("not a struct")
	assert.Error(t, err)
}
