package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email       string   `validate:"required,email"`
	Password    string   `validate:"required"`
	Preferences []string `validate:"omitempty,min=2"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Email: "a@b.co", Password: "x", Preferences: []string{"Action", "Drama"}})
	assert.NoError(t, err)
}

func TestStruct_MissingFields(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Contains(t, errs[0].Message, "required")
	assert.Equal(t, "password", errs[1].Field)
}

func TestStruct_BadEmail(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Password: "x"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs[0].Message, "valid email")
}

func TestStruct_MinPreferences(t *testing.T) {
	err := Struct(sample{Email: "a@b.co", Password: "x", Preferences: []string{"Action"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, Errors{}))
}
