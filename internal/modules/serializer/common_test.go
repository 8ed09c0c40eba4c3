package serializer

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestErr_ExpandsValidationErrors(t *testing.T) {
	type payload struct {
		Username string `validate:"required,min=3,max=30"`
		Email    string `validate:"required,email"`
	}

	v := validator.New()
	err := v.Struct(payload{Username: "ab", Email: "not-an-email"})
	assert.Error(t, err)

	res := Err("Invalid request parameters", err)
	assert.Equal(t, "Invalid request parameters", res.Message)
	assert.Contains(t, res.Errors, "Username must be at least 3 characters")
	assert.Contains(t, res.Errors, "Email must be a valid email address")
}

func TestErr_RequiredField(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	v := validator.New()
	err := v.Struct(payload{})

	res := Err("", err)
	assert.Contains(t, res.Errors, "Name is required")
}

func TestErrHelpers_DefaultMessages(t *testing.T) {
	assert.Equal(t, "Invalid request parameters", ParamErr("", nil).Message)
	assert.Equal(t, "Server error", DBErr("", nil).Message)
	assert.Equal(t, "Unauthorized", AuthErr("").Message)
	assert.Equal(t, "Access denied", ForbiddenErr("").Message)
	assert.Equal(t, "Not found", NotFoundErr("").Message)

	assert.Equal(t, "Custom message", ParamErr("Custom message", nil).Message)
}

func TestErr_PlainErrorOutsideRelease(t *testing.T) {
	res := Err("Server error", errors.New("connection refused"))
	assert.Equal(t, "Server error", res.Message)
	assert.NotEmpty(t, res.Errors)
}
