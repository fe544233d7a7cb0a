package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Rating int `validate:"required,min=1,max=5"`
	}

	assert.NoError(t, v.Validate(&payload{Rating: 3}))
	assert.Error(t, v.Validate(&payload{Rating: 9}))
	assert.Error(t, v.Validate(&payload{}))
}
