package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title     string `validate:"required,max=5"`
	MediaType string `validate:"required,oneof=movie tv series"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&sample{Title: "ok", MediaType: "tv"}))

	err := v.Validate(&sample{Title: "too long", MediaType: "book"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Title must be at most 5")
		assert.Contains(t, err.Error(), "MediaType must be one of [movie tv series]")
	}

	err = v.Validate(&sample{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Title is required")
	}
}
