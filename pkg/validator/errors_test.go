package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/validator"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "email", Message: "required", TranslationKey: "validation.required"},
		{Field: "email", Message: "invalid", TranslationKey: "validation.email"},
		{Field: "name", Message: "plain"},
	}

	assert.True(t, errs.Has("email"))
	assert.False(t, errs.Has("bio"))
	assert.Equal(t, []string{"required", "invalid"}, errs.Get("email"))
	assert.Len(t, errs.GetErrors("name"), 1)
	assert.Equal(t, "email: required; email: invalid; name: plain", errs.Error())

	errs.Translate(func(key string, _ map[string]any) string { return "tr:" + key })
	assert.Equal(t, "tr:validation.required", errs[0].Message)
	assert.Equal(t, "plain", errs[2].Message, "messages without keys are kept")

	errs.Translate(nil)
	assert.Equal(t, "tr:validation.email", errs[1].Message)
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{{Field: "email", Message: "required"}}
	wrapped := fmt.Errorf("submit: %w", errs)

	assert.True(t, validator.IsValidationError(wrapped))
	got := validator.ExtractValidationErrors(wrapped)
	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].Field)

	plain := errors.New("boom")
	assert.False(t, validator.IsValidationError(plain))
	assert.Nil(t, validator.ExtractValidationErrors(plain))
}
