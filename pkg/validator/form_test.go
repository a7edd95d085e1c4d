package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/validator"
)

func TestForm_Validate(t *testing.T) {
	t.Parallel()

	t.Run("field without rules is always valid", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("bio", "")

		for _, v := range []any{"", "anything", nil, 0} {
			form.SetValue("bio", v)
			assert.True(t, form.Validate("bio"))
			assert.Empty(t, form.FieldErrors("bio"))
		}
	})

	t.Run("unknown field is vacuously valid", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		assert.True(t, form.Validate("missing"))
	})

	t.Run("collects every failure in rule order", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("username", "a b",
			validator.Required(),
			validator.MinLength(5),
			validator.Username(),
			validator.NoSpaces(),
			validator.MaxLength(10),
		)

		assert.False(t, form.Validate("username"))
		assert.Equal(t, []string{
			"Must be at least 5 characters",
			"Username must be 3-30 alphanumeric characters",
			"This field cannot contain spaces",
		}, form.FieldErrors("username"))

		field, ok := form.Field("username")
		require.True(t, ok)
		assert.True(t, field.Touched)
		assert.False(t, field.Valid)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("email", "not-an-email", validator.Required(), validator.Email())

		form.Validate("email")
		first := form.FieldErrors("email")
		form.Validate("email")
		assert.Equal(t, first, form.FieldErrors("email"))
		assert.Len(t, first, 1)
	})

	t.Run("clears previous errors", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("email", "", validator.Required())

		assert.False(t, form.Validate("email"))
		require.True(t, form.HasErrors("email"))

		form.SetValue("email", "user@example.com")
		assert.False(t, form.HasErrors("email"))
		assert.True(t, form.Validate("email"))
	})
}

func TestForm_ConfirmPasswordUsesCurrentValue(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	// Registered before the field it refers to.
	form.Register("confirm", "Secret123", validator.Required(), validator.ConfirmPassword("password"))
	form.Register("password", "Other1234", validator.Required(), validator.Password())

	assert.False(t, form.Validate("confirm"))
	assert.Equal(t, []string{"Passwords do not match"}, form.FieldErrors("confirm"))

	form.SetValue("password", "Secret123")
	assert.True(t, form.Validate("confirm"))
	assert.Empty(t, form.FieldErrors("confirm"))
}

func TestForm_ValidateAll(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("username", "", validator.Required())
	form.Register("email", "user@example.com", validator.Required(), validator.Email())
	form.Register("bio", "")

	assert.False(t, form.IsTouched())
	assert.False(t, form.ValidateAll())
	assert.True(t, form.IsTouched())

	for _, name := range form.Names() {
		field, _ := form.Field(name)
		assert.True(t, field.Touched, name)
	}
	assert.True(t, form.HasErrors("username"))
	assert.False(t, form.HasErrors("email"))

	form.SetValue("username", "alice")
	assert.True(t, form.IsValid())
	assert.True(t, form.ValidateAll())
}

func TestForm_IsValid(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("bio", "")
	assert.True(t, form.IsValid(), "rule-less fields never block")

	form.Register("email", "user@example.com", validator.Email())
	assert.False(t, form.IsValid(), "untouched field with rules is not valid yet")

	form.Touch("email")
	field, _ := form.Field("email")
	assert.True(t, field.Touched)
	assert.Empty(t, field.Errors, "touch does not validate")
	assert.True(t, form.IsValid())

	form.SetValue("email", "bad")
	assert.False(t, form.IsValid(), "touched fields revalidate on set")
}

func TestForm_SetValue(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("username", "", validator.Required())

	assert.True(t, form.SetValue("username", ""))
	assert.Empty(t, form.FieldErrors("username"), "untouched fields accumulate silent edits")

	assert.False(t, form.SetValue("missing", "x"))
	assert.Nil(t, form.Value("missing"))
}

func TestForm_Clear(t *testing.T) {
	t.Parallel()

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("username", "x", validator.MinLength(3))
		form.Register("email", "bad", validator.Email())
		require.False(t, form.ValidateAll())

		form.Clear()

		for name, want := range map[string]string{"username": "x", "email": "bad"} {
			field, _ := form.Field(name)
			assert.Equal(t, want, field.Value)
			assert.False(t, field.Touched)
			assert.True(t, field.Valid)
			assert.Empty(t, field.Errors)
		}
		assert.NoError(t, form.Err())
	})

	t.Run("named field only", func(t *testing.T) {
		t.Parallel()

		form := validator.NewForm()
		form.Register("username", "x", validator.MinLength(3))
		form.Register("email", "bad", validator.Email())
		form.ValidateAll()

		form.Clear("username", "unknown")

		assert.False(t, form.HasErrors("username"))
		assert.True(t, form.HasErrors("email"))
	})
}

func TestForm_Reset(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("username", "bob", validator.Required())
	form.Register("email", "bob@example.com", validator.Required(), validator.Email())
	form.SetValue("email", "")
	form.ValidateAll()

	form.Reset(map[string]any{"username": "alice"})

	username, _ := form.Field("username")
	email, _ := form.Field("email")
	assert.Equal(t, "alice", username.Value)
	assert.Equal(t, "", email.Value)
	for _, field := range []*validator.Field{username, email} {
		assert.False(t, field.Touched)
		assert.Empty(t, field.Errors)
		assert.True(t, field.Valid)
	}
}

func TestForm_Register(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("a", 1)
	form.Register("b", 2)
	live := form.Register("a", 3, validator.Required())

	assert.Equal(t, []string{"a", "b"}, form.Names(), "overwrite keeps position")
	assert.Equal(t, 3, form.Value("a"))

	live.Value = 0
	assert.False(t, form.Validate("a"), "returned field is live")
}

func TestForm_Err(t *testing.T) {
	t.Parallel()

	form := validator.NewForm()
	form.Register("username", "", validator.Required())
	form.Register("password", "short", validator.Password(), validator.MinLength(8))

	assert.NoError(t, form.Err())
	form.ValidateAll()

	err := form.Err()
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	errs := validator.ExtractValidationErrors(err)
	require.Len(t, errs, 3)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "validation.required", errs[0].TranslationKey)
	assert.Equal(t, "username", errs[0].TranslationValues["field"])
	assert.Equal(t, "validation.password", errs[1].TranslationKey)
	assert.Equal(t, "validation.min_length", errs[2].TranslationKey)
	assert.Equal(t, 8, errs[2].TranslationValues["min"])
	assert.Len(t, errs.Get("password"), 2)
}

func TestForm_Translator(t *testing.T) {
	t.Parallel()

	translate := func(key string, values map[string]any) string {
		return "T(" + key + ")"
	}

	form := validator.NewForm(validator.WithTranslator(translate))
	form.Register("email", "bad",
		validator.Email(),
		validator.NoSpaces(),
		validator.Custom(func(any) bool { return false }, "custom message"),
		validator.MinLength(10).WithMessage("too short"),
	)

	form.Validate("email")
	assert.Equal(t, []string{
		"T(validation.email)",
		"custom message",
		"too short",
	}, form.FieldErrors("email"))
}
