package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/i18n"
)

func TestWithYAMLDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"en/posts.yaml":    {Data: []byte("status:\n  draft: Draft\n  published: Published\n")},
		"pt_BR/posts.yml":  {Data: []byte("status:\n  draft: Rascunho\n")},
		"en/ignored.txt":   {Data: []byte("not a catalog")},
		"en/comments.json": {Data: []byte(`{"title": "ignored by the yaml loader"}`)},
	}

	inst, err := i18n.New(i18n.WithYAMLDir(fsys))
	require.NoError(t, err)

	assert.Equal(t, "Draft", inst.T("en", "posts", "status.draft"))
	assert.Equal(t, "Rascunho", inst.T("pt-BR", "posts", "status.draft"))
	assert.Equal(t, "Published", inst.T("pt-BR", "posts", "status.published"))
	assert.False(t, inst.Has("en", "comments", "title"))
}

func TestWithJSONDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"en/comments.json": {Data: []byte(`{"title": "Comments", "count": 3}`)},
	}

	inst, err := i18n.New(i18n.WithJSONDir(fsys))
	require.NoError(t, err)

	assert.Equal(t, "Comments", inst.T("en", "comments", "title"))
	assert.Equal(t, "3", inst.T("en", "comments", "count"))
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	t.Run("file outside language directory", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithYAMLDir(fstest.MapFS{
			"messages.yaml": {Data: []byte("a: b\n")},
		}))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithJSONDir(fstest.MapFS{
			"en/messages.json": {Data: []byte("{")},
		}))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	inst, err := i18n.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "pt-BR"}, inst.Languages())

	keys := []string{
		"validation.required", "validation.min_length", "validation.max_length",
		"validation.email", "validation.password", "validation.username",
		"validation.confirm_password", "validation.no_spaces", "validation.invalid",
		"validation.taken", "auth.welcome", "auth.session_expired", "ui.confirm",
		"auth.login_invalid", "auth.register_invalid", "cli.relogin", "cli.cancelled",
	}
	for _, lang := range inst.Languages() {
		for _, key := range keys {
			assert.True(t, inst.Has(lang, i18n.Namespace, key), "%s %s", lang, key)
		}
	}
	assert.Equal(t, "Deve ter pelo menos 3 caracteres",
		inst.T("pt-BR", i18n.Namespace, "validation.min_length", i18n.M{"min": 3}))
}
