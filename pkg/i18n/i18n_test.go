package i18n_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/i18n"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates instance with defaults", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New()
		require.NoError(t, err)
		require.Equal(t, "en", inst.DefaultLanguage())
		require.Equal(t, []string{"en"}, inst.Languages())
	})

	t.Run("normalizes default language", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New(i18n.WithDefaultLanguage("pt_br"))
		require.NoError(t, err)
		require.Equal(t, "pt-BR", inst.DefaultLanguage())
	})

	t.Run("returns error for empty default language", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithDefaultLanguage(""))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})

	t.Run("returns error for invalid language", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithLanguages("en", "not a tag!"))
		require.ErrorIs(t, err, i18n.ErrInvalidLanguage)
	})

	t.Run("returns error for empty namespace in translations", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithTranslations("en", "", map[string]any{"hello": "Hello"}))
		require.ErrorIs(t, err, i18n.ErrEmptyNamespace)
	})

	t.Run("places default language first", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New(
			i18n.WithDefaultLanguage("en"),
			i18n.WithLanguages("pt-BR", "de", "en", ""),
		)
		require.NoError(t, err)
		require.Equal(t, []string{"en", "de", "pt-BR"}, inst.Languages())
	})
}

func TestT(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		missing []string
	)
	inst, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithTranslations("en", "messages", map[string]any{
			"hello":  "Hello",
			"greet":  "Hello, {{name}}!",
			"nested": map[string]any{"deep": map[string]any{"key": "Deep"}},
			"only":   "English only",
		}),
		i18n.WithTranslations("pt", "messages", map[string]any{
			"hello": "Olá",
		}),
		i18n.WithTranslations("pt-BR", "messages", map[string]any{
			"greet": "Olá, {{name}}!",
		}),
		i18n.WithMissingKeyHandler(func(lang, namespace, key string) {
			mu.Lock()
			defer mu.Unlock()
			missing = append(missing, lang+":"+namespace+":"+key)
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Hello", inst.T("en", "messages", "hello"))
	assert.Equal(t, "Deep", inst.T("en", "messages", "nested.deep.key"))
	assert.Equal(t, "Olá, Ana!", inst.T("pt-BR", "messages", "greet", i18n.M{"name": "Ana"}))
	assert.Equal(t, "Olá", inst.T("pt-BR", "messages", "hello"), "falls back to base language")
	assert.Equal(t, "English only", inst.T("pt-BR", "messages", "only"), "falls back to default language")
	assert.Equal(t, "Hello, {{name}}!", inst.T("en", "messages", "greet"), "keeps unknown placeholders")
	assert.True(t, inst.Has("pt-BR", "messages", "only"))
	assert.False(t, inst.Has("en", "messages", "absent"))

	assert.Equal(t, "absent", inst.T("de", "messages", "absent"))
	mu.Lock()
	assert.Equal(t, []string{"de:messages:absent"}, missing)
	mu.Unlock()
}

func TestT_Concurrent(t *testing.T) {
	t.Parallel()

	inst, err := i18n.Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "Este campo é obrigatório", inst.T("pt-BR", i18n.Namespace, "validation.required"))
		}()
	}
	wg.Wait()
}

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Must be at least 3 characters",
		i18n.ReplacePlaceholders("Must be at least {{min}} characters", i18n.M{"min": 3}))
	assert.Equal(t, "no placeholders", i18n.ReplacePlaceholders("no placeholders", i18n.M{"x": 1}))
	assert.Equal(t, "{{x}}", i18n.ReplacePlaceholders("{{x}}", nil))
}
