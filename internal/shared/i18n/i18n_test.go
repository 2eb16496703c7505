package i18n

import (
	"idiomlint/internal/engine/check"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.Supports("en"))
	assert.True(t, c.Supports("de"))
	assert.False(t, c.Supports("fr"))
}

func TestTranslate(t *testing.T) {
	c := Default()
	msg := check.Message{Key: "use-different-visibility", Params: map[string]string{"name": "count", "suggestion": "private"}}

	tests := []struct {
		name string
		lang string
		msg  check.Message
		want string
	}{
		{"english", "en", msg, "Field 'count' can be made private."},
		{"german", "de", msg, "Das Feld 'count' kann private sein."},
		{"unknown language falls back", "fr", msg, "Field 'count' can be made private."},
		{"unknown key is rendered as is", "en", check.Message{Key: "no-such-key"}, "no-such-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Translate(tt.lang, tt.msg))
		})
	}
}

func TestTranslate_MissingKeyInLanguage(t *testing.T) {
	c := &Catalog{}
	c.Add("en", map[string]string{"k": "english {x}"})
	c.Add("de", map[string]string{"other": "x"})
	assert.Equal(t, "english 1", c.Translate("de", check.Message{Key: "k", Params: map[string]string{"x": "1"}}))
}

func TestExpand(t *testing.T) {
	params := map[string]string{"a": "1", "b": "{a}"}
	assert.Equal(t, "1 and {a}", expand("{a} and {b}", params))
	assert.Equal(t, "keep {unknown}", expand("keep {unknown}", params))
	assert.Equal(t, "open { brace", expand("open { brace", params))
	assert.Equal(t, "", expand("", nil))
}
