package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies-vagas.json")
	body := `[
  {"name":"sid","value":"abc","domain":".vagas.com.br","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
  {"name":"pref","value":"pt-BR","domain":"www.vagas.com.br","sameSite":"no_restriction"}
]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "sid", first.Name)
	assert.Equal(t, ".vagas.com.br", *first.Domain)
	assert.Equal(t, 1893456000.0, *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeNone, second.SameSite)
}

func TestLoadCookies_EmptyPath(t *testing.T) {
	cookies, err := LoadCookies("")
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadCookies(bad)
	assert.Error(t, err)
}
