package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfiguration(t *testing.T) {
	t.Run("defaults_are_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port, "App port should default")
		require.NotEmpty(t, C.Database.Vendor, "Database vendor should default")
		require.Equal(t, 6, C.Widget.UserMessageTTLSeconds)
		require.Contains(t, C.Widget.LoggableMethods, "save_subtitles")
		require.NotEmpty(t, C.Widget.BrowserIDCookie)
		require.Positive(t, C.SyncRuleCache.TTLSeconds)
	})

	t.Run("youtube_redirect_has_default", func(t *testing.T) {
		require.NotEmpty(t, C.YouTube.RedirectURI)
		oauthCfg := YouTubeOAuthConfig(C.YouTube)
		require.Equal(t, C.YouTube.RedirectURI, oauthCfg.RedirectURL)
		require.NotEmpty(t, oauthCfg.Scopes)
	})
}

func TestFillDb(t *testing.T) {
	t.Setenv("TESTDB_HOST", "db.internal")
	t.Setenv("TESTDB_NAME", "widget")

	db := Db{Name: "configured"}
	fillDb(&db, "TESTDB")

	require.Equal(t, "configured", db.Name, "config file value wins over env")
	require.Equal(t, "db.internal", db.Host)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_VALUE", "")
	require.Equal(t, "fallback", getConfigValue("YOUR_CLIENT_ID", "TEST_CONFIG_VALUE", "fallback"))
	require.Equal(t, "configured", getConfigValue("configured", "TEST_CONFIG_VALUE", "fallback"))

	t.Setenv("TEST_CONFIG_VALUE", "from-env")
	require.Equal(t, "from-env", getConfigValue("configured", "TEST_CONFIG_VALUE", "fallback"))
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	content := "# comment\n\nWIDGET_TEST_A=one\nexport WIDGET_TEST_B=\"two\"\nWIDGET_TEST_C='three'\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WIDGET_TEST_C", "preset")
	os.Unsetenv("WIDGET_TEST_A")
	os.Unsetenv("WIDGET_TEST_B")
	t.Cleanup(func() {
		os.Unsetenv("WIDGET_TEST_A")
		os.Unsetenv("WIDGET_TEST_B")
	})

	loaded := LoadEnvFromFile(filepath.Join(dir, "missing.env"), path)

	require.Equal(t, 2, loaded)
	require.Equal(t, "one", os.Getenv("WIDGET_TEST_A"))
	require.Equal(t, "two", os.Getenv("WIDGET_TEST_B"))
	require.Equal(t, "preset", os.Getenv("WIDGET_TEST_C"))
}

func TestToHTTPSCallback(t *testing.T) {
	require.Equal(t, "https://localhost:10001/cb", toHTTPSCallback("http://localhost:10001/cb"))
	require.Equal(t, "https://x/cb", toHTTPSCallback("https://x/cb"))
	require.True(t, hasHTTPS("https://x"))
	require.False(t, parseBool("nope", false))
	require.True(t, parseBool("TRUE", false))
}
