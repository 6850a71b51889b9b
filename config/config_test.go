package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(env(map[string]string{
		EnvPort:            "8080",
		EnvLocale:          " fr-CA ",
		EnvIntegerDivision: "true",
		EnvRateLimit:       "5",
		EnvLogLevel:        "",
		EnvTrustedProxies:  "10.0.0.0/8, 192.0.2.1",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	prefixes, err := cfg.ProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
	}, prefixes)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "fr-CA", cfg.Locale)
	assert.True(t, cfg.IntegerDivision)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnv_Invalid(t *testing.T) {
	assert.Error(t, Default().applyEnv(env(map[string]string{EnvIntegerDivision: "maybe"})))
	assert.Error(t, Default().applyEnv(env(map[string]string{EnvRateLimit: "lots"})))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "9000"
locale = "de"
timezone = "UTC"
integer_division = true
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "de", cfg.Locale)
	assert.True(t, cfg.IntegerDivision)
	assert.Equal(t, "info", cfg.LogLevel)

	require.NoError(t, os.WriteFile(path, []byte(`colour = "blue"`), 0o600))
	assert.Error(t, Default().LoadFile(path))
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "filters.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = "9000"`+"\n"+`locale = "fr"`), 0o600))

	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvPort, "7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "fr", cfg.Locale)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Locale = "not a locale!"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.TrustedProxies = []string{"proxy.local"}
	assert.Error(t, cfg.Validate())
}

func TestFilterContext(t *testing.T) {
	cfg := Default()
	cfg.Locale = "fr"
	cfg.IntegerDivision = true

	ctx, err := cfg.FilterContext()
	require.NoError(t, err)
	assert.Equal(t, language.French, ctx.Locale)
	assert.Equal(t, time.UTC, ctx.Location)
	assert.True(t, ctx.IntegerDivision)
	assert.NotNil(t, ctx.Now)
}

func TestIsProduction(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.IsProduction())
	cfg.Env = "Prod"
	assert.True(t, cfg.IsProduction())
}
