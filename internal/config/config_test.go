package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/orion-graphql/internal/domain"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := resolve(env(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolve_Precedence(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--seed=false"}))

	cfg, err := resolve(env(map[string]string{
		"PORT":            "9090",
		"LOG_LEVEL":       "warn",
		"LOG_FORMAT":      "console",
		"DATALOADER_WAIT": "5ms",
	}), flags)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel, "flag wins over env")
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.SeedEnabled)
	assert.Equal(t, 5*time.Millisecond, cfg.DataloaderWait)
}

func TestResolve_HTTPAddrOverridesPort(t *testing.T) {
	cfg, err := resolve(env(map[string]string{"PORT": "9090", "HTTP_ADDR": "127.0.0.1:7000"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := resolve(env(map[string]string{"LOG_FORMAT": "xml"}), nil)
	assert.True(t, domain.IsValidation(err))

	_, err = resolve(env(map[string]string{"SEED_ENABLED": "maybe"}), nil)
	require.Error(t, err)

	_, err = resolve(env(map[string]string{"WS_KEEPALIVE": "soon"}), nil)
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CORS_ORIGIN=https://example.com\n"), 0o600))
	t.Setenv("CORS_ORIGIN", "")
	require.NoError(t, os.Unsetenv("CORS_ORIGIN"))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--env-file=" + path}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.CORSOrigin)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--env-file=" + filepath.Join(t.TempDir(), "absent.env")}))

	_, err := Load(flags)
	require.NoError(t, err)
}
