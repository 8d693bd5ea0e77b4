package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstack-go/websession/core/config"
)

// Each test uses its own config type: the loader caches per type for the
// process lifetime, so sharing a type across tests would share values.

func TestLoad_Defaults(t *testing.T) {
	type defaultsConfig struct {
		Addr    string        `env:"CFGTEST_DEFAULTS_ADDR" envDefault:":8080"`
		Timeout time.Duration `env:"CFGTEST_DEFAULTS_TIMEOUT" envDefault:"30m"`
		Debug   bool          `env:"CFGTEST_DEFAULTS_DEBUG" envDefault:"false"`
	}

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	type envConfig struct {
		Backend string        `env:"CFGTEST_ENV_BACKEND" envDefault:"memory"`
		Sweep   time.Duration `env:"CFGTEST_ENV_SWEEP" envDefault:"1m"`
	}

	t.Setenv("CFGTEST_ENV_BACKEND", "file")
	t.Setenv("CFGTEST_ENV_SWEEP", "5m")

	var cfg envConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Sweep)
}

func TestLoad_CachesPerType(t *testing.T) {
	type cachedConfig struct {
		Value string `env:"CFGTEST_CACHED_VALUE" envDefault:"first"`
	}

	t.Setenv("CFGTEST_CACHED_VALUE", "one")
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	require.Equal(t, "one", first.Value)

	// Changing the environment after the first load has no effect.
	t.Setenv("CFGTEST_CACHED_VALUE", "two")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "one", second.Value)
}

func TestLoad_RequiredMissing(t *testing.T) {
	type requiredConfig struct {
		Secret string `env:"CFGTEST_REQUIRED_SECRET,required"`
	}

	var cfg requiredConfig
	require.Error(t, config.Load(&cfg))
}

func TestLoad_NilPointer(t *testing.T) {
	require.ErrorIs(t, config.Load[struct{}](nil), config.ErrNilConfig)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	type panicConfig struct {
		Secret string `env:"CFGTEST_PANIC_SECRET,required"`
	}

	var cfg panicConfig
	assert.Panics(t, func() {
		config.MustLoad(&cfg)
	})
}

func TestLoad_NestedStructs(t *testing.T) {
	type innerConfig struct {
		Name string `env:"CFGTEST_NESTED_NAME" envDefault:"__session"`
	}
	type outerConfig struct {
		Addr  string `env:"CFGTEST_NESTED_ADDR" envDefault:":9090"`
		Inner innerConfig
	}

	var cfg outerConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "__session", cfg.Inner.Name)
}
