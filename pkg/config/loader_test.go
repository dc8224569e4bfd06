package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/config"
)

type testConfig struct {
	Name    string        `env:"CFG_TEST_NAME,required"`
	Port    int           `env:"CFG_TEST_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
}

func TestLoad(t *testing.T) {
	t.Run("parses env with defaults", func(t *testing.T) {
		t.Setenv("CFG_TEST_NAME", "blogsmith")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		require.Equal(t, "blogsmith", cfg.Name)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("overrides defaults", func(t *testing.T) {
		t.Setenv("CFG_TEST_NAME", "blogsmith")
		t.Setenv("CFG_TEST_PORT", "9000")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		require.Equal(t, 9000, cfg.Port)
	})

	t.Run("fails on missing required var", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		require.ErrorIs(t, err, config.ErrParsing)
	})

	t.Run("rejects nil destination", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})
}
