package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zasdfgbnm/fibheap/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Defaults.Workers, cfg.Workers)
	require.Equal(t, config.Defaults.Iterations, cfg.Iterations)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FIBHEAP_WORKERS", "3")
	t.Setenv("FIBHEAP_STATS_ADDR", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
}
