package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_Defaults(t *testing.T) {
	t.Parallel()

	p, err := NewProvider("")
	require.NoError(t, err)

	cfg := p.GetConfig()
	require.Equal(t, 1536, cfg.VectorDim)
	require.Equal(t, 30, cfg.ProbeIntervalSeconds)
	require.InDelta(t, 0.4, cfg.SkillThresholdDefault, 1e-9)
	require.InDelta(t, 0.3, cfg.ToolThresholdDefault, 1e-9)
	require.Equal(t, 5, cfg.SyncConcurrency)
	require.Equal(t, 100, cfg.SyncQueueDepth)
	require.InDelta(t, 10.0, cfg.EmbeddingRateLimitPerSecond, 1e-9)
	require.Equal(t, 5, cfg.EmbeddingRateLimitBurst)
}

func TestNewProvider_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vector_dim: 768\nskill_threshold_default: 0.5\n"), 0o600))

	p, err := NewProvider(path)
	require.NoError(t, err)

	cfg := p.GetConfig()
	require.Equal(t, 768, cfg.VectorDim)
	require.InDelta(t, 0.5, cfg.SkillThresholdDefault, 1e-9)
}

func TestNewProvider_EnvOverride(t *testing.T) {
	t.Setenv("GATEWAY_VECTOR_DIM", "42")

	p, err := NewProvider("")
	require.NoError(t, err)

	require.Equal(t, 42, p.GetConfig().VectorDim)
}

func TestReload(t *testing.T) {
	t.Parallel()

	p, err := NewProvider("")
	require.NoError(t, err)

	require.NoError(t, p.Reload())
	require.NotNil(t, p.GetConfig())
}
