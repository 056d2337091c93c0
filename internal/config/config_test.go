package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSkipAndNoiseDirs(t *testing.T) {
	cfg := Default("/repo")
	require.Contains(t, cfg.Scan.SkipDirs, ".git")
	require.Contains(t, cfg.Scan.SkipDirs, "node_modules")
	require.Contains(t, cfg.Scan.NoiseDirs, "src")
	require.Contains(t, cfg.Scan.NoiseDirs, "Source")
	require.Empty(t, cfg.Scan.Extensions)
}

func TestLoadKDLMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.Equal(t, defaultSkipDirs(), cfg.Scan.SkipDirs)
}
