package prover

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/pkg/types"
)

// TestNew_Defaults 测试默认配置
func TestNew_Defaults(t *testing.T) {
	cfg, err := New(nil)
	require.NoError(t, err)

	require.Equal(t, types.BackendGroth16, cfg.GetDefaultBackend())
	require.Equal(t, "bn254", cfg.GetCurve())
	require.Equal(t, int64(64<<20), cfg.GetMaxInputBytes())
	require.False(t, cfg.IsInMemoryCache())
	require.True(t, cfg.IsBackendLogSilenced())

	home, err := homedir.Dir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".batchsig", "keys"), cfg.GetCacheDir())
}

// TestNew_UserOverrides 测试用户配置覆盖默认值
func TestNew_UserOverrides(t *testing.T) {
	backend := "plonk"
	dir := t.TempDir()
	inMemory := true
	maxInput := int64(1024)

	cfg, err := New(&types.UserProverConfig{
		DefaultBackend: &backend,
		CacheDir:       &dir,
		InMemoryCache:  &inMemory,
		MaxInputBytes:  &maxInput,
	})
	require.NoError(t, err)
	require.Equal(t, types.BackendPlonk, cfg.GetDefaultBackend())
	require.Equal(t, dir, cfg.GetCacheDir())
	require.True(t, cfg.IsInMemoryCache())
	require.Equal(t, maxInput, cfg.GetMaxInputBytes())
}

// TestNew_InvalidValues 测试非法配置值
func TestNew_InvalidValues(t *testing.T) {
	bad := "stark"
	_, err := New(&types.UserProverConfig{DefaultBackend: &bad})
	require.Error(t, err)

	curve := "bls12-381"
	_, err = New(&types.UserProverConfig{Curve: &curve})
	require.Error(t, err)

	zero := int64(0)
	_, err = New(&types.UserProverConfig{MaxInputBytes: &zero})
	require.Error(t, err)
}
