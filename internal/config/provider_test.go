package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/configs"
	"github.com/weisyn/batchsig/pkg/types"
)

// TestNewProvider_Defaults 测试未提供用户配置时使用默认值
func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", provider.GetLog().Level)
	assert.True(t, provider.GetLog().ToConsole)
	assert.Equal(t, types.BackendGroth16, provider.GetProver().DefaultBackend)
	assert.Equal(t, "bn254", provider.GetProver().Curve)
}

// TestLoadFile 测试从 TOML 文件加载配置
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchsig.toml")
	content := `
[log]
level = "debug"

[prover]
default_backend = "plonk"
in_memory_cache = true
max_input_bytes = 4096
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	userConfig, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, userConfig.Log)
	require.NotNil(t, userConfig.Prover)
	assert.Nil(t, userConfig.Log.FilePath, "未出现的字段应保持为 nil")

	provider, err := NewProvider(userConfig)
	require.NoError(t, err)
	assert.Equal(t, "debug", provider.GetLog().Level)
	assert.Equal(t, types.BackendPlonk, provider.GetProver().DefaultBackend)
	assert.True(t, provider.GetProver().InMemoryCache)
	assert.Equal(t, int64(4096), provider.GetProver().MaxInputBytes)
}

// TestLoadFile_Errors 测试配置文件错误
func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[prover\n"), 0600))
	_, err = LoadFile(path)
	require.Error(t, err)

	bad := &types.UserConfig{Prover: &types.UserProverConfig{DefaultBackend: types.StringPtr("stark")}}
	_, err = NewProvider(bad)
	require.Error(t, err)
}

// TestLoadBytes_EmbeddedConfig 测试嵌入的示例配置可以解析
func TestLoadBytes_EmbeddedConfig(t *testing.T) {
	userConfig, err := LoadBytes(configs.GetDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, userConfig.Prover)
	assert.Nil(t, userConfig.Log.FilePath)

	provider, err := NewProvider(userConfig)
	require.NoError(t, err)
	assert.Equal(t, types.BackendGroth16, provider.GetProver().DefaultBackend)
	assert.Equal(t, int64(64<<20), provider.GetProver().MaxInputBytes)
	assert.True(t, provider.GetProver().SilenceBackendLogs)
	assert.NotContains(t, provider.GetProver().CacheDir, "~")
}
