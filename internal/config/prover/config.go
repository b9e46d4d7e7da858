// Package prover 提供证明编排器的配置
package prover

import (
	"fmt"

	"github.com/mitchellh/go-homedir"

	"github.com/weisyn/batchsig/pkg/types"
)

// ProverOptions 证明配置选项
type ProverOptions struct {
	// === 证明方案配置 ===
	DefaultBackend types.ProofBackend `toml:"default_backend"` // 默认证明后端 (groth16, plonk)
	Curve          string             `toml:"curve"`           // 椭圆曲线 (bn254)

	// === 密钥缓存配置 ===
	CacheDir      string `toml:"cache_dir"`       // 密钥缓存目录（已展开 ~）
	InMemoryCache bool   `toml:"in_memory_cache"` // 只在内存中缓存密钥

	// === 执行环境配置 ===
	MaxInputBytes int64 `toml:"max_input_bytes"` // 程序输入上限

	// === 调试配置 ===
	SilenceBackendLogs bool `toml:"silence_backend_logs"` // 屏蔽 gnark 日志
}

// Config 证明配置实现
type Config struct {
	options *ProverOptions
}

// New 创建证明配置实现
func New(userConfig *types.UserProverConfig) (*Config, error) {
	options := createDefaultProverOptions()

	if userConfig != nil {
		if err := applyUserProverConfig(options, userConfig); err != nil {
			return nil, err
		}
	}

	dir, err := homedir.Expand(options.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("expand cache dir %q: %w", options.CacheDir, err)
	}
	options.CacheDir = dir

	return &Config{options: options}, nil
}

// NewFromOptions 直接使用给定的选项
func NewFromOptions(options *ProverOptions) *Config {
	if options == nil {
		options = createDefaultProverOptions()
	}
	return &Config{options: options}
}

// createDefaultProverOptions 创建默认证明配置
func createDefaultProverOptions() *ProverOptions {
	return &ProverOptions{
		DefaultBackend:     defaultBackend,
		Curve:              defaultCurve,
		CacheDir:           defaultCacheDir,
		InMemoryCache:      defaultInMemoryCache,
		MaxInputBytes:      defaultMaxInputBytes,
		SilenceBackendLogs: defaultSilenceBackendLogs,
	}
}

// applyUserProverConfig 应用用户配置覆盖默认值
func applyUserProverConfig(options *ProverOptions, c *types.UserProverConfig) error {
	if c.DefaultBackend != nil {
		backend, err := types.ParseProofBackend(*c.DefaultBackend)
		if err != nil {
			return fmt.Errorf("prover.default_backend: %w", err)
		}
		options.DefaultBackend = backend
	}
	if c.Curve != nil {
		if *c.Curve != defaultCurve {
			return fmt.Errorf("prover.curve: unsupported curve %q", *c.Curve)
		}
		options.Curve = *c.Curve
	}
	if c.CacheDir != nil {
		options.CacheDir = *c.CacheDir
	}
	if c.InMemoryCache != nil {
		options.InMemoryCache = *c.InMemoryCache
	}
	if c.MaxInputBytes != nil {
		if *c.MaxInputBytes <= 0 {
			return fmt.Errorf("prover.max_input_bytes: must be positive, got %d", *c.MaxInputBytes)
		}
		options.MaxInputBytes = *c.MaxInputBytes
	}
	if c.SilenceBackendLogs != nil {
		options.SilenceBackendLogs = *c.SilenceBackendLogs
	}
	return nil
}

// GetOptions 获取完整的证明配置选项
func (c *Config) GetOptions() *ProverOptions {
	return c.options
}

// GetDefaultBackend 获取默认证明后端
func (c *Config) GetDefaultBackend() types.ProofBackend {
	return c.options.DefaultBackend
}

// GetCurve 获取椭圆曲线名称
func (c *Config) GetCurve() string {
	return c.options.Curve
}

// GetCacheDir 获取密钥缓存目录
func (c *Config) GetCacheDir() string {
	return c.options.CacheDir
}

// IsInMemoryCache 是否只在内存中缓存密钥
func (c *Config) IsInMemoryCache() bool {
	return c.options.InMemoryCache
}

// GetMaxInputBytes 获取程序输入上限
func (c *Config) GetMaxInputBytes() int64 {
	return c.options.MaxInputBytes
}

// IsBackendLogSilenced 是否屏蔽 gnark 日志
func (c *Config) IsBackendLogSilenced() bool {
	return c.options.SilenceBackendLogs
}
