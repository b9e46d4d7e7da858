package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	logconfig "github.com/weisyn/batchsig/internal/config/log"
	proverconfig "github.com/weisyn/batchsig/internal/config/prover"
	"github.com/weisyn/batchsig/pkg/interfaces/config"
	"github.com/weisyn/batchsig/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	log    *logconfig.Config
	prover *proverconfig.Config
}

// NewProvider 创建配置提供者
// userConfig 为 nil 时全部使用默认值
func NewProvider(userConfig *types.UserConfig) (config.Provider, error) {
	if userConfig == nil {
		userConfig = &types.UserConfig{}
	}

	prover, err := proverconfig.New(userConfig.Prover)
	if err != nil {
		return nil, fmt.Errorf("invalid prover config: %w", err)
	}

	return &Provider{
		log:    logconfig.New(userConfig.Log),
		prover: prover,
	}, nil
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.LogOptions {
	return p.log.GetOptions()
}

// GetProver 获取证明配置
func (p *Provider) GetProver() *proverconfig.ProverOptions {
	return p.prover.GetOptions()
}

// LoadFile 读取 TOML 配置文件
// 文件中未出现的字段保持为 nil
func LoadFile(path string) (*types.UserConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	userConfig := &types.UserConfig{}
	if _, err := toml.DecodeReader(f, userConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return userConfig, nil
}

// LoadBytes 解析 TOML 配置内容
func LoadBytes(data []byte) (*types.UserConfig, error) {
	userConfig := &types.UserConfig{}
	if _, err := toml.Decode(string(data), userConfig); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return userConfig, nil
}
