// Package config 提供应用配置管理功能
package config

import (
	"go.uber.org/fx"

	"github.com/weisyn/batchsig/pkg/interfaces/config"
	"github.com/weisyn/batchsig/pkg/types"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 用户配置（配置文件 + 命令行覆盖）
	UserConfig *types.UserConfig `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(ProvideConfigServices),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	provider, err := NewProvider(params.UserConfig)
	if err != nil {
		return ConfigOutput{}, err
	}
	return ConfigOutput{Provider: provider}, nil
}
