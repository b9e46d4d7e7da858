package app

import (
	"github.com/weisyn/batchsig/internal/core/infrastructure/metrics"
	"github.com/weisyn/batchsig/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 用户配置（配置文件 + 命令行覆盖）
	userConfig *types.UserConfig

	// 指标服务监听地址，为空时不启动
	metricsAddr string
}

// WithUserConfig 设置用户配置
func WithUserConfig(userConfig *types.UserConfig) Option {
	return func(o *options) {
		o.userConfig = userConfig
	}
}

// WithMetricsAddr 设置指标服务监听地址
func WithMetricsAddr(addr string) Option {
	return func(o *options) {
		o.metricsAddr = addr
	}
}

// newOptions 创建应用程序选项
func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.userConfig == nil {
		o.userConfig = &types.UserConfig{}
	}
	return o
}

// metricsServerAddr 转换为 metrics 模块的注入类型
func (o *options) metricsServerAddr() metrics.ServerAddr {
	return metrics.ServerAddr(o.metricsAddr)
}
