// Package config provides configuration provider interfaces.
package config

import (
	logconfig "github.com/weisyn/batchsig/internal/config/log"
	proverconfig "github.com/weisyn/batchsig/internal/config/prover"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetProver 获取证明配置
	GetProver() *proverconfig.ProverOptions
}
