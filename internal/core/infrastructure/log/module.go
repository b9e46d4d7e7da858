// Package log 提供日志管理功能
package log

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	logconfig "github.com/weisyn/batchsig/internal/config/log"
	"github.com/weisyn/batchsig/pkg/interfaces/config"
	logInterface "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider // 配置提供者
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger // 日志记录器接口
	ZapLogger *zap.Logger         // zap.Logger 具体类型（供需要 zap 特性的模块使用）
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供日志服务
// 根据配置初始化日志记录器并返回
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.NewFromOptions(params.Provider.GetLog()))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("create logger from config: %w", err)
	}

	// 设置为全局记录器，替换掉init()时用默认配置创建的日志器
	SetLogger(logger)

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}

// NewModuleLogger 创建带 module 字段的 logger
//
// 参数：
//   - baseLogger: 基础 logger
//   - module: 模块名称（如 "zkproof", "zkvm", "store", "cli"）
func NewModuleLogger(baseLogger logInterface.Logger, module string) logInterface.Logger {
	if baseLogger == nil {
		return nil
	}
	return baseLogger.With("module", module)
}
