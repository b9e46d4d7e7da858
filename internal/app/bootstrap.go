package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	config "github.com/weisyn/batchsig/internal/config"
	"github.com/weisyn/batchsig/internal/core/infrastructure/event"
	log "github.com/weisyn/batchsig/internal/core/infrastructure/log"
	"github.com/weisyn/batchsig/internal/core/infrastructure/metrics"
	"github.com/weisyn/batchsig/internal/core/infrastructure/storage"
	"github.com/weisyn/batchsig/internal/core/zkproof"
	eventInterface "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
	logInterface "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App

	// 由 fx.Populate 填充
	orchestrator *zkproof.Orchestrator
	logger       logInterface.Logger
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Supply(b.opts.userConfig),
		fx.Supply(b.opts.metricsServerAddr()),

		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		event.Module(),   // 3. 事件(依赖日志)
		metrics.Module(), // 4. 指标(依赖日志)
		storage.Module(), // 5. 密钥缓存(依赖配置和日志)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		zkproof.Module(), // 证明编排(依赖全部基础设施)
	}
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupBusinessLayer()...)

	b.fxApp = fx.New(
		fx.Options(modules...),

		// 禁用fx内部日志
		fx.NopLogger,

		fx.Populate(&b.orchestrator, &b.logger),

		fx.Invoke(func(lifecycle fx.Lifecycle, bus eventInterface.EventBus, logger logInterface.Logger) {
			lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					bus.Publish(event.SystemStarted)
					logger.Debug("应用已启动")
					return nil
				},
				OnStop: func(ctx context.Context) error {
					bus.Publish(event.SystemStopped)
					logger.Debug("应用正在停止")
					return nil
				},
			})
		}),
	)
	return b.fxApp.Err()
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	return nil
}
