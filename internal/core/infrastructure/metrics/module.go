// Package metrics 提供统一的指标收集机制
package metrics

import (
	"go.uber.org/fx"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// ServerAddr 指标 HTTP 服务监听地址，为空时不启动
type ServerAddr string

// ServerInput 定义指标服务的输入依赖
type ServerInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *ProverMetrics
	Logger    log.Logger
	Addr      ServerAddr `optional:"true"`
}

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - ProverMetrics: 证明流程指标
// - Server: 指标 HTTP 服务（由生命周期启动和停止）
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(NewProverMetrics),
		fx.Provide(newLifecycleServer),
		fx.Invoke(func(*Server) {}),
	)
}

// newLifecycleServer 创建指标服务并挂到应用生命周期
func newLifecycleServer(input ServerInput) *Server {
	server := NewServer(string(input.Addr), input.Metrics.Registry(), input.Logger.With("module", "metrics"))
	input.Lifecycle.Append(fx.Hook{
		OnStart: server.Start,
		OnStop:  server.Stop,
	})
	return server
}
