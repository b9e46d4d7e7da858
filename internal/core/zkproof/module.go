package zkproof

import (
	"go.uber.org/fx"

	"github.com/weisyn/batchsig/internal/core/infrastructure/metrics"
	"github.com/weisyn/batchsig/pkg/interfaces/config"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
)

// ModuleInput 证明模块输入依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger
	Store    storage.BadgerStore    `optional:"true"`
	Bus      event.EventBus         `optional:"true"`
	Metrics  *metrics.ProverMetrics `optional:"true"`
}

// Module 返回证明模块
func Module() fx.Option {
	return fx.Module("zkproof",
		fx.Provide(ProvideOrchestrator),
	)
}

// ProvideOrchestrator 根据配置创建证明编排器
func ProvideOrchestrator(input ModuleInput) (*Orchestrator, error) {
	opts := input.Provider.GetProver()
	return New(Options{
		Curve:              opts.Curve,
		MaxInputBytes:      opts.MaxInputBytes,
		SilenceBackendLogs: opts.SilenceBackendLogs,
	}, Dependencies{
		Logger:  input.Logger.With("module", "zkproof"),
		Store:   input.Store,
		Bus:     input.Bus,
		Metrics: input.Metrics,
	})
}
