// Package storage 提供存储管理功能
package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	badgerconfig "github.com/weisyn/batchsig/internal/config/storage/badger"
	"github.com/weisyn/batchsig/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/batchsig/pkg/interfaces/config"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
	Logger    log.Logger      // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	BadgerStore storageInterface.BadgerStore // 证明密钥缓存
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 打开密钥缓存，并在应用停止时关闭
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	opts := params.Provider.GetProver()
	logger := params.Logger.With("module", "store")

	store, err := badger.New(badgerconfig.New(opts.CacheDir, opts.InMemoryCache), logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("open key cache: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return ModuleOutput{BadgerStore: store}, nil
}
