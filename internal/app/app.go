// Package app 装配批量签名证明应用
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/weisyn/batchsig/internal/core/zkproof"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// 启动与停止超时
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

// App 应用对外接口
type App interface {
	// Orchestrator 证明编排器
	Orchestrator() *zkproof.Orchestrator

	// Logger 应用日志器
	Logger() log.Logger

	// Stop 停止应用并释放密钥缓存
	Stop() error
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Orchestrator 证明编排器
func (a *internalApp) Orchestrator() *zkproof.Orchestrator {
	return a.bootstrap.orchestrator
}

// Logger 应用日志器
func (a *internalApp) Logger() log.Logger {
	return a.bootstrap.logger
}

// Stop 停止应用
//
// 依次停止 fx 生命周期（关闭密钥缓存与指标服务）并刷新日志。
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	var result *multierror.Error
	if err := a.bootstrap.StopApp(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := a.bootstrap.logger.Sync(); err != nil && !isStdSyncError(err) {
		result = multierror.Append(result, fmt.Errorf("sync logger: %w", err))
	}
	return result.ErrorOrNil()
}

// isStdSyncError 标准输出不支持 fsync 时的错误
func isStdSyncError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr.Err, syscall.EINVAL) || errors.Is(pathErr.Err, syscall.ENOTTY)
	}
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}

// Start 装配并启动应用
func Start(opts ...Option) (App, error) {
	bootstrap := NewBootstrap(newOptions(opts...))
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("create app: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
