package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// Server 指标 HTTP 服务
type Server struct {
	addr     string
	registry *prometheus.Registry
	logger   log.Logger

	listener net.Listener
	server   *http.Server
}

// NewServer 创建指标 HTTP 服务；addr 为空时 Start 为空操作
func NewServer(addr string, registry *prometheus.Registry, logger log.Logger) *Server {
	return &Server{addr: addr, registry: registry, logger: logger}
}

// Start 启动指标 HTTP 服务
func (s *Server) Start(ctx context.Context) error {
	if s.addr == "" {
		return nil
	}

	// 先创建 listener，避免 Serve 在 goroutine 中失败却仍输出"已启动"日志
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen metrics addr %s: %w", s.addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("metrics server error: %v", err)
		}
	}()

	s.logger.Infof("metrics server started on %s", listener.Addr())
	return nil
}

// Addr 返回实际监听地址；未启动时返回配置的地址
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop 停止指标 HTTP 服务
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	s.server = nil
	return nil
}
