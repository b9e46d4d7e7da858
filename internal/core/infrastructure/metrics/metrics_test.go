package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

type nopLogger struct{}

func (nopLogger) Debug(string)                   {}
func (nopLogger) Debugf(string, ...interface{})  {}
func (nopLogger) Info(string)                    {}
func (nopLogger) Infof(string, ...interface{})   {}
func (nopLogger) Warn(string)                    {}
func (nopLogger) Warnf(string, ...interface{})   {}
func (nopLogger) Error(string)                   {}
func (nopLogger) Errorf(string, ...interface{})  {}
func (nopLogger) Fatal(string)                   {}
func (nopLogger) Fatalf(string, ...interface{})  {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

// TestProverMetrics_Counters 测试运行结果计数
func TestProverMetrics_Counters(t *testing.T) {
	m := NewProverMetrics()

	m.ObserveProve("groth16", time.Second, 20, nil)
	m.ObserveProve("groth16", time.Second, 0, errors.New("boom"))
	m.ObserveVerify("groth16", time.Millisecond, true)
	m.ObserveVerify("plonk", time.Millisecond, false)
	m.ObserveVerifyError("plonk")

	require.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("groth16", ResultProofReady)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("groth16", ResultProvingFailed)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("groth16", ResultVerified)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("plonk", ResultRejected)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues("plonk", ResultError)))
	require.Equal(t, float64(20), testutil.ToFloat64(m.verifiedSignaturesTotal))
}

// TestServer_ServesMetrics 测试指标 HTTP 端点
func TestServer_ServesMetrics(t *testing.T) {
	m := NewProverMetrics()
	m.ObserveSetup(2 * time.Second)

	server := NewServer("127.0.0.1:0", m.Registry(), nopLogger{})
	require.NoError(t, server.Start(context.Background()))
	defer server.Stop(context.Background())

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "batchsig_zkproof_setup_seconds"))
}

// TestServer_Disabled 测试未配置地址时不启动
func TestServer_Disabled(t *testing.T) {
	server := NewServer("", NewProverMetrics().Registry(), nopLogger{})
	require.NoError(t, server.Start(context.Background()))
	require.NoError(t, server.Stop(context.Background()))
}
