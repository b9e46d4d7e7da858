// Package metrics 提供证明流程的 Prometheus 监控指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// 运行结果标签取值
const (
	ResultProofReady    = "proof_ready"
	ResultProvingFailed = "proving_failed"
	ResultVerified      = "verified"
	ResultRejected      = "rejected"
	ResultError         = "error"
)

// ============================================================================
//                          Prometheus 监控指标
// ============================================================================

// ProverMetrics 证明流程指标
//
// 指标注册在独立的 Registry 上，不污染全局默认注册表。
type ProverMetrics struct {
	registry *prometheus.Registry

	// setupDuration 密钥生成耗时（直方图）
	setupDuration prometheus.Histogram

	// proveDuration 证明生成耗时（按后端分类）
	proveDuration *prometheus.HistogramVec

	// verifyDuration 证明验证耗时（按后端分类）
	verifyDuration *prometheus.HistogramVec

	// runsTotal 运行次数（按后端和结果分类）
	runsTotal *prometheus.CounterVec

	// verifiedSignaturesTotal 已在证明中验证过的签名总数
	verifiedSignaturesTotal prometheus.Counter
}

// NewProverMetrics 创建并注册证明流程指标
func NewProverMetrics() *ProverMetrics {
	m := &ProverMetrics{
		registry: prometheus.NewRegistry(),
		setupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "batchsig",
			Subsystem: "zkproof",
			Name:      "setup_seconds",
			Help:      "Duration of key setup in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms ~ 82s
		}),
		proveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "batchsig",
			Subsystem: "zkproof",
			Name:      "prove_seconds",
			Help:      "Duration of proof generation in seconds by backend",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"backend"}),
		verifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "batchsig",
			Subsystem: "zkproof",
			Name:      "verify_seconds",
			Help:      "Duration of proof verification in seconds by backend",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms ~ 2s
		}, []string{"backend"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "batchsig",
			Subsystem: "zkproof",
			Name:      "runs_total",
			Help:      "Total number of proving and verification runs by backend and result",
		}, []string{"backend", "result"}),
		verifiedSignaturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "batchsig",
			Subsystem: "zkproof",
			Name:      "verified_signatures_total",
			Help:      "Total number of signatures covered by generated proofs",
		}),
	}

	m.registry.MustRegister(
		m.setupDuration,
		m.proveDuration,
		m.verifyDuration,
		m.runsTotal,
		m.verifiedSignaturesTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry 返回指标注册表
func (m *ProverMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSetup 记录密钥生成耗时
func (m *ProverMetrics) ObserveSetup(d time.Duration) {
	m.setupDuration.Observe(d.Seconds())
}

// ObserveProve 记录证明生成结果
// count 为程序提交的签名数量，只在成功时累计
func (m *ProverMetrics) ObserveProve(backend string, d time.Duration, count uint32, err error) {
	if err != nil {
		m.runsTotal.WithLabelValues(backend, ResultProvingFailed).Inc()
		return
	}
	m.proveDuration.WithLabelValues(backend).Observe(d.Seconds())
	m.runsTotal.WithLabelValues(backend, ResultProofReady).Inc()
	m.verifiedSignaturesTotal.Add(float64(count))
}

// ObserveVerify 记录证明验证结果
func (m *ProverMetrics) ObserveVerify(backend string, d time.Duration, ok bool) {
	m.verifyDuration.WithLabelValues(backend).Observe(d.Seconds())
	result := ResultRejected
	if ok {
		result = ResultVerified
	}
	m.runsTotal.WithLabelValues(backend, result).Inc()
}

// ObserveVerifyError 记录无法完成的验证（证明或密钥无法解码、上下文取消）
func (m *ProverMetrics) ObserveVerifyError(backend string) {
	m.runsTotal.WithLabelValues(backend, ResultError).Inc()
}
