// Package zkproof 驱动 setup → prove → verify 的证明流程
//
// 程序镜像在执行环境中运行，提交的计数再由 gnark 电路证明：电路按批次大小编译，
// 在电路内逐个验证签名。后端可选 Groth16（默认）或 PlonK，曲线为 BN254。
package zkproof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	corelog "github.com/weisyn/batchsig/internal/core/infrastructure/log"
	"github.com/weisyn/batchsig/internal/core/infrastructure/metrics"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/batchsig/pkg/types"
)

// ErrProofRejected 证明生成成功但未通过验证
var ErrProofRejected = errors.New("proof rejected by verifier")

// Options 编排器选项
type Options struct {
	Curve              string // 只支持 bn254
	MaxInputBytes      int64  // 程序输入上限，<= 0 使用默认值
	SilenceBackendLogs bool   // 屏蔽 gnark 的 zerolog 输出
}

// Dependencies 编排器依赖，均可以为 nil
type Dependencies struct {
	Logger  log.Logger
	Store   storage.BadgerStore
	Bus     event.EventBus
	Metrics *metrics.ProverMetrics
}

// Orchestrator 证明编排器
type Orchestrator struct {
	logger    log.Logger
	bus       event.EventBus
	metrics   *metrics.ProverMetrics
	silence   bool
	curveName string

	registry  *ProvingSchemeRegistry
	circuits  *CircuitManager
	prover    *Prover
	validator *Validator
}

// New 创建证明编排器
func New(opts Options, deps Dependencies) (*Orchestrator, error) {
	curve, err := resolveCurveID(opts.Curve)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = corelog.NewNop()
	}
	curveName := curve.String()

	registry := NewProvingSchemeRegistry(curve, logger)
	executor := zkvm.NewExecutor(opts.MaxInputBytes, logger.With("module", "zkvm"))

	return &Orchestrator{
		logger:    logger,
		bus:       deps.Bus,
		metrics:   deps.Metrics,
		silence:   opts.SilenceBackendLogs,
		curveName: curveName,
		registry:  registry,
		circuits:  NewCircuitManager(logger, registry, deps.Store),
		prover:    NewProver(logger, registry, executor, curveName),
		validator: NewValidator(logger, registry, curveName),
	}, nil
}

func resolveCurveID(name string) (ecc.ID, error) {
	switch name {
	case "", "bn254":
		return ecc.BN254, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurve, name)
	}
}

// Backends 支持的证明后端
func (o *Orchestrator) Backends() []types.ProofBackend {
	return o.registry.Backends()
}

// BindImage 返回与电路绑定的镜像标识，证明和密钥都使用这个标识
func (o *Orchestrator) BindImage(ctx context.Context, image *zkvm.Image) (zkvm.ImageID, error) {
	if err := image.Validate(); err != nil {
		return zkvm.ImageID{}, err
	}
	if err := ctx.Err(); err != nil {
		return zkvm.ImageID{}, err
	}
	defer o.silenceBackend()()
	return o.circuits.BindImage(image)
}

// Setup 为程序镜像生成所有后端的密钥
//
// 相同镜像的后续 Setup 返回缓存中字节相同的密钥。失败时返回 *SetupError。
func (o *Orchestrator) Setup(ctx context.Context, image *zkvm.Image) (*ProvingKey, *VerificationKey, error) {
	if err := image.Validate(); err != nil {
		return nil, nil, &SetupError{Err: err}
	}

	defer o.silenceBackend()()
	start := time.Now()

	imageID, err := o.circuits.BindImage(image)
	if err != nil {
		return nil, nil, &SetupError{ImageID: image.ID().String(), Err: err}
	}

	pk := &ProvingKey{image: image, imageID: imageID, backends: make(map[types.ProofBackend]*backendSetup)}
	vk := &VerificationKey{imageID: imageID, scheme: image.Scheme, backends: make(map[types.ProofBackend]*backendSetup)}
	for _, backend := range o.registry.Backends() {
		if err := ctx.Err(); err != nil {
			return nil, nil, &SetupError{ImageID: imageID.String(), Backend: backend, Err: err}
		}
		setup, err := o.circuits.TrustedSetup(ctx, image, backend)
		if err != nil {
			return nil, nil, &SetupError{ImageID: imageID.String(), Backend: backend, Err: err}
		}
		pk.backends[backend] = setup
		vk.backends[backend] = setup
	}

	elapsed := time.Since(start)
	if o.metrics != nil {
		o.metrics.ObserveSetup(elapsed)
	}
	o.logger.Infof("密钥准备完成: image=%s/%s (%s), scheme=%s, batch=%d, 耗时=%s",
		image.Name, image.Version, imageID, image.Scheme, image.BatchSize, elapsed)
	return pk, vk, nil
}

// Prove 为批次生成证明，失败时返回 *ProvingError
func (o *Orchestrator) Prove(ctx context.Context, pk *ProvingKey, batch *types.BatchInput, backend types.ProofBackend) (*Proof, error) {
	defer o.silenceBackend()()
	start := time.Now()

	proof, err := o.prover.Prove(ctx, pk, batch, backend)
	elapsed := time.Since(start)

	var count uint32
	if err == nil {
		count, _ = proof.Count()
	}
	if o.metrics != nil {
		o.metrics.ObserveProve(backend.String(), elapsed, count, err)
	}
	if err != nil {
		o.logger.Warnf("证明生成失败: backend=%s: %v", backend, err)
		return nil, err
	}
	o.logger.Infof("证明生成完成: backend=%s, count=%d, 耗时=%s", backend, count, elapsed)
	return proof, nil
}

// Verify 验证证明
//
// (false, nil) 表示拒绝；非 nil 错误表示证明或密钥无法解码。
func (o *Orchestrator) Verify(ctx context.Context, proof *Proof, vk *VerificationKey) (bool, error) {
	defer o.silenceBackend()()
	start := time.Now()

	ok, err := o.validator.Verify(ctx, proof, vk)
	backend := "unknown"
	if proof != nil && proof.Backend.Valid() {
		backend = proof.Backend.String()
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.ObserveVerifyError(backend)
		}
		o.logger.Warnf("证明验证出错: backend=%s: %v", backend, err)
		return false, err
	}
	if o.metrics != nil {
		o.metrics.ObserveVerify(backend, time.Since(start), ok)
	}
	if !ok {
		o.logger.Infof("证明被拒绝: backend=%s", backend)
	}
	return ok, nil
}

// RunReport 一次完整运行的结果
type RunReport struct {
	RunID      string
	Backend    types.ProofBackend
	Count      uint32
	Proof      *Proof
	PK         *ProvingKey
	VK         *VerificationKey
	SetupTime  time.Duration
	ProveTime  time.Duration
	VerifyTime time.Duration
	Verified   bool
}

// Run 按状态机执行 setup → prove → verify
//
// 返回的 report 在出错时也包含已经完成阶段的耗时。
func (o *Orchestrator) Run(ctx context.Context, image *zkvm.Image, batch *types.BatchInput, backend types.ProofBackend) (*RunReport, error) {
	run := NewRun(o.bus)
	report := &RunReport{RunID: run.ID().String(), Backend: backend}
	logger := o.logger.With("run_id", report.RunID)

	start := time.Now()
	pk, vk, err := o.Setup(ctx, image)
	if err != nil {
		return report, err
	}
	report.SetupTime = time.Since(start)
	report.PK, report.VK = pk, vk
	if err := run.Transition(StateSetup, nil); err != nil {
		return report, err
	}

	if err := run.Transition(StateProving, nil); err != nil {
		return report, err
	}
	start = time.Now()
	proof, err := o.Prove(ctx, pk, batch, backend)
	report.ProveTime = time.Since(start)
	if err != nil {
		if terr := run.Transition(StateProvingFailed, err); terr != nil {
			logger.Errorf("状态转换失败: %v", terr)
		}
		return report, err
	}
	if err := run.Transition(StateProofReady, nil); err != nil {
		return report, err
	}
	report.Proof = proof
	report.Count, _ = proof.Count()

	if err := run.Transition(StateVerifying, nil); err != nil {
		return report, err
	}
	start = time.Now()
	ok, err := o.Verify(ctx, proof, vk)
	report.VerifyTime = time.Since(start)
	if err != nil || !ok {
		if err == nil {
			err = ErrProofRejected
		}
		if terr := run.Transition(StateRejected, err); terr != nil {
			logger.Errorf("状态转换失败: %v", terr)
		}
		return report, err
	}
	if err := run.Transition(StateVerified, nil); err != nil {
		return report, err
	}
	report.Verified = true
	logger.Debugf("运行完成: state=%s", run.State())
	return report, nil
}

// ============================================================================
// gnark 日志屏蔽
// ============================================================================

var (
	silenceMu    sync.Mutex
	silenceDepth int
	savedLogger  zerolog.Logger
)

// silenceBackend 在证明期间屏蔽 gnark 的日志输出，返回恢复函数
//
// gnark 使用全局 zerolog.Logger，并发运行时按引用计数只替换和恢复一次。
func (o *Orchestrator) silenceBackend() func() {
	if !o.silence {
		return func() {}
	}

	silenceMu.Lock()
	if silenceDepth == 0 {
		savedLogger = gnarklogger.Logger()
		gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
	}
	silenceDepth++
	silenceMu.Unlock()

	return func() {
		silenceMu.Lock()
		silenceDepth--
		if silenceDepth == 0 {
			gnarklogger.Set(savedLogger)
		}
		silenceMu.Unlock()
	}
}
