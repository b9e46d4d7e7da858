package zkproof

import (
	"context"
	"fmt"
	"time"

	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/types"
)

// Prover ZK证明生成器
//
// 一次 Prove 包含：序列化批次、在执行环境中运行程序、构建电路见证、后端证明。
// 任何一步失败都返回 *ProvingError，不会产生证明。
type Prover struct {
	logger    log.Logger
	registry  *ProvingSchemeRegistry
	executor  *zkvm.Executor
	curveName string
}

// NewProver 创建证明生成器
func NewProver(logger log.Logger, registry *ProvingSchemeRegistry, executor *zkvm.Executor, curveName string) *Prover {
	return &Prover{
		logger:    logger,
		registry:  registry,
		executor:  executor,
		curveName: curveName,
	}
}

// Prove 为一个批次生成证明
func (p *Prover) Prove(ctx context.Context, pk *ProvingKey, batch *types.BatchInput, backend types.ProofBackend) (*Proof, error) {
	fail := func(stage ProvingStage, err error) (*Proof, error) {
		return nil, &ProvingError{Stage: stage, Backend: backend, Err: err}
	}

	scheme, err := p.registry.GetScheme(backend)
	if err != nil {
		return fail(StageBackend, err)
	}
	if pk == nil || !pk.Has(backend) {
		return fail(StageBackend, WrapMissingKeyError(backend))
	}
	setup := pk.backends[backend]

	// 1. 执行程序
	session, err := p.executor.Execute(ctx, pk.image, boundary.EncodeBatch(batch))
	if err != nil {
		return fail(StageExecution, err)
	}
	count, err := boundary.DecodeCount(session.Journal)
	if err != nil {
		return fail(StageExecution, err)
	}
	p.logger.Debugf("程序执行完成: image=%s, count=%d, 耗时=%s", session.ImageID, count, session.Duration)

	// 2. 构建见证，电路只接受编译时的批次大小
	if count != pk.image.BatchSize {
		return fail(StageWitness, fmt.Errorf("%w: executed %d, circuit expects %d", ErrBatchSizeMismatch, count, pk.image.BatchSize))
	}
	witness, err := newBatchWitness(pk.image.Scheme, pk.imageID, count, batch)
	if err != nil {
		return fail(StageWitness, WrapInvalidWitnessError("build assignment", err))
	}
	fullWitness, err := frontend.NewWitness(witness.assignment, scheme.Curve().ScalarField())
	if err != nil {
		return fail(StageWitness, WrapInvalidWitnessError("build witness", err))
	}

	// 3. 后端证明
	if err := ctx.Err(); err != nil {
		return fail(StageBackend, err)
	}
	start := time.Now()
	backendProof, err := scheme.Prove(setup.ccs, setup.pk, fullWitness)
	if err != nil {
		return fail(StageBackend, err)
	}
	data, err := serialize(backendProof)
	if err != nil {
		return fail(StageBackend, err)
	}
	p.logger.Debugf("ZK证明生成完成: backend=%s, 耗时=%s, 大小=%d字节", backend, time.Since(start), len(data))

	return &Proof{
		Backend:      backend,
		Curve:        p.curveName,
		ImageID:      pk.imageID,
		PublicOutput: session.Journal,
		Claim:        witness.ClaimBytes(),
		Data:         data,
	}, nil
}
