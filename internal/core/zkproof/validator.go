package zkproof

import (
	"context"
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// Validator 证明验证器
type Validator struct {
	logger    log.Logger
	registry  *ProvingSchemeRegistry
	curveName string
}

// NewValidator 创建证明验证器
func NewValidator(logger log.Logger, registry *ProvingSchemeRegistry, curveName string) *Validator {
	return &Validator{
		logger:    logger,
		registry:  registry,
		curveName: curveName,
	}
}

// Verify 验证证明
//
// 返回：
//   - (true, nil): 证明有效
//   - (false, nil): 证明被拒绝（配对检查失败，或镜像、后端与密钥不匹配）
//   - (false, err): 证明或密钥无法解码，err 匹配 ErrInvalidProof
func (v *Validator) Verify(ctx context.Context, proof *Proof, vk *VerificationKey) (bool, error) {
	if proof == nil {
		return false, WrapInvalidProofError("nil proof")
	}
	if vk == nil {
		return false, WrapInvalidProofError("nil verification key")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// 1. 基础字段
	if !proof.Backend.Valid() {
		return false, WrapInvalidProofError(fmt.Sprintf("unknown backend %q", proof.Backend))
	}
	if proof.Curve != v.curveName {
		return false, fmt.Errorf("%w: %w: %q", ErrInvalidProof, ErrUnsupportedCurve, proof.Curve)
	}
	count, err := proof.Count()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}

	// 2. 证明必须针对同一个镜像和后端
	if proof.ImageID != vk.imageID {
		v.logger.Debugf("证明镜像不匹配: proof=%s, key=%s", proof.ImageID, vk.imageID)
		return false, nil
	}
	setup, ok := vk.backends[proof.Backend]
	if !ok {
		v.logger.Debugf("验证密钥不包含后端: %s", proof.Backend)
		return false, nil
	}
	scheme, err := v.registry.GetScheme(proof.Backend)
	if err != nil {
		return false, err
	}

	// 3. 公开输入
	assignment, err := publicAssignment(proof.ImageID, count, proof.Claim)
	if err != nil {
		return false, err
	}
	publicWitness, err := frontend.NewWitness(assignment, scheme.Curve().ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("%w: build public witness: %w", ErrInvalidProof, err)
	}

	// 4. 反序列化并验证
	backendProof, err := scheme.ReadProof(proof.Data)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if err := scheme.Verify(backendProof, setup.vk, publicWitness); err != nil {
		v.logger.Debugf("ZK证明验证失败: %v", err)
		return false, nil // 验证失败但不是系统错误
	}
	return true, nil
}
