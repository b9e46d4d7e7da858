package zkproof

import (
	"errors"
	"fmt"

	"github.com/weisyn/batchsig/pkg/types"
)

// ============================================================================
//                            零知识证明错误定义
// ============================================================================

var (
	// ErrSetupFailed 密钥生成失败
	ErrSetupFailed = errors.New("setup failed")

	// ErrCircuitCompilationFailed 电路编译失败错误
	ErrCircuitCompilationFailed = errors.New("circuit compilation failed")

	// ErrProofGenerationFailed 证明生成失败错误
	ErrProofGenerationFailed = errors.New("proof generation failed")

	// ErrInvalidWitness 无效见证错误
	ErrInvalidWitness = errors.New("invalid witness")

	// ErrInvalidProof 证明或密钥无法解码
	ErrInvalidProof = errors.New("invalid proof")

	// ErrUnsupportedBackend 未注册的证明后端
	ErrUnsupportedBackend = errors.New("unsupported proof backend")

	// ErrUnsupportedCurve 不支持的椭圆曲线
	ErrUnsupportedCurve = errors.New("unsupported curve")

	// ErrMissingKey 密钥中不包含所需后端
	ErrMissingKey = errors.New("key material missing for backend")

	// ErrBatchSizeMismatch 批次大小与电路编译时的大小不一致
	ErrBatchSizeMismatch = errors.New("batch size does not match circuit")

	// ErrIllegalTransition 非法的状态转换
	ErrIllegalTransition = errors.New("illegal state transition")
)

// ============================================================================
//                               类型化错误
// ============================================================================

// SetupError 密钥生成失败，不会自动重试
type SetupError struct {
	ImageID string
	Backend types.ProofBackend // 与具体后端无关时为空
	Err     error
}

func (e *SetupError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("%v: image=%s: %v", ErrSetupFailed, e.ImageID, e.Err)
	}
	return fmt.Sprintf("%v: image=%s, backend=%s: %v", ErrSetupFailed, e.ImageID, e.Backend, e.Err)
}

// Unwrap 同时匹配 ErrSetupFailed 与底层错误
func (e *SetupError) Unwrap() []error {
	return []error{ErrSetupFailed, e.Err}
}

// ProvingStage 证明失败所处阶段
type ProvingStage string

const (
	// StageExecution 程序执行中止，没有可证明的结果
	StageExecution ProvingStage = "execution"
	// StageWitness 构建见证失败
	StageWitness ProvingStage = "witness"
	// StageBackend 后端生成证明失败
	StageBackend ProvingStage = "backend"
)

// ProvingError 证明生成失败
type ProvingError struct {
	Stage   ProvingStage
	Backend types.ProofBackend
	Err     error
}

func (e *ProvingError) Error() string {
	return fmt.Sprintf("%v: stage=%s, backend=%s: %v", ErrProofGenerationFailed, e.Stage, e.Backend, e.Err)
}

// Unwrap 同时匹配 ErrProofGenerationFailed 与底层错误
func (e *ProvingError) Unwrap() []error {
	return []error{ErrProofGenerationFailed, e.Err}
}

// ============================================================================
//                               错误包装函数
// ============================================================================

// WrapCircuitCompilationFailedError 包装电路编译失败错误
func WrapCircuitCompilationFailedError(backend types.ProofBackend, err error) error {
	return fmt.Errorf("%w: backend=%s, cause=%v", ErrCircuitCompilationFailed, backend, err)
}

// WrapInvalidWitnessError 包装无效见证错误
func WrapInvalidWitnessError(reason string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidWitness, reason, err)
}

// WrapInvalidProofError 包装无效证明错误
func WrapInvalidProofError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidProof, reason)
}

// WrapUnsupportedBackendError 包装不支持的后端错误
func WrapUnsupportedBackendError(backend types.ProofBackend) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
}

// WrapMissingKeyError 包装密钥缺失错误
func WrapMissingKeyError(backend types.ProofBackend) error {
	return fmt.Errorf("%w: %s", ErrMissingKey, backend)
}
