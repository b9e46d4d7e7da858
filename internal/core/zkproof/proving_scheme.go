package zkproof

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/types"
)

// ============================================================================
// 证明方案抽象
// ============================================================================

// ProvingScheme 证明方案接口
//
// 每个实现绑定一种后端和一条曲线。后端对象（密钥、证明）以类型擦除的形式传递，
// 由实现自行断言具体类型。
type ProvingScheme interface {
	// Backend 返回后端标识
	Backend() types.ProofBackend

	// Curve 返回曲线
	Curve() ecc.ID

	// NewBuilder 获取电路构建器
	NewBuilder() frontend.NewBuilder

	// Setup 生成 proving key 和 verifying key
	Setup(ccs constraint.ConstraintSystem) (BackendProvingKey, BackendVerifyingKey, error)

	// Prove 生成证明
	Prove(ccs constraint.ConstraintSystem, pk BackendProvingKey, fullWitness witness.Witness) (BackendProof, error)

	// Verify 验证证明，验证不通过时返回错误
	Verify(proof BackendProof, vk BackendVerifyingKey, publicWitness witness.Witness) error

	// ReadProof 反序列化证明
	ReadProof(data []byte) (BackendProof, error)

	// ReadProvingKey 反序列化证明密钥
	ReadProvingKey(data []byte) (BackendProvingKey, error)

	// ReadVerifyingKey 反序列化验证密钥
	ReadVerifyingKey(data []byte) (BackendVerifyingKey, error)
}

// BackendProof 后端证明对象（类型擦除）
type BackendProof interface{ io.WriterTo }

// BackendProvingKey 后端证明密钥（类型擦除）
type BackendProvingKey interface{ io.WriterTo }

// BackendVerifyingKey 后端验证密钥（类型擦除）
type BackendVerifyingKey interface{ io.WriterTo }

// serialize 使用 gnark 的 WriteTo 序列化任意后端对象
func serialize(obj io.WriterTo) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := obj.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readInto 使用 gnark 的 ReadFrom 反序列化
func readInto(obj io.ReaderFrom, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty encoding")
	}
	_, err := obj.ReadFrom(bytes.NewReader(data))
	return err
}

// ============================================================================
// Groth16
// ============================================================================

// Groth16Scheme Groth16证明方案实现
type Groth16Scheme struct {
	curve  ecc.ID
	logger log.Logger
}

// NewGroth16Scheme 创建Groth16证明方案
func NewGroth16Scheme(curve ecc.ID, logger log.Logger) *Groth16Scheme {
	return &Groth16Scheme{curve: curve, logger: logger}
}

// Backend 返回后端标识
func (s *Groth16Scheme) Backend() types.ProofBackend { return types.BackendGroth16 }

// Curve 返回曲线
func (s *Groth16Scheme) Curve() ecc.ID { return s.curve }

// NewBuilder Groth16 使用 R1CS
func (s *Groth16Scheme) NewBuilder() frontend.NewBuilder { return r1cs.NewBuilder }

// Setup 生成可信设置
func (s *Groth16Scheme) Setup(ccs constraint.ConstraintSystem) (BackendProvingKey, BackendVerifyingKey, error) {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return pk, vk, nil
}

// Prove 生成证明
func (s *Groth16Scheme) Prove(ccs constraint.ConstraintSystem, pk BackendProvingKey, fullWitness witness.Witness) (BackendProof, error) {
	groth16Pk, ok := pk.(groth16.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("invalid groth16 proving key type %T", pk)
	}
	proof, err := groth16.Prove(ccs, groth16Pk, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	return proof, nil
}

// Verify 验证证明
func (s *Groth16Scheme) Verify(proof BackendProof, vk BackendVerifyingKey, publicWitness witness.Witness) error {
	groth16Proof, ok := proof.(groth16.Proof)
	if !ok {
		return fmt.Errorf("invalid groth16 proof type %T", proof)
	}
	groth16Vk, ok := vk.(groth16.VerifyingKey)
	if !ok {
		return fmt.Errorf("invalid groth16 verifying key type %T", vk)
	}
	return groth16.Verify(groth16Proof, groth16Vk, publicWitness)
}

// ReadProof 反序列化证明
func (s *Groth16Scheme) ReadProof(data []byte) (BackendProof, error) {
	proof := groth16.NewProof(s.curve)
	if err := readInto(proof, data); err != nil {
		return nil, fmt.Errorf("decode groth16 proof: %w", err)
	}
	return proof, nil
}

// ReadProvingKey 反序列化证明密钥
func (s *Groth16Scheme) ReadProvingKey(data []byte) (BackendProvingKey, error) {
	pk := groth16.NewProvingKey(s.curve)
	if err := readInto(pk, data); err != nil {
		return nil, fmt.Errorf("decode groth16 proving key: %w", err)
	}
	return pk, nil
}

// ReadVerifyingKey 反序列化验证密钥
func (s *Groth16Scheme) ReadVerifyingKey(data []byte) (BackendVerifyingKey, error) {
	vk := groth16.NewVerifyingKey(s.curve)
	if err := readInto(vk, data); err != nil {
		return nil, fmt.Errorf("decode groth16 verifying key: %w", err)
	}
	return vk, nil
}

// ============================================================================
// PLONK
// ============================================================================

// PlonKScheme PlonK证明方案实现
//
// SRS 由 unsafekzg 在本地生成，只适用于开发和基准测试环境。
type PlonKScheme struct {
	curve  ecc.ID
	logger log.Logger
}

// NewPlonKScheme 创建PlonK证明方案
func NewPlonKScheme(curve ecc.ID, logger log.Logger) *PlonKScheme {
	return &PlonKScheme{curve: curve, logger: logger}
}

// Backend 返回后端标识
func (s *PlonKScheme) Backend() types.ProofBackend { return types.BackendPlonk }

// Curve 返回曲线
func (s *PlonKScheme) Curve() ecc.ID { return s.curve }

// NewBuilder PlonK 使用 SparseR1CS
func (s *PlonKScheme) NewBuilder() frontend.NewBuilder { return scs.NewBuilder }

// Setup 生成 SRS 和密钥
func (s *PlonKScheme) Setup(ccs constraint.ConstraintSystem) (BackendProvingKey, BackendVerifyingKey, error) {
	// SRS 大小由电路约束数量决定
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("plonk srs: %w", err)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, fmt.Errorf("plonk setup: %w", err)
	}
	return pk, vk, nil
}

// Prove 生成证明
func (s *PlonKScheme) Prove(ccs constraint.ConstraintSystem, pk BackendProvingKey, fullWitness witness.Witness) (BackendProof, error) {
	plonkPk, ok := pk.(plonk.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("invalid plonk proving key type %T", pk)
	}
	proof, err := plonk.Prove(ccs, plonkPk, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("plonk prove: %w", err)
	}
	return proof, nil
}

// Verify 验证证明
func (s *PlonKScheme) Verify(proof BackendProof, vk BackendVerifyingKey, publicWitness witness.Witness) error {
	plonkProof, ok := proof.(plonk.Proof)
	if !ok {
		return fmt.Errorf("invalid plonk proof type %T", proof)
	}
	plonkVk, ok := vk.(plonk.VerifyingKey)
	if !ok {
		return fmt.Errorf("invalid plonk verifying key type %T", vk)
	}
	return plonk.Verify(plonkProof, plonkVk, publicWitness)
}

// ReadProof 反序列化证明
func (s *PlonKScheme) ReadProof(data []byte) (BackendProof, error) {
	proof := plonk.NewProof(s.curve)
	if err := readInto(proof, data); err != nil {
		return nil, fmt.Errorf("decode plonk proof: %w", err)
	}
	return proof, nil
}

// ReadProvingKey 反序列化证明密钥
func (s *PlonKScheme) ReadProvingKey(data []byte) (BackendProvingKey, error) {
	pk := plonk.NewProvingKey(s.curve)
	if err := readInto(pk, data); err != nil {
		return nil, fmt.Errorf("decode plonk proving key: %w", err)
	}
	return pk, nil
}

// ReadVerifyingKey 反序列化验证密钥
func (s *PlonKScheme) ReadVerifyingKey(data []byte) (BackendVerifyingKey, error) {
	vk := plonk.NewVerifyingKey(s.curve)
	if err := readInto(vk, data); err != nil {
		return nil, fmt.Errorf("decode plonk verifying key: %w", err)
	}
	return vk, nil
}

// ============================================================================
// 方案注册表
// ============================================================================

// ProvingSchemeRegistry 证明方案注册表
type ProvingSchemeRegistry struct {
	logger  log.Logger
	schemes map[types.ProofBackend]ProvingScheme
	mutex   sync.RWMutex
}

// NewProvingSchemeRegistry 创建证明方案注册表，并注册 Groth16 与 PlonK
func NewProvingSchemeRegistry(curve ecc.ID, logger log.Logger) *ProvingSchemeRegistry {
	registry := &ProvingSchemeRegistry{
		logger:  logger,
		schemes: make(map[types.ProofBackend]ProvingScheme),
	}
	registry.RegisterScheme(NewGroth16Scheme(curve, logger))
	registry.RegisterScheme(NewPlonKScheme(curve, logger))
	return registry
}

// RegisterScheme 注册证明方案
func (r *ProvingSchemeRegistry) RegisterScheme(scheme ProvingScheme) {
	if scheme == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.schemes[scheme.Backend()] = scheme
	if r.logger != nil {
		r.logger.Debugf("注册证明方案: %s", scheme.Backend())
	}
}

// GetScheme 获取证明方案
func (r *ProvingSchemeRegistry) GetScheme(backend types.ProofBackend) (ProvingScheme, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	scheme, exists := r.schemes[backend]
	if !exists {
		return nil, WrapUnsupportedBackendError(backend)
	}
	return scheme, nil
}

// Backends 列出所有注册的后端（按名称排序）
func (r *ProvingSchemeRegistry) Backends() []types.ProofBackend {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	backends := make([]types.ProofBackend, 0, len(r.schemes))
	for backend := range r.schemes {
		backends = append(backends, backend)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i] < backends[j] })
	return backends
}

// IsSupported 检查后端是否已注册
func (r *ProvingSchemeRegistry) IsSupported(backend types.ProofBackend) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.schemes[backend]
	return exists
}
