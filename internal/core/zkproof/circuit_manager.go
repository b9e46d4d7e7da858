package zkproof

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/batchsig/pkg/types"
)

// 密钥缓存的键名组成部分
const (
	storePrefix      = "zkproof"
	storePartPK      = "pk"
	storePartVK      = "vk"
	storePartCircuit = "circuit"
)

// storeKey 返回 zkproof/<image-id>/<backend>/<part>
func storeKey(imageID zkvm.ImageID, backend types.ProofBackend, part string) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s/%s", storePrefix, imageID, backend, part))
}

// compiledCircuit 已编译的批量验证电路
type compiledCircuit struct {
	ccs    constraint.ConstraintSystem
	digest [32]byte
}

// CircuitManager 电路管理器
//
// 负责按 (后端, 签名方案, 批次大小) 编译电路，并为 (镜像, 后端) 生成和缓存可信设置。
// 缓存分两级：进程内 map 和可选的持久化存储。持久化的键使用镜像描述的标识，
// 电路摘要单独保存，电路变化后旧密钥自动失效。
type CircuitManager struct {
	logger   log.Logger
	registry *ProvingSchemeRegistry
	store    storage.BadgerStore // 为 nil 时只使用进程内缓存

	circuits      map[string]*compiledCircuit
	circuitsMutex sync.Mutex

	setupCache  map[string]*backendSetup
	setupMutex  sync.RWMutex
	deriveMutex sync.Mutex
}

// NewCircuitManager 创建电路管理器
func NewCircuitManager(logger log.Logger, registry *ProvingSchemeRegistry, store storage.BadgerStore) *CircuitManager {
	return &CircuitManager{
		logger:     logger,
		registry:   registry,
		store:      store,
		circuits:   make(map[string]*compiledCircuit),
		setupCache: make(map[string]*backendSetup),
	}
}

// Compile 编译镜像在指定后端上的电路（结果缓存）
func (cm *CircuitManager) Compile(backend types.ProofBackend, image *zkvm.Image) (*compiledCircuit, error) {
	key := fmt.Sprintf("%s/%s/%d", backend, image.Scheme, image.BatchSize)

	cm.circuitsMutex.Lock()
	defer cm.circuitsMutex.Unlock()

	if c, ok := cm.circuits[key]; ok {
		return c, nil
	}

	scheme, err := cm.registry.GetScheme(backend)
	if err != nil {
		return nil, err
	}
	circuit, err := newBatchCircuit(image.Scheme, int(image.BatchSize))
	if err != nil {
		return nil, WrapCircuitCompilationFailedError(backend, err)
	}

	start := time.Now()
	ccs, err := frontend.Compile(scheme.Curve().ScalarField(), scheme.NewBuilder(), circuit)
	if err != nil {
		return nil, WrapCircuitCompilationFailedError(backend, err)
	}

	// 电路摘要用于判断持久化的密钥是否仍然匹配当前电路
	var buf bytes.Buffer
	if _, err := ccs.WriteTo(&buf); err != nil {
		return nil, WrapCircuitCompilationFailedError(backend, fmt.Errorf("serialize constraint system: %w", err))
	}
	digest := sha256.Sum256(buf.Bytes())

	c := &compiledCircuit{
		ccs:    ccs,
		digest: digest,
	}
	cm.circuits[key] = c
	cm.logger.Debugf("电路编译完成: %s, constraints=%d, 耗时=%s", key, ccs.GetNbConstraints(), time.Since(start))
	return c, nil
}

// BindImage 计算与电路绑定的镜像标识
//
// 结果为 SHA-256(描述标识 ‖ 各后端名称与电路摘要)，后端按名称排序。
// 电路内容变化时标识随之变化，旧证明不会在新密钥下通过验证。
func (cm *CircuitManager) BindImage(image *zkvm.Image) (zkvm.ImageID, error) {
	h := sha256.New()
	base := image.ID()
	h.Write(base[:])
	for _, backend := range cm.registry.Backends() {
		compiled, err := cm.Compile(backend, image)
		if err != nil {
			return zkvm.ImageID{}, err
		}
		h.Write([]byte(backend))
		h.Write(compiled.digest[:])
	}
	var id zkvm.ImageID
	copy(id[:], h.Sum(nil))
	return id, nil
}

// TrustedSetup 返回 (镜像, 后端) 的可信设置
//
// 依次查找进程内缓存、持久化存储，都未命中时重新生成并写回。
func (cm *CircuitManager) TrustedSetup(ctx context.Context, image *zkvm.Image, backend types.ProofBackend) (*backendSetup, error) {
	imageID := image.ID()
	cacheKey := fmt.Sprintf("%s/%s", imageID, backend)

	cm.setupMutex.RLock()
	if entry, exists := cm.setupCache[cacheKey]; exists {
		cm.setupMutex.RUnlock()
		return entry, nil
	}
	cm.setupMutex.RUnlock()

	// 同一时间只生成一份
	cm.deriveMutex.Lock()
	defer cm.deriveMutex.Unlock()

	cm.setupMutex.RLock()
	entry, exists := cm.setupCache[cacheKey]
	cm.setupMutex.RUnlock()
	if exists {
		return entry, nil
	}

	compiled, err := cm.Compile(backend, image)
	if err != nil {
		return nil, err
	}
	scheme, err := cm.registry.GetScheme(backend)
	if err != nil {
		return nil, err
	}

	entry, err = cm.load(ctx, scheme, imageID, compiled)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		if entry, err = cm.derive(ctx, scheme, imageID, compiled); err != nil {
			return nil, err
		}
	}

	cm.setupMutex.Lock()
	cm.setupCache[cacheKey] = entry
	cm.setupMutex.Unlock()
	return entry, nil
}

// load 从持久化存储读取密钥；未命中或电路已变化时返回 nil
func (cm *CircuitManager) load(ctx context.Context, scheme ProvingScheme, imageID zkvm.ImageID, compiled *compiledCircuit) (*backendSetup, error) {
	if cm.store == nil {
		return nil, nil
	}
	backend := scheme.Backend()

	digest, err := cm.store.Get(ctx, storeKey(imageID, backend, storePartCircuit))
	if err != nil {
		return nil, fmt.Errorf("read key cache: %w", err)
	}
	if digest == nil {
		return nil, nil
	}
	if !bytes.Equal(digest, compiled.digest[:]) {
		cm.logger.Infof("电路已变化，忽略缓存的密钥: image=%s, backend=%s", imageID, backend)
		return nil, nil
	}

	pkBytes, err := cm.store.Get(ctx, storeKey(imageID, backend, storePartPK))
	if err != nil {
		return nil, fmt.Errorf("read key cache: %w", err)
	}
	vkBytes, err := cm.store.Get(ctx, storeKey(imageID, backend, storePartVK))
	if err != nil {
		return nil, fmt.Errorf("read key cache: %w", err)
	}

	pk, err := scheme.ReadProvingKey(pkBytes)
	if err != nil {
		cm.logger.Warnf("缓存的证明密钥损坏，重新生成: image=%s, backend=%s: %v", imageID, backend, err)
		return nil, nil
	}
	vk, err := scheme.ReadVerifyingKey(vkBytes)
	if err != nil {
		cm.logger.Warnf("缓存的验证密钥损坏，重新生成: image=%s, backend=%s: %v", imageID, backend, err)
		return nil, nil
	}

	cm.logger.Debugf("密钥缓存命中: image=%s, backend=%s", imageID, backend)
	return &backendSetup{
		ccs:           compiled.ccs,
		circuitDigest: compiled.digest,
		pk:            pk,
		vk:            vk,
		pkBytes:       pkBytes,
		vkBytes:       vkBytes,
	}, nil
}

// derive 生成密钥并写入持久化存储
func (cm *CircuitManager) derive(ctx context.Context, scheme ProvingScheme, imageID zkvm.ImageID, compiled *compiledCircuit) (*backendSetup, error) {
	backend := scheme.Backend()
	start := time.Now()

	pk, vk, err := scheme.Setup(compiled.ccs)
	if err != nil {
		return nil, err
	}
	pkBytes, err := serialize(pk)
	if err != nil {
		return nil, fmt.Errorf("serialize proving key: %w", err)
	}
	vkBytes, err := serialize(vk)
	if err != nil {
		return nil, fmt.Errorf("serialize verifying key: %w", err)
	}
	cm.logger.Debugf("密钥生成完成: image=%s, backend=%s, 耗时=%s", imageID, backend, time.Since(start))

	if cm.store != nil {
		err := cm.store.SetMany(ctx, map[string][]byte{
			string(storeKey(imageID, backend, storePartPK)):      pkBytes,
			string(storeKey(imageID, backend, storePartVK)):      vkBytes,
			string(storeKey(imageID, backend, storePartCircuit)): compiled.digest[:],
		})
		if err != nil {
			return nil, fmt.Errorf("write key cache: %w", err)
		}
	}

	return &backendSetup{
		ccs:           compiled.ccs,
		circuitDigest: compiled.digest,
		pk:            pk,
		vk:            vk,
		pkBytes:       pkBytes,
		vkBytes:       vkBytes,
	}, nil
}
