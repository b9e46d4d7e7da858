package zkproof

import (
	"github.com/consensys/gnark/constraint"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/types"
)

// backendSetup 单个后端的可信设置
//
// 从验证密钥文件加载时只有 vk 与 vkBytes。
type backendSetup struct {
	ccs           constraint.ConstraintSystem
	circuitDigest [32]byte
	pk            BackendProvingKey
	vk            BackendVerifyingKey
	pkBytes       []byte
	vkBytes       []byte
}

// ProvingKey 绑定程序镜像的证明密钥
//
// Setup 之后只读，可以在多个并发的 Prove 之间共享。
type ProvingKey struct {
	image    *zkvm.Image
	imageID  zkvm.ImageID
	backends map[types.ProofBackend]*backendSetup
}

// ImageID 与电路绑定的镜像标识
func (k *ProvingKey) ImageID() zkvm.ImageID { return k.imageID }

// Image 程序镜像
func (k *ProvingKey) Image() *zkvm.Image { return k.image }

// Has 是否包含指定后端的密钥
func (k *ProvingKey) Has(backend types.ProofBackend) bool {
	_, ok := k.backends[backend]
	return ok
}

// Size 指定后端证明密钥的序列化大小
func (k *ProvingKey) Size(backend types.ProofBackend) int {
	if s, ok := k.backends[backend]; ok {
		return len(s.pkBytes)
	}
	return 0
}

// ConstraintCount 指定后端电路的约束数量
func (k *ProvingKey) ConstraintCount(backend types.ProofBackend) int {
	if s, ok := k.backends[backend]; ok {
		return s.ccs.GetNbConstraints()
	}
	return 0
}

// VerificationKey 绑定程序镜像的验证密钥
type VerificationKey struct {
	imageID  zkvm.ImageID
	scheme   types.SignatureScheme
	backends map[types.ProofBackend]*backendSetup
}

// ImageID 镜像标识
func (k *VerificationKey) ImageID() zkvm.ImageID { return k.imageID }

// Scheme 镜像验证的签名方案
func (k *VerificationKey) Scheme() types.SignatureScheme { return k.scheme }

// Has 是否包含指定后端的密钥
func (k *VerificationKey) Has(backend types.ProofBackend) bool {
	_, ok := k.backends[backend]
	return ok
}

// Bytes 指定后端验证密钥的序列化结果
func (k *VerificationKey) Bytes(backend types.ProofBackend) []byte {
	if s, ok := k.backends[backend]; ok {
		return s.vkBytes
	}
	return nil
}

// Proof 一次证明运行的产物
type Proof struct {
	Backend      types.ProofBackend
	Curve        string
	ImageID      zkvm.ImageID
	PublicOutput []byte // 程序提交的 journal（4 字节小端 u32）
	Claim        []byte // 电路公开的声明值
	Data         []byte // 后端证明的序列化结果
}

// Count 解码公开输出
func (p *Proof) Count() (uint32, error) {
	return boundary.DecodeCount(p.PublicOutput)
}

// Size 后端证明的字节数
func (p *Proof) Size() int {
	return len(p.Data)
}
