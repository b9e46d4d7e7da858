// Package types provides the shared data types of the batch signature prover.
package types

import (
	"fmt"
	"strings"
)

// SignatureScheme 签名方案
//
// 每个程序镜像在构造时固定一种方案，同一个批次内不会混合方案。
type SignatureScheme uint8

const (
	// SchemeEcdsaSecp256k1 secp256k1 曲线上的 ECDSA（SHA-256 消息摘要）
	SchemeEcdsaSecp256k1 SignatureScheme = iota + 1
	// SchemeEd25519 Ed25519（ZIP-215 验证规则）
	SchemeEd25519
)

// String 返回方案名称
func (s SignatureScheme) String() string {
	switch s {
	case SchemeEcdsaSecp256k1:
		return "ecdsa-secp256k1"
	case SchemeEd25519:
		return "ed25519"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Valid 方案是否为已知取值
func (s SignatureScheme) Valid() bool {
	return s == SchemeEcdsaSecp256k1 || s == SchemeEd25519
}

// ParseSignatureScheme 解析方案名称
func ParseSignatureScheme(name string) (SignatureScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ecdsa", "secp256k1", "ecdsa-secp256k1":
		return SchemeEcdsaSecp256k1, nil
	case "ed25519":
		return SchemeEd25519, nil
	default:
		return 0, fmt.Errorf("unknown signature scheme: %q", name)
	}
}

// ProofBackend 证明后端
//
// 后端只影响证明的生成和验证方式，不影响程序提交的公开输出。
type ProofBackend string

const (
	// BackendGroth16 Groth16（默认后端）
	BackendGroth16 ProofBackend = "groth16"
	// BackendPlonk PLONK（KZG 承诺）
	BackendPlonk ProofBackend = "plonk"
)

// String 返回后端名称
func (b ProofBackend) String() string {
	return string(b)
}

// Valid 后端是否为已知取值
func (b ProofBackend) Valid() bool {
	return b == BackendGroth16 || b == BackendPlonk
}

// ParseProofBackend 解析后端名称，空字符串返回默认后端
func ParseProofBackend(name string) (ProofBackend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "groth16":
		return BackendGroth16, nil
	case "plonk":
		return BackendPlonk, nil
	default:
		return "", fmt.Errorf("unknown proof backend: %q", name)
	}
}

// BatchInput 待验证的签名批次
//
// 三个序列按下标一一对应，下标 i 处的 (公钥, 消息, 签名) 构成一个验证单元。
// 批次在主机侧构造后只序列化一次，由程序读取一次，之后不再修改。
type BatchInput struct {
	PublicKeys [][]byte
	Messages   [][]byte
	Signatures [][]byte
}

// Len 返回批次长度；三个序列长度不一致时返回 -1
func (b *BatchInput) Len() int {
	n := len(b.PublicKeys)
	if len(b.Messages) != n || len(b.Signatures) != n {
		return -1
	}
	return n
}
