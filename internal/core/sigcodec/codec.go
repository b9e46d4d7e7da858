// Package sigcodec 解码并验证单个签名
//
// 支持 secp256k1 ECDSA 与 Ed25519 两种方案。解码失败返回 *DecodeError，
// 与"格式正确但验证不通过"严格区分。所有函数均为纯函数，可以并发调用。
package sigcodec

import (
	"fmt"

	"github.com/weisyn/batchsig/pkg/types"
)

// PublicKey 已解码的公钥
type PublicKey interface {
	// Scheme 所属签名方案
	Scheme() types.SignatureScheme
	// Bytes 原始编码
	Bytes() []byte
}

// Signature 已解码的签名
type Signature interface {
	// Scheme 所属签名方案
	Scheme() types.SignatureScheme
	// Bytes 原始编码
	Bytes() []byte
}

// Codec 单个签名方案的编解码器
type Codec interface {
	// Scheme 方案标识
	Scheme() types.SignatureScheme

	// PublicKeySizes 允许的公钥编码长度
	PublicKeySizes() []int

	// SignatureSize 签名编码长度
	SignatureSize() int

	// DecodePublicKey 解码公钥
	DecodePublicKey(data []byte) (PublicKey, error)

	// DecodeSignature 解码签名
	DecodeSignature(data []byte) (Signature, error)

	// Verify 验证签名；方案不匹配的公钥或签名视为验证失败
	Verify(pub PublicKey, msg []byte, sig Signature) bool
}

// ForScheme 返回指定方案的编解码器
func ForScheme(scheme types.SignatureScheme) (Codec, error) {
	switch scheme {
	case types.SchemeEcdsaSecp256k1:
		return ECDSA(), nil
	case types.SchemeEd25519:
		return Ed25519(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// Verify 解码 (公钥, 签名) 并验证消息
//
// 返回：
//   - (true, nil): 验证通过
//   - (false, nil): 编码正确但验证不通过
//   - (false, *DecodeError): 公钥或签名无法解码
func Verify(codec Codec, pub, msg, sig []byte) (bool, error) {
	key, err := codec.DecodePublicKey(pub)
	if err != nil {
		return false, err
	}
	s, err := codec.DecodeSignature(sig)
	if err != nil {
		return false, err
	}
	return codec.Verify(key, msg, s), nil
}
