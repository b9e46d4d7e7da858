package sigcodec

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"
	"github.com/hdevalence/ed25519consensus"

	"github.com/weisyn/batchsig/pkg/types"
)

// Ed25519 编码长度
const (
	Ed25519PublicKeySize = ed25519.PublicKeySize
	Ed25519SignatureSize = ed25519.SignatureSize
)

type ed25519Codec struct{}

// Ed25519 返回 Ed25519 编解码器
//
// 公钥 32 字节，签名 64 字节 R‖S。验证遵循 ZIP-215 规则：
// 接受非规范的点编码，要求 S 为规范标量，使用带余因子的验证方程。
func Ed25519() Codec {
	return ed25519Codec{}
}

type ed25519PublicKey struct {
	raw []byte
}

func (k *ed25519PublicKey) Scheme() types.SignatureScheme { return types.SchemeEd25519 }
func (k *ed25519PublicKey) Bytes() []byte                 { return k.raw }

type ed25519Signature struct {
	raw []byte
}

func (s *ed25519Signature) Scheme() types.SignatureScheme { return types.SchemeEd25519 }
func (s *ed25519Signature) Bytes() []byte                 { return s.raw }

func (ed25519Codec) Scheme() types.SignatureScheme { return types.SchemeEd25519 }

func (ed25519Codec) PublicKeySizes() []int { return []int{Ed25519PublicKeySize} }

func (ed25519Codec) SignatureSize() int { return Ed25519SignatureSize }

func (ed25519Codec) DecodePublicKey(data []byte) (PublicKey, error) {
	const scheme = types.SchemeEd25519
	if len(data) != Ed25519PublicKeySize {
		return nil, lengthError(scheme, FieldPublicKey, len(data), Ed25519PublicKeySize)
	}
	if _, err := new(edwards25519.Point).SetBytes(data); err != nil {
		return nil, pointError(scheme, FieldPublicKey, len(data), err.Error())
	}
	return &ed25519PublicKey{raw: data}, nil
}

func (ed25519Codec) DecodeSignature(data []byte) (Signature, error) {
	const scheme = types.SchemeEd25519
	if len(data) != Ed25519SignatureSize {
		return nil, lengthError(scheme, FieldSignature, len(data), Ed25519SignatureSize)
	}
	if _, err := new(edwards25519.Point).SetBytes(data[:32]); err != nil {
		return nil, pointError(scheme, FieldSignature, len(data), "R: "+err.Error())
	}
	if _, err := edwards25519.NewScalar().SetCanonicalBytes(data[32:]); err != nil {
		return nil, scalarError(scheme, FieldSignature, len(data), "S: "+err.Error())
	}
	return &ed25519Signature{raw: data}, nil
}

func (ed25519Codec) Verify(pub PublicKey, msg []byte, sig Signature) bool {
	key, ok := pub.(*ed25519PublicKey)
	if !ok {
		return false
	}
	s, ok := sig.(*ed25519Signature)
	if !ok {
		return false
	}
	return ed25519consensus.Verify(ed25519.PublicKey(key.raw), msg, s.raw)
}
