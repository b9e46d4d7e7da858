package sigcodec

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/weisyn/batchsig/pkg/types"
)

// secp256k1 编码长度
const (
	ECDSACompressedPublicKeySize   = 33
	ECDSAUncompressedPublicKeySize = 65
	ECDSASignatureSize             = 64
)

// sec1Uncompressed SEC1 非压缩点的前缀
const sec1Uncompressed = 0x04

type ecdsaCodec struct{}

// ECDSA 返回 secp256k1 ECDSA 编解码器
//
// 公钥为 SEC1 编码（33 字节压缩或 65 字节非压缩），签名为 64 字节 r‖s（大端）。
// 验证对象是 SHA-256(msg)。high-S 签名作为非规范编码拒绝。
func ECDSA() Codec {
	return ecdsaCodec{}
}

type ecdsaPublicKey struct {
	key *btcec.PublicKey
	raw []byte
}

func (k *ecdsaPublicKey) Scheme() types.SignatureScheme { return types.SchemeEcdsaSecp256k1 }
func (k *ecdsaPublicKey) Bytes() []byte                 { return k.raw }

type ecdsaSignature struct {
	sig *btcecdsa.Signature
	raw []byte
}

func (s *ecdsaSignature) Scheme() types.SignatureScheme { return types.SchemeEcdsaSecp256k1 }
func (s *ecdsaSignature) Bytes() []byte                 { return s.raw }

func (ecdsaCodec) Scheme() types.SignatureScheme { return types.SchemeEcdsaSecp256k1 }

func (ecdsaCodec) PublicKeySizes() []int {
	return []int{ECDSACompressedPublicKeySize, ECDSAUncompressedPublicKeySize}
}

func (ecdsaCodec) SignatureSize() int { return ECDSASignatureSize }

func (ecdsaCodec) DecodePublicKey(data []byte) (PublicKey, error) {
	const scheme = types.SchemeEcdsaSecp256k1
	switch len(data) {
	case ECDSACompressedPublicKeySize:
	case ECDSAUncompressedPublicKeySize:
		// 只接受 SEC1 非压缩格式，拒绝 0x06/0x07 混合格式
		if data[0] != sec1Uncompressed {
			return nil, pointError(scheme, FieldPublicKey, len(data), "unsupported SEC1 tag")
		}
	default:
		return nil, lengthError(scheme, FieldPublicKey, len(data), ECDSACompressedPublicKeySize, ECDSAUncompressedPublicKeySize)
	}

	key, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, pointError(scheme, FieldPublicKey, len(data), err.Error())
	}
	return &ecdsaPublicKey{key: key, raw: data}, nil
}

func (ecdsaCodec) DecodeSignature(data []byte) (Signature, error) {
	const scheme = types.SchemeEcdsaSecp256k1
	if len(data) != ECDSASignatureSize {
		return nil, lengthError(scheme, FieldSignature, len(data), ECDSASignatureSize)
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(data[:32]); overflow || r.IsZero() {
		return nil, scalarError(scheme, FieldSignature, len(data), "r out of range")
	}
	if overflow := s.SetByteSlice(data[32:]); overflow || s.IsZero() {
		return nil, scalarError(scheme, FieldSignature, len(data), "s out of range")
	}
	if s.IsOverHalfOrder() {
		return nil, nonCanonicalError(scheme, FieldSignature, len(data), "high s")
	}

	return &ecdsaSignature{sig: btcecdsa.NewSignature(&r, &s), raw: data}, nil
}

func (ecdsaCodec) Verify(pub PublicKey, msg []byte, sig Signature) bool {
	key, ok := pub.(*ecdsaPublicKey)
	if !ok {
		return false
	}
	s, ok := sig.(*ecdsaSignature)
	if !ok {
		return false
	}
	digest := sha256.Sum256(msg)
	return s.sig.Verify(digest[:], key.key)
}
