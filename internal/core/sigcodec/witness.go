package sigcodec

import (
	"crypto/sha256"
	"crypto/sha512"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ECDSAWitness 一个 secp256k1 签名在证明电路中使用的数值
//
// 所有数值都是规范表示：坐标小于 p，标量小于 n。
type ECDSAWitness struct {
	PubX, PubY *big.Int // 公钥仿射坐标
	Hash       *big.Int // SHA-256(msg) 模 n
	R, S       *big.Int
}

// NewECDSAWitness 解码公钥与签名并导出电路数值
//
// 只做解码，不检查签名是否成立；解码失败返回 *DecodeError。
func NewECDSAWitness(pub, msg, sig []byte) (*ECDSAWitness, error) {
	codec := ecdsaCodec{}
	key, err := codec.DecodePublicKey(pub)
	if err != nil {
		return nil, err
	}
	s, err := codec.DecodeSignature(sig)
	if err != nil {
		return nil, err
	}
	pk := key.(*ecdsaPublicKey).key
	decoded := s.(*ecdsaSignature).sig

	// 与 btcec 的验证一致：摘要按大端解释后模 n
	digest := sha256.Sum256(msg)
	var e secp256k1.ModNScalar
	e.SetByteSlice(digest[:])

	r, sv := decoded.R(), decoded.S()
	return &ECDSAWitness{
		PubX: pk.X(),
		PubY: pk.Y(),
		Hash: scalarInt(&e),
		R:    scalarInt(&r),
		S:    scalarInt(&sv),
	}, nil
}

func scalarInt(s *secp256k1.ModNScalar) *big.Int {
	b := s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Ed25519Witness 一个 Ed25519 签名在证明电路中使用的数值
//
// A、R 为解码后的仿射坐标（规范表示），S 为签名标量，
// K 为挑战值 SHA-512(R‖A‖M) 模 L。
type Ed25519Witness struct {
	AX, AY *big.Int
	RX, RY *big.Int
	S, K   *big.Int
}

// NewEd25519Witness 解码公钥与签名并导出电路数值
//
// 挑战值按 ZIP-215 的方式使用原始编码计算。只做解码，不检查签名是否成立。
func NewEd25519Witness(pub, msg, sig []byte) (*Ed25519Witness, error) {
	codec := ed25519Codec{}
	if _, err := codec.DecodePublicKey(pub); err != nil {
		return nil, err
	}
	if _, err := codec.DecodeSignature(sig); err != nil {
		return nil, err
	}

	// 上面的解码已经检查过编码，这里不会失败
	a, _ := new(edwards25519.Point).SetBytes(pub)
	r, _ := new(edwards25519.Point).SetBytes(sig[:32])
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])

	h := sha512.New()
	h.Write(sig[:32])
	h.Write(pub)
	h.Write(msg)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}

	w := &Ed25519Witness{S: littleEndianInt(s.Bytes()), K: littleEndianInt(k.Bytes())}
	w.AX, w.AY = affine(a)
	w.RX, w.RY = affine(r)
	return w, nil
}

// affine 把扩展坐标转换为仿射坐标
func affine(p *edwards25519.Point) (*big.Int, *big.Int) {
	X, Y, Z, _ := p.ExtendedCoordinates()
	zInv := new(field.Element).Invert(Z)
	x := new(field.Element).Multiply(X, zInv)
	y := new(field.Element).Multiply(Y, zInv)
	return littleEndianInt(x.Bytes()), littleEndianInt(y.Bytes())
}

func littleEndianInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}
