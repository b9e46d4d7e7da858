package sigcodec

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"testing"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/pkg/types"
)

var testMessage = []byte("hello world")

// ecdsaFixture 生成确定性的 ECDSA 公钥和 r‖s 签名
func ecdsaFixture(t *testing.T, seed byte, msg []byte, compressed bool) (pub, sig []byte) {
	t.Helper()
	priv, pubKey := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	digest := sha256.Sum256(msg)
	compact := btcecdsa.SignCompact(priv, digest[:], compressed)
	require.Len(t, compact, 65)
	if compressed {
		return pubKey.SerializeCompressed(), compact[1:]
	}
	return pubKey.SerializeUncompressed(), compact[1:]
}

// ed25519Fixture 生成确定性的 Ed25519 公钥和签名
func ed25519Fixture(seed byte, msg []byte) (pub, sig []byte) {
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	return priv.Public().(ed25519.PublicKey), ed25519.Sign(priv, msg)
}

// requireDecodeError 断言错误为指定类别的 *DecodeError
func requireDecodeError(t *testing.T, err error, field Field, kind error) *DecodeError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, field, decodeErr.Field)
	return decodeErr
}

// ============================================================================
// ECDSA 测试
// ============================================================================

// TestECDSA_VerifyValid 测试压缩和非压缩公钥的有效签名
func TestECDSA_VerifyValid(t *testing.T) {
	for _, compressed := range []bool{true, false} {
		pub, sig := ecdsaFixture(t, 7, testMessage, compressed)
		ok, err := Verify(ECDSA(), pub, testMessage, sig)
		require.NoError(t, err)
		require.True(t, ok, "compressed=%v", compressed)
	}
}

// TestECDSA_WrongMessage 测试消息被修改后验证失败但不是解码错误
func TestECDSA_WrongMessage(t *testing.T) {
	pub, sig := ecdsaFixture(t, 7, testMessage, true)
	ok, err := Verify(ECDSA(), pub, []byte("hello world!"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestECDSA_PublicKeyLength 测试公钥长度边界
func TestECDSA_PublicKeyLength(t *testing.T) {
	pub, _ := ecdsaFixture(t, 7, testMessage, true)
	for _, n := range []int{0, 32, 34, 64, 66} {
		data := make([]byte, n)
		copy(data, pub)
		_, err := ECDSA().DecodePublicKey(data)
		decodeErr := requireDecodeError(t, err, FieldPublicKey, ErrInvalidLength)
		require.Equal(t, n, decodeErr.Got)
		require.Equal(t, []int{33, 65}, decodeErr.Want)
	}
}

// TestECDSA_PublicKeyNotOnCurve 测试无效的曲线点
func TestECDSA_PublicKeyNotOnCurve(t *testing.T) {
	// 非法前缀
	bad := make([]byte, 33)
	bad[0] = 0x05
	_, err := ECDSA().DecodePublicKey(bad)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidPoint)

	// 混合格式前缀
	uncompressed, _ := ecdsaFixture(t, 7, testMessage, false)
	hybrid := append([]byte(nil), uncompressed...)
	hybrid[0] = 0x06
	_, err = ECDSA().DecodePublicKey(hybrid)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidPoint)

	// 坐标不在曲线上
	offCurve := append([]byte(nil), uncompressed...)
	offCurve[64] ^= 0x01
	_, err = ECDSA().DecodePublicKey(offCurve)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidPoint)
}

// TestECDSA_SignatureLength 测试签名长度边界
func TestECDSA_SignatureLength(t *testing.T) {
	for _, n := range []int{0, 63, 65, 72} {
		_, err := ECDSA().DecodeSignature(make([]byte, n))
		requireDecodeError(t, err, FieldSignature, ErrInvalidLength)
	}
}

// TestECDSA_SignatureScalars 测试 r/s 超出范围
func TestECDSA_SignatureScalars(t *testing.T) {
	_, sig := ecdsaFixture(t, 7, testMessage, true)

	zeroR := append([]byte(nil), sig...)
	copy(zeroR[:32], make([]byte, 32))
	_, err := ECDSA().DecodeSignature(zeroR)
	requireDecodeError(t, err, FieldSignature, ErrInvalidScalar)

	overflowS := append([]byte(nil), sig...)
	copy(overflowS[32:], bytes.Repeat([]byte{0xff}, 32))
	_, err = ECDSA().DecodeSignature(overflowS)
	requireDecodeError(t, err, FieldSignature, ErrInvalidScalar)
}

// TestECDSA_HighSRejected 测试 high-S 签名被拒绝
func TestECDSA_HighSRejected(t *testing.T) {
	pub, sig := ecdsaFixture(t, 7, testMessage, true)

	var s secp256k1.ModNScalar
	require.False(t, s.SetByteSlice(sig[32:]))
	require.False(t, s.IsOverHalfOrder(), "生成的签名应为 low-S")
	s.Negate()
	highS := s.Bytes()

	malleated := append([]byte(nil), sig[:32]...)
	malleated = append(malleated, highS[:]...)
	ok, err := Verify(ECDSA(), pub, testMessage, malleated)
	require.False(t, ok)
	requireDecodeError(t, err, FieldSignature, ErrNonCanonical)
}

// ============================================================================
// Ed25519 测试
// ============================================================================

// TestEd25519_VerifyValid 测试有效签名
func TestEd25519_VerifyValid(t *testing.T) {
	pub, sig := ed25519Fixture(3, testMessage)
	ok, err := Verify(Ed25519(), pub, testMessage, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestEd25519_EmptyMessage 测试空消息
func TestEd25519_EmptyMessage(t *testing.T) {
	pub, sig := ed25519Fixture(3, nil)
	ok, err := Verify(Ed25519(), pub, nil, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestEd25519_TamperedSignature 测试签名 R 部分单比特翻转后验证失败
func TestEd25519_TamperedSignature(t *testing.T) {
	pub, sig := ed25519Fixture(3, testMessage)
	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0x01

	ok, err := Verify(Ed25519(), pub, testMessage, tampered)
	if err != nil {
		// R 翻转后可能不再是曲线点
		requireDecodeError(t, err, FieldSignature, ErrInvalidPoint)
	}
	require.False(t, ok)
}

// TestEd25519_PublicKeyLength 测试公钥长度边界（31 与 65 字节）
func TestEd25519_PublicKeyLength(t *testing.T) {
	pub, sig := ed25519Fixture(3, testMessage)
	for _, n := range []int{0, 31, 33, 65} {
		data := make([]byte, n)
		copy(data, pub)
		ok, err := Verify(Ed25519(), data, testMessage, sig)
		require.False(t, ok)
		decodeErr := requireDecodeError(t, err, FieldPublicKey, ErrInvalidLength)
		require.Equal(t, types.SchemeEd25519, decodeErr.Scheme)
		require.Equal(t, n, decodeErr.Got)
	}
}

// TestEd25519_PublicKeyNotOnCurve 测试无法解码的公钥
func TestEd25519_PublicKeyNotOnCurve(t *testing.T) {
	var bad []byte
	for i := 2; i < 256; i++ {
		candidate := make([]byte, 32)
		candidate[0] = byte(i)
		if _, err := new(edwards25519.Point).SetBytes(candidate); err != nil {
			bad = candidate
			break
		}
	}
	require.NotNil(t, bad, "应能找到不在曲线上的 y 坐标")

	_, err := Ed25519().DecodePublicKey(bad)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidPoint)
}

// TestEd25519_NonCanonicalScalar 测试 S 不是规范标量
func TestEd25519_NonCanonicalScalar(t *testing.T) {
	_, sig := ed25519Fixture(3, testMessage)
	bad := append([]byte(nil), sig...)
	copy(bad[32:], bytes.Repeat([]byte{0xff}, 32))

	_, err := Ed25519().DecodeSignature(bad)
	requireDecodeError(t, err, FieldSignature, ErrInvalidScalar)
}

// TestEd25519_SignatureLength 测试签名长度边界
func TestEd25519_SignatureLength(t *testing.T) {
	for _, n := range []int{0, 63, 65} {
		_, err := Ed25519().DecodeSignature(make([]byte, n))
		requireDecodeError(t, err, FieldSignature, ErrInvalidLength)
	}
}

// ============================================================================
// 通用测试
// ============================================================================

// TestForScheme 测试按方案获取编解码器
func TestForScheme(t *testing.T) {
	codec, err := ForScheme(types.SchemeEcdsaSecp256k1)
	require.NoError(t, err)
	require.Equal(t, types.SchemeEcdsaSecp256k1, codec.Scheme())
	require.Equal(t, 64, codec.SignatureSize())

	codec, err = ForScheme(types.SchemeEd25519)
	require.NoError(t, err)
	require.Equal(t, []int{32}, codec.PublicKeySizes())

	_, err = ForScheme(types.SignatureScheme(99))
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

// TestVerify_CrossSchemeTypes 测试不同方案的公钥和签名不会互相验证
func TestVerify_CrossSchemeTypes(t *testing.T) {
	ecPub, ecSig := ecdsaFixture(t, 7, testMessage, true)
	edPub, edSig := ed25519Fixture(3, testMessage)

	ecKey, err := ECDSA().DecodePublicKey(ecPub)
	require.NoError(t, err)
	edSignature, err := Ed25519().DecodeSignature(edSig)
	require.NoError(t, err)
	require.False(t, ECDSA().Verify(ecKey, testMessage, edSignature))

	edKey, err := Ed25519().DecodePublicKey(edPub)
	require.NoError(t, err)
	ecSignature, err := ECDSA().DecodeSignature(ecSig)
	require.NoError(t, err)
	require.False(t, Ed25519().Verify(edKey, testMessage, ecSignature))
}

// TestDecodeError_Message 测试错误信息包含方案、字段与长度
func TestDecodeError_Message(t *testing.T) {
	_, err := Ed25519().DecodePublicKey(make([]byte, 31))
	require.EqualError(t, err, "ed25519 public key: invalid length: got 31 bytes, want 32")
}
