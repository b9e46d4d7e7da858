package sigcodec

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewECDSAWitness 测试导出的数值与签名一致
func TestNewECDSAWitness(t *testing.T) {
	curve := btcec.S256().Params()
	halfOrder := new(big.Int).Rsh(curve.N, 1)

	for _, compressed := range []bool{true, false} {
		pub, sig := ecdsaFixture(t, 9, testMessage, compressed)
		w, err := NewECDSAWitness(pub, testMessage, sig)
		require.NoError(t, err)

		// y² = x³ + 7 (mod p)
		lhs := new(big.Int).Exp(w.PubY, big.NewInt(2), curve.P)
		rhs := new(big.Int).Exp(w.PubX, big.NewInt(3), curve.P)
		rhs.Add(rhs, big.NewInt(7)).Mod(rhs, curve.P)
		assert.Equal(t, 0, lhs.Cmp(rhs))

		digest := sha256.Sum256(testMessage)
		want := new(big.Int).Mod(new(big.Int).SetBytes(digest[:]), curve.N)
		assert.Equal(t, 0, want.Cmp(w.Hash))

		assert.Equal(t, 0, new(big.Int).SetBytes(sig[:32]).Cmp(w.R))
		assert.Equal(t, 0, new(big.Int).SetBytes(sig[32:]).Cmp(w.S))
		assert.True(t, w.S.Cmp(halfOrder) <= 0)
	}
}

// TestNewECDSAWitness_DecodeError 测试无法解码的输入
func TestNewECDSAWitness_DecodeError(t *testing.T) {
	pub, sig := ecdsaFixture(t, 9, testMessage, true)

	_, err := NewECDSAWitness(pub[:10], testMessage, sig)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidLength)

	_, err = NewECDSAWitness(pub, testMessage, sig[:63])
	requireDecodeError(t, err, FieldSignature, ErrInvalidLength)
}

// TestNewEd25519Witness 测试导出的数值满足 [S]B = R + [k]A
func TestNewEd25519Witness(t *testing.T) {
	pub, sig := ed25519Fixture(5, testMessage)
	w, err := NewEd25519Witness(pub, testMessage, sig)
	require.NoError(t, err)

	A, err := new(edwards25519.Point).SetBytes(pub)
	require.NoError(t, err)
	R, err := new(edwards25519.Point).SetBytes(sig[:32])
	require.NoError(t, err)

	s := scalarFromInt(t, w.S)
	k := scalarFromInt(t, w.K)
	lhs := new(edwards25519.Point).ScalarBaseMult(s)
	rhs := new(edwards25519.Point).Add(R, new(edwards25519.Point).ScalarMult(k, A))
	assert.Equal(t, 1, lhs.Equal(rhs))

	// 仿射坐标与编码一致：y 为低 255 位，x 的奇偶为最高位
	ay := littleEndianInt(pub)
	ay.SetBit(ay, 255, 0)
	assert.Equal(t, 0, ay.Cmp(w.AY))
	assert.Equal(t, uint(pub[31]>>7), w.AX.Bit(0))

	ry := littleEndianInt(sig[:32])
	ry.SetBit(ry, 255, 0)
	assert.Equal(t, 0, ry.Cmp(w.RY))

	// 消息不同时挑战值不同
	other, err := NewEd25519Witness(pub, []byte("other"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, 0, w.K.Cmp(other.K))
}

// TestNewEd25519Witness_DecodeError 测试无法解码的输入
func TestNewEd25519Witness_DecodeError(t *testing.T) {
	pub, sig := ed25519Fixture(5, testMessage)

	_, err := NewEd25519Witness(pub[:31], testMessage, sig)
	requireDecodeError(t, err, FieldPublicKey, ErrInvalidLength)

	_, err = NewEd25519Witness(pub, testMessage, sig[:63])
	requireDecodeError(t, err, FieldSignature, ErrInvalidLength)
}

func scalarFromInt(t *testing.T, v *big.Int) *edwards25519.Scalar {
	t.Helper()
	be := v.FillBytes(make([]byte, 32))
	le := make([]byte, 32)
	for i := range be {
		le[31-i] = be[i]
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le)
	require.NoError(t, err)
	return s
}
