package batchverify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/internal/core/sigcodec"
	"github.com/weisyn/batchsig/internal/core/synthetic"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/types"
)

var schemes = []types.SignatureScheme{types.SchemeEcdsaSecp256k1, types.SchemeEd25519}

func execute(t *testing.T, scheme types.SignatureScheme, batch *types.BatchInput) (*zkvm.Session, error) {
	t.Helper()
	img, err := NewImage(scheme, 0)
	require.NoError(t, err)
	return zkvm.NewExecutor(0, nil).Execute(context.Background(), img, boundary.EncodeBatch(batch))
}

func requireFault(t *testing.T, err error, kind FaultKind, index int) *Fault {
	t.Helper()
	require.Error(t, err)
	var fault *Fault
	require.True(t, errors.As(err, &fault), "expected *Fault, got %T: %v", err, err)
	assert.Equal(t, kind, fault.Kind)
	assert.Equal(t, index, fault.Index)
	return fault
}

// TestRun_AllValid 测试 N 个有效签名提交 N
func TestRun_AllValid(t *testing.T) {
	for _, scheme := range schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			batch, err := synthetic.New().Generate(scheme, 20)
			require.NoError(t, err)

			session, err := execute(t, scheme, batch)
			require.NoError(t, err)
			n, err := boundary.DecodeCount(session.Journal)
			require.NoError(t, err)
			assert.Equal(t, uint32(20), n)
		})
	}
}

// TestRun_EmptyBatch 测试空批次提交 0
func TestRun_EmptyBatch(t *testing.T) {
	for _, scheme := range schemes {
		session, err := execute(t, scheme, &types.BatchInput{})
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0}, session.Journal)
	}
}

// TestRun_BadSignaturePosition 测试首、中、尾位置的无效签名都会中止
func TestRun_BadSignaturePosition(t *testing.T) {
	for _, scheme := range schemes {
		for _, pos := range []int{0, 2, 4} {
			batch, err := synthetic.New().Generate(scheme, 5)
			require.NoError(t, err)
			batch.Messages[pos] = []byte("tampered message")

			session, err := execute(t, scheme, batch)
			assert.Nil(t, session)
			fault := requireFault(t, err, FaultVerification, pos)
			assert.ErrorIs(t, fault, sigcodec.ErrSignatureMismatch)
		}
	}
}

// TestRun_LengthMismatch 测试长度不一致在任何解码之前中止
func TestRun_LengthMismatch(t *testing.T) {
	batch, err := synthetic.New().Generate(types.SchemeEd25519, 3)
	require.NoError(t, err)
	// 即使第一个公钥无法解码，也应先报告长度不一致
	batch.PublicKeys[0] = []byte{0x01}
	batch.Signatures = batch.Signatures[:2]

	_, err = execute(t, types.SchemeEd25519, batch)
	fault := requireFault(t, err, FaultLengthMismatch, -1)
	assert.ErrorIs(t, fault, ErrLengthMismatch)
}

// TestRun_InvalidEncoding 测试无效编码以 codec 类型中止
func TestRun_InvalidEncoding(t *testing.T) {
	for _, size := range []int{31, 65} {
		batch, err := synthetic.New().Generate(types.SchemeEd25519, 3)
		require.NoError(t, err)
		batch.PublicKeys[1] = make([]byte, size)

		_, err = execute(t, types.SchemeEd25519, batch)
		fault := requireFault(t, err, FaultCodec, 1)
		assert.ErrorIs(t, fault, sigcodec.ErrInvalidLength)
	}
}

// TestRun_MalformedFrame 测试损坏的输入帧
func TestRun_MalformedFrame(t *testing.T) {
	img, err := NewImage(types.SchemeEcdsaSecp256k1, 0)
	require.NoError(t, err)

	_, err = zkvm.NewExecutor(0, nil).Execute(context.Background(), img, []byte{1, 2, 3})
	fault := requireFault(t, err, FaultFraming, -1)
	assert.ErrorIs(t, fault, boundary.ErrMalformedFrame)
}

// TestRun_BitFlipTampering 测试签名任意单比特翻转都会中止
//
// 翻转位置按固定步长遍历签名的每个字节，结果是确定的。
func TestRun_BitFlipTampering(t *testing.T) {
	for _, scheme := range schemes {
		batch, err := synthetic.New().Generate(scheme, 3)
		require.NoError(t, err)
		program, err := New(scheme)
		require.NoError(t, err)

		original := batch.Signatures[1]
		for bit := 0; bit < len(original)*8; bit += 7 {
			tampered := append([]byte(nil), original...)
			tampered[bit/8] ^= 1 << (bit % 8)
			batch.Signatures[1] = tampered

			n, err := program.VerifyBatch(batch)
			require.Error(t, err, "%s bit %d", scheme, bit)
			assert.Zero(t, n)

			var fault *Fault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, 1, fault.Index)
			assert.Contains(t, []FaultKind{FaultCodec, FaultVerification}, fault.Kind)
		}
		batch.Signatures[1] = original
	}
}

// TestNewImage 测试不同方案或批次大小产生不同镜像
func TestNewImage(t *testing.T) {
	a, err := NewImage(types.SchemeEcdsaSecp256k1, 4)
	require.NoError(t, err)
	b, err := NewImage(types.SchemeEd25519, 4)
	require.NoError(t, err)
	c, err := NewImage(types.SchemeEcdsaSecp256k1, 5)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, uint32(4), a.BatchSize)
	require.NoError(t, a.Validate())

	_, err = NewImage(types.SignatureScheme(0), 1)
	assert.ErrorIs(t, err, sigcodec.ErrUnsupportedScheme)

	_, err = NewImage(types.SchemeEd25519, -1)
	assert.ErrorIs(t, err, zkvm.ErrInvalidImage)
}
