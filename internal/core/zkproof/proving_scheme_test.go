package zkproof

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/internal/core/guest/batchverify"
	"github.com/weisyn/batchsig/internal/core/testutil"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

// TestProvingSchemeRegistry 测试证明方案注册表
func TestProvingSchemeRegistry(t *testing.T) {
	registry := NewProvingSchemeRegistry(ecc.BN254, testutil.NewTestLogger())

	assert.Equal(t, []types.ProofBackend{types.BackendGroth16, types.BackendPlonk}, registry.Backends())
	assert.True(t, registry.IsSupported(types.BackendGroth16))
	assert.True(t, registry.IsSupported(types.BackendPlonk))
	assert.False(t, registry.IsSupported("stark"))

	scheme, err := registry.GetScheme(types.BackendPlonk)
	require.NoError(t, err)
	assert.Equal(t, types.BackendPlonk, scheme.Backend())
	assert.Equal(t, ecc.BN254, scheme.Curve())

	_, err = registry.GetScheme("stark")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

// TestProvingScheme_ReadEmpty 测试空数据无法反序列化
func TestProvingScheme_ReadEmpty(t *testing.T) {
	logger := testutil.NewTestLogger()
	for _, scheme := range []ProvingScheme{NewGroth16Scheme(ecc.BN254, logger), NewPlonKScheme(ecc.BN254, logger)} {
		_, err := scheme.ReadProof(nil)
		assert.Error(t, err, scheme.Backend())
		_, err = scheme.ReadVerifyingKey(nil)
		assert.Error(t, err, scheme.Backend())
		_, err = scheme.ReadProvingKey(nil)
		assert.Error(t, err, scheme.Backend())
	}
}

func testImage(t *testing.T, scheme types.SignatureScheme, size int) *zkvm.Image {
	t.Helper()
	img, err := batchverify.NewImage(scheme, size)
	require.NoError(t, err)
	return img
}

// TestCircuitManager_Compile 测试电路编译结果被缓存
func TestCircuitManager_Compile(t *testing.T) {
	logger := testutil.NewTestLogger()
	cm := NewCircuitManager(logger, NewProvingSchemeRegistry(ecc.BN254, logger), nil)
	img := testImage(t, types.SchemeEd25519, 0)

	for _, backend := range []types.ProofBackend{types.BackendGroth16, types.BackendPlonk} {
		first, err := cm.Compile(backend, img)
		require.NoError(t, err)
		assert.Positive(t, first.ccs.GetNbConstraints())

		second, err := cm.Compile(backend, img)
		require.NoError(t, err)
		assert.Same(t, first, second)
	}

	g, err := cm.Compile(types.BackendGroth16, img)
	require.NoError(t, err)
	p, err := cm.Compile(types.BackendPlonk, img)
	require.NoError(t, err)
	assert.NotEqual(t, g.digest, p.digest)

	_, err = cm.Compile("stark", img)
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	bad := *img
	bad.Scheme = types.SignatureScheme(9)
	_, err = cm.Compile(types.BackendGroth16, &bad)
	assert.ErrorIs(t, err, ErrCircuitCompilationFailed)
}

// TestCircuitManager_BindImage 测试绑定后的镜像标识随电路变化
func TestCircuitManager_BindImage(t *testing.T) {
	logger := testutil.NewTestLogger()
	cm := NewCircuitManager(logger, NewProvingSchemeRegistry(ecc.BN254, logger), nil)

	empty := testImage(t, types.SchemeEcdsaSecp256k1, 0)
	one := testImage(t, types.SchemeEcdsaSecp256k1, 1)

	a, err := cm.BindImage(empty)
	require.NoError(t, err)
	b, err := cm.BindImage(empty)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, empty.ID(), a)

	c, err := cm.BindImage(one)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := cm.BindImage(testImage(t, types.SchemeEd25519, 0))
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}
