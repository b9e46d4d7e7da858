package zkproof

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

func sampleProof() *Proof {
	var id zkvm.ImageID
	for i := range id {
		id[i] = byte(i)
	}
	return &Proof{
		Backend:      types.BackendPlonk,
		Curve:        "bn254",
		ImageID:      id,
		PublicOutput: []byte{20, 0, 0, 0},
		Claim:        make([]byte, ClaimSize),
		Data:         []byte{0xde, 0xad, 0xbe, 0xef},
	}
}

// TestBundle_RoundTrip 测试证明包编码与解码
func TestBundle_RoundTrip(t *testing.T) {
	p := sampleProof()

	data, err := EncodeBundle(p)
	require.NoError(t, err)

	got, err := DecodeBundle(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	count, err := got.Count()
	require.NoError(t, err)
	assert.Equal(t, uint32(20), count)
}

// TestBundle_JSONFields 测试 JSON 字段名与十六进制编码
func TestBundle_JSONFields(t *testing.T) {
	raw, err := json.Marshal(sampleProof())
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "plonk", fields["backend"])
	assert.Equal(t, "bn254", fields["curve"])
	assert.Equal(t, "14000000", fields["public_output"])
	assert.Equal(t, "deadbeef", fields["proof"])
	assert.Len(t, fields["image_id"], 64)
}

// TestBundle_Malformed 测试损坏的证明包返回 ErrInvalidProof
func TestBundle_Malformed(t *testing.T) {
	_, err := DecodeBundle([]byte("not snappy"))
	assert.ErrorIs(t, err, ErrInvalidProof)

	_, err = DecodeBundle(snappy.Encode(nil, []byte("{")))
	assert.ErrorIs(t, err, ErrInvalidProof)

	cases := map[string]string{
		"bad backend":  `{"backend":"stark","curve":"bn254","image_id":"","public_output":"","claim":"","proof":""}`,
		"bad hex":      `{"backend":"groth16","curve":"bn254","image_id":"zz","public_output":"","claim":"","proof":""}`,
		"short image":  `{"backend":"groth16","curve":"bn254","image_id":"0102","public_output":"","claim":"","proof":""}`,
		"bad proof":    `{"backend":"groth16","curve":"bn254","image_id":"` + sampleProof().ImageID.String() + `","public_output":"","claim":"","proof":"x"}`,
		"bad claim":    `{"backend":"groth16","curve":"bn254","image_id":"` + sampleProof().ImageID.String() + `","public_output":"","claim":"0","proof":""}`,
		"bad output":   `{"backend":"groth16","curve":"bn254","image_id":"` + sampleProof().ImageID.String() + `","public_output":"q","claim":"","proof":""}`,
		"not a object": `[]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBundle(snappy.Encode(nil, []byte(body)))
			assert.ErrorIs(t, err, ErrInvalidProof)
		})
	}
}

// TestProofFile_RoundTrip 测试证明文件读写
func TestProofFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.bin")
	p := sampleProof()

	require.NoError(t, WriteProofFile(path, p))
	got, err := ReadProofFile(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = ReadProofFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
