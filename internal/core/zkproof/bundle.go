package zkproof

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/snappy"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

// proofBundle 证明的 JSON 表示，二进制字段使用十六进制
type proofBundle struct {
	Backend      string `json:"backend"`
	Curve        string `json:"curve"`
	ImageID      string `json:"image_id"`
	PublicOutput string `json:"public_output"`
	Claim        string `json:"claim"`
	Proof        string `json:"proof"`
}

// MarshalJSON 实现 json.Marshaler
func (p *Proof) MarshalJSON() ([]byte, error) {
	return json.Marshal(proofBundle{
		Backend:      p.Backend.String(),
		Curve:        p.Curve,
		ImageID:      p.ImageID.String(),
		PublicOutput: hex.EncodeToString(p.PublicOutput),
		Claim:        hex.EncodeToString(p.Claim),
		Proof:        hex.EncodeToString(p.Data),
	})
}

// UnmarshalJSON 实现 json.Unmarshaler
func (p *Proof) UnmarshalJSON(data []byte) error {
	var b proofBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}

	backend, err := types.ParseProofBackend(b.Backend)
	if err != nil {
		return err
	}
	imageID, err := hex.DecodeString(b.ImageID)
	if err != nil {
		return fmt.Errorf("image_id: %w", err)
	}
	if len(imageID) != len(zkvm.ImageID{}) {
		return fmt.Errorf("image_id: got %d bytes, want %d", len(imageID), len(zkvm.ImageID{}))
	}
	output, err := hex.DecodeString(b.PublicOutput)
	if err != nil {
		return fmt.Errorf("public_output: %w", err)
	}
	claim, err := hex.DecodeString(b.Claim)
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	proof, err := hex.DecodeString(b.Proof)
	if err != nil {
		return fmt.Errorf("proof: %w", err)
	}

	*p = Proof{
		Backend:      backend,
		Curve:        b.Curve,
		PublicOutput: output,
		Claim:        claim,
		Data:         proof,
	}
	copy(p.ImageID[:], imageID)
	return nil
}

// EncodeBundle 序列化证明并用 snappy 压缩
func EncodeBundle(p *Proof) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode proof bundle: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// DecodeBundle 解压并解析证明
func DecodeBundle(data []byte) (*Proof, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, WrapInvalidProofError(fmt.Sprintf("decompress bundle: %v", err))
	}
	p := &Proof{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, WrapInvalidProofError(fmt.Sprintf("parse bundle: %v", err))
	}
	return p, nil
}

// WriteProofFile 把证明写入文件
func WriteProofFile(path string, p *Proof) error {
	data, err := EncodeBundle(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadProofFile 从文件读取证明
func ReadProofFile(path string) (*Proof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proof file: %w", err)
	}
	return DecodeBundle(data)
}
