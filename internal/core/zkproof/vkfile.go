package zkproof

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/golang/snappy"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

// verificationKeyFile 验证密钥的 JSON 表示
type verificationKeyFile struct {
	Curve   string            `json:"curve"`
	ImageID string            `json:"image_id"`
	Scheme  string            `json:"scheme"`
	Keys    map[string]string `json:"keys"` // 后端 → 十六进制编码的验证密钥
}

// EncodeVerificationKey 序列化验证密钥并用 snappy 压缩
func (o *Orchestrator) EncodeVerificationKey(vk *VerificationKey) ([]byte, error) {
	if vk == nil {
		return nil, WrapInvalidProofError("nil verification key")
	}
	f := verificationKeyFile{
		Curve:   o.curveName,
		ImageID: vk.imageID.String(),
		Scheme:  vk.scheme.String(),
		Keys:    make(map[string]string, len(vk.backends)),
	}
	for backend, setup := range vk.backends {
		f.Keys[backend.String()] = hex.EncodeToString(setup.vkBytes)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode verification key: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// LoadVerificationKey 解析验证密钥，不运行 Setup
//
// 每个后端的密钥都用对应方案反序列化，任何一个失败都返回 ErrInvalidProof。
func (o *Orchestrator) LoadVerificationKey(data []byte) (*VerificationKey, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, WrapInvalidProofError(fmt.Sprintf("decompress verification key: %v", err))
	}
	var f verificationKeyFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, WrapInvalidProofError(fmt.Sprintf("parse verification key: %v", err))
	}
	if f.Curve != o.curveName {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidProof, ErrUnsupportedCurve, f.Curve)
	}
	id, err := hex.DecodeString(f.ImageID)
	if err != nil || len(id) != len(zkvm.ImageID{}) {
		return nil, WrapInvalidProofError(fmt.Sprintf("image_id: %q", f.ImageID))
	}
	scheme, err := types.ParseSignatureScheme(f.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if len(f.Keys) == 0 {
		return nil, WrapInvalidProofError("verification key has no backends")
	}

	vk := &VerificationKey{scheme: scheme, backends: make(map[types.ProofBackend]*backendSetup, len(f.Keys))}
	copy(vk.imageID[:], id)

	names := make([]string, 0, len(f.Keys))
	for name := range f.Keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		backend, err := types.ParseProofBackend(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProof, err)
		}
		scheme, err := o.registry.GetScheme(backend)
		if err != nil {
			return nil, err
		}
		vkBytes, err := hex.DecodeString(f.Keys[name])
		if err != nil {
			return nil, WrapInvalidProofError(fmt.Sprintf("%s key: %v", backend, err))
		}
		key, err := scheme.ReadVerifyingKey(vkBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s key: %w", ErrInvalidProof, backend, err)
		}
		vk.backends[backend] = &backendSetup{vk: key, vkBytes: vkBytes}
	}

	o.logger.Debugf("验证密钥已加载: image=%s, backends=%v", vk.imageID, names)
	return vk, nil
}

// WriteVerificationKeyFile 把验证密钥写入文件
func (o *Orchestrator) WriteVerificationKeyFile(path string, vk *VerificationKey) error {
	data, err := o.EncodeVerificationKey(vk)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadVerificationKeyFile 从文件读取验证密钥
func (o *Orchestrator) ReadVerificationKeyFile(path string) (*VerificationKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verification key file: %w", err)
	}
	return o.LoadVerificationKey(data)
}
