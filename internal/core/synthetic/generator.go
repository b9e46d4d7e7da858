// Package synthetic 生成用于基准测试的签名批次
package synthetic

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/weisyn/batchsig/pkg/types"
)

// DefaultMessage 默认签名消息
const DefaultMessage = "hello world"

// Option 生成器选项
type Option func(*Generator)

// WithRand 指定随机源（测试中可传入确定性随机源）
func WithRand(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithMessage 所有签名使用同一条消息
func WithMessage(msg []byte) Option {
	return func(g *Generator) {
		g.message = func(int) []byte { return msg }
	}
}

// WithMessageFunc 按下标生成消息
func WithMessageFunc(fn func(i int) []byte) Option {
	return func(g *Generator) { g.message = fn }
}

// WithUncompressedKeys ECDSA 公钥使用 65 字节非压缩编码
func WithUncompressedKeys() Option {
	return func(g *Generator) { g.compressed = false }
}

// Generator 批次生成器
type Generator struct {
	rand       io.Reader
	message    func(i int) []byte
	compressed bool
}

// New 创建生成器
func New(opts ...Option) *Generator {
	g := &Generator{
		rand:       rand.Reader,
		message:    func(int) []byte { return []byte(DefaultMessage) },
		compressed: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 生成 n 个有效的 (公钥, 消息, 签名)，每个三元组使用独立的新密钥
func (g *Generator) Generate(scheme types.SignatureScheme, n int) (*types.BatchInput, error) {
	if n < 0 {
		return nil, fmt.Errorf("synthetic: negative batch size %d", n)
	}

	batch := &types.BatchInput{
		PublicKeys: make([][]byte, 0, n),
		Messages:   make([][]byte, 0, n),
		Signatures: make([][]byte, 0, n),
	}
	for i := 0; i < n; i++ {
		msg := g.message(i)

		var pub, sig []byte
		var err error
		switch scheme {
		case types.SchemeEcdsaSecp256k1:
			pub, sig, err = g.signECDSA(msg)
		case types.SchemeEd25519:
			pub, sig, err = g.signEd25519(msg)
		default:
			return nil, fmt.Errorf("synthetic: unsupported scheme %s", scheme)
		}
		if err != nil {
			return nil, fmt.Errorf("synthetic: entry %d: %w", i, err)
		}

		batch.PublicKeys = append(batch.PublicKeys, pub)
		batch.Messages = append(batch.Messages, msg)
		batch.Signatures = append(batch.Signatures, sig)
	}
	return batch, nil
}

func (g *Generator) signECDSA(msg []byte) (pub, sig []byte, err error) {
	var seed [32]byte
	for {
		if _, err := io.ReadFull(g.rand, seed[:]); err != nil {
			return nil, nil, err
		}
		// 跳过零标量和超出群阶的种子
		var k btcec.ModNScalar
		if overflow := k.SetBytes(&seed); overflow == 0 && !k.IsZero() {
			break
		}
	}

	priv, pubKey := btcec.PrivKeyFromBytes(seed[:])
	digest := sha256.Sum256(msg)
	// SignCompact 输出 header‖r‖s，且 s 已归一化为 low-S
	compact := btcecdsa.SignCompact(priv, digest[:], g.compressed)

	if g.compressed {
		pub = pubKey.SerializeCompressed()
	} else {
		pub = pubKey.SerializeUncompressed()
	}
	return pub, compact[1:], nil
}

func (g *Generator) signEd25519(msg []byte) (pub, sig []byte, err error) {
	pubKey, priv, err := ed25519.GenerateKey(g.rand)
	if err != nil {
		return nil, nil, err
	}
	return pubKey, ed25519.Sign(priv, msg), nil
}
