// Package batchverify 实现批量签名验证程序
//
// 程序读取一个批次，按下标顺序逐个验证，任意一个失败立即中止；
// 全部通过时提交批次长度。不存在部分成功的结果。
package batchverify

import (
	"fmt"
	"math"

	"github.com/weisyn/batchsig/internal/core/sigcodec"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/types"
)

const (
	// ImageName 镜像名称
	ImageName = "batch-verify"
	// ImageVersion 镜像版本，修改验证逻辑时需要递增
	ImageVersion = "2"
)

// Program 单一签名方案的批量验证程序
type Program struct {
	codec sigcodec.Codec
}

// New 创建程序
func New(scheme types.SignatureScheme) (*Program, error) {
	codec, err := sigcodec.ForScheme(scheme)
	if err != nil {
		return nil, err
	}
	return &Program{codec: codec}, nil
}

// NewImage 创建指定方案的程序镜像
//
// batchSize 是证明电路编译时固定的签名数量，程序本身接受任意长度的批次。
func NewImage(scheme types.SignatureScheme, batchSize int) (*zkvm.Image, error) {
	if batchSize < 0 || batchSize > math.MaxUint32 {
		return nil, fmt.Errorf("%w: batch size %d out of range", zkvm.ErrInvalidImage, batchSize)
	}
	program, err := New(scheme)
	if err != nil {
		return nil, err
	}
	return &zkvm.Image{
		Name:      ImageName,
		Version:   ImageVersion,
		Scheme:    scheme,
		BatchSize: uint32(batchSize),
		Program:   program,
	}, nil
}

// Run 实现 zkvm.Program
func (p *Program) Run(env zkvm.Env) error {
	batch, err := boundary.ReadBatch(env)
	if err != nil {
		return &Fault{Kind: FaultFraming, Index: -1, Err: err}
	}

	n, err := p.VerifyBatch(batch)
	if err != nil {
		return err
	}
	return boundary.CommitCount(env, n)
}

// VerifyBatch 验证整个批次，返回通过验证的数量
//
// 长度检查先于任何解码。失败时返回 *Fault。
func (p *Program) VerifyBatch(batch *types.BatchInput) (int, error) {
	n := batch.Len()
	if n < 0 {
		return 0, &Fault{
			Kind:  FaultLengthMismatch,
			Index: -1,
			Err: fmt.Errorf("%w: %d public keys, %d messages, %d signatures", ErrLengthMismatch,
				len(batch.PublicKeys), len(batch.Messages), len(batch.Signatures)),
		}
	}

	for i := 0; i < n; i++ {
		ok, err := sigcodec.Verify(p.codec, batch.PublicKeys[i], batch.Messages[i], batch.Signatures[i])
		if err != nil {
			return 0, &Fault{Kind: FaultCodec, Index: i, Err: err}
		}
		if !ok {
			return 0, &Fault{Kind: FaultVerification, Index: i, Err: sigcodec.ErrSignatureMismatch}
		}
	}
	return n, nil
}
