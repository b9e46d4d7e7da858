package batchverify

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch 公钥、消息、签名三个序列长度不一致
var ErrLengthMismatch = errors.New("batchverify: input sequences have different lengths")

// FaultKind 中止原因
type FaultKind string

const (
	// FaultFraming 输入无法解码
	FaultFraming FaultKind = "framing"
	// FaultLengthMismatch 序列长度不一致
	FaultLengthMismatch FaultKind = "length_mismatch"
	// FaultCodec 公钥或签名编码无效
	FaultCodec FaultKind = "codec"
	// FaultVerification 签名验证不通过
	FaultVerification FaultKind = "verification"
)

// Fault 程序中止
//
// Index 为出错元素的下标，仅用于主机侧诊断，不进入公开输出。
// 与单个元素无关的中止（解码、长度检查）Index 为 -1。
type Fault struct {
	Kind  FaultKind
	Index int
	Err   error
}

func (f *Fault) Error() string {
	if f.Index < 0 {
		return fmt.Sprintf("batch verification aborted (%s): %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("batch verification aborted at index %d (%s): %v", f.Index, f.Kind, f.Err)
}

// Unwrap 返回底层错误
func (f *Fault) Unwrap() error {
	return f.Err
}
