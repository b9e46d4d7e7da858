// Package boundary 定义主机与程序之间的数据编码
//
// 输入是三个字节串序列（公钥、消息、签名），按顺序编码：
//
//	u64 元素个数，随后每个元素为 u64 长度 + 原始字节
//
// 所有整数均为小端序。公开输出为 4 字节小端 u32。
package boundary

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weisyn/batchsig/pkg/types"
)

// CountSize 公开输出的字节长度
const CountSize = 4

var (
	// ErrMalformedFrame 输入编码损坏（截断、长度前缀越界或存在多余字节）
	ErrMalformedFrame = errors.New("boundary: malformed input frame")

	// ErrMalformedOutput 公开输出不是 4 字节
	ErrMalformedOutput = errors.New("boundary: malformed output")
)

// EncodeBatch 编码批次
//
// 三个序列长度可以不一致，由程序负责检查。
func EncodeBatch(batch *types.BatchInput) []byte {
	size := 0
	for _, seq := range [][][]byte{batch.PublicKeys, batch.Messages, batch.Signatures} {
		size += 8
		for _, item := range seq {
			size += 8 + len(item)
		}
	}

	buf := make([]byte, 0, size)
	buf = appendSequence(buf, batch.PublicKeys)
	buf = appendSequence(buf, batch.Messages)
	buf = appendSequence(buf, batch.Signatures)
	return buf
}

func appendSequence(buf []byte, seq [][]byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(seq)))
	for _, item := range seq {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(item)))
		buf = append(buf, item...)
	}
	return buf
}

// DecodeBatch 解码批次
//
// 返回的字节串引用 data 的底层数组，调用方不得再修改 data。
func DecodeBatch(data []byte) (*types.BatchInput, error) {
	r := &reader{data: data}

	pubs, err := r.sequence("public keys")
	if err != nil {
		return nil, err
	}
	msgs, err := r.sequence("messages")
	if err != nil {
		return nil, err
	}
	sigs, err := r.sequence("signatures")
	if err != nil {
		return nil, err
	}
	if rest := len(r.data) - r.off; rest != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedFrame, rest)
	}

	return &types.BatchInput{PublicKeys: pubs, Messages: msgs, Signatures: sigs}, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() uint64 {
	return uint64(len(r.data) - r.off)
}

func (r *reader) u64(what string) (uint64, error) {
	if r.remaining() < 8 {
		return 0, fmt.Errorf("%w: truncated %s length at offset %d", ErrMalformedFrame, what, r.off)
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) sequence(what string) ([][]byte, error) {
	count, err := r.u64(what)
	if err != nil {
		return nil, err
	}
	// 每个元素至少占 8 字节长度前缀
	if count > r.remaining()/8 {
		return nil, fmt.Errorf("%w: %s count %d exceeds frame", ErrMalformedFrame, what, count)
	}

	seq := make([][]byte, count)
	for i := range seq {
		n, err := r.u64(what)
		if err != nil {
			return nil, err
		}
		if n > r.remaining() {
			return nil, fmt.Errorf("%w: %s[%d] length %d exceeds frame", ErrMalformedFrame, what, i, n)
		}
		end := r.off + int(n)
		seq[i] = r.data[r.off:end:end]
		r.off = end
	}
	return seq, nil
}

// EncodeCount 编码公开输出
func EncodeCount(n uint32) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, CountSize), n)
}

// DecodeCount 解码公开输出
func DecodeCount(data []byte) (uint32, error) {
	if len(data) != CountSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedOutput, len(data), CountSize)
	}
	return binary.LittleEndian.Uint32(data), nil
}
