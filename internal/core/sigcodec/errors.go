package sigcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/weisyn/batchsig/pkg/types"
)

// ============================================================================
//                            签名编解码错误定义
// ============================================================================

var (
	// ErrInvalidLength 编码长度不符合方案要求
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidPoint 编码不是曲线上的有效点
	ErrInvalidPoint = errors.New("invalid curve point")

	// ErrInvalidScalar 标量为零或超出群阶
	ErrInvalidScalar = errors.New("invalid scalar")

	// ErrNonCanonical 编码可解析但不是规范形式（例如 ECDSA 的 high-S）
	ErrNonCanonical = errors.New("non-canonical encoding")

	// ErrSignatureMismatch 签名格式正确但验证方程不成立
	ErrSignatureMismatch = errors.New("signature verification failed")

	// ErrUnsupportedScheme 未知的签名方案
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")
)

// Field 出错的编码字段
type Field string

const (
	// FieldPublicKey 公钥
	FieldPublicKey Field = "public key"
	// FieldSignature 签名
	FieldSignature Field = "signature"
)

// DecodeError 公钥或签名解码失败
//
// Kind 为 ErrInvalidLength / ErrInvalidPoint / ErrInvalidScalar / ErrNonCanonical 之一，
// 可以用 errors.Is 匹配。
type DecodeError struct {
	Scheme types.SignatureScheme
	Field  Field
	Kind   error
	Got    int   // 实际长度
	Want   []int // 允许的长度，仅 ErrInvalidLength 时填写
	Detail string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Scheme, e.Field, e.Kind)
	if errors.Is(e.Kind, ErrInvalidLength) {
		want := make([]string, len(e.Want))
		for i, w := range e.Want {
			want[i] = strconv.Itoa(w)
		}
		fmt.Fprintf(&b, ": got %d bytes, want %s", e.Got, strings.Join(want, " or "))
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// Unwrap 返回错误类别
func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// ============================================================================
//                               错误构造函数
// ============================================================================

func lengthError(scheme types.SignatureScheme, field Field, got int, want ...int) error {
	return &DecodeError{Scheme: scheme, Field: field, Kind: ErrInvalidLength, Got: got, Want: want}
}

func pointError(scheme types.SignatureScheme, field Field, got int, detail string) error {
	return &DecodeError{Scheme: scheme, Field: field, Kind: ErrInvalidPoint, Got: got, Detail: detail}
}

func scalarError(scheme types.SignatureScheme, field Field, got int, detail string) error {
	return &DecodeError{Scheme: scheme, Field: field, Kind: ErrInvalidScalar, Got: got, Detail: detail}
}

func nonCanonicalError(scheme types.SignatureScheme, field Field, got int, detail string) error {
	return &DecodeError{Scheme: scheme, Field: field, Kind: ErrNonCanonical, Got: got, Detail: detail}
}
