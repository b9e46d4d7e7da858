package zkvm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/weisyn/batchsig/pkg/types"
)

// Program 在执行环境中运行的程序
type Program interface {
	Run(env Env) error
}

// ProgramFunc 函数形式的 Program
type ProgramFunc func(env Env) error

// Run 实现 Program
func (f ProgramFunc) Run(env Env) error {
	return f(env)
}

// ImageID 程序镜像标识
type ImageID [32]byte

// String 返回十六进制编码
func (id ImageID) String() string {
	return hex.EncodeToString(id[:])
}

// Image 程序镜像
//
// 镜像标识由名称、版本、签名方案和批次大小决定。证明绑定镜像标识，
// 因此不同方案或不同批次大小的程序产生的证明互不通用。
type Image struct {
	Name      string
	Version   string
	Scheme    types.SignatureScheme
	BatchSize uint32 // 证明电路按这个数量编译
	Program   Program
}

// ID 计算镜像标识
func (img *Image) ID() ImageID {
	return sha256.Sum256([]byte(fmt.Sprintf("%s/%s/%s/%d", img.Name, img.Version, img.Scheme, img.BatchSize)))
}

// Validate 检查镜像字段
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Name == "" || img.Version == "" {
		return fmt.Errorf("%w: name and version are required", ErrInvalidImage)
	}
	if !img.Scheme.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidImage, img.Scheme)
	}
	if img.Program == nil {
		return fmt.Errorf("%w: program is nil", ErrInvalidImage)
	}
	return nil
}
