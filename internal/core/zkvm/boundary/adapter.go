package boundary

import (
	"fmt"

	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/pkg/types"
)

// ReadBatch 从执行环境读取并解码批次
func ReadBatch(env zkvm.Env) (*types.BatchInput, error) {
	data, err := env.Read()
	if err != nil {
		return nil, err
	}
	return DecodeBatch(data)
}

// CommitCount 提交已验证的签名数量
func CommitCount(env zkvm.Env, n int) error {
	if n < 0 || uint64(n) > uint64(^uint32(0)) {
		return fmt.Errorf("boundary: count %d does not fit u32", n)
	}
	return env.Commit(EncodeCount(uint32(n)))
}
