package prover

import "github.com/weisyn/batchsig/pkg/types"

// 证明配置默认值
const (
	// defaultBackend 默认证明后端
	defaultBackend = types.BackendGroth16

	// defaultCurve 默认椭圆曲线
	defaultCurve = "bn254"

	// defaultCacheDir 默认密钥缓存目录
	defaultCacheDir = "~/.batchsig/keys"

	// defaultInMemoryCache 默认把密钥持久化到磁盘
	defaultInMemoryCache = false

	// defaultMaxInputBytes 程序输入上限 64 MiB
	defaultMaxInputBytes int64 = 64 << 20

	// defaultSilenceBackendLogs 默认屏蔽 gnark 自身日志
	defaultSilenceBackendLogs = true
)
