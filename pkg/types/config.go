package types

// UserConfig 用户配置文件结构
//
// 只包含配置文件中实际出现的字段，未出现的字段保持为 nil，
// 由各配置模块用默认值补齐。
type UserConfig struct {
	// 日志配置 - 对应配置文件中的 [log] 表
	Log *UserLogConfig `toml:"log"`

	// 证明配置 - 对应配置文件中的 [prover] 表
	Prover *UserProverConfig `toml:"prover"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level      *string `toml:"level"`       // 日志级别：debug, info, warn, error, fatal
	FilePath   *string `toml:"file_path"`   // 日志文件路径，为空时只输出到控制台
	ToConsole  *bool   `toml:"to_console"`  // 是否输出到控制台
	MaxSize    *int    `toml:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups *int    `toml:"max_backups"` // 最大备份文件数
	MaxAge     *int    `toml:"max_age"`     // 日志文件最大保留天数
	Compress   *bool   `toml:"compress"`    // 是否压缩历史日志
}

// UserProverConfig 用户证明配置
type UserProverConfig struct {
	DefaultBackend     *string `toml:"default_backend"`      // groth16 | plonk
	Curve              *string `toml:"curve"`                // 目前只支持 bn254
	CacheDir           *string `toml:"cache_dir"`            // 密钥缓存目录，支持 ~ 开头
	InMemoryCache      *bool   `toml:"in_memory_cache"`      // 密钥缓存只保存在内存中
	MaxInputBytes      *int64  `toml:"max_input_bytes"`      // 程序输入的最大字节数
	SilenceBackendLogs *bool   `toml:"silence_backend_logs"` // 是否屏蔽 gnark 自身日志
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string { return &s }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }

// Int64Ptr 返回 int64 指针
func Int64Ptr(i int64) *int64 { return &i }
