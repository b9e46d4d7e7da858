package log

import (
	"github.com/weisyn/batchsig/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `toml:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `toml:"to_console"` // 是否输出到控制台（stderr）
	FilePath  string `toml:"file_path"`  // 日志文件路径，为空时不写文件

	// === 基础轮转配置 ===
	MaxSize    int  `toml:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `toml:"max_backups"` // 最大备份文件数
	MaxAge     int  `toml:"max_age"`     // 日志文件最大保留天数
	Compress   bool `toml:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `toml:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `toml:"enable_stacktrace"` // 是否启用堆栈跟踪

	// === 内部配置（不对外暴露） ===
	LevelMap map[string]zapcore.Level `toml:"-"` // 级别映射
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置实现
func New(userConfig *types.UserLogConfig) *Config {
	// 1. 先创建完整的默认配置
	options := createDefaultLogOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserLogConfig(options, userConfig)
	}

	return &Config{options: options}
}

// NewFromOptions 直接使用给定的选项，缺失的级别映射用默认值补齐
func NewFromOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	if options.LevelMap == nil {
		options.LevelMap = defaultLevelMap
	}
	return &Config{options: options}
}

// createDefaultLogOptions 创建默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:     defaultLogLevel,
		ToConsole: defaultToConsole,
		FilePath:  defaultFilePath,

		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,

		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,

		LevelMap: defaultLevelMap,
	}
}

// applyUserLogConfig 应用用户日志配置覆盖默认值
// 只处理配置文件中实际出现的字段
func applyUserLogConfig(options *LogOptions, c *types.UserLogConfig) {
	if c.Level != nil {
		options.Level = *c.Level
	}
	if c.FilePath != nil {
		options.FilePath = *c.FilePath
	}
	if c.ToConsole != nil {
		options.ToConsole = *c.ToConsole
	}
	if c.MaxSize != nil {
		options.MaxSize = *c.MaxSize
	}
	if c.MaxBackups != nil {
		options.MaxBackups = *c.MaxBackups
	}
	if c.MaxAge != nil {
		options.MaxAge = *c.MaxAge
	}
	if c.Compress != nil {
		options.Compress = *c.Compress
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// === 基础配置访问方法 ===

// GetLevel 获取日志级别
func (c *Config) GetLevel() string {
	return c.options.Level
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := c.options.LevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel // 默认返回Info级别
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// === 日志轮转配置访问方法 ===

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int {
	return c.options.MaxSize
}

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int {
	return c.options.MaxBackups
}

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int {
	return c.options.MaxAge
}

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// === 调试配置访问方法 ===

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool {
	return c.options.EnableStacktrace
}

// === 编码器创建方法 ===

// CreateFileEncoder 创建文件编码器（JSON）
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
