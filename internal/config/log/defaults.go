package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole 默认输出到 stderr，stdout 留给计时结果
	defaultToConsole = true

	// defaultFilePath 默认不写日志文件
	defaultFilePath = ""

	// defaultMaxSize 单个日志文件最大大小(MB)
	defaultMaxSize = 100

	// defaultMaxBackups 最大备份文件数
	defaultMaxBackups = 5

	// defaultMaxAge 日志文件最大保留天数
	defaultMaxAge = 30

	// defaultCompress 默认启用历史日志压缩
	defaultCompress = true

	// defaultEnableCaller 默认不输出调用者信息，命令行输出保持简洁
	defaultEnableCaller = false

	// defaultEnableStacktrace 默认不输出堆栈
	defaultEnableStacktrace = false
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}
