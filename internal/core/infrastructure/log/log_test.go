package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	logconfig "github.com/weisyn/batchsig/internal/config/log"
	"github.com/weisyn/batchsig/pkg/types"
)

// newFileLogger 创建只写文件的日志记录器
func newFileLogger(t *testing.T, level string) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "batchsig.log")
	cfg := logconfig.New(&types.UserLogConfig{
		Level:     types.StringPtr(level),
		FilePath:  types.StringPtr(path),
		ToConsole: types.BoolPtr(false),
	})
	logger, err := New(cfg)
	require.NoError(t, err)
	return logger.(*Logger), path
}

// readEntries 读取日志文件中的 JSON 行
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

// TestFileLogger_StructuredFields 测试结构化字段写入文件
func TestFileLogger_StructuredFields(t *testing.T) {
	logger, path := newFileLogger(t, InfoLevel)

	NewModuleLogger(logger, "zkproof").With("backend", "groth16").Infof("proof generated in %dms", 12)
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	require.Equal(t, "info", entries[0]["level"])
	require.Equal(t, "zkproof", entries[0]["module"])
	require.Equal(t, "groth16", entries[0]["backend"])
	require.Equal(t, "proof generated in 12ms", entries[0]["message"])
}

// TestFileLogger_LevelFilter 测试日志级别过滤
func TestFileLogger_LevelFilter(t *testing.T) {
	logger, path := newFileLogger(t, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	require.Equal(t, "warn message", entries[0]["message"])
	require.Equal(t, "error message", entries[1]["message"])
}

// TestToZapFields_OddArgs 测试奇数个参数时丢弃最后一个
func TestToZapFields_OddArgs(t *testing.T) {
	fields := toZapFields("a", 1, "b")
	require.Len(t, fields, 1)
	require.Equal(t, "a", fields[0].Key)
}

// TestGlobalLogger 测试全局日志记录器替换
func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	nop := NewNop()
	SetLogger(nop)
	require.Same(t, nop, GetLogger())

	SetLogger(nil)
	require.Same(t, nop, GetLogger(), "设置 nil 不应替换全局日志记录器")
}
