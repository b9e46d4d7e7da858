package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetFullVersion 测试版本信息格式
func TestGetFullVersion(t *testing.T) {
	saved := BuildTime
	t.Cleanup(func() { BuildTime = saved })

	BuildTime = "unknown"
	full := GetFullVersion()
	assert.Contains(t, full, GetVersion())
	assert.Contains(t, full, runtime.GOOS+"/"+runtime.GOARCH)
	assert.NotContains(t, full, "built")

	BuildTime = "2026-01-02T03:04:05Z"
	assert.Contains(t, GetFullVersion(), "built 2026-01-02 03:04:05 UTC")

	BuildTime = "yesterday"
	assert.Contains(t, GetFullVersion(), "built yesterday")
}
