// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// 构建时通过 ldflags 注入
var (
	Version   = "v0.1.0"
	BuildTime = "unknown" // RFC3339
	Commit    = "unknown"
)

// GetVersion 获取版本号
func GetVersion() string {
	return Version
}

// GetFullVersion 获取完整版本信息（用于 --version 输出）
func GetFullVersion() string {
	s := fmt.Sprintf("%s (commit %s)", Version, Commit)
	if BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			s += fmt.Sprintf(", built %s", t.Format("2006-01-02 15:04:05 MST"))
		} else {
			s += fmt.Sprintf(", built %s", BuildTime)
		}
	}
	return s + fmt.Sprintf(", %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
