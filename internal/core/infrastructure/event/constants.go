package event

import "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"

// 全局事件类型定义
// 业务特定的事件类型由相应的业务模块定义
const (
	// SystemStarted 应用启动
	SystemStarted event.EventType = "system:started"
	// SystemStopped 应用停止
	SystemStopped event.EventType = "system:stopped"
)
