// Package event 定义事件总线接口
package event

// EventType 事件类型（即订阅主题）
type EventType string

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 同步订阅，handler 在 Publish 的调用方 goroutine 中执行
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅
	// transactional 为 true 时同一 handler 的回调串行执行
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})

	// HasCallback 检查主题上是否有订阅者
	HasCallback(eventType EventType) bool

	// WaitAsync 等待所有异步回调完成
	WaitAsync()
}
