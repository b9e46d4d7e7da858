// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 在底层总线之上统计已发布的事件数量，并在没有订阅者时跳过发布。
type EventBus struct {
	bus    evbus.Bus
	logger log.Logger

	published atomic.Uint64
	dropped   atomic.Uint64
}

var _ event.EventBus = (*EventBus)(nil)

// New 创建事件总线实例
func New(logger log.Logger) *EventBus {
	return &EventBus{
		bus:    evbus.New(),
		logger: logger,
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.bus.HasCallback(string(eventType)) {
		eb.dropped.Add(1)
		return
	}
	eb.published.Add(1)
	if eb.logger != nil {
		eb.logger.Debugf("发布事件: %s", eventType)
	}
	eb.bus.Publish(string(eventType), args...)
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// Stats 返回已投递和因无订阅者而跳过的事件数量
func (eb *EventBus) Stats() (published, dropped uint64) {
	return eb.published.Load(), eb.dropped.Load()
}
