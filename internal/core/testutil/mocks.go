// Package testutil 提供测试所需的 Mock 对象和辅助函数
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
)

// ==================== Logger ====================

// MockLogger 统一的日志Mock实现
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// BehavioralMockLogger 行为Mock日志（记录调用）
type BehavioralMockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *BehavioralMockLogger) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, level+": "+msg)
}

func (m *BehavioralMockLogger) Debug(msg string) { m.record("DEBUG", msg) }
func (m *BehavioralMockLogger) Debugf(format string, args ...interface{}) {
	m.record("DEBUG", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Info(msg string) { m.record("INFO", msg) }
func (m *BehavioralMockLogger) Infof(format string, args ...interface{}) {
	m.record("INFO", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Warn(msg string) { m.record("WARN", msg) }
func (m *BehavioralMockLogger) Warnf(format string, args ...interface{}) {
	m.record("WARN", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Error(msg string) { m.record("ERROR", msg) }
func (m *BehavioralMockLogger) Errorf(format string, args ...interface{}) {
	m.record("ERROR", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Fatal(msg string) { m.record("FATAL", msg) }
func (m *BehavioralMockLogger) Fatalf(format string, args ...interface{}) {
	m.record("FATAL", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) With(args ...interface{}) log.Logger { return m }
func (m *BehavioralMockLogger) Sync() error                         { return nil }
func (m *BehavioralMockLogger) GetZapLogger() *zap.Logger           { return zap.NewNop() }

// GetLogs 获取所有记录的日志
func (m *BehavioralMockLogger) GetLogs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.logs...)
}

// Contains 是否有日志包含给定子串
func (m *BehavioralMockLogger) Contains(substr string) bool {
	for _, l := range m.GetLogs() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// ==================== EventBus ====================

// RecordingEventBus 同步调用订阅者并记录所有发布的事件
type RecordingEventBus struct {
	mu       sync.Mutex
	handlers map[event.EventType][]interface{}
	events   map[event.EventType][][]interface{}
}

var _ event.EventBus = (*RecordingEventBus)(nil)

// NewRecordingEventBus 创建事件总线Mock
func NewRecordingEventBus() *RecordingEventBus {
	return &RecordingEventBus{
		handlers: make(map[event.EventType][]interface{}),
		events:   make(map[event.EventType][][]interface{}),
	}
}

func (b *RecordingEventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		return fmt.Errorf("%s is not of type reflect.Func", reflect.TypeOf(handler).Kind())
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

func (b *RecordingEventBus) SubscribeAsync(eventType event.EventType, handler interface{}, _ bool) error {
	return b.Subscribe(eventType, handler)
}

func (b *RecordingEventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, eventType)
	return nil
}

func (b *RecordingEventBus) Publish(eventType event.EventType, args ...interface{}) {
	b.mu.Lock()
	b.events[eventType] = append(b.events[eventType], args)
	handlers := append([]interface{}(nil), b.handlers[eventType]...)
	b.mu.Unlock()

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	for _, h := range handlers {
		reflect.ValueOf(h).Call(in)
	}
}

func (b *RecordingEventBus) HasCallback(eventType event.EventType) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[eventType]) > 0
}

func (b *RecordingEventBus) WaitAsync() {}

// Events 返回某个主题上发布过的参数列表
func (b *RecordingEventBus) Events(eventType event.EventType) [][]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]interface{}(nil), b.events[eventType]...)
}

// ==================== Storage ====================

// MemoryStore 基于 map 的 BadgerStore 实现
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.BadgerStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储Mock
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(_ context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	for k, v := range entries {
		if err := s.Set(ctx, []byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[string(key)]
	return ok, nil
}

func (s *MemoryStore) PrefixScan(_ context.Context, prefix []byte) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, string(prefix)) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// Keys 返回所有键（排序）
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
