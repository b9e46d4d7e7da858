package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
)

const testTopic event.EventType = "test:topic"

// TestEventBus_SubscribePublish 测试同步订阅和发布
func TestEventBus_SubscribePublish(t *testing.T) {
	bus := New(nil)

	var got []string
	handler := func(msg string) { got = append(got, msg) }
	require.NoError(t, bus.Subscribe(testTopic, handler))
	require.True(t, bus.HasCallback(testTopic))

	bus.Publish(testTopic, "a")
	bus.Publish(testTopic, "b")
	require.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, bus.Unsubscribe(testTopic, handler))
	require.False(t, bus.HasCallback(testTopic))

	bus.Publish(testTopic, "c")
	require.Len(t, got, 2)

	published, dropped := bus.Stats()
	require.Equal(t, uint64(2), published)
	require.Equal(t, uint64(1), dropped)
}

// TestEventBus_Async 测试异步订阅
func TestEventBus_Async(t *testing.T) {
	bus := New(nil)

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.SubscribeAsync(testTopic, func(n int) {
		mu.Lock()
		count += n
		mu.Unlock()
	}, true))

	for i := 0; i < 10; i++ {
		bus.Publish(testTopic, 1)
	}
	bus.WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 10, count)
}
