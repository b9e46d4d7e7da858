package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	badgerconfig "github.com/weisyn/batchsig/internal/config/storage/badger"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// 模拟Logger接口
type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                          {}
func (m *mockLogger) Debugf(format string, args ...interface{}) {}
func (m *mockLogger) Info(msg string)                           {}
func (m *mockLogger) Infof(format string, args ...interface{})  {}
func (m *mockLogger) Warn(msg string)                           {}
func (m *mockLogger) Warnf(format string, args ...interface{})  {}
func (m *mockLogger) Error(msg string)                          {}
func (m *mockLogger) Errorf(format string, args ...interface{}) {}
func (m *mockLogger) Fatal(msg string)                          {}
func (m *mockLogger) Fatalf(format string, args ...interface{}) {}
func (m *mockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *mockLogger) Sync() error                               { return nil }
func (m *mockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// 初始化测试环境
func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(badgerconfig.New(dir, false), &mockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dir
}

// TestBasicKeyValueOperations 测试基本的键值操作
func TestBasicKeyValueOperations(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	key := []byte("zkproof/abc/groth16/vk")
	value := []byte("verifying-key-bytes")

	// 1. 不存在的键
	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	val, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)

	// 2. 写入并读取
	require.NoError(t, store.Set(ctx, key, value))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	val, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, val)

	// 3. 删除
	require.NoError(t, store.Delete(ctx, key))
	val, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)
}

// TestSetManyAndPrefixScan 测试批量写入和前缀扫描
func TestSetManyAndPrefixScan(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string][]byte{
		"zkproof/a/groth16/pk": []byte("pk-a"),
		"zkproof/a/groth16/vk": []byte("vk-a"),
		"zkproof/b/plonk/pk":   []byte("pk-b"),
	}))

	result, err := store.PrefixScan(ctx, []byte("zkproof/a/"))
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, []byte("vk-a"), result["zkproof/a/groth16/vk"])
}

// TestPersistenceAcrossReopen 测试重新打开后数据仍然存在
func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(badgerconfig.New(dir, false), nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := New(badgerconfig.New(dir, false), nil)
	require.NoError(t, err)
	defer reopened.Close()

	val, err := reopened.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

// TestInMemoryStore 测试内存模式
func TestInMemoryStore(t *testing.T) {
	store, err := New(badgerconfig.New("", true), &mockLogger{})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))
	val, err := store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

// TestNew_MissingPath 测试未配置数据目录
func TestNew_MissingPath(t *testing.T) {
	_, err := New(badgerconfig.New("", false), nil)
	require.Error(t, err)
}

// TestWriteAfterClose 测试关闭后拒绝写入
func TestWriteAfterClose(t *testing.T) {
	store, err := New(badgerconfig.New("", true), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "重复关闭应为空操作")

	err = store.Set(context.Background(), []byte("k"), []byte("v"))
	require.ErrorIs(t, err, ErrStoreClosing)
}

// TestConcurrentWrites 测试并发写入
func TestConcurrentWrites(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []byte{'k', byte(i)}
			assert.NoError(t, store.Set(ctx, key, []byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	result, err := store.PrefixScan(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Len(t, result, 16)
}
