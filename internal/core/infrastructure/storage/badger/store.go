// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	badgerconfig "github.com/weisyn/batchsig/internal/config/storage/badger"
	log "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/batchsig/pkg/interfaces/infrastructure/storage"
)

// ErrStoreClosing 存储正在关闭，拒绝写入
var ErrStoreClosing = errors.New("badger store is closing")

// Store 实现BadgerStore接口
type Store struct {
	db     *badgerdb.DB
	config *badgerconfig.Config
	logger log.Logger

	// 避免 Close 过程中仍被写入
	closing int32
	writeWg sync.WaitGroup
}

var _ interfaces.BadgerStore = (*Store)(nil)

// New 创建新的BadgerStore实例
func New(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
		logger.Debug("初始化内存BadgerDB存储")
	} else {
		dataDir := config.GetPath()
		if dataDir == "" {
			return nil, fmt.Errorf("badger data directory is not configured")
		}
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("create badger data directory: %w", err)
		}
		logger.Debugf("初始化BadgerDB存储，数据目录: %s", dataDir)
		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = config.IsSyncWritesEnabled()
		// 密钥缓存体积小，降低 value log 的 mmap 占用
		opts.ValueLogFileSize = 64 << 20
	}

	opts.MemTableSize = config.GetMemTableSize()
	opts.BlockCacheSize = 16 << 20
	opts.IndexCacheSize = 16 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &Store{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// nopLogger 在未提供日志器时使用
type nopLogger struct{}

func (nopLogger) Debug(string)                   {}
func (nopLogger) Debugf(string, ...interface{})  {}
func (nopLogger) Info(string)                    {}
func (nopLogger) Infof(string, ...interface{})   {}
func (nopLogger) Warn(string)                    {}
func (nopLogger) Warnf(string, ...interface{})   {}
func (nopLogger) Error(string)                   {}
func (nopLogger) Errorf(string, ...interface{})  {}
func (nopLogger) Fatal(string)                   {}
func (nopLogger) Fatalf(string, ...interface{})  {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

// Close 关闭存储并释放资源
func (s *Store) Close() error {
	// 进入关闭态：阻断后续写入，并等待 in-flight 写完成
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}

	if s.db == nil {
		return nil
	}

	waitCh := make(chan struct{})
	go func() {
		s.writeWg.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(10 * time.Second):
		s.logger.Warn("等待 in-flight 写事务超时（10s），继续关闭 BadgerDB")
	}

	if err := s.db.Close(); err != nil {
		// LOCK 文件已不存在属于正常的关闭过程
		if strings.Contains(err.Error(), "LOCK: no such file or directory") {
			s.logger.Warn("BadgerDB LOCK文件已不存在")
			return nil
		}
		return fmt.Errorf("close badger: %w", err)
	}

	s.logger.Debug("BadgerDB存储已关闭")
	return nil
}

func (s *Store) beginWrite() (func(), error) {
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, ErrStoreClosing
	}
	s.writeWg.Add(1)
	// double-check，避免在 Add 之后进入 closing
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, ErrStoreClosing
	}
	return s.writeWg.Done, nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil // 键不存在时返回nil值和nil错误
			}
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return valCopy, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// SetMany 在一个事务中写入多个键值对
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除指定键
func (s *Store) Delete(ctx context.Context, key []byte) error {
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	var exists bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			exists = true
			return nil
		}
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("badger exists: %w", err)
	}
	return exists, nil
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(item.KeyCopy(nil))] = valCopy
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger prefix scan: %w", err)
	}
	return result, nil
}

// badgerLogger 把 BadgerDB 的日志转发到应用日志器
type badgerLogger struct {
	logger log.Logger
}

// newBadgerLogger 创建BadgerDB日志适配器
func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

// Errorf 输出错误日志
func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

// Warningf 输出警告日志
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof BadgerDB 的 info 日志降为 debug，避免干扰命令行输出
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

// Debugf 输出调试日志
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
