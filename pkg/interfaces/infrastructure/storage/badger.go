// Package storage 定义基础设施存储接口
package storage

import "context"

// BadgerStore 基于BadgerDB的键值存储接口
//
// 用于持久化证明密钥等生成代价较高的制品，实现必须支持并发访问。
type BadgerStore interface {
	// Close 关闭数据库连接
	// 应用关闭时必须调用此方法以避免数据损坏
	Close() error

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对，键已存在时覆盖
	Set(ctx context.Context, key, value []byte) error

	// SetMany 在一个事务中写入多个键值对
	SetMany(ctx context.Context, entries map[string][]byte) error

	// Delete 删除指定键
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 按前缀扫描键值对
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)
}
