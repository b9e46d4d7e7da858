package badger

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	// === 基础配置 ===
	Path       string `toml:"path"`        // 数据库存储路径
	InMemory   bool   `toml:"in_memory"`   // 只在内存中运行，不落盘
	SyncWrites bool   `toml:"sync_writes"` // 是否同步写入（数据安全性）

	// === 基础性能配置 ===
	MemTableSize int64 `toml:"mem_table_size"` // 内存表大小
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置实现
// path 为空且未启用内存模式时，打开存储会失败
func New(path string, inMemory bool) *Config {
	options := createDefaultBadgerOptions()
	options.Path = path
	options.InMemory = inMemory
	return &Config{options: options}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{options: options}
}

// createDefaultBadgerOptions 创建默认BadgerDB配置
func createDefaultBadgerOptions() *BadgerOptions {
	return &BadgerOptions{
		SyncWrites:   defaultSyncWrites,
		MemTableSize: defaultMemTableSize,
	}
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// GetPath 获取数据库存储路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否为内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}
