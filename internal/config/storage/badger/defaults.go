package badger

// BadgerDB配置默认值
const (
	// defaultSyncWrites 密钥写入后立即落盘
	defaultSyncWrites = true

	// defaultMemTableSize 内存表大小 16MB，证明密钥体积有限
	defaultMemTableSize int64 = 16 << 20
)
