// Package configs 嵌入示例配置文件
package configs

import _ "embed"

// 示例配置（TOML）
//
//go:embed batchsig.toml
var defaultConfig []byte

// GetDefaultConfig 获取嵌入的示例配置
func GetDefaultConfig() []byte {
	return defaultConfig
}
