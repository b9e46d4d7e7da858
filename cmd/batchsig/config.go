package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/batchsig/configs"
)

// configCmd 输出示例配置
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "输出示例配置文件",
	Long:  "输出带注释的 TOML 示例配置，可重定向到文件后通过 --config 使用",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(configs.GetDefaultConfig())
		return err
	},
}
