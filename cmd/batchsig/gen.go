package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/batchsig/internal/core/synthetic"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
)

var (
	genOut          string
	genMessage      string
	genUncompressed bool
)

// genCmd 生成批次文件
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "生成随机签名批次文件",
	Long:  "生成 --sig-amount 组有效的 (公钥, 消息, 签名)，按程序输入格式写入文件，供 --input 使用",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalFlags.SigAmount < 0 {
			return fmt.Errorf("--sig-amount must not be negative, got %d", globalFlags.SigAmount)
		}

		opts := []synthetic.Option{synthetic.WithMessage([]byte(genMessage))}
		if genUncompressed {
			opts = append(opts, synthetic.WithUncompressedKeys())
		}
		scheme := selectedScheme()
		batch, err := synthetic.New(opts...).Generate(scheme, globalFlags.SigAmount)
		if err != nil {
			return err
		}

		data := boundary.EncodeBatch(batch)
		if err := os.WriteFile(genOut, data, 0o644); err != nil {
			return fmt.Errorf("write batch file: %w", err)
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%d 组 %s 签名已写入 %s (%s)",
			batch.Len(), scheme, genOut, humanSize(len(data)))
		return nil
	},
}

func init() {
	genCmd.Flags().StringVarP(&genOut, "out", "o", "batch.bin", "输出文件")
	genCmd.Flags().StringVar(&genMessage, "message", synthetic.DefaultMessage, "被签名的消息")
	genCmd.Flags().BoolVar(&genUncompressed, "uncompressed", false, "ECDSA 公钥使用 65 字节非压缩格式")
}
