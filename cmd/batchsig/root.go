package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weisyn/batchsig/internal/app"
	"github.com/weisyn/batchsig/internal/app/version"
	"github.com/weisyn/batchsig/internal/config"
	"github.com/weisyn/batchsig/internal/core/guest/batchverify"
	"github.com/weisyn/batchsig/internal/core/synthetic"
	"github.com/weisyn/batchsig/internal/core/zkproof"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	SigAmount   int    // 签名数量
	Ed25519     bool   // 使用 Ed25519（默认 ECDSA secp256k1）
	Plonk       bool   // 使用 PLONK（默认 Groth16）
	ConfigFile  string // TOML 配置文件
	CacheDir    string // 密钥缓存目录
	LogLevel    string // 日志级别
	LogFile     string // 日志文件
	MetricsAddr string // 指标服务监听地址
}

var (
	globalFlags GlobalFlags

	// 根命令专用
	inputFile string
	proofOut  string
	vkOut     string
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "batchsig",
	Short: "批量签名验证的零知识证明",
	Long: `batchsig - 批量签名验证的零知识证明

生成 N 组 (公钥, 消息, 签名)，在受限执行环境中逐个验证，
只有全部通过时程序才提交验证数量，然后为这次执行生成并验证证明。

  batchsig --sig-amount 100            # ECDSA secp256k1 + Groth16
  batchsig --ed25519 --plonk           # Ed25519 + PLONK
  batchsig gen --out batch.bin         # 只生成批次文件
  batchsig --input batch.bin           # 证明已有的批次文件
  batchsig --proof-out p.bin --vk-out vk.bin
  batchsig verify --vk vk.bin p.bin    # 只用验证密钥验证，不运行 setup`,
	Version:       version.GetFullVersion(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProve,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&globalFlags.SigAmount, "sig-amount", 20, "要验证的签名数量")
	pf.BoolVar(&globalFlags.Ed25519, "ed25519", false, "使用 Ed25519 签名（默认 ECDSA secp256k1）")
	pf.BoolVar(&globalFlags.Plonk, "plonk", false, "使用 PLONK 证明（默认 Groth16）")
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "TOML 配置文件")
	pf.StringVar(&globalFlags.CacheDir, "cache-dir", "", "密钥缓存目录 (默认: ~/.batchsig/keys)")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error")
	pf.StringVar(&globalFlags.LogFile, "log-file", "", "日志文件路径")
	pf.StringVar(&globalFlags.MetricsAddr, "metrics-addr", "", "Prometheus 指标监听地址，例如 :9100")

	rootCmd.Flags().StringVar(&inputFile, "input", "", "证明已有的批次文件（由 gen 生成），替代随机生成")
	rootCmd.Flags().StringVar(&proofOut, "proof-out", "", "把证明写入文件")
	rootCmd.Flags().StringVar(&vkOut, "vk-out", "", "把验证密钥写入文件")

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(configCmd)
}

// selectedScheme 根据标志选择签名方案
func selectedScheme() types.SignatureScheme {
	if globalFlags.Ed25519 {
		return types.SchemeEd25519
	}
	return types.SchemeEcdsaSecp256k1
}

// loadUserConfig 读取配置文件并应用命令行覆盖
func loadUserConfig() (*types.UserConfig, error) {
	userConfig := &types.UserConfig{}
	if globalFlags.ConfigFile != "" {
		var err error
		if userConfig, err = config.LoadFile(globalFlags.ConfigFile); err != nil {
			return nil, err
		}
	}

	if globalFlags.LogLevel != "" || globalFlags.LogFile != "" {
		if userConfig.Log == nil {
			userConfig.Log = &types.UserLogConfig{}
		}
		if globalFlags.LogLevel != "" {
			userConfig.Log.Level = types.StringPtr(globalFlags.LogLevel)
		}
		if globalFlags.LogFile != "" {
			userConfig.Log.FilePath = types.StringPtr(globalFlags.LogFile)
		}
	}
	if globalFlags.CacheDir != "" {
		if userConfig.Prover == nil {
			userConfig.Prover = &types.UserProverConfig{}
		}
		userConfig.Prover.CacheDir = types.StringPtr(globalFlags.CacheDir)
	}
	return userConfig, nil
}

// startApp 装配应用
func startApp() (app.App, *types.UserConfig, error) {
	userConfig, err := loadUserConfig()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Start(
		app.WithUserConfig(userConfig),
		app.WithMetricsAddr(globalFlags.MetricsAddr),
	)
	if err != nil {
		return nil, nil, err
	}
	return a, userConfig, nil
}

// selectedBackend 根据标志与配置选择证明后端
func selectedBackend(userConfig *types.UserConfig) (types.ProofBackend, error) {
	if globalFlags.Plonk {
		return types.BackendPlonk, nil
	}
	if userConfig.Prover != nil && userConfig.Prover.DefaultBackend != nil {
		return types.ParseProofBackend(*userConfig.Prover.DefaultBackend)
	}
	return types.BackendGroth16, nil
}

// signalContext 收到 SIGINT/SIGTERM 时取消
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadBatch 读取批次文件或生成随机批次
func loadBatch(scheme types.SignatureScheme) (*types.BatchInput, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("read batch file: %w", err)
		}
		batch, err := boundary.DecodeBatch(data)
		if err != nil {
			return nil, fmt.Errorf("decode batch file %s: %w", inputFile, err)
		}
		return batch, nil
	}
	if globalFlags.SigAmount < 0 {
		return nil, fmt.Errorf("--sig-amount must not be negative, got %d", globalFlags.SigAmount)
	}
	return synthetic.New().Generate(scheme, globalFlags.SigAmount)
}

// runProve 生成批次、证明并验证
func runProve(cmd *cobra.Command, args []string) (err error) {
	scheme := selectedScheme()
	batch, err := loadBatch(scheme)
	if err != nil {
		return err
	}

	a, userConfig, err := startApp()
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := a.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	logger := a.Logger().With("module", "cli")

	backend, err := selectedBackend(userConfig)
	if err != nil {
		return err
	}
	// 长度不一致的批次由程序执行报告，电路大小取 0
	image, err := batchverify.NewImage(scheme, max(batch.Len(), 0))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Infof("开始证明: scheme=%s, backend=%s, signatures=%d", scheme, backend, batch.Len())
	report, err := a.Orchestrator().Run(ctx, image, batch, backend)
	if err != nil {
		return err
	}

	if proofOut != "" {
		if err := zkproof.WriteProofFile(proofOut, report.Proof); err != nil {
			return fmt.Errorf("write proof file: %w", err)
		}
		logger.Infof("证明已写入: %s", proofOut)
	}
	if vkOut != "" {
		if err := a.Orchestrator().WriteVerificationKeyFile(vkOut, report.VK); err != nil {
			return fmt.Errorf("write verification key file: %w", err)
		}
		logger.Infof("验证密钥已写入: %s", vkOut)
	}
	return printReport(cmd.OutOrStdout(), scheme, report)
}
