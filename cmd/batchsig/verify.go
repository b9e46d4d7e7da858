package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/batchsig/internal/core/guest/batchverify"
	"github.com/weisyn/batchsig/internal/core/zkproof"
	"github.com/weisyn/batchsig/internal/core/zkvm"
	"github.com/weisyn/batchsig/internal/core/zkvm/boundary"
	"github.com/weisyn/batchsig/pkg/types"
)

var (
	verifyKeyFile   string
	verifyBatchFile string
)

// verifyCmd 验证保存的证明
var verifyCmd = &cobra.Command{
	Use:   "verify <proof-file>",
	Short: "验证保存的证明",
	Long: `读取 --proof-out 写出的证明文件并验证。

指定 --vk 时只加载验证密钥文件，不运行 setup；否则按证明中的镜像标识
找到程序镜像，从缓存加载（或重新生成）密钥。指定 --batch 时还会检查
证明是否针对这个批次文件。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		proof, err := zkproof.ReadProofFile(args[0])
		if err != nil {
			return err
		}
		count, err := proof.Count()
		if err != nil {
			return err
		}

		a, _, err := startApp()
		if err != nil {
			return err
		}
		defer func() {
			if stopErr := a.Stop(); stopErr != nil && err == nil {
				err = stopErr
			}
		}()
		orch := a.Orchestrator()

		ctx, cancel := signalContext()
		defer cancel()

		var vk *zkproof.VerificationKey
		if verifyKeyFile != "" {
			if vk, err = orch.ReadVerificationKeyFile(verifyKeyFile); err != nil {
				return err
			}
		} else {
			image, err := imageFor(ctx, orch, proof.ImageID, count)
			if err != nil {
				return err
			}
			if _, vk, err = orch.Setup(ctx, image); err != nil {
				return err
			}
		}

		start := time.Now()
		ok, err := orch.Verify(ctx, proof, vk)
		if err != nil {
			return err
		}
		if !ok {
			return zkproof.ErrProofRejected
		}
		elapsed := time.Since(start)

		if verifyBatchFile != "" {
			if err := checkBatch(vk.Scheme(), proof, verifyBatchFile); err != nil {
				return err
			}
		}

		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("证明有效: %d 个 %s 签名, backend=%s, 耗时=%s",
			count, vk.Scheme(), proof.Backend, formatDuration(elapsed))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyKeyFile, "vk", "", "验证密钥文件（由 --vk-out 生成），不运行 setup")
	verifyCmd.Flags().StringVar(&verifyBatchFile, "batch", "", "检查证明是否针对这个批次文件")
}

// imageBinder 计算与电路绑定的镜像标识
type imageBinder interface {
	BindImage(ctx context.Context, image *zkvm.Image) (zkvm.ImageID, error)
}

// imageFor 找到与镜像标识对应的程序镜像
//
// 电路按批次大小编译，所以候选镜像由证明中的计数决定。
func imageFor(ctx context.Context, binder imageBinder, id zkvm.ImageID, count uint32) (*zkvm.Image, error) {
	for _, scheme := range []types.SignatureScheme{types.SchemeEcdsaSecp256k1, types.SchemeEd25519} {
		image, err := batchverify.NewImage(scheme, int(count))
		if err != nil {
			return nil, err
		}
		bound, err := binder.BindImage(ctx, image)
		if err != nil {
			return nil, err
		}
		if bound == id {
			return image, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown image %s", zkproof.ErrInvalidProof, id)
}

// checkBatch 确认证明的声明值由这个批次得出
func checkBatch(scheme types.SignatureScheme, proof *zkproof.Proof, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}
	batch, err := boundary.DecodeBatch(data)
	if err != nil {
		return fmt.Errorf("decode batch file %s: %w", path, err)
	}
	claim, err := zkproof.BatchClaim(scheme, proof.ImageID, batch)
	if err != nil {
		return err
	}
	if !bytes.Equal(claim, proof.Claim) {
		return fmt.Errorf("%w: proof does not cover batch %s", zkproof.ErrProofRejected, path)
	}
	return nil
}
