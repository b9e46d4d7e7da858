package main

import (
	"fmt"
	"io"
	"time"

	"github.com/docker/go-units"
	"github.com/hako/durafmt"
	"github.com/pbnjay/memory"
	"github.com/pterm/pterm"

	"github.com/weisyn/batchsig/internal/core/zkproof"
	"github.com/weisyn/batchsig/pkg/types"
)

// humanSize 字节数的可读形式
func humanSize(n int) string {
	return units.HumanSize(float64(n))
}

// formatDuration 耗时的可读形式，保留两个单位
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return durafmt.Parse(d.Round(time.Millisecond)).LimitFirstN(2).String()
}

// reportRows 运行结果的表格数据
func reportRows(scheme types.SignatureScheme, r *zkproof.RunReport) [][]string {
	rows := [][]string{
		{"项目", "值"},
		{"run id", r.RunID},
		{"签名方案", scheme.String()},
		{"证明后端", r.Backend.String()},
		{"签名数量", fmt.Sprintf("%d", r.Count)},
		{"密钥准备", formatDuration(r.SetupTime)},
		{"证明生成", formatDuration(r.ProveTime)},
		{"证明验证", formatDuration(r.VerifyTime)},
	}
	if r.Proof != nil {
		rows = append(rows, []string{"证明大小", humanSize(r.Proof.Size())})
	}
	if r.PK != nil && r.VK != nil {
		rows = append(rows,
			[]string{"证明密钥", humanSize(r.PK.Size(r.Backend))},
			[]string{"验证密钥", humanSize(len(r.VK.Bytes(r.Backend)))},
			[]string{"约束数量", fmt.Sprintf("%d", r.PK.ConstraintCount(r.Backend))},
		)
	}
	rows = append(rows, []string{"主机内存", units.BytesSize(float64(memory.TotalMemory()))})
	return rows
}

// printReport 输出计时与大小
func printReport(w io.Writer, scheme types.SignatureScheme, r *zkproof.RunReport) error {
	return pterm.DefaultTable.
		WithHasHeader(true).
		WithWriter(w).
		WithData(reportRows(scheme, r)).
		Render()
}
