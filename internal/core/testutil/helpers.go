package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weisyn/batchsig/internal/core/synthetic"
	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/batchsig/pkg/types"
)

// NewTestLogger 创建测试用的Logger
func NewTestLogger() log.Logger {
	return &MockLogger{}
}

// NewTestBehavioralLogger 创建行为Logger（记录调用）
func NewTestBehavioralLogger() *BehavioralMockLogger {
	return &BehavioralMockLogger{}
}

// NewTestBatch 生成 n 个有效签名的批次
func NewTestBatch(t testing.TB, scheme types.SignatureScheme, n int) *types.BatchInput {
	t.Helper()
	batch, err := synthetic.New().Generate(scheme, n)
	require.NoError(t, err)
	return batch
}
