package zkvm

import "errors"

// ============================================================================
//                              执行环境错误定义
// ============================================================================

var (
	// ErrInputConsumed 输入已经被读取过
	ErrInputConsumed = errors.New("zkvm: input already consumed")

	// ErrAlreadyCommitted 公开输出已经提交过
	ErrAlreadyCommitted = errors.New("zkvm: output already committed")

	// ErrNoCommit 程序正常返回但没有提交公开输出
	ErrNoCommit = errors.New("zkvm: guest returned without committing output")

	// ErrGuestPanic 程序执行中发生 panic
	ErrGuestPanic = errors.New("zkvm: guest panicked")

	// ErrInputTooLarge 输入超过执行器允许的上限
	ErrInputTooLarge = errors.New("zkvm: input exceeds size limit")

	// ErrInvalidImage 程序镜像缺少必要字段
	ErrInvalidImage = errors.New("zkvm: invalid program image")
)
