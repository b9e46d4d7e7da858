// Package zkvm 提供受限程序的执行环境
//
// 程序（guest）只能通过 Env 与外界交互：读取一次私有输入，提交一次公开输出。
// 执行器记录输入摘要和提交内容，供证明层构造执行声明。
package zkvm

import "sync"

// Env 程序可见的执行环境
type Env interface {
	// Read 读取主机提供的全部输入，只能调用一次
	Read() ([]byte, error)

	// Commit 提交公开输出，只能调用一次
	Commit(data []byte) error
}

// MemoryEnv 基于内存的执行环境
type MemoryEnv struct {
	mu        sync.Mutex
	input     []byte
	consumed  bool
	journal   []byte
	committed bool
}

// NewMemoryEnv 创建执行环境
func NewMemoryEnv(input []byte) *MemoryEnv {
	return &MemoryEnv{input: input}
}

// Read 实现 Env
func (e *MemoryEnv) Read() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.consumed {
		return nil, ErrInputConsumed
	}
	e.consumed = true
	data := e.input
	e.input = nil
	return data, nil
}

// Commit 实现 Env
func (e *MemoryEnv) Commit(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.committed {
		return ErrAlreadyCommitted
	}
	e.committed = true
	e.journal = append([]byte(nil), data...)
	return nil
}

// Journal 返回已提交的公开输出；未提交时第二个返回值为 false
func (e *MemoryEnv) Journal() ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal, e.committed
}
