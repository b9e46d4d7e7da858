package zkvm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/log"
)

// DefaultMaxInputBytes 默认输入上限
const DefaultMaxInputBytes int64 = 64 << 20

// Session 一次执行的结果
type Session struct {
	ImageID     ImageID
	InputDigest [32]byte
	Journal     []byte
	Duration    time.Duration
}

// Executor 程序执行器
type Executor struct {
	maxInputBytes int64
	logger        log.Logger
}

// NewExecutor 创建执行器；maxInputBytes <= 0 时使用默认上限
func NewExecutor(maxInputBytes int64, logger log.Logger) *Executor {
	if maxInputBytes <= 0 {
		maxInputBytes = DefaultMaxInputBytes
	}
	return &Executor{maxInputBytes: maxInputBytes, logger: logger}
}

// Execute 在新的执行环境中运行镜像
//
// 程序返回的错误原样返回（可用 errors.As 取出具体类型）。
// 程序 panic 时返回 ErrGuestPanic，没有提交输出时返回 ErrNoCommit。
func (e *Executor) Execute(ctx context.Context, image *Image, stdin []byte) (*Session, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(stdin)) > e.maxInputBytes {
		return nil, fmt.Errorf("%w: %s > %s", ErrInputTooLarge,
			units.HumanSize(float64(len(stdin))), units.HumanSize(float64(e.maxInputBytes)))
	}

	session := &Session{
		ImageID:     image.ID(),
		InputDigest: sha256.Sum256(stdin),
	}
	env := NewMemoryEnv(stdin)

	start := time.Now()
	err := runGuest(image.Program, env)
	session.Duration = time.Since(start)
	if err != nil {
		if e.logger != nil {
			e.logger.Debugf("guest %s/%s aborted after %s: %v", image.Name, image.Version, session.Duration, err)
		}
		return nil, err
	}

	journal, ok := env.Journal()
	if !ok {
		return nil, ErrNoCommit
	}
	session.Journal = journal

	if e.logger != nil {
		e.logger.Debugf("guest %s/%s finished in %s, journal %d bytes",
			image.Name, image.Version, session.Duration, len(journal))
	}
	return session, nil
}

func runGuest(program Program, env Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGuestPanic, r)
		}
	}()
	return program.Run(env)
}
