package zkproof

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weisyn/batchsig/pkg/interfaces/infrastructure/event"
)

// EventRunTransition 证明运行状态变化事件，回调参数为 RunTransition
const EventRunTransition event.EventType = "zkproof:run"

// State 证明运行状态
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSetup         State = "setup"
	StateProving       State = "proving"
	StateProofReady    State = "proof_ready"
	StateProvingFailed State = "proving_failed"
	StateVerifying     State = "verifying"
	StateVerified      State = "verified"
	StateRejected      State = "rejected"
)

// transitions 合法的状态转换
var transitions = map[State][]State{
	StateUninitialized: {StateSetup},
	StateSetup:         {StateProving},
	StateProving:       {StateProofReady, StateProvingFailed},
	StateProofReady:    {StateVerifying},
	StateVerifying:     {StateVerified, StateRejected},
}

// Terminal 是否为终止状态
func (s State) Terminal() bool {
	return s == StateProvingFailed || s == StateVerified || s == StateRejected
}

// CanTransition 是否允许从 s 转换到 to
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// RunTransition 一次状态转换
type RunTransition struct {
	RunID uuid.UUID
	From  State
	To    State
	At    time.Time
	Err   error // 进入失败状态的原因
}

// Run 单次证明运行的状态机
type Run struct {
	id  uuid.UUID
	bus event.EventBus

	mu      sync.Mutex
	state   State
	history []RunTransition
}

// NewRun 创建处于 Uninitialized 状态的运行；bus 可以为 nil
func NewRun(bus event.EventBus) *Run {
	return &Run{
		id:    uuid.New(),
		bus:   bus,
		state: StateUninitialized,
	}
}

// ID 运行标识
func (r *Run) ID() uuid.UUID { return r.id }

// State 当前状态
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// History 已发生的状态转换
func (r *Run) History() []RunTransition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RunTransition(nil), r.history...)
}

// Transition 转换到下一个状态；非法转换返回 ErrIllegalTransition 且状态不变
func (r *Run) Transition(to State, cause error) error {
	r.mu.Lock()
	from := r.state
	if !from.CanTransition(to) {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	t := RunTransition{RunID: r.id, From: from, To: to, At: time.Now(), Err: cause}
	r.state = to
	r.history = append(r.history, t)
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.Publish(EventRunTransition, t)
	}
	return nil
}
