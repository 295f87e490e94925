package exec

import (
	"sync"

	"github.com/1whatleytay/titan/cpu"
)

// Mode is the executor's run state.
type Mode int

const (
	Running Mode = iota
	Paused
	Breakpoint
	Invalid
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Breakpoint:
		return "breakpoint"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// DebugFrame is a point-in-time snapshot handed back to callers after a
// run, so they can inspect what happened without holding the executor lock.
type DebugFrame struct {
	Mode      Mode
	Err       error
	Registers cpu.Registers
}

// BatchResult reports how far a batch of cycles got before stopping.
type BatchResult struct {
	InstructionsExecuted uint64
	Interrupted          bool
}

// executorState is the mutex-guarded core; Executor only ever touches it
// through the lock, mirroring the parking_lot::Mutex<ExecutorState> split
// in the Rust source.
type executorState struct {
	mode Mode
	err  error

	state       *cpu.State
	breakpoints map[uint32]struct{}
	batch       int

	tracker Tracker
}

func newExecutorState(state *cpu.State, tracker Tracker) *executorState {
	return &executorState{
		mode:        Paused,
		state:       state,
		breakpoints: make(map[uint32]struct{}),
		batch:       140,
		tracker:     tracker,
	}
}

func (e *executorState) frame() DebugFrame {
	return DebugFrame{Mode: e.mode, Err: e.err, Registers: e.state.Registers}
}

// cycle steps one instruction and reports whether execution was
// interrupted (hit a breakpoint or faulted). See Executor.Cycle.
func (e *executorState) cycle(noBreakpoints bool) bool {
	if !noBreakpoints {
		if _, hit := e.breakpoints[e.state.Registers.PC]; hit {
			e.mode = Breakpoint
			return true
		}
	}

	e.tracker.PreTrack(e.state)
	err := e.state.Step()

	if err != nil {
		e.mode = Invalid
		e.err = err
		return true
	}

	// Only track the instruction if it did not fail, so backstepping never
	// rewinds onto a faulting instruction.
	e.tracker.PostTrack(e.state)
	return false
}

// Executor drives a cpu.State one instruction (or batch) at a time behind
// a mutex, so a debugger UI and a running program can share it safely.
type Executor struct {
	mu    sync.Mutex
	inner *executorState
}

func NewExecutor(state *cpu.State, tracker Tracker) *Executor {
	return &Executor{inner: newExecutorState(state, tracker)}
}

func FromState(state *cpu.State) *Executor {
	return NewExecutor(state, EmptyTracker{})
}

func (e *Executor) Frame() DebugFrame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.frame()
}

func (e *Executor) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inner.mode = Paused
}

func (e *Executor) OverrideMode(mode Mode, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inner.mode = mode
	e.inner.err = err
}

// WithState runs f against the locked CPU state.
func (e *Executor) WithState(f func(state *cpu.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(e.inner.state)
}

// WithMemory runs f against the locked CPU's memory.
func (e *Executor) WithMemory(f func(memory cpu.Memory)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(e.inner.state.Memory)
}

// WithTracker runs f against the locked tracker.
func (e *Executor) WithTracker(f func(tracker Tracker)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f(e.inner.tracker)
}

// SyscallHandled resumes after an Invalid(ErrCpuSyscall) frame: the host
// has serviced the syscall, so advance past it and return to Running.
func (e *Executor) SyscallHandled() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inner.mode == Invalid {
		e.inner.mode = Running
		e.inner.err = nil
	}
	e.inner.state.Registers.PC += 4
}

func (e *Executor) SetBreakpoints(addresses []uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	breakpoints := make(map[uint32]struct{}, len(addresses))
	for _, address := range addresses {
		breakpoints[address] = struct{}{}
	}
	e.inner.breakpoints = breakpoints
}

// Cycle steps one instruction and reports whether it was interrupted.
func (e *Executor) Cycle(noBreakpoints bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.cycle(noBreakpoints)
}

func (e *Executor) IsBreakpoint() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner.mode == Breakpoint
}

// RunBatched steps up to batch instructions, stopping early on a
// breakpoint/fault, or (if allowInterrupt) as soon as the mode leaves
// Running — e.g. another goroutine paused it mid-batch.
func (e *Executor) RunBatched(batch int, skipFirstBreakpoint, allowInterrupt bool) BatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var executed uint64
	for i := 0; i < batch; i++ {
		if allowInterrupt && e.inner.mode != Running {
			return BatchResult{InstructionsExecuted: executed, Interrupted: true}
		}

		if e.inner.cycle(skipFirstBreakpoint) {
			return BatchResult{InstructionsExecuted: executed, Interrupted: true}
		}

		executed++
		skipFirstBreakpoint = false
	}

	return BatchResult{InstructionsExecuted: executed, Interrupted: false}
}

// Run switches the executor to Running, repeatedly calls RunBatched until
// interrupted, then returns the resulting frame.
func (e *Executor) Run(skipFirstBreakpoint bool) DebugFrame {
	e.mu.Lock()
	e.inner.mode = Running
	batch := e.inner.batch
	e.mu.Unlock()

	for {
		result := e.RunBatched(batch, skipFirstBreakpoint, true)
		skipFirstBreakpoint = false
		if result.Interrupted {
			break
		}
	}

	return e.Frame()
}
