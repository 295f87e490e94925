// Package unit provides a self-contained façade over the assembler, CPU
// and executor: load a source file, run it to a stop condition, inspect
// or restore its state.
package unit

import (
	"fmt"
	"os"
	"time"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/exec"
	"github.com/1whatleytay/titan/mem"
)

const heapSize = 0x100000
const heapEnd = 0x7FFFFFFC
const historyCapacity = 1000

// MakeUnitDeviceError distinguishes a missing source file from a failed
// assemble, so callers can report each distinctly.
type MakeUnitDeviceError struct {
	FileMissing error
	CompileErr  error
}

func (e *MakeUnitDeviceError) Error() string {
	if e.FileMissing != nil {
		return e.FileMissing.Error()
	}
	return e.CompileErr.Error()
}

// UnitDevice wraps one assembled program and its running Executor.
type UnitDevice struct {
	Executor    *exec.Executor
	Binary      *asm.Binary
	FinishedPCs []uint32

	handlers map[uint32]func()
}

// Make assembles the source at path and wires up a fresh CPU state:
// a watched, paged memory mounting every binary region plus a heap, a
// stack pointer seeded at the top of the heap, and a bounded history
// tracker behind the executor.
func Make(path string) (*UnitDevice, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &MakeUnitDeviceError{FileMissing: err}
	}

	binary, err := asm.Assemble(string(source))
	if err != nil {
		return nil, &MakeUnitDeviceError{CompileErr: err}
	}

	return fromBinary(binary)
}

// MakeFromSource assembles source text directly, skipping the filesystem.
func MakeFromSource(source string) (*UnitDevice, error) {
	binary, err := asm.Assemble(source)
	if err != nil {
		return nil, &MakeUnitDeviceError{CompileErr: err}
	}
	return fromBinary(binary)
}

// MakeFromBinary wires up a device around an already-assembled Binary
// artifact (for instance one recovered from an ELF file via elf.ToBinary),
// skipping assembly entirely.
func MakeFromBinary(binary *asm.Binary) (*UnitDevice, error) {
	return fromBinary(binary)
}

func fromBinary(binary *asm.Binary) (*UnitDevice, error) {
	watched := mem.NewWatchedMemory(mem.NewPageMemory())

	for _, region := range binary.Regions {
		watched.Mount(mem.Region{Start: region.Address, Data: region.Data})
	}

	heap := mem.Region{
		Start: heapEnd - heapSize,
		Data:  make([]byte, heapSize),
	}
	watched.Mount(heap)

	state := cpu.NewState(watched)
	state.Registers.PC = binary.Entry
	state.Registers.Set(uint8(StackPointer), heapEnd)

	tracker := exec.NewHistoryTracker(historyCapacity)
	executor := exec.NewExecutor(state, tracker)

	finishedPCs := make([]uint32, len(binary.Regions))
	for i, region := range binary.Regions {
		finishedPCs[i] = region.Address + uint32(len(region.Data))
	}

	return &UnitDevice{
		Executor:    executor,
		Binary:      binary,
		FinishedPCs: finishedPCs,
		handlers:    make(map[uint32]func()),
	}, nil
}

func (u *UnitDevice) Registers() cpu.Registers {
	var registers cpu.Registers
	u.Executor.WithState(func(s *cpu.State) { registers = s.Registers })
	return registers
}

func (u *UnitDevice) Get(name RegisterName) uint32 {
	var value uint32
	u.Executor.WithState(func(s *cpu.State) { value = s.Registers.Get(uint8(name)) })
	return value
}

func (u *UnitDevice) Set(name RegisterName, value uint32) {
	u.Executor.WithState(func(s *cpu.State) { s.Registers.Set(uint8(name), value) })
}

func (u *UnitDevice) HasLabel(name string) bool {
	_, ok := u.Binary.Labels[name]
	return ok
}

func (u *UnitDevice) ArrivedAtLabel(name string) bool {
	address, ok := u.Binary.Labels[name]
	if !ok {
		return false
	}
	var pc uint32
	u.Executor.WithState(func(s *cpu.State) { pc = s.Registers.PC })
	return pc == address
}

func (u *UnitDevice) JumpTo(pc uint32) {
	u.Executor.WithState(func(s *cpu.State) { s.Registers.PC = pc })
}

func (u *UnitDevice) JumpToLabel(name string) error {
	address, ok := u.Binary.Labels[name]
	if !ok {
		return &Error{Kind: ErrMissingLabel, Label: name}
	}
	u.JumpTo(address)
	return nil
}

// Snapshot copies the current register file, for save/restore around a
// speculative Call.
func (u *UnitDevice) Snapshot() cpu.Registers {
	return u.Registers()
}

func (u *UnitDevice) Restore(registers cpu.Registers) {
	u.Executor.WithState(func(s *cpu.State) { s.Registers = registers })
}

// HandleSyscall registers f to run whenever the program issues a syscall
// with $v0 == v0.
func (u *UnitDevice) HandleSyscall(v0 uint32, f func()) {
	u.handlers[v0] = f
}

// handleFrame interprets one stopped DebugFrame: dispatches a registered
// syscall handler, recognizes a clean program-complete landing, or
// surfaces everything else as a failure.
func (u *UnitDevice) handleFrame(frame exec.DebugFrame, completeError bool) (bool, error) {
	if frame.Mode != exec.Invalid {
		return true, nil
	}

	if cpu.IsSyscall(frame.Err) {
		v0 := u.Get(ValueZero)
		handler, ok := u.handlers[v0]
		if !ok {
			return false, &Error{Kind: ErrInvalidInstruction, Cause: frame.Err}
		}

		handler()
		u.Executor.SyscallHandled()
		return false, nil
	}

	for _, pc := range u.FinishedPCs {
		if pc == frame.Registers.PC {
			if completeError {
				return false, &Error{Kind: ErrProgramCompleted}
			}
			return true, nil
		}
	}

	return false, &Error{Kind: ErrInvalidInstruction, Cause: frame.Err}
}

func (u *UnitDevice) Step() error {
	return u.ExecuteUntil(Steps(1))
}

// Backstep pops the most recent history entry and applies it, undoing the
// last successfully stepped instruction. Reports false if there was
// nothing to undo.
func (u *UnitDevice) Backstep() bool {
	var entry exec.HistoryEntry
	var ok bool
	u.Executor.WithTracker(func(tracker exec.Tracker) {
		history, isHistory := tracker.(*exec.HistoryTracker)
		if !isHistory {
			return
		}
		entry, ok = history.Pop()
	})
	if !ok {
		return false
	}

	u.Executor.WithState(func(s *cpu.State) {
		entry.Apply(&s.Registers, backingOf(s.Memory))
	})
	return true
}

func backingOf(memory cpu.Memory) cpu.Memory {
	if watched, ok := memory.(*mem.WatchedMemory); ok {
		return watched.Backing
	}
	return memory
}

// LoadParams writes params into $a0, $a1, $a2, $a3 in order, then on into
// the registers that follow by index ($t0, $t1, ...); values that would
// land past $ra are dropped.
func (u *UnitDevice) LoadParams(params []uint32) {
	for i, value := range params {
		index := i + int(Argument0)
		if index >= 32 {
			return
		}
		u.Set(RegisterName(index), value)
	}
}

// sentinelReturn is an address that can never occur in a real program,
// used to detect "the called function returned" without a real caller.
const sentinelReturn = 0xEABADDEA

// Call jumps to label, seeds $a0.. with params, sets $ra to a sentinel
// return address, and runs until execution lands there (or times out).
func (u *UnitDevice) Call(label string, params []uint32, timeout time.Duration) error {
	if err := u.JumpToLabel(label); err != nil {
		return err
	}

	lastRA := u.Get(ReturnAddress)
	u.Set(ReturnAddress, sentinelReturn)
	u.LoadParams(params)

	var err error
	if timeout > 0 {
		err = u.ExecuteUntil(Address(sentinelReturn), Timeout(timeout))
	} else {
		err = u.ExecuteUntil(Address(sentinelReturn))
	}

	u.Set(ReturnAddress, lastRA)
	return err
}

// ExecuteUntil runs the program until any of conditions is satisfied.
func (u *UnitDevice) ExecuteUntil(conditions ...StopCondition) error {
	parameters, err := resolveStopConditions(conditions, func(name string) (uint32, bool) {
		address, ok := u.Binary.Labels[name]
		return address, ok
	})
	if err != nil {
		return err
	}

	u.Executor.SetBreakpoints(parameters.breakpoints)

	var deadline time.Time
	if parameters.timeout > 0 {
		deadline = time.Now().Add(parameters.timeout)
	}

	const timeoutBatch = 140

	for {
		var frame exec.DebugFrame
		if parameters.steps != nil {
			frame = u.runLimited(*parameters.steps)
		} else if !deadline.IsZero() {
			// Run in bounded batches so the deadline is checked even while
			// the program keeps running without stopping.
			u.Executor.OverrideMode(exec.Running, nil)
			if !u.Executor.RunBatched(timeoutBatch, false, true).Interrupted {
				if time.Now().After(deadline) {
					u.Executor.Pause()
					return &Error{Kind: ErrExecutionTimedOut}
				}
				continue
			}
			frame = u.Executor.Frame()
		} else {
			frame = u.Executor.Run(false)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return &Error{Kind: ErrExecutionTimedOut}
		}

		done, err := u.handleFrame(frame, parameters.completeError)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// runLimited steps at most count instructions (ignoring the first
// breakpoint hit, since it's the caller's own starting PC).
func (u *UnitDevice) runLimited(count int) exec.DebugFrame {
	u.Executor.OverrideMode(exec.Running, nil)
	u.Executor.RunBatched(count, true, false)
	return u.Executor.Frame()
}

// ErrorKind distinguishes the shapes of failure a UnitDevice can surface.
type ErrorKind int

const (
	ErrMissingLabel ErrorKind = iota
	ErrExecutionTimedOut
	ErrInvalidInstruction
	ErrProgramCompleted
)

type Error struct {
	Kind  ErrorKind
	Label string
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrMissingLabel:
		return fmt.Sprintf("could not find label %q in program", e.Label)
	case ErrExecutionTimedOut:
		return "execution timed out (by stop condition)"
	case ErrInvalidInstruction:
		return fmt.Sprintf("cpu execution failed with error %v", e.Cause)
	case ErrProgramCompleted:
		return "program completed and this was not caught"
	default:
		return "unknown unit device error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }
