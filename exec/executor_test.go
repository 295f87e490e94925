package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/exec"
	"github.com/1whatleytay/titan/mem"
)

func newExecutor(t *testing.T, source string) (*exec.Executor, *exec.HistoryTracker) {
	t.Helper()

	binary, err := asm.Assemble(source)
	require.NoError(t, err)

	watched := mem.NewWatchedMemory(mem.NewRegionMemory())
	for _, region := range binary.Regions {
		watched.Mount(mem.Region{Start: region.Address, Data: region.Data})
	}

	state := cpu.NewState(watched)
	state.Registers.PC = binary.Entry

	tracker := exec.NewHistoryTracker(8)
	return exec.NewExecutor(state, tracker), tracker
}

const threeSteps = `
.text
main:
	addi $t0, $zero, 1
	addi $t0, $t0, 1
	addi $t0, $t0, 1
	syscall
`

func TestExecutorCycleAdvancesAndTracksHistory(t *testing.T) {
	executor, tracker := newExecutor(t, threeSteps)

	interrupted := executor.Cycle(true)
	assert.False(t, interrupted)
	assert.Equal(t, 1, tracker.Len())

	frame := executor.Frame()
	assert.Equal(t, uint32(1), frame.Registers.Line[8])
}

func TestExecutorRunStopsAtSyscall(t *testing.T) {
	executor, _ := newExecutor(t, threeSteps)

	frame := executor.Run(false)
	assert.Equal(t, exec.Invalid, frame.Mode)
	assert.True(t, cpu.IsSyscall(frame.Err))
	assert.Equal(t, uint32(3), frame.Registers.Line[8])
}

func TestExecutorSyscallHandledResumesPastIt(t *testing.T) {
	executor, _ := newExecutor(t, threeSteps)

	frame := executor.Run(false)
	require.True(t, cpu.IsSyscall(frame.Err))

	pcAtSyscall := frame.Registers.PC
	executor.SyscallHandled()

	assert.Equal(t, pcAtSyscall+4, executor.Frame().Registers.PC)
	assert.Equal(t, exec.Running, executor.Frame().Mode)
}

func TestExecutorBreakpointStopsCycle(t *testing.T) {
	executor, _ := newExecutor(t, threeSteps)
	executor.SetBreakpoints([]uint32{0x00400004})

	frame := executor.Run(true)
	assert.Equal(t, exec.Breakpoint, frame.Mode)
	assert.Equal(t, uint32(0x00400004), frame.Registers.PC)
}

func TestHistoryTrackerPopRewinds(t *testing.T) {
	executor, tracker := newExecutor(t, threeSteps)

	require.False(t, executor.Cycle(true))
	require.False(t, executor.Cycle(true))
	assert.Equal(t, 2, tracker.Len())

	before := executor.Frame().Registers.Line[8]
	assert.Equal(t, uint32(2), before)

	entry, ok := tracker.Pop()
	require.True(t, ok)

	executor.WithState(func(state *cpu.State) {
		entry.Apply(&state.Registers, state.Memory)
	})

	assert.Equal(t, uint32(1), executor.Frame().Registers.Line[8])
}
