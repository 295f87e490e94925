package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/mem"
)

func newProgramState(t *testing.T, source string) (*cpu.State, *asm.Binary) {
	t.Helper()

	binary, err := asm.Assemble(source)
	require.NoError(t, err)

	memory := mem.NewRegionMemory()
	for _, region := range binary.Regions {
		memory.Mount(mem.Region{Start: region.Address, Data: region.Data})
	}
	// a little scratch space between .text and .data for load/store tests
	memory.Mount(mem.Region{Start: 0x10000000, Data: make([]byte, 256)})

	state := cpu.NewState(memory)
	state.Registers.PC = binary.Entry
	return state, binary
}

func stepUntilSyscall(t *testing.T, state *cpu.State, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		err := state.Step()
		if cpu.IsSyscall(err) {
			return
		}
		require.NoError(t, err)
	}
	t.Fatalf("program did not reach syscall within %d steps", maxSteps)
}

func TestStateArithmetic(t *testing.T) {
	state, _ := newProgramState(t, `
.text
main:
	addi $t0, $zero, 5
	addi $t1, $zero, 7
	add  $t2, $t0, $t1
	sub  $t3, $t1, $t0
	syscall
`)

	stepUntilSyscall(t, state, 10)

	assert.Equal(t, uint32(5), state.Registers.Line[8])  // $t0
	assert.Equal(t, uint32(7), state.Registers.Line[9])  // $t1
	assert.Equal(t, uint32(12), state.Registers.Line[10]) // $t2
	assert.Equal(t, uint32(2), state.Registers.Line[11])  // $t3
}

func TestStateZeroRegisterIsHardWired(t *testing.T) {
	state, _ := newProgramState(t, `
.text
main:
	addi $zero, $zero, 99
	syscall
`)

	stepUntilSyscall(t, state, 10)
	assert.Equal(t, uint32(0), state.Registers.Line[0])
}

func TestStateBranchTaken(t *testing.T) {
	state, _ := newProgramState(t, `
.text
main:
	addi $t0, $zero, 1
	addi $t1, $zero, 1
	beq  $t0, $t1, target
	addi $s0, $zero, 111
target:
	addi $s1, $zero, 222
	syscall
`)

	stepUntilSyscall(t, state, 10)

	assert.Equal(t, uint32(0), state.Registers.Line[16], "s0 should be skipped by the taken branch")
	assert.Equal(t, uint32(222), state.Registers.Line[17])
}

func TestStateLoadStoreRoundTrip(t *testing.T) {
	state, _ := newProgramState(t, `
.text
main:
	addi $t0, $zero, 1234
	lui  $t1, 0x1000
	sw   $t0, 0($t1)
	lw   $t2, 0($t1)
	syscall
`)

	stepUntilSyscall(t, state, 10)
	assert.Equal(t, uint32(1234), state.Registers.Line[10]) // $t2
}

func TestStateInvalidInstructionRestoresPC(t *testing.T) {
	memory := mem.NewRegionMemory()
	memory.Mount(mem.Region{Start: 0x00400000, Data: []byte{0xff, 0xff, 0xff, 0xff}})

	state := cpu.NewState(memory)
	state.Registers.PC = 0x00400000

	err := state.Step()
	require.Error(t, err)
	assert.False(t, cpu.IsSyscall(err))
	assert.Equal(t, uint32(0x00400000), state.Registers.PC, "PC should roll back on a failed step")
}
