package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/unit"
)

const countToThree = `
.text
main:
	addi $t0, $zero, 0
loop:
	addi $t0, $t0, 1
	addi $t1, $zero, 3
	bne  $t0, $t1, loop
	addi $v0, $zero, 10
	syscall
`

func deviceFor(t *testing.T, source string) *unit.UnitDevice {
	t.Helper()
	dev, err := unit.MakeFromSource(source)
	require.NoError(t, err)
	return dev
}

func TestUnitDeviceRunToCompletion(t *testing.T) {
	dev := deviceFor(t, countToThree)
	dev.HandleSyscall(10, func() {})

	err := dev.ExecuteUntil(unit.Complete())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), dev.Get(unit.Temporary0))
}

func TestUnitDeviceStepAndBackstep(t *testing.T) {
	dev := deviceFor(t, countToThree)

	require.NoError(t, dev.Step())
	assert.Equal(t, uint32(0), dev.Get(unit.Temporary0))

	require.NoError(t, dev.Step())
	assert.Equal(t, uint32(1), dev.Get(unit.Temporary0))

	ok := dev.Backstep()
	require.True(t, ok)
	assert.Equal(t, uint32(0), dev.Get(unit.Temporary0))
}

func TestUnitDeviceBreakpointStopsExecution(t *testing.T) {
	dev := deviceFor(t, countToThree)

	err := dev.ExecuteUntil(unit.Label(unit.LabelIdentifier{Name: "loop"}))
	require.NoError(t, err)
	assert.True(t, dev.ArrivedAtLabel("loop"))
}

func TestUnitDeviceUnhandledSyscallFails(t *testing.T) {
	dev := deviceFor(t, countToThree)
	// no handler registered for v0=10

	err := dev.ExecuteUntil(unit.Complete())
	require.Error(t, err)

	unitErr, ok := err.(*unit.Error)
	require.True(t, ok)
	assert.Equal(t, unit.ErrInvalidInstruction, unitErr.Kind)
}

func TestUnitDeviceJumpToMissingLabelFails(t *testing.T) {
	dev := deviceFor(t, countToThree)

	err := dev.JumpToLabel("nonexistent")
	require.Error(t, err)

	unitErr, ok := err.(*unit.Error)
	require.True(t, ok)
	assert.Equal(t, unit.ErrMissingLabel, unitErr.Kind)
}

func TestUnitDeviceCallReturnsAtSentinel(t *testing.T) {
	dev := deviceFor(t, `
.text
main:
	syscall
add_two:
	add $v0, $a0, $a1
	jr  $ra
`)
	dev.HandleSyscall(0, func() {})

	err := dev.Call("add_two", []uint32{3, 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), dev.Get(unit.ValueZero))
}
