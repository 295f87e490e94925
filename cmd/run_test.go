package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/elf"
	"github.com/1whatleytay/titan/unit"
)

const exitProgram = `
.text
main:
	addi $a0, $zero, 7
	addi $v0, $zero, 17
	syscall
`

func TestLoadDeviceFromSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.s")
	require.NoError(t, os.WriteFile(path, []byte(exitProgram), 0o644))

	dev, err := loadDevice(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00400000), dev.Binary.Entry)
}

func TestLoadDeviceFromElf(t *testing.T) {
	binary, err := asm.Assemble(exitProgram)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "prog.elf")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, elf.Write(file, elf.FromBinary(binary)))
	require.NoError(t, file.Close())

	dev, err := loadDevice(path)
	require.NoError(t, err)
	assert.Equal(t, binary.Entry, dev.Binary.Entry)
}

func TestRunToCompletionRecoversTerminateValued(t *testing.T) {
	dev, err := unit.MakeFromSource(exitProgram)
	require.NoError(t, err)

	dev.HandleSyscall(17, func() {
		panic(unitExit{code: int32(dev.Get(unit.Argument0))})
	})

	exitCode := runToCompletion(dev, 0)
	assert.Equal(t, int32(7), exitCode)
}

func TestRunToCompletionReportsUnhandledSyscallAsFailure(t *testing.T) {
	dev, err := unit.MakeFromSource(exitProgram)
	require.NoError(t, err)
	// no handlers registered at all: syscall 17 is unhandled

	exitCode := runToCompletion(dev, 0)
	assert.Equal(t, int32(1), exitCode)
}
