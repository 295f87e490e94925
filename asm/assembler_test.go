package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addSub = `
.text
main:
	addi $t0, $zero, 5
	addi $t1, $zero, 7
	add  $t2, $t0, $t1
	sub  $t3, $t1, $t0
	syscall
`

func TestAssembleAddSub(t *testing.T) {
	binary, err := Assemble(addSub)
	require.NoError(t, err)
	require.Len(t, binary.Regions, 1)

	region := binary.Regions[0]
	assert.Equal(t, SectionText.DefaultBase(), region.Address)
	assert.Equal(t, SectionText.DefaultBase(), binary.Entry, "entry should default to the main label")
	assert.True(t, region.Flags.Executable)
	assert.False(t, region.Flags.Writable)
	assert.Len(t, region.Data, 5*4)
}

const branchAndJump = `
.text
main:
	addi $t0, $zero, 0
loop:
	addi $t0, $t0, 1
	addi $t1, $zero, 3
	bne  $t0, $t1, loop
	jal  done
done:
	syscall
`

func TestAssembleBranchAndJumpResolveLabels(t *testing.T) {
	binary, err := Assemble(branchAndJump)
	require.NoError(t, err)

	loop, ok := binary.Labels["loop"]
	require.True(t, ok)
	done, ok := binary.Labels["done"]
	require.True(t, ok)

	assert.Equal(t, binary.Regions[0].Address+4, loop)
	assert.Less(t, loop, done)
}

const dataSection = `
.data
message: .asciiz "hi"
count: .word 42
.text
main:
	lw $t0, 0($zero)
	syscall
`

func TestAssembleDataDirectives(t *testing.T) {
	binary, err := Assemble(dataSection)
	require.NoError(t, err)
	require.Len(t, binary.Regions, 2)

	data := binary.Regions[1]
	assert.Equal(t, SectionData.DefaultBase(), data.Address)
	assert.False(t, data.Flags.Executable)
	assert.True(t, data.Flags.Writable)

	// "hi\0" (3 bytes) then .word aligns to a 4-byte boundary before the
	// word itself, so the region should be at least 3+align+4 bytes long.
	assert.GreaterOrEqual(t, len(data.Data), 7)
}

func TestAssembleUnknownInstructionFails(t *testing.T) {
	_, err := Assemble(".text\nmain:\n\tbogus $t0, $t1, $t2\n")
	require.Error(t, err)

	asmErr, ok := err.(*AssemblerError)
	require.True(t, ok)
	assert.Equal(t, ReasonUnknownInstruction, asmErr.Reason)
}

func TestAssembleUnknownLabelFails(t *testing.T) {
	_, err := Assemble(".text\nmain:\n\tj nowhere\n")
	require.Error(t, err)

	asmErr, ok := err.(*AssemblerError)
	require.True(t, ok)
	assert.Equal(t, ReasonUnknownLabel, asmErr.Reason)
}

func TestAssembleLoadImmediatePseudo(t *testing.T) {
	binary, err := Assemble(".text\nmain:\n\tli $t0, 70000\n\tsyscall\n")
	require.NoError(t, err)

	// 70000 doesn't fit in 16 bits, so li should expand to lui+ori (two words)
	// before the trailing syscall word.
	assert.Equal(t, 3*4, len(binary.Regions[0].Data))
}
