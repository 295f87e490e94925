package cpu_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/cpu"
)

func TestDisassembleMatchesAssembledMnemonics(t *testing.T) {
	source := `
.text
main:
	addi $t0, $zero, 5
	add  $t1, $t0, $t0
	sw   $t1, 0($sp)
	lw   $t2, 0($sp)
	beq  $t1, $t2, main
	syscall
`
	binaryArtifact, err := asm.Assemble(source)
	require.NoError(t, err)

	expectedPrefixes := []string{"addi $t0", "add $t1", "sw $t1", "lw $t2", "beq $t1", "syscall"}

	region := binaryArtifact.Regions[0]
	labels := cpu.HexLabelProvider{}

	for i, prefix := range expectedPrefixes {
		offset := i * 4
		word := binary.LittleEndian.Uint32(region.Data[offset : offset+4])
		text := cpu.Disassemble(region.Address+uint32(offset), word, labels)
		assert.True(t, strings.HasPrefix(text, prefix), "instruction %d: got %q, want prefix %q", i, text, prefix)
	}
}

func TestDisassembleUnknownWordFallsBackToWordDirective(t *testing.T) {
	text := cpu.Disassemble(0, 0xFFFFFFFF, cpu.HexLabelProvider{})
	assert.Contains(t, text, ".word 0x")
}

func TestDisassembleBranchResolvesTargetViaLabelProvider(t *testing.T) {
	source := `
.text
main:
	beq $zero, $zero, main
	syscall
`
	binaryArtifact, err := asm.Assemble(source)
	require.NoError(t, err)

	word := binary.LittleEndian.Uint32(binaryArtifact.Regions[0].Data[0:4])
	text := cpu.Disassemble(binaryArtifact.Regions[0].Address, word, cpu.HexLabelProvider{})
	assert.Equal(t, "beq $zero, $zero, 0x00400000", text)
}
