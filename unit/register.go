package unit

import "fmt"

// RegisterName gives mnemonic names to the 32 general-purpose register
// indices.
type RegisterName uint8

const (
	Zero RegisterName = iota
	AssemblerTemporary
	ValueZero
	ValueOne
	Argument0
	Argument1
	Argument2
	Argument3
	Temporary0
	Temporary1
	Temporary2
	Temporary3
	Temporary4
	Temporary5
	Temporary6
	Temporary7
	Saved0
	Saved1
	Saved2
	Saved3
	Saved4
	Saved5
	Saved6
	Saved7
	Temporary8
	Temporary9
	Kernel0
	Kernel1
	GlobalPointer
	StackPointer
	FramePointer
	ReturnAddress
)

var registerNames = [32]string{
	"zero", "at",
	"v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1",
	"gp", "sp", "fp", "ra",
}

func (r RegisterName) String() string {
	if int(r) < len(registerNames) {
		return fmt.Sprintf("$%s", registerNames[r])
	}
	return "$unk"
}
