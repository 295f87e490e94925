package asm

import "fmt"

// RegisterSlot names one of the 32 general-purpose register lines by its
// conventional MIPS index.
type RegisterSlot uint8

const (
	Zero RegisterSlot = iota
	AssemblerTemporary
	Value0
	Value1
	Parameter0
	Parameter1
	Parameter2
	Parameter3
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
	GeneralPointer
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

var registersByName = func() map[string]RegisterSlot {
	m := make(map[string]RegisterSlot, len(registerNames))
	for i, name := range registerNames {
		m[name] = RegisterSlot(i)
	}
	return m
}()

// RegisterFromName resolves a bare register name (without the leading `$`)
// to its slot, or false if the name isn't a known register.
func RegisterFromName(name string) (RegisterSlot, bool) {
	slot, ok := registersByName[name]
	return slot, ok
}

func (r RegisterSlot) Name() string {
	return registerNames[r]
}

func (r RegisterSlot) String() string {
	return fmt.Sprintf("$%s", r.Name())
}
