package asm

// Encoding names the operand shape the emitter uses for one mnemonic.
type Encoding int

const (
	EncodingRegister Encoding = iota // rd, rs, rt
	EncodingSource                   // rs
	EncodingDestination              // rd
	EncodingInputs                   // rs, rt
	EncodingSham                     // rd, rt, sham5
	EncodingSpecialBranch            // rs, label (op=1 rt-subopcode)
	EncodingImmediate                // rt, rs, imm16
	EncodingLoadImmediate            // rt, imm16
	EncodingJump                     // label, 26-bit
	EncodingBranch                   // rs, rt, label
	EncodingBranchZero                // rs, label
	EncodingParameterless             // syscall, trap
	EncodingLoadOffset                 // rt, imm(rs)
	EncodingStoreOffset                // rt, imm(rs)
)

// OpcodeKind distinguishes which 6-bit field the opcode constant lives in:
// the top-level `op` field, an `op=0` function field, or the `op=1`
// "special" rt sub-opcode field used by bltz/bgez/bltzal/bgezal.
type OpcodeKind int

const (
	OpcodeOp OpcodeKind = iota
	OpcodeFunc
	OpcodeSpecial
)

type Opcode struct {
	Kind  OpcodeKind
	Value uint8
}

func Op(v uint8) Opcode      { return Opcode{Kind: OpcodeOp, Value: v} }
func Func(v uint8) Opcode    { return Opcode{Kind: OpcodeFunc, Value: v} }
func Special(v uint8) Opcode { return Opcode{Kind: OpcodeSpecial, Value: v} }

type Instruction struct {
	Name     string
	Opcode   Opcode
	Encoding Encoding
}

// Instructions is the static MIPS-I instruction table.
var Instructions = []Instruction{
	{"sll", Func(0), EncodingSham},
	{"srl", Func(2), EncodingSham},
	{"sra", Func(3), EncodingSham},
	{"sllv", Func(4), EncodingRegister},
	{"srlv", Func(6), EncodingRegister},
	{"srav", Func(7), EncodingRegister},
	{"jr", Func(8), EncodingSource},
	{"jalr", Func(9), EncodingSource},
	{"mfhi", Func(16), EncodingDestination},
	{"mthi", Func(17), EncodingSource},
	{"mflo", Func(18), EncodingDestination},
	{"mtlo", Func(19), EncodingSource},
	{"mult", Func(24), EncodingInputs},
	{"multu", Func(25), EncodingInputs},
	{"div", Func(26), EncodingInputs},
	{"divu", Func(27), EncodingInputs},
	{"add", Func(32), EncodingRegister},
	{"addu", Func(33), EncodingRegister},
	{"sub", Func(34), EncodingRegister},
	{"subu", Func(35), EncodingRegister},
	{"and", Func(36), EncodingRegister},
	{"or", Func(37), EncodingRegister},
	{"xor", Func(38), EncodingRegister},
	{"nor", Func(39), EncodingRegister},
	{"sltu", Func(41), EncodingRegister},
	{"slt", Func(42), EncodingRegister},
	{"bltz", Special(0), EncodingSpecialBranch},
	{"bgez", Special(1), EncodingSpecialBranch},
	{"bltzal", Special(16), EncodingSpecialBranch},
	{"bgezal", Special(17), EncodingSpecialBranch},
	{"j", Op(2), EncodingJump},
	{"jal", Op(3), EncodingJump},
	{"beq", Op(4), EncodingBranch},
	{"bne", Op(5), EncodingBranch},
	{"blez", Op(6), EncodingBranchZero},
	{"bgtz", Op(7), EncodingBranchZero},
	{"addi", Op(8), EncodingImmediate},
	{"addiu", Op(9), EncodingImmediate},
	{"slti", Op(10), EncodingImmediate},
	{"sltiu", Op(11), EncodingImmediate},
	{"andi", Op(12), EncodingImmediate},
	{"ori", Op(13), EncodingImmediate},
	{"xori", Op(14), EncodingImmediate},
	{"lui", Op(15), EncodingLoadImmediate},
	{"llo", Op(24), EncodingLoadImmediate},
	{"lhi", Op(25), EncodingLoadImmediate},
	{"trap", Op(26), EncodingParameterless},
	{"syscall", Func(12), EncodingParameterless},
	{"lb", Op(32), EncodingLoadOffset},
	{"lh", Op(33), EncodingLoadOffset},
	{"lw", Op(35), EncodingLoadOffset},
	{"lbu", Op(36), EncodingLoadOffset},
	{"lhu", Op(37), EncodingLoadOffset},
	{"sb", Op(40), EncodingStoreOffset},
	{"sh", Op(41), EncodingStoreOffset},
	{"sw", Op(43), EncodingStoreOffset},
}

// InstructionsByName indexes Instructions for the emitter's lowercase lookup.
func InstructionsByName() map[string]*Instruction {
	m := make(map[string]*Instruction, len(Instructions))
	for i := range Instructions {
		m[Instructions[i].Name] = &Instructions[i]
	}
	return m
}
