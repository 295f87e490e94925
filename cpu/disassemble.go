package cpu

import "fmt"

// LabelProvider turns a target address into display text, letting callers
// swap in symbol-table lookups while debugging or fall back to plain hex.
type LabelProvider interface {
	LabelFor(address uint32) string
}

// HexLabelProvider is the zero-value LabelProvider: every address renders
// as its own hex literal.
type HexLabelProvider struct{}

func (HexLabelProvider) LabelFor(address uint32) string {
	return fmt.Sprintf("0x%08x", address)
}

// Disassembler implements Decoder[string], rendering each instruction as
// the text a MIPS assembler would accept back. pc must be set to the
// address of the instruction being rendered before each Dispatch call,
// since branch/jump targets are computed relative to it.
type Disassembler struct {
	PC     uint32
	Labels LabelProvider
}

func jumpDest(pc, imm uint32) uint32 {
	return ((pc + 4) & 0xF0000000) | (imm << 2)
}

func relDest(pc uint32, imm uint16) uint32 {
	return uint32(int32(pc+4) + (int32(int16(imm)) << 2))
}

var disassemblerRegisterNames = [32]string{
	"$zero", "$at",
	"$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1",
	"$gp", "$sp", "$fp", "$ra",
}

func dreg(value uint8) string {
	if int(value) < len(disassemblerRegisterNames) {
		return disassemblerRegisterNames[value]
	}
	return "$unk"
}

func dfreg(value uint8) string {
	return fmt.Sprintf("$f%d", value)
}

func duns(imm uint16) string {
	if imm < 10 {
		return fmt.Sprintf("%d", imm)
	}
	return fmt.Sprintf("0x%x", imm)
}

func dsig(imm uint16) string {
	value := int64(int16(imm))
	if value < 0 {
		if -value < 10 {
			return fmt.Sprintf("%d", value)
		}
		return fmt.Sprintf("-0x%x", -value)
	}
	if value < 10 {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("0x%x", value)
}

func dhex(imm uint16) string {
	return fmt.Sprintf("0x%x", imm)
}

func (d *Disassembler) Add(s, t, rd uint8) string  { return fmt.Sprintf("add %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Addu(s, t, rd uint8) string { return fmt.Sprintf("addu %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) And(s, t, rd uint8) string  { return fmt.Sprintf("and %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Div(s, t uint8) string      { return fmt.Sprintf("div %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Divu(s, t uint8) string     { return fmt.Sprintf("divu %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Mult(s, t uint8) string     { return fmt.Sprintf("mult %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Multu(s, t uint8) string    { return fmt.Sprintf("multu %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Nor(s, t, rd uint8) string  { return fmt.Sprintf("nor %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Or(s, t, rd uint8) string   { return fmt.Sprintf("or %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Sll(t, rd, sham uint8) string {
	return fmt.Sprintf("sll %s, %s, %s", dreg(rd), dreg(t), duns(uint16(sham)))
}
func (d *Disassembler) Sllv(s, t, rd uint8) string { return fmt.Sprintf("sllv %s, %s, %s", dreg(rd), dreg(t), dreg(s)) }
func (d *Disassembler) Sra(t, rd, sham uint8) string {
	return fmt.Sprintf("sra %s, %s, %s", dreg(rd), dreg(t), duns(uint16(sham)))
}
func (d *Disassembler) Srav(s, t, rd uint8) string { return fmt.Sprintf("srav %s, %s, %s", dreg(rd), dreg(t), dreg(s)) }
func (d *Disassembler) Srl(t, rd, sham uint8) string {
	return fmt.Sprintf("srl %s, %s, %s", dreg(rd), dreg(t), duns(uint16(sham)))
}
func (d *Disassembler) Srlv(s, t, rd uint8) string { return fmt.Sprintf("srlv %s, %s, %s", dreg(rd), dreg(t), dreg(s)) }
func (d *Disassembler) Sub(s, t, rd uint8) string  { return fmt.Sprintf("sub %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Subu(s, t, rd uint8) string { return fmt.Sprintf("subu %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Xor(s, t, rd uint8) string  { return fmt.Sprintf("xor %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Slt(s, t, rd uint8) string  { return fmt.Sprintf("slt %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Sltu(s, t, rd uint8) string { return fmt.Sprintf("sltu %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Jr(s uint8) string          { return fmt.Sprintf("jr %s", dreg(s)) }
func (d *Disassembler) Jalr(s uint8) string        { return fmt.Sprintf("jalr %s", dreg(s)) }
func (d *Disassembler) Movz(s, t, rd uint8) string { return fmt.Sprintf("movz %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }
func (d *Disassembler) Movn(s, t, rd uint8) string { return fmt.Sprintf("movn %s, %s, %s", dreg(rd), dreg(s), dreg(t)) }

func (d *Disassembler) Madd(s, t uint8) string  { return fmt.Sprintf("madd %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Maddu(s, t uint8) string { return fmt.Sprintf("maddu %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Mul(s, t, rd uint8) string {
	return fmt.Sprintf("mul %s, %s, %s", dreg(rd), dreg(s), dreg(t))
}
func (d *Disassembler) Msub(s, t uint8) string  { return fmt.Sprintf("msub %s, %s", dreg(s), dreg(t)) }
func (d *Disassembler) Msubu(s, t uint8) string { return fmt.Sprintf("msubu %s, %s", dreg(s), dreg(t)) }

func (d *Disassembler) Addi(s, t uint8, imm uint16) string {
	return fmt.Sprintf("addi %s, %s, %s", dreg(t), dreg(s), dsig(imm))
}
func (d *Disassembler) Addiu(s, t uint8, imm uint16) string {
	return fmt.Sprintf("addiu %s, %s, %s", dreg(t), dreg(s), dsig(imm))
}
func (d *Disassembler) Andi(s, t uint8, imm uint16) string {
	return fmt.Sprintf("andi %s, %s, %s", dreg(t), dreg(s), dhex(imm))
}
func (d *Disassembler) Ori(s, t uint8, imm uint16) string {
	return fmt.Sprintf("ori %s, %s, %s", dreg(t), dreg(s), dhex(imm))
}
func (d *Disassembler) Xori(s, t uint8, imm uint16) string {
	return fmt.Sprintf("xori %s, %s, %s", dreg(t), dreg(s), dhex(imm))
}
func (d *Disassembler) Lui(t uint8, imm uint16) string { return fmt.Sprintf("lui %s, %s", dreg(t), dhex(imm)) }
func (d *Disassembler) Lhi(t uint8, imm uint16) string { return fmt.Sprintf("lhi %s, %s", dreg(t), dhex(imm)) }
func (d *Disassembler) Llo(t uint8, imm uint16) string { return fmt.Sprintf("llo %s, %s", dreg(t), dhex(imm)) }
func (d *Disassembler) Slti(s, t uint8, imm uint16) string {
	return fmt.Sprintf("slti %s, %s, %s", dreg(t), dreg(s), dsig(imm))
}
func (d *Disassembler) Sltiu(s, t uint8, imm uint16) string {
	return fmt.Sprintf("sltiu %s, %s, %s", dreg(t), dreg(s), duns(imm))
}

func (d *Disassembler) label(imm uint16) string {
	return d.Labels.LabelFor(relDest(d.PC, imm))
}

func (d *Disassembler) Beq(s, t uint8, imm uint16) string {
	return fmt.Sprintf("beq %s, %s, %s", dreg(s), dreg(t), d.label(imm))
}
func (d *Disassembler) Bne(s, t uint8, imm uint16) string {
	return fmt.Sprintf("bne %s, %s, %s", dreg(s), dreg(t), d.label(imm))
}
func (d *Disassembler) Bgtz(s uint8, imm uint16) string { return fmt.Sprintf("bgtz %s, %s", dreg(s), d.label(imm)) }
func (d *Disassembler) Blez(s uint8, imm uint16) string { return fmt.Sprintf("blez %s, %s", dreg(s), d.label(imm)) }
func (d *Disassembler) Bltz(s uint8, imm uint16) string { return fmt.Sprintf("bltz %s, %s", dreg(s), d.label(imm)) }
func (d *Disassembler) Bgez(s uint8, imm uint16) string { return fmt.Sprintf("bgez %s, %s", dreg(s), d.label(imm)) }
func (d *Disassembler) Bltzal(s uint8, imm uint16) string {
	return fmt.Sprintf("bltzal %s, %s", dreg(s), d.label(imm))
}
func (d *Disassembler) Bgezal(s uint8, imm uint16) string {
	return fmt.Sprintf("bgezal %s, %s", dreg(s), d.label(imm))
}

func (d *Disassembler) J(imm uint32) string {
	return fmt.Sprintf("j %s", d.Labels.LabelFor(jumpDest(d.PC, imm)))
}
func (d *Disassembler) Jal(imm uint32) string {
	return fmt.Sprintf("jal %s", d.Labels.LabelFor(jumpDest(d.PC, imm)))
}

func (d *Disassembler) Lb(s, t uint8, imm uint16) string {
	return fmt.Sprintf("lb %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Lbu(s, t uint8, imm uint16) string {
	return fmt.Sprintf("lbu %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Lh(s, t uint8, imm uint16) string {
	return fmt.Sprintf("lh %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Lhu(s, t uint8, imm uint16) string {
	return fmt.Sprintf("lhu %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Lw(s, t uint8, imm uint16) string {
	return fmt.Sprintf("lw %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Sb(s, t uint8, imm uint16) string {
	return fmt.Sprintf("sb %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Sh(s, t uint8, imm uint16) string {
	return fmt.Sprintf("sh %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}
func (d *Disassembler) Sw(s, t uint8, imm uint16) string {
	return fmt.Sprintf("sw %s, %s(%s)", dreg(t), dsig(imm), dreg(s))
}

func (d *Disassembler) Mfhi(rd uint8) string { return fmt.Sprintf("mfhi %s", dreg(rd)) }
func (d *Disassembler) Mflo(rd uint8) string { return fmt.Sprintf("mflo %s", dreg(rd)) }
func (d *Disassembler) Mthi(s uint8) string  { return fmt.Sprintf("mthi %s", dreg(s)) }
func (d *Disassembler) Mtlo(s uint8) string  { return fmt.Sprintf("mtlo %s", dreg(s)) }

func (d *Disassembler) Trap() string    { return "trap" }
func (d *Disassembler) Syscall() string { return "syscall" }

func (d *Disassembler) Movf(s, cc, rd uint8) string { return fmt.Sprintf("movf %s, %s, %d", dreg(rd), dreg(s), cc) }
func (d *Disassembler) Movt(s, cc, rd uint8) string { return fmt.Sprintf("movt %s, %s, %d", dreg(rd), dreg(s), cc) }

func (d *Disassembler) AddS(t, s, rd uint8) string { return fmt.Sprintf("add.s %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) SubS(t, s, rd uint8) string { return fmt.Sprintf("sub.s %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) MulS(t, s, rd uint8) string { return fmt.Sprintf("mul.s %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) DivS(t, s, rd uint8) string { return fmt.Sprintf("div.s %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) SqrtS(s, rd uint8) string   { return fmt.Sprintf("sqrt.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) AbsS(s, rd uint8) string    { return fmt.Sprintf("abs.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) NegS(s, rd uint8) string    { return fmt.Sprintf("neg.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) MovS(s, rd uint8) string    { return fmt.Sprintf("mov.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) FloorWS(s, rd uint8) string { return fmt.Sprintf("floor.w.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CeilWS(s, rd uint8) string  { return fmt.Sprintf("ceil.w.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) RoundWS(s, rd uint8) string { return fmt.Sprintf("round.w.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) TruncWS(s, rd uint8) string { return fmt.Sprintf("trunc.w.s %s, %s", dfreg(rd), dfreg(s)) }

func (d *Disassembler) AddD(t, s, rd uint8) string { return fmt.Sprintf("add.d %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) SubD(t, s, rd uint8) string { return fmt.Sprintf("sub.d %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) MulD(t, s, rd uint8) string { return fmt.Sprintf("mul.d %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) DivD(t, s, rd uint8) string { return fmt.Sprintf("div.d %s, %s, %s", dfreg(rd), dfreg(s), dfreg(t)) }
func (d *Disassembler) SqrtD(s, rd uint8) string   { return fmt.Sprintf("sqrt.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) AbsD(s, rd uint8) string    { return fmt.Sprintf("abs.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) NegD(s, rd uint8) string    { return fmt.Sprintf("neg.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) MovD(s, rd uint8) string    { return fmt.Sprintf("mov.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) FloorWD(s, rd uint8) string { return fmt.Sprintf("floor.w.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CeilWD(s, rd uint8) string  { return fmt.Sprintf("ceil.w.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) RoundWD(s, rd uint8) string { return fmt.Sprintf("round.w.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) TruncWD(s, rd uint8) string { return fmt.Sprintf("trunc.w.d %s, %s", dfreg(rd), dfreg(s)) }

func (d *Disassembler) CEqS(t, s, cc uint8) string { return fmt.Sprintf("c.eq.s %d, %s, %s", cc, dfreg(s), dfreg(t)) }
func (d *Disassembler) CLtS(t, s, cc uint8) string { return fmt.Sprintf("c.lt.s %d, %s, %s", cc, dfreg(s), dfreg(t)) }
func (d *Disassembler) CLeS(t, s, cc uint8) string { return fmt.Sprintf("c.le.s %d, %s, %s", cc, dfreg(s), dfreg(t)) }
func (d *Disassembler) CEqD(t, s, cc uint8) string { return fmt.Sprintf("c.eq.d %d, %s, %s", cc, dfreg(s), dfreg(t)) }
func (d *Disassembler) CLtD(t, s, cc uint8) string { return fmt.Sprintf("c.lt.d %d, %s, %s", cc, dfreg(s), dfreg(t)) }
func (d *Disassembler) CLeD(t, s, cc uint8) string { return fmt.Sprintf("c.le.d %d, %s, %s", cc, dfreg(s), dfreg(t)) }

func (d *Disassembler) Bc1t(cc uint8, address uint16) string {
	return fmt.Sprintf("bc1t %d, %s", cc, d.label(address))
}
func (d *Disassembler) Bc1f(cc uint8, address uint16) string {
	return fmt.Sprintf("bc1f %d, %s", cc, d.label(address))
}

func (d *Disassembler) MovfS(cc, s, rd uint8) string { return fmt.Sprintf("movf.s %s, %s, %d", dfreg(rd), dfreg(s), cc) }
func (d *Disassembler) MovtS(cc, s, rd uint8) string { return fmt.Sprintf("movt.s %s, %s, %d", dfreg(rd), dfreg(s), cc) }
func (d *Disassembler) MovnS(t, s, rd uint8) string {
	return fmt.Sprintf("movn.s %s, %s, %s", dfreg(rd), dfreg(s), dreg(t))
}
func (d *Disassembler) MovzS(t, s, rd uint8) string {
	return fmt.Sprintf("movz.s %s, %s, %s", dfreg(rd), dfreg(s), dreg(t))
}
func (d *Disassembler) MovfD(cc, s, rd uint8) string { return fmt.Sprintf("movf.d %s, %s, %d", dfreg(rd), dfreg(s), cc) }
func (d *Disassembler) MovtD(cc, s, rd uint8) string { return fmt.Sprintf("movt.d %s, %s, %d", dfreg(rd), dfreg(s), cc) }
func (d *Disassembler) MovnD(t, s, rd uint8) string {
	return fmt.Sprintf("movn.d %s, %s, %s", dfreg(rd), dfreg(s), dreg(t))
}
func (d *Disassembler) MovzD(t, s, rd uint8) string {
	return fmt.Sprintf("movz.d %s, %s, %s", dfreg(rd), dfreg(s), dreg(t))
}

func (d *Disassembler) CvtSW(s, rd uint8) string { return fmt.Sprintf("cvt.s.w %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CvtWS(s, rd uint8) string { return fmt.Sprintf("cvt.w.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CvtSD(s, rd uint8) string { return fmt.Sprintf("cvt.s.d %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CvtDS(s, rd uint8) string { return fmt.Sprintf("cvt.d.s %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CvtDW(s, rd uint8) string { return fmt.Sprintf("cvt.d.w %s, %s", dfreg(rd), dfreg(s)) }
func (d *Disassembler) CvtWD(s, rd uint8) string { return fmt.Sprintf("cvt.w.d %s, %s", dfreg(rd), dfreg(s)) }

func (d *Disassembler) Mtc1(t, s uint8) string { return fmt.Sprintf("mtc1 %s, %s", dreg(t), dfreg(s)) }
func (d *Disassembler) Mfc1(t, s uint8) string { return fmt.Sprintf("mfc1 %s, %s", dreg(t), dfreg(s)) }

func (d *Disassembler) Lwc1(base, t uint8, offset uint16) string {
	return fmt.Sprintf("lwc1 %s, %s(%s)", dfreg(t), dsig(offset), dreg(base))
}
func (d *Disassembler) Swc1(base, t uint8, offset uint16) string {
	return fmt.Sprintf("swc1 %s, %s(%s)", dfreg(t), dsig(offset), dreg(base))
}
func (d *Disassembler) Ldc1(base, t uint8, offset uint16) string {
	return fmt.Sprintf("ldc1 %s, %s(%s)", dfreg(t), dsig(offset), dreg(base))
}
func (d *Disassembler) Sdc1(base, t uint8, offset uint16) string {
	return fmt.Sprintf("sdc1 %s, %s(%s)", dfreg(t), dsig(offset), dreg(base))
}

// Disassemble renders one instruction word as assembly text, using labels
// as the LabelProvider for branch and jump targets. Used by the titan
// disasm command, reusing the same Decoder[string] visitor the executor's
// Decoder[error] runs against.
func Disassemble(pc uint32, instruction uint32, labels LabelProvider) string {
	d := &Disassembler{PC: pc, Labels: labels}

	result, ok := Dispatch[string](d, instruction)
	if !ok {
		return fmt.Sprintf(".word 0x%08x", instruction)
	}

	return result
}
