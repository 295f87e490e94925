package cpu

// Decoder is the visitor every instruction mnemonic dispatches to: one
// method per opcode, each returning whatever the visitor implementation
// wants (an error for the interpreter, a formatted string for the
// disassembler).
type Decoder[T any] interface {
	Add(s, t, d uint8) T
	Addu(s, t, d uint8) T
	And(s, t, d uint8) T
	Div(s, t uint8) T
	Divu(s, t uint8) T
	Mult(s, t uint8) T
	Multu(s, t uint8) T
	Nor(s, t, d uint8) T
	Or(s, t, d uint8) T
	Sll(t, d, sham uint8) T
	Sllv(s, t, d uint8) T
	Sra(t, d, sham uint8) T
	Srav(s, t, d uint8) T
	Srl(t, d, sham uint8) T
	Srlv(s, t, d uint8) T
	Sub(s, t, d uint8) T
	Subu(s, t, d uint8) T
	Xor(s, t, d uint8) T
	Slt(s, t, d uint8) T
	Sltu(s, t, d uint8) T
	Jr(s uint8) T
	Jalr(s uint8) T

	Madd(s, t uint8) T
	Maddu(s, t uint8) T
	Mul(s, t, d uint8) T
	Msub(s, t uint8) T
	Msubu(s, t uint8) T

	Addi(s, t uint8, imm uint16) T
	Addiu(s, t uint8, imm uint16) T
	Andi(s, t uint8, imm uint16) T
	Ori(s, t uint8, imm uint16) T
	Xori(s, t uint8, imm uint16) T
	Lui(t uint8, imm uint16) T
	Lhi(t uint8, imm uint16) T
	Llo(t uint8, imm uint16) T
	Slti(s, t uint8, imm uint16) T
	Sltiu(s, t uint8, imm uint16) T

	Beq(s, t uint8, imm uint16) T
	Bne(s, t uint8, imm uint16) T
	Bgtz(s uint8, imm uint16) T
	Blez(s uint8, imm uint16) T

	Bltz(s uint8, imm uint16) T
	Bgez(s uint8, imm uint16) T
	Bltzal(s uint8, imm uint16) T
	Bgezal(s uint8, imm uint16) T

	J(imm uint32) T
	Jal(imm uint32) T

	Lb(s, t uint8, imm uint16) T
	Lbu(s, t uint8, imm uint16) T
	Lh(s, t uint8, imm uint16) T
	Lhu(s, t uint8, imm uint16) T
	Lw(s, t uint8, imm uint16) T

	Sb(s, t uint8, imm uint16) T
	Sh(s, t uint8, imm uint16) T
	Sw(s, t uint8, imm uint16) T

	Mfhi(d uint8) T
	Mflo(d uint8) T
	Mthi(s uint8) T
	Mtlo(s uint8) T

	Trap() T
	Syscall() T

	AddS(t, s, d uint8) T
	SubS(t, s, d uint8) T
	MulS(t, s, d uint8) T
	DivS(t, s, d uint8) T
	SqrtS(s, d uint8) T
	AbsS(s, d uint8) T
	NegS(s, d uint8) T
	FloorWS(s, d uint8) T
	CeilWS(s, d uint8) T
	RoundWS(s, d uint8) T
	TruncWS(s, d uint8) T
	AddD(t, s, d uint8) T
	SubD(t, s, d uint8) T
	MulD(t, s, d uint8) T
	DivD(t, s, d uint8) T
	SqrtD(s, d uint8) T
	AbsD(s, d uint8) T
	NegD(s, d uint8) T
	FloorWD(s, d uint8) T
	CeilWD(s, d uint8) T
	RoundWD(s, d uint8) T
	TruncWD(s, d uint8) T
	CEqS(t, s, cc uint8) T
	CLeS(t, s, cc uint8) T
	CLtS(t, s, cc uint8) T
	CEqD(t, s, cc uint8) T
	CLeD(t, s, cc uint8) T
	CLtD(t, s, cc uint8) T
	Bc1t(cc uint8, address uint16) T
	Bc1f(cc uint8, address uint16) T
	MovS(s, d uint8) T
	MovfS(cc, s, d uint8) T
	MovtS(cc, s, d uint8) T
	MovnS(t, s, d uint8) T
	MovzS(t, s, d uint8) T
	MovD(s, d uint8) T
	MovfD(cc, s, d uint8) T
	MovtD(cc, s, d uint8) T
	MovnD(t, s, d uint8) T
	MovzD(t, s, d uint8) T
	Movf(s, cc, d uint8) T
	Movt(s, cc, d uint8) T
	Movn(s, t, d uint8) T
	Movz(s, t, d uint8) T
	CvtSW(s, d uint8) T
	CvtWS(s, d uint8) T
	CvtSD(s, d uint8) T
	CvtDS(s, d uint8) T
	CvtDW(s, d uint8) T
	CvtWD(s, d uint8) T
	Mtc1(t, s uint8) T
	Mfc1(t, s uint8) T
	Lwc1(base, t uint8, offset uint16) T
	Swc1(base, t uint8, offset uint16) T
	Ldc1(base, t uint8, offset uint16) T
	Sdc1(base, t uint8, offset uint16) T
}

// Fmt is the COP1 format field: single, double, or word-integer.
type Fmt int

const (
	FmtSingle Fmt = 16
	FmtDouble Fmt = 17
	FmtWord   Fmt = 20
)

// Dispatch decodes a 32-bit word against v and reports whether any
// mnemonic matched. Unknown opcodes return ok=false, which callers
// convert to CpuInvalid(instruction).
func Dispatch[T any](v Decoder[T], instruction uint32) (result T, ok bool) {
	opcode := instruction >> 26
	s := uint8((instruction >> 21) & 0x1F)
	t := uint8((instruction >> 16) & 0x1F)
	imm := uint16(instruction & 0xFFFF)
	address := instruction & 0x03FFFFFF

	switch opcode {
	case 0:
		return dispatchRType(v, instruction)
	case 1:
		return dispatchSpecial(v, instruction)
	case 2:
		return v.J(address), true
	case 3:
		return v.Jal(address), true
	case 4:
		return v.Beq(s, t, imm), true
	case 5:
		return v.Bne(s, t, imm), true
	case 6:
		return v.Blez(s, imm), true
	case 7:
		return v.Bgtz(s, imm), true
	case 8:
		return v.Addi(s, t, imm), true
	case 9:
		return v.Addiu(s, t, imm), true
	case 10:
		return v.Slti(s, t, imm), true
	case 11:
		return v.Sltiu(s, t, imm), true
	case 12:
		return v.Andi(s, t, imm), true
	case 13:
		return v.Ori(s, t, imm), true
	case 14:
		return v.Xori(s, t, imm), true
	case 15:
		return v.Lui(t, imm), true
	case 17:
		return dispatchCop1(v, instruction)
	case 24:
		return v.Llo(t, imm), true
	case 25:
		return v.Lhi(t, imm), true
	case 26:
		return v.Trap(), true
	case 28:
		return dispatchAlgebra(v, instruction)
	case 32:
		return v.Lb(s, t, imm), true
	case 33:
		return v.Lh(s, t, imm), true
	case 35:
		return v.Lw(s, t, imm), true
	case 36:
		return v.Lbu(s, t, imm), true
	case 37:
		return v.Lhu(s, t, imm), true
	case 40:
		return v.Sb(s, t, imm), true
	case 41:
		return v.Sh(s, t, imm), true
	case 43:
		return v.Sw(s, t, imm), true
	case 49:
		return v.Lwc1(s, t, imm), true
	case 53:
		return v.Ldc1(s, t, imm), true
	case 57:
		return v.Swc1(s, t, imm), true
	case 61:
		return v.Sdc1(s, t, imm), true
	default:
		var zero T
		return zero, false
	}
}

func dispatchRType[T any](v Decoder[T], instruction uint32) (T, bool) {
	var zero T
	fn := instruction & 0x3F
	s := uint8((instruction >> 21) & 0x1F)
	t := uint8((instruction >> 16) & 0x1F)
	d := uint8((instruction >> 11) & 0x1F)
	sham := uint8((instruction >> 6) & 0x1F)

	switch fn {
	case 0:
		return v.Sll(t, d, sham), true
	case 1:
		switch t & 0b11 {
		case 0b00:
			return v.Movf(s, t>>2, d), true
		case 0b01:
			return v.Movt(s, t>>2, d), true
		default:
			return zero, false
		}
	case 2:
		return v.Srl(t, d, sham), true
	case 3:
		return v.Sra(t, d, sham), true
	case 4:
		return v.Sllv(s, t, d), true
	case 6:
		return v.Srlv(s, t, d), true
	case 7:
		return v.Srav(s, t, d), true
	case 8:
		return v.Jr(s), true
	case 9:
		return v.Jalr(s), true
	case 10:
		return v.Movz(s, t, d), true
	case 11:
		return v.Movn(s, t, d), true
	case 12:
		return v.Syscall(), true
	case 16:
		return v.Mfhi(d), true
	case 17:
		return v.Mthi(s), true
	case 18:
		return v.Mflo(d), true
	case 19:
		return v.Mtlo(s), true
	case 24:
		return v.Mult(s, t), true
	case 25:
		return v.Multu(s, t), true
	case 26:
		return v.Div(s, t), true
	case 27:
		return v.Divu(s, t), true
	case 32:
		return v.Add(s, t, d), true
	case 33:
		return v.Addu(s, t, d), true
	case 34:
		return v.Sub(s, t, d), true
	case 35:
		return v.Subu(s, t, d), true
	case 36:
		return v.And(s, t, d), true
	case 37:
		return v.Or(s, t, d), true
	case 38:
		return v.Xor(s, t, d), true
	case 39:
		return v.Nor(s, t, d), true
	case 41:
		return v.Sltu(s, t, d), true
	case 42:
		return v.Slt(s, t, d), true
	default:
		return zero, false
	}
}

func dispatchSpecial[T any](v Decoder[T], instruction uint32) (T, bool) {
	var zero T
	s := uint8((instruction >> 21) & 0x1F)
	t := uint8((instruction >> 16) & 0x1F)
	imm := uint16(instruction & 0xFFFF)

	switch t {
	case 0:
		return v.Bltz(s, imm), true
	case 1:
		return v.Bgez(s, imm), true
	case 16:
		return v.Bltzal(s, imm), true
	case 17:
		return v.Bgezal(s, imm), true
	default:
		return zero, false
	}
}

func dispatchAlgebra[T any](v Decoder[T], instruction uint32) (T, bool) {
	var zero T
	fn := instruction & 0x3F
	s := uint8((instruction >> 21) & 0x1F)
	t := uint8((instruction >> 16) & 0x1F)
	d := uint8((instruction >> 11) & 0x1F)

	switch fn {
	case 0:
		return v.Madd(s, t), true
	case 1:
		return v.Maddu(s, t), true
	case 2:
		return v.Mul(s, t, d), true
	case 4:
		return v.Msub(s, t), true
	case 5:
		return v.Msubu(s, t), true
	default:
		return zero, false
	}
}

func dispatchCop1[T any](v Decoder[T], instruction uint32) (T, bool) {
	var zero T
	fmt := Fmt((instruction >> 21) & 0b11111)
	t := uint8((instruction >> 16) & 0x1F)
	s := uint8((instruction >> 11) & 0x1F)
	d := uint8((instruction >> 6) & 0x1F)

	switch fmt {
	case FmtSingle, FmtDouble, FmtWord:
		sub := instruction & 0b111111
		switch {
		case sub == 0 && fmt == FmtSingle:
			return v.AddS(t, s, d), true
		case sub == 1 && fmt == FmtSingle:
			return v.SubS(t, s, d), true
		case sub == 2 && fmt == FmtSingle:
			return v.MulS(t, s, d), true
		case sub == 3 && fmt == FmtSingle:
			return v.DivS(t, s, d), true
		case sub == 4 && fmt == FmtSingle:
			return v.SqrtS(s, d), true
		case sub == 5 && fmt == FmtSingle:
			return v.AbsS(s, d), true
		case sub == 6 && fmt == FmtSingle:
			return v.MovS(s, d), true
		case sub == 7 && fmt == FmtSingle:
			return v.NegS(s, d), true
		case sub == 12 && fmt == FmtSingle:
			return v.RoundWS(s, d), true
		case sub == 13 && fmt == FmtSingle:
			return v.TruncWS(s, d), true
		case sub == 14 && fmt == FmtSingle:
			return v.CeilWS(s, d), true
		case sub == 15 && fmt == FmtSingle:
			return v.FloorWS(s, d), true
		case sub == 17 && fmt == FmtSingle:
			switch t & 0b11 {
			case 0b00:
				return v.MovfS(t>>2, s, d), true
			case 0b01:
				return v.MovtS(t>>2, s, d), true
			default:
				return zero, false
			}
		case sub == 18 && fmt == FmtSingle:
			return v.MovzS(t, s, d), true
		case sub == 19 && fmt == FmtSingle:
			return v.MovnS(t, s, d), true
		case sub == 50 && fmt == FmtSingle:
			return v.CEqS(t, s, d>>2), true
		case sub == 60 && fmt == FmtSingle:
			return v.CLtS(t, s, d>>2), true
		case sub == 62 && fmt == FmtSingle:
			return v.CLeS(t, s, d>>2), true

		case sub == 0 && fmt == FmtDouble:
			return v.AddD(t, s, d), true
		case sub == 1 && fmt == FmtDouble:
			return v.SubD(t, s, d), true
		case sub == 2 && fmt == FmtDouble:
			return v.MulD(t, s, d), true
		case sub == 3 && fmt == FmtDouble:
			return v.DivD(t, s, d), true
		case sub == 4 && fmt == FmtDouble:
			return v.SqrtD(s, d), true
		case sub == 5 && fmt == FmtDouble:
			return v.AbsD(s, d), true
		case sub == 6 && fmt == FmtDouble:
			return v.MovD(s, d), true
		case sub == 7 && fmt == FmtDouble:
			return v.NegD(s, d), true
		case sub == 12 && fmt == FmtDouble:
			return v.RoundWD(s, d), true
		case sub == 13 && fmt == FmtDouble:
			return v.TruncWD(s, d), true
		case sub == 14 && fmt == FmtDouble:
			return v.CeilWD(s, d), true
		case sub == 15 && fmt == FmtDouble:
			return v.FloorWD(s, d), true
		case sub == 17 && fmt == FmtDouble:
			switch t & 0b11 {
			case 0b00:
				return v.MovfD(t>>2, s, d), true
			case 0b01:
				return v.MovtD(t>>2, s, d), true
			default:
				return zero, false
			}
		case sub == 18 && fmt == FmtDouble:
			return v.MovzD(t, s, d), true
		case sub == 19 && fmt == FmtDouble:
			return v.MovnD(t, s, d), true
		case sub == 50 && fmt == FmtDouble:
			return v.CEqD(t, s, d>>2), true
		case sub == 60 && fmt == FmtDouble:
			return v.CLtD(t, s, d>>2), true
		case sub == 62 && fmt == FmtDouble:
			return v.CLeD(t, s, d>>2), true

		case sub == 33 && fmt == FmtSingle:
			return v.CvtDS(s, d), true
		case sub == 33 && fmt == FmtWord:
			return v.CvtDW(s, d), true
		case sub == 32 && fmt == FmtDouble:
			return v.CvtSD(s, d), true
		case sub == 32 && fmt == FmtWord:
			return v.CvtSW(s, d), true
		case sub == 36 && fmt == FmtSingle:
			return v.CvtWS(s, d), true
		case sub == 36 && fmt == FmtDouble:
			return v.CvtWD(s, d), true
		default:
			return zero, false
		}
	case 0b00000:
		return v.Mfc1(t, s), true
	case 0b00100:
		return v.Mtc1(t, s), true
	case 0b01000:
		tf := t & 0b11
		cc := (t >> 2) & 0b111
		addr := uint16(instruction & 0xFFFF)
		switch tf {
		case 0:
			return v.Bc1f(cc, addr), true
		case 1:
			return v.Bc1t(cc, addr), true
		default:
			return zero, false
		}
	default:
		return zero, false
	}
}
