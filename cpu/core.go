package cpu

// Integer and control-flow instruction semantics: add/sub/addi trap on
// signed overflow, the *u variants wrap; mult/multu write the full 64-bit
// product to (HI, LO); div/divu trap on a zero divisor.

var _ Decoder[error] = (*State)(nil)
var _ Decoder[string] = (*Disassembler)(nil)

func (s *State) Add(rs, rt, rd uint8) error {
	a, b := int32(s.Registers.Get(rs)), int32(s.Registers.Get(rt))
	value := a + b
	if overflowsAdd(a, b, value) {
		return ErrTrap
	}
	s.Registers.Set(rd, uint32(value))
	return nil
}

func (s *State) Addu(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rs)+s.Registers.Get(rt))
	return nil
}

func (s *State) Sub(rs, rt, rd uint8) error {
	a, b := int32(s.Registers.Get(rs)), int32(s.Registers.Get(rt))
	value := a - b
	if overflowsSub(a, b, value) {
		return ErrTrap
	}
	s.Registers.Set(rd, uint32(value))
	return nil
}

func (s *State) Subu(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rs)-s.Registers.Get(rt))
	return nil
}

func (s *State) And(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rs)&s.Registers.Get(rt))
	return nil
}

func (s *State) Or(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rs)|s.Registers.Get(rt))
	return nil
}

func (s *State) Xor(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rs)^s.Registers.Get(rt))
	return nil
}

func (s *State) Nor(rs, rt, rd uint8) error {
	s.Registers.Set(rd, ^(s.Registers.Get(rs) | s.Registers.Get(rt)))
	return nil
}

func (s *State) Slt(rs, rt, rd uint8) error {
	s.Registers.Set(rd, boolToWord(int32(s.Registers.Get(rs)) < int32(s.Registers.Get(rt))))
	return nil
}

func (s *State) Sltu(rs, rt, rd uint8) error {
	s.Registers.Set(rd, boolToWord(s.Registers.Get(rs) < s.Registers.Get(rt)))
	return nil
}

func (s *State) Sll(rt, rd, sham uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rt)<<sham)
	return nil
}

func (s *State) Sllv(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rt)<<(s.Registers.Get(rs)&0x1F))
	return nil
}

func (s *State) Srl(rt, rd, sham uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rt)>>sham)
	return nil
}

func (s *State) Srlv(rs, rt, rd uint8) error {
	s.Registers.Set(rd, s.Registers.Get(rt)>>(s.Registers.Get(rs)&0x1F))
	return nil
}

func (s *State) Sra(rt, rd, sham uint8) error {
	s.Registers.Set(rd, uint32(int32(s.Registers.Get(rt))>>sham))
	return nil
}

func (s *State) Srav(rs, rt, rd uint8) error {
	s.Registers.Set(rd, uint32(int32(s.Registers.Get(rt))>>(s.Registers.Get(rs)&0x1F)))
	return nil
}

func (s *State) Mult(rs, rt uint8) error {
	a, b := int64(int32(s.Registers.Get(rs))), int64(int32(s.Registers.Get(rt)))
	s.setHiLo(uint64(a * b))
	return nil
}

func (s *State) Multu(rs, rt uint8) error {
	a, b := uint64(s.Registers.Get(rs)), uint64(s.Registers.Get(rt))
	s.setHiLo(a * b)
	return nil
}

func (s *State) Div(rs, rt uint8) error {
	a, b := int32(s.Registers.Get(rs)), int32(s.Registers.Get(rt))
	if b == 0 {
		return ErrTrap
	}
	s.Registers.Lo, s.Registers.Hi = uint32(a/b), uint32(a%b)
	return nil
}

func (s *State) Divu(rs, rt uint8) error {
	a, b := s.Registers.Get(rs), s.Registers.Get(rt)
	if b == 0 {
		return ErrTrap
	}
	s.Registers.Lo, s.Registers.Hi = a/b, a%b
	return nil
}

func (s *State) Madd(rs, rt uint8) error {
	a, b := int64(int32(s.Registers.Get(rs))), int64(int32(s.Registers.Get(rt)))
	product := a * b
	if overflowsMul64(a, b, product) {
		return ErrTrap
	}
	result := product + int64(s.hilo())
	s.setHiLo(uint64(result))
	return nil
}

func (s *State) Maddu(rs, rt uint8) error {
	a, b := uint64(s.Registers.Get(rs)), uint64(s.Registers.Get(rt))
	s.setHiLo(a*b + s.hilo())
	return nil
}

func (s *State) Mul(rs, rt, rd uint8) error {
	a, b := int32(s.Registers.Get(rs)), int32(s.Registers.Get(rt))
	s.Registers.Set(rd, uint32(a*b))
	return nil
}

func (s *State) Msub(rs, rt uint8) error {
	a, b := int64(int32(s.Registers.Get(rs))), int64(int32(s.Registers.Get(rt)))
	product := a * b
	if overflowsMul64(a, b, product) {
		return ErrTrap
	}
	result := int64(s.hilo()) - product
	s.setHiLo(uint64(result))
	return nil
}

func (s *State) Msubu(rs, rt uint8) error {
	a, b := uint64(s.Registers.Get(rs)), uint64(s.Registers.Get(rt))
	s.setHiLo(s.hilo() - a*b)
	return nil
}

func (s *State) Jr(rs uint8) error {
	s.Registers.PC = s.Registers.Get(rs)
	return nil
}

func (s *State) Jalr(rs uint8) error {
	target := s.Registers.Get(rs)
	s.Registers.Set(31, s.Registers.PC)
	s.Registers.PC = target
	return nil
}

func (s *State) Addi(rs, rt uint8, imm uint16) error {
	a := int32(s.Registers.Get(rs))
	value := a + int32(int16(imm))
	if overflowsAdd(a, int32(int16(imm)), value) {
		return ErrTrap
	}
	s.Registers.Set(rt, uint32(value))
	return nil
}

func (s *State) Addiu(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, uint32(int32(s.Registers.Get(rs))+int32(int16(imm))))
	return nil
}

func (s *State) Andi(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, s.Registers.Get(rs)&uint32(imm))
	return nil
}

func (s *State) Ori(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, s.Registers.Get(rs)|uint32(imm))
	return nil
}

func (s *State) Xori(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, s.Registers.Get(rs)^uint32(imm))
	return nil
}

func (s *State) Lui(rt uint8, imm uint16) error {
	s.Registers.Set(rt, uint32(imm)<<16)
	return nil
}

func (s *State) Lhi(rt uint8, imm uint16) error {
	s.Registers.Set(rt, (s.Registers.Get(rt)&0x0000FFFF)|(uint32(imm)<<16))
	return nil
}

func (s *State) Llo(rt uint8, imm uint16) error {
	s.Registers.Set(rt, (s.Registers.Get(rt)&0xFFFF0000)|uint32(imm))
	return nil
}

func (s *State) Slti(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, boolToWord(int32(s.Registers.Get(rs)) < int32(int16(imm))))
	return nil
}

func (s *State) Sltiu(rs, rt uint8, imm uint16) error {
	s.Registers.Set(rt, boolToWord(s.Registers.Get(rs) < uint32(imm)))
	return nil
}

func (s *State) Beq(rs, rt uint8, imm uint16) error {
	if s.Registers.Get(rs) == s.Registers.Get(rt) {
		s.skip(imm)
	}
	return nil
}

func (s *State) Bne(rs, rt uint8, imm uint16) error {
	if s.Registers.Get(rs) != s.Registers.Get(rt) {
		s.skip(imm)
	}
	return nil
}

func (s *State) Bgtz(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) > 0 {
		s.skip(imm)
	}
	return nil
}

func (s *State) Blez(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) <= 0 {
		s.skip(imm)
	}
	return nil
}

func (s *State) Bltz(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) < 0 {
		s.skip(imm)
	}
	return nil
}

func (s *State) Bgez(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) >= 0 {
		s.skip(imm)
	}
	return nil
}

func (s *State) Bltzal(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) < 0 {
		s.Registers.Set(31, s.Registers.PC)
		s.skip(imm)
	}
	return nil
}

func (s *State) Bgezal(rs uint8, imm uint16) error {
	if int32(s.Registers.Get(rs)) >= 0 {
		s.Registers.Set(31, s.Registers.PC)
		s.skip(imm)
	}
	return nil
}

func (s *State) J(imm uint32) error {
	s.jump(imm)
	return nil
}

func (s *State) Jal(imm uint32) error {
	s.Registers.Set(31, s.Registers.PC)
	s.jump(imm)
	return nil
}

func (s *State) effectiveAddress(rs uint8, imm uint16) uint32 {
	return uint32(int32(s.Registers.Get(rs)) + int32(int16(imm)))
}

func (s *State) Lb(rs, rt uint8, imm uint16) error {
	value, err := s.Memory.Get(s.effectiveAddress(rs, imm))
	if err != nil {
		return err
	}
	s.Registers.Set(rt, uint32(int32(int8(value))))
	return nil
}

func (s *State) Lbu(rs, rt uint8, imm uint16) error {
	value, err := s.Memory.Get(s.effectiveAddress(rs, imm))
	if err != nil {
		return err
	}
	s.Registers.Set(rt, uint32(value))
	return nil
}

func (s *State) Lh(rs, rt uint8, imm uint16) error {
	value, err := s.Memory.GetU16(s.effectiveAddress(rs, imm))
	if err != nil {
		return err
	}
	s.Registers.Set(rt, uint32(int32(int16(value))))
	return nil
}

func (s *State) Lhu(rs, rt uint8, imm uint16) error {
	value, err := s.Memory.GetU16(s.effectiveAddress(rs, imm))
	if err != nil {
		return err
	}
	s.Registers.Set(rt, uint32(value))
	return nil
}

func (s *State) Lw(rs, rt uint8, imm uint16) error {
	value, err := s.Memory.GetU32(s.effectiveAddress(rs, imm))
	if err != nil {
		return err
	}
	s.Registers.Set(rt, value)
	return nil
}

func (s *State) Sb(rs, rt uint8, imm uint16) error {
	return s.Memory.Set(s.effectiveAddress(rs, imm), uint8(s.Registers.Get(rt)))
}

func (s *State) Sh(rs, rt uint8, imm uint16) error {
	return s.Memory.SetU16(s.effectiveAddress(rs, imm), uint16(s.Registers.Get(rt)))
}

func (s *State) Sw(rs, rt uint8, imm uint16) error {
	return s.Memory.SetU32(s.effectiveAddress(rs, imm), s.Registers.Get(rt))
}

func (s *State) Mfhi(rd uint8) error {
	s.Registers.Set(rd, s.Registers.Hi)
	return nil
}

func (s *State) Mflo(rd uint8) error {
	s.Registers.Set(rd, s.Registers.Lo)
	return nil
}

func (s *State) Mthi(rs uint8) error {
	s.Registers.Hi = s.Registers.Get(rs)
	return nil
}

func (s *State) Mtlo(rs uint8) error {
	s.Registers.Lo = s.Registers.Get(rs)
	return nil
}

func (s *State) Trap() error    { return ErrTrap }
func (s *State) Syscall() error { return ErrSyscall }

func (s *State) Movz(rs, rt, rd uint8) error {
	if s.Registers.Get(rt) == 0 {
		s.Registers.Set(rd, s.Registers.Get(rs))
	}
	return nil
}

func (s *State) Movn(rs, rt, rd uint8) error {
	if s.Registers.Get(rt) != 0 {
		s.Registers.Set(rd, s.Registers.Get(rs))
	}
	return nil
}

func (s *State) Movf(rs uint8, cc uint8, rd uint8) error {
	if !s.Registers.ConditionFlag(cc) {
		s.Registers.Set(rd, s.Registers.Get(rs))
	}
	return nil
}

func (s *State) Movt(rs uint8, cc uint8, rd uint8) error {
	if s.Registers.ConditionFlag(cc) {
		s.Registers.Set(rd, s.Registers.Get(rs))
	}
	return nil
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func overflowsAdd(a, b, result int32) bool {
	return ((a ^ result) & (b ^ result)) < 0
}

func overflowsSub(a, b, result int32) bool {
	return ((a ^ b) & (a ^ result)) < 0
}

func overflowsMul64(a, b, result int64) bool {
	return b != 0 && result/b != a
}
