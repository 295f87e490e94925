package cpu

import "math"

// FPU (coprocessor 1) instruction semantics, following standard MIPS-I FPU
// conventions: Single reads one fp[] line, Double reads the pair
// (line, line+1), with mfc1/mtc1 and the FP loads/stores moving raw bits
// rather than reinterpreting values.

func single(r *Registers, index uint8) float32 {
	return math.Float32frombits(r.Fp[index])
}

func setSingle(r *Registers, index uint8, value float32) {
	r.Fp[index] = math.Float32bits(value)
}

func double(r *Registers, index uint8) float64 {
	bits := uint64(r.Fp[index+1])<<32 | uint64(r.Fp[index])
	return math.Float64frombits(bits)
}

func setDouble(r *Registers, index uint8, value float64) {
	bits := math.Float64bits(value)
	r.Fp[index] = uint32(bits)
	r.Fp[index+1] = uint32(bits >> 32)
}

func (s *State) AddS(t, rs, rd uint8) error {
	setSingle(&s.Registers, rd, single(&s.Registers, rs)+single(&s.Registers, t))
	return nil
}

func (s *State) SubS(t, rs, rd uint8) error {
	setSingle(&s.Registers, rd, single(&s.Registers, rs)-single(&s.Registers, t))
	return nil
}

func (s *State) MulS(t, rs, rd uint8) error {
	setSingle(&s.Registers, rd, single(&s.Registers, rs)*single(&s.Registers, t))
	return nil
}

func (s *State) DivS(t, rs, rd uint8) error {
	setSingle(&s.Registers, rd, single(&s.Registers, rs)/single(&s.Registers, t))
	return nil
}

func (s *State) SqrtS(rs, rd uint8) error {
	setSingle(&s.Registers, rd, float32(math.Sqrt(float64(single(&s.Registers, rs)))))
	return nil
}

func (s *State) AbsS(rs, rd uint8) error {
	v := single(&s.Registers, rs)
	if v < 0 {
		v = -v
	}
	setSingle(&s.Registers, rd, v)
	return nil
}

func (s *State) NegS(rs, rd uint8) error {
	setSingle(&s.Registers, rd, -single(&s.Registers, rs))
	return nil
}

func (s *State) MovS(rs, rd uint8) error {
	s.Registers.Fp[rd] = s.Registers.Fp[rs]
	return nil
}

func (s *State) FloorWS(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Floor(float64(single(&s.Registers, rs))))
	return nil
}

func (s *State) CeilWS(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Ceil(float64(single(&s.Registers, rs))))
	return nil
}

func (s *State) RoundWS(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Round(float64(single(&s.Registers, rs))))
	return nil
}

func (s *State) TruncWS(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Trunc(float64(single(&s.Registers, rs))))
	return nil
}

func (s *State) AddD(t, rs, rd uint8) error {
	setDouble(&s.Registers, rd, double(&s.Registers, rs)+double(&s.Registers, t))
	return nil
}

func (s *State) SubD(t, rs, rd uint8) error {
	setDouble(&s.Registers, rd, double(&s.Registers, rs)-double(&s.Registers, t))
	return nil
}

func (s *State) MulD(t, rs, rd uint8) error {
	setDouble(&s.Registers, rd, double(&s.Registers, rs)*double(&s.Registers, t))
	return nil
}

func (s *State) DivD(t, rs, rd uint8) error {
	setDouble(&s.Registers, rd, double(&s.Registers, rs)/double(&s.Registers, t))
	return nil
}

func (s *State) SqrtD(rs, rd uint8) error {
	setDouble(&s.Registers, rd, math.Sqrt(double(&s.Registers, rs)))
	return nil
}

func (s *State) AbsD(rs, rd uint8) error {
	v := double(&s.Registers, rs)
	if v < 0 {
		v = -v
	}
	setDouble(&s.Registers, rd, v)
	return nil
}

func (s *State) NegD(rs, rd uint8) error {
	setDouble(&s.Registers, rd, -double(&s.Registers, rs))
	return nil
}

func (s *State) MovD(rs, rd uint8) error {
	setDouble(&s.Registers, rd, double(&s.Registers, rs))
	return nil
}

func (s *State) FloorWD(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Floor(double(&s.Registers, rs)))
	return nil
}

func (s *State) CeilWD(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Ceil(double(&s.Registers, rs)))
	return nil
}

func (s *State) RoundWD(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Round(double(&s.Registers, rs)))
	return nil
}

func (s *State) TruncWD(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, math.Trunc(double(&s.Registers, rs)))
	return nil
}

func setWordResult(r *Registers, index uint8, value float64) {
	r.Fp[index] = uint32(int32(value))
}

func (s *State) CEqS(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, single(&s.Registers, rs) == single(&s.Registers, t))
	return nil
}

func (s *State) CLtS(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, single(&s.Registers, rs) < single(&s.Registers, t))
	return nil
}

func (s *State) CLeS(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, single(&s.Registers, rs) <= single(&s.Registers, t))
	return nil
}

func (s *State) CEqD(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, double(&s.Registers, rs) == double(&s.Registers, t))
	return nil
}

func (s *State) CLtD(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, double(&s.Registers, rs) < double(&s.Registers, t))
	return nil
}

func (s *State) CLeD(t, rs, cc uint8) error {
	s.Registers.SetConditionFlag(cc, double(&s.Registers, rs) <= double(&s.Registers, t))
	return nil
}

func (s *State) Bc1t(cc uint8, address uint16) error {
	if s.Registers.ConditionFlag(cc) {
		s.skip(address)
	}
	return nil
}

func (s *State) Bc1f(cc uint8, address uint16) error {
	if !s.Registers.ConditionFlag(cc) {
		s.skip(address)
	}
	return nil
}

func (s *State) MovfS(cc, rs, rd uint8) error {
	if !s.Registers.ConditionFlag(cc) {
		s.Registers.Fp[rd] = s.Registers.Fp[rs]
	}
	return nil
}

func (s *State) MovtS(cc, rs, rd uint8) error {
	if s.Registers.ConditionFlag(cc) {
		s.Registers.Fp[rd] = s.Registers.Fp[rs]
	}
	return nil
}

func (s *State) MovnS(t, rs, rd uint8) error {
	if s.Registers.Get(t) != 0 {
		s.Registers.Fp[rd] = s.Registers.Fp[rs]
	}
	return nil
}

func (s *State) MovzS(t, rs, rd uint8) error {
	if s.Registers.Get(t) == 0 {
		s.Registers.Fp[rd] = s.Registers.Fp[rs]
	}
	return nil
}

func (s *State) MovfD(cc, rs, rd uint8) error {
	if !s.Registers.ConditionFlag(cc) {
		setDouble(&s.Registers, rd, double(&s.Registers, rs))
	}
	return nil
}

func (s *State) MovtD(cc, rs, rd uint8) error {
	if s.Registers.ConditionFlag(cc) {
		setDouble(&s.Registers, rd, double(&s.Registers, rs))
	}
	return nil
}

func (s *State) MovnD(t, rs, rd uint8) error {
	if s.Registers.Get(t) != 0 {
		setDouble(&s.Registers, rd, double(&s.Registers, rs))
	}
	return nil
}

func (s *State) MovzD(t, rs, rd uint8) error {
	if s.Registers.Get(t) == 0 {
		setDouble(&s.Registers, rd, double(&s.Registers, rs))
	}
	return nil
}

func (s *State) CvtSW(rs, rd uint8) error {
	setSingle(&s.Registers, rd, float32(int32(s.Registers.Fp[rs])))
	return nil
}

func (s *State) CvtWS(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, float64(single(&s.Registers, rs)))
	return nil
}

func (s *State) CvtSD(rs, rd uint8) error {
	setSingle(&s.Registers, rd, float32(double(&s.Registers, rs)))
	return nil
}

func (s *State) CvtDS(rs, rd uint8) error {
	setDouble(&s.Registers, rd, float64(single(&s.Registers, rs)))
	return nil
}

func (s *State) CvtDW(rs, rd uint8) error {
	setDouble(&s.Registers, rd, float64(int32(s.Registers.Fp[rs])))
	return nil
}

func (s *State) CvtWD(rs, rd uint8) error {
	setWordResult(&s.Registers, rd, double(&s.Registers, rs))
	return nil
}

func (s *State) Mtc1(rt, rs uint8) error {
	s.Registers.Fp[rs] = s.Registers.Get(rt)
	return nil
}

func (s *State) Mfc1(rt, rs uint8) error {
	s.Registers.Set(rt, s.Registers.Fp[rs])
	return nil
}

func (s *State) Lwc1(base, t uint8, offset uint16) error {
	value, err := s.Memory.GetU32(s.effectiveAddress(base, offset))
	if err != nil {
		return err
	}
	s.Registers.Fp[t] = value
	return nil
}

func (s *State) Swc1(base, t uint8, offset uint16) error {
	return s.Memory.SetU32(s.effectiveAddress(base, offset), s.Registers.Fp[t])
}

func (s *State) Ldc1(base, t uint8, offset uint16) error {
	address := s.effectiveAddress(base, offset)
	lo, err := s.Memory.GetU32(address)
	if err != nil {
		return err
	}
	hi, err := s.Memory.GetU32(address + 4)
	if err != nil {
		return err
	}
	s.Registers.Fp[t] = lo
	s.Registers.Fp[t+1] = hi
	return nil
}

func (s *State) Sdc1(base, t uint8, offset uint16) error {
	address := s.effectiveAddress(base, offset)
	if err := s.Memory.SetU32(address, s.Registers.Fp[t]); err != nil {
		return err
	}
	return s.Memory.SetU32(address+4, s.Registers.Fp[t+1])
}
