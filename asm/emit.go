package asm

// instructionBuilder accumulates one 32-bit MIPS word field by field:
// rs=25..21, rt=20..16, rd=15..11, sham=10..6, func=5..0, imm=15..0,
// target=25..0. Each field write masks only its own bit range
// (clear-then-set) so field order never matters.
type instructionBuilder uint32

func instructionBase(op Opcode) instructionBuilder {
	switch op.Kind {
	case OpcodeOp:
		return instructionBuilder(uint32(op.Value&0b111111) << 26)
	case OpcodeFunc:
		return instructionBuilder(uint32(op.Value & 0b111111))
	case OpcodeSpecial:
		return instructionBuilder(uint32(op.Value&0b111111)<<16 | (0b000001)<<26)
	default:
		panic("unknown opcode kind")
	}
}

func (b instructionBuilder) withField(offset uint, width uint32, value uint32) instructionBuilder {
	mask := width << offset
	b &= instructionBuilder(^mask)
	b |= instructionBuilder((value & width) << offset)
	return b
}

func (b instructionBuilder) withDest(slot RegisterSlot) instructionBuilder {
	return b.withField(11, 0b11111, uint32(slot))
}

func (b instructionBuilder) withTemp(slot RegisterSlot) instructionBuilder {
	return b.withField(16, 0b11111, uint32(slot))
}

func (b instructionBuilder) withSource(slot RegisterSlot) instructionBuilder {
	return b.withField(21, 0b11111, uint32(slot))
}

func (b instructionBuilder) withImmediate(imm uint16) instructionBuilder {
	return b.withField(0, 0xFFFF, uint32(imm))
}

func (b instructionBuilder) withSham(sham uint8) instructionBuilder {
	return b.withField(6, 0b11111, uint32(sham))
}

func (b instructionBuilder) word() uint32 { return uint32(b) }

// emitWord is one encoded word plus the relocation it needs (if any).
type emitWord struct {
	word    uint32
	reloc   RelocationKind
	target  AddressLabel
	hasReloc bool
}

func wordOnly(word uint32) []emitWord {
	return []emitWord{{word: word}}
}

func doInstruction(name string, cursor *Cursor, builder *BinaryBuilder, table map[string]*Instruction) error {
	lower := toLowerASCII(name)
	inst, ok := table[lower]
	if !ok {
		return &AssemblerError{Reason: ReasonUnknownInstruction, Detail: name}
	}

	var words []emitWord
	var err error

	switch inst.Encoding {
	case EncodingRegister:
		words, err = emitRegister(inst.Opcode, cursor)
	case EncodingSource:
		words, err = emitSource(inst.Opcode, cursor)
	case EncodingDestination:
		words, err = emitDestination(inst.Opcode, cursor)
	case EncodingInputs:
		words, err = emitInputs(inst.Opcode, cursor)
	case EncodingSham:
		words, err = emitSham(inst.Opcode, cursor)
	case EncodingSpecialBranch:
		words, err = emitSpecialBranch(inst.Opcode, cursor)
	case EncodingImmediate:
		words, err = emitImmediate(inst.Opcode, cursor)
	case EncodingLoadImmediate:
		words, err = emitLoadImmediate(inst.Opcode, cursor)
	case EncodingJump:
		words, err = emitJump(inst.Opcode, cursor)
	case EncodingBranch:
		words, err = emitBranch(inst.Opcode, cursor)
	case EncodingBranchZero:
		words, err = emitBranchZero(inst.Opcode, cursor)
	case EncodingParameterless:
		words, err = emitParameterless(inst.Opcode, cursor)
	case EncodingLoadOffset, EncodingStoreOffset:
		words, err = emitOffset(inst.Opcode, cursor)
	}

	if err != nil {
		return err
	}

	if err := expectNewline(cursor); err != nil {
		return err
	}

	region := builder.Region()
	if region == nil {
		return &AssemblerError{Reason: ReasonMissingRegion}
	}

	for _, w := range words {
		if w.hasReloc {
			region.addRelocation(w.reloc, w.target)
		}
		region.writeU32(w.word)
	}

	return nil
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func emitRegister(op Opcode, cursor *Cursor) ([]emitWord, error) {
	dest, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withDest(dest).withSource(source).withTemp(temp).word()
	return wordOnly(word), nil
}

func emitSource(op Opcode, cursor *Cursor) ([]emitWord, error) {
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).word()
	return wordOnly(word), nil
}

func emitDestination(op Opcode, cursor *Cursor) ([]emitWord, error) {
	dest, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withDest(dest).word()
	return wordOnly(word), nil
}

func emitInputs(op Opcode, cursor *Cursor) ([]emitWord, error) {
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).withTemp(temp).word()
	return wordOnly(word), nil
}

func emitSham(op Opcode, cursor *Cursor) ([]emitWord, error) {
	dest, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	sham, err := getConstant(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withDest(dest).withTemp(temp).withSham(uint8(sham)).word()
	return wordOnly(word), nil
}

func emitSpecialBranch(op Opcode, cursor *Cursor) ([]emitWord, error) {
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	label, err := getLabel(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).word()
	return []emitWord{{word: word, hasReloc: true, reloc: RelocBranchRel, target: label}}, nil
}

func emitImmediate(op Opcode, cursor *Cursor) ([]emitWord, error) {
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	constant, err := getConstant(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).withTemp(temp).withImmediate(uint16(constant)).word()
	return wordOnly(word), nil
}

func emitLoadImmediate(op Opcode, cursor *Cursor) ([]emitWord, error) {
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	constant, err := getConstant(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withTemp(temp).withImmediate(uint16(constant)).word()
	return wordOnly(word), nil
}

func emitJump(op Opcode, cursor *Cursor) ([]emitWord, error) {
	label, err := getLabel(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).word()
	return []emitWord{{word: word, hasReloc: true, reloc: RelocJumpAbs26, target: label}}, nil
}

func emitBranch(op Opcode, cursor *Cursor) ([]emitWord, error) {
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	label, err := getLabel(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).withTemp(temp).word()
	return []emitWord{{word: word, hasReloc: true, reloc: RelocBranchRel, target: label}}, nil
}

func emitBranchZero(op Opcode, cursor *Cursor) ([]emitWord, error) {
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	label, err := getLabel(cursor)
	if err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).word()
	return []emitWord{{word: word, hasReloc: true, reloc: RelocBranchRel, target: label}}, nil
}

func emitParameterless(op Opcode, _ *Cursor) ([]emitWord, error) {
	return wordOnly(instructionBase(op).word()), nil
}

func emitOffset(op Opcode, cursor *Cursor) ([]emitWord, error) {
	temp, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	constant, err := getConstant(cursor)
	if err != nil {
		return nil, err
	}
	if err := expectLeftBrace(cursor); err != nil {
		return nil, err
	}
	source, err := getRegister(cursor)
	if err != nil {
		return nil, err
	}
	if err := expectRightBrace(cursor); err != nil {
		return nil, err
	}
	word := instructionBase(op).withSource(source).withTemp(temp).withImmediate(uint16(constant)).word()
	return wordOnly(word), nil
}
