package asm

// Assemble runs the full source→binary pipeline: lex, preprocess, assemble,
// relocate.
func Assemble(source string) (*Binary, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}

	tokens, err = Preprocess(tokens)
	if err != nil {
		return nil, err
	}

	return assembleTokens(tokens)
}

func assembleTokens(tokens []Token) (*Binary, error) {
	cursor := NewCursor(tokens)
	table := InstructionsByName()

	builder := NewBinaryBuilder()
	builder.SeekSection(SectionText)

	// Value-list directives (.byte/.half/.word) consume their whole
	// comma-and-newline-separated list in one doDirective call below, without
	// needing a separate continuation branch in this driver loop.
	for {
		tok, ok := cursor.SeekWithout(func(k TokenKind) bool { return !IsSolidKind(k) })
		if !ok {
			break
		}
		cursor.Next()

		switch tok.Kind {
		case KindDirective:
			if err := doDirective(tok.Name, cursor, builder); err != nil {
				return nil, err
			}

		case KindSymbol:
			if _, err := doSymbolOrInstruction(tok, cursor, builder, table); err != nil {
				return nil, err
			}

		default:
			return nil, &AssemblerError{Offset: tok.Start, Reason: ReasonUnexpectedToken}
		}
	}

	return builder.Build()
}

// doSymbolOrInstruction decides whether a bare Symbol declares a label (when
// immediately followed by a colon) or names an instruction.
func doSymbolOrInstruction(tok Token, cursor *Cursor, builder *BinaryBuilder, table map[string]*Instruction) (isLabel bool, err error) {
	region := builder.Region()
	if region == nil {
		return false, &AssemblerError{Offset: tok.Start, Reason: ReasonMissingRegion}
	}

	if peeked, ok := cursor.SeekWithout(func(k TokenKind) bool { return k == KindComment }); ok && peeked.Kind == KindColon {
		cursor.Next()
		builder.Labels[tok.Name] = PcForRegion(region)
		return true, nil
	}

	switch toLowerASCII(tok.Name) {
	case "li":
		return false, doLoadImmediatePseudo(cursor, builder)
	case "la":
		return false, doLoadAddressPseudo(cursor, builder)
	default:
		return false, doInstruction(tok.Name, cursor, builder, table)
	}
}

// doLoadImmediatePseudo and doLoadAddressPseudo expand the `li`/`la`
// pseudo-instructions. Neither is part of the real 56-entry MIPS-I
// instruction table; both follow the MARS convention for expanding them.
func doLoadImmediatePseudo(cursor *Cursor, builder *BinaryBuilder) error {
	temp, err := getRegister(cursor)
	if err != nil {
		return err
	}
	value, err := getConstant(cursor)
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

	u := uint32(value)
	if value >= -0x8000 && value <= 0x7FFF {
		word := instructionBase(Op(9)).withSource(Zero).withTemp(temp).withImmediate(uint16(u)).word()
		region.writeU32(word)
		return nil
	}

	lui := instructionBase(Op(15)).withTemp(temp).withImmediate(uint16(u >> 16)).word()
	ori := instructionBase(Op(13)).withSource(temp).withTemp(temp).withImmediate(uint16(u & 0xFFFF)).word()
	region.writeU32(lui)
	region.writeU32(ori)
	return nil
}

func doLoadAddressPseudo(cursor *Cursor, builder *BinaryBuilder) error {
	temp, err := getRegister(cursor)
	if err != nil {
		return err
	}
	label, err := getLabel(cursor)
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

	luiWord := instructionBase(Op(15)).withTemp(temp).word()
	region.addRelocation(RelocHalfImmediateHigh, label)
	region.writeU32(luiWord)

	oriWord := instructionBase(Op(13)).withSource(temp).withTemp(temp).word()
	region.addRelocation(RelocHalfImmediateLow, label)
	region.writeU32(oriWord)
	return nil
}
