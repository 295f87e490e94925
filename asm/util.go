package asm

// Small token-consuming helpers shared by the directive handler and the
// instruction emitter.

func expectNewline(cursor *Cursor) error {
	t, ok := cursor.SeekWithout(func(k TokenKind) bool { return k == KindComment })
	if !ok {
		return nil // end of file counts as an implicit newline
	}
	if t.Kind != KindNewLine {
		return &AssemblerError{Offset: t.Start, Reason: ReasonExpectedNewline}
	}
	cursor.Next()
	return nil
}

func expectLeftBrace(cursor *Cursor) error {
	t, ok := cursor.NextSolid()
	if !ok || t.Kind != KindLeftBrace {
		offset := 0
		if ok {
			offset = t.Start
		}
		return &AssemblerError{Offset: offset, Reason: ReasonExpectedLeftBrace}
	}
	return nil
}

func expectRightBrace(cursor *Cursor) error {
	t, ok := cursor.NextSolid()
	if !ok || t.Kind != KindRightBrace {
		offset := 0
		if ok {
			offset = t.Start
		}
		return &AssemblerError{Offset: offset, Reason: ReasonExpectedRightBrace}
	}
	return nil
}

func getRegister(cursor *Cursor) (RegisterSlot, error) {
	t, ok := cursor.NextSolid()
	if !ok {
		return 0, &AssemblerError{Reason: ReasonEndOfFile}
	}
	if t.Kind != KindRegister {
		return 0, &AssemblerError{Offset: t.Start, Reason: ReasonExpectedRegister}
	}
	return t.Register, nil
}

// getConstant reads an optional sign followed by an integer literal,
// returning the signed 64-bit value (the lexer emits Plus/Minus as standalone
// tokens rather than folding the sign into IntegerLiteral).
func getConstant(cursor *Cursor) (int64, error) {
	t, ok := cursor.NextSolid()
	if !ok {
		return 0, &AssemblerError{Reason: ReasonEndOfFile}
	}

	negative := false
	if t.Kind == KindPlus || t.Kind == KindMinus {
		negative = t.Kind == KindMinus
		t, ok = cursor.NextSolid()
		if !ok {
			return 0, &AssemblerError{Reason: ReasonEndOfFile}
		}
	}

	if t.Kind != KindIntegerLiteral {
		return 0, &AssemblerError{Offset: t.Start, Reason: ReasonExpectedConstant}
	}

	v := int64(t.Integer)
	if negative {
		v = -v
	}
	return v, nil
}

func getString(cursor *Cursor) (string, error) {
	t, ok := cursor.NextSolid()
	if !ok {
		return "", &AssemblerError{Reason: ReasonEndOfFile}
	}
	if t.Kind != KindStringLiteral {
		return "", &AssemblerError{Offset: t.Start, Reason: ReasonExpectedString}
	}
	return t.Text, nil
}

// getLabel reads a Symbol (optionally followed by a signed constant offset)
// and returns an AddressLabel; a bare integer literal is also accepted as a
// constant target.
func getLabel(cursor *Cursor) (AddressLabel, error) {
	t, ok := cursor.NextSolid()
	if !ok {
		return AddressLabel{}, &AssemblerError{Reason: ReasonEndOfFile}
	}

	switch t.Kind {
	case KindSymbol:
		label := NamedLabel(t.Name)

		if peeked, more := cursor.Peek(); more && (peeked.Kind == KindPlus || peeked.Kind == KindMinus) {
			cursor.Next()
			negative := peeked.Kind == KindMinus
			valueTok, ok := cursor.NextSolid()
			if !ok || valueTok.Kind != KindIntegerLiteral {
				return AddressLabel{}, &AssemblerError{Offset: peeked.Start, Reason: ReasonExpectedConstant}
			}
			offset := int64(valueTok.Integer)
			if negative {
				offset = -offset
			}
			label.Offset = offset
		}

		return label, nil

	case KindIntegerLiteral:
		return ConstantLabel(t.Integer), nil

	case KindMinus:
		valueTok, ok := cursor.NextSolid()
		if !ok || valueTok.Kind != KindIntegerLiteral {
			return AddressLabel{}, &AssemblerError{Offset: t.Start, Reason: ReasonExpectedConstant}
		}
		return ConstantLabel(uint64(-int64(valueTok.Integer))), nil

	default:
		return AddressLabel{}, &AssemblerError{Offset: t.Start, Reason: ReasonExpectedLabel}
	}
}
