package asm

// Directive constants bounding unreasonable repeat/alignment requests.
const (
	maxZero     = 0x100000
	repeatLimit = 0x100000
)

func doDirective(name string, cursor *Cursor, builder *BinaryBuilder) error {
	switch name {
	case "globl", "global":
		return nil // recognized, no-op in a single-file model

	case "ascii":
		text, err := getString(cursor)
		if err != nil {
			return err
		}
		return appendBytes(builder, []byte(text))

	case "asciiz":
		text, err := getString(cursor)
		if err != nil {
			return err
		}
		return appendBytes(builder, append([]byte(text), 0))

	case "align":
		n, err := getConstant(cursor)
		if err != nil {
			return err
		}
		return doAlign(builder, uint(n))

	case "space":
		n, err := getConstant(cursor)
		if err != nil {
			return err
		}
		return doSpace(builder, uint64(n))

	case "byte":
		return doValueList(cursor, builder, 1, func(r *rawRegion, v uint64) { r.writeByte(uint8(v)) })

	case "half":
		if err := doAlign(builder, 1); err != nil {
			return err
		}
		return doValueList(cursor, builder, 2, func(r *rawRegion, v uint64) { r.writeU16(uint16(v)) })

	case "word":
		if err := doAlign(builder, 2); err != nil {
			return err
		}
		return doWordList(cursor, builder)

	case "text":
		return doSeek(cursor, builder, SectionText)
	case "data":
		return doSeek(cursor, builder, SectionData)
	case "ktext":
		return doSeek(cursor, builder, SectionKernelText)
	case "kdata":
		return doSeek(cursor, builder, SectionKernelData)

	case "extern":
		if _, ok := cursor.NextSolid(); !ok { // name (Symbol)
			return &AssemblerError{Reason: ReasonEndOfFile}
		}
		if _, err := getConstant(cursor); err != nil {
			return err
		}
		return nil

	case "entry":
		label, err := getLabel(cursor)
		if err != nil {
			return err
		}
		builder.SetEntry(label.Name)
		return nil

	case "float", "double":
		return &AssemblerError{Reason: ReasonUnknownDirective, Detail: name}

	default:
		return &AssemblerError{Reason: ReasonUnknownDirective, Detail: name}
	}
}

func doSeek(cursor *Cursor, builder *BinaryBuilder, section Section) error {
	if peeked, ok := cursor.Peek(); ok && peeked.Kind == KindIntegerLiteral {
		addr, err := getConstant(cursor)
		if err != nil {
			return err
		}
		builder.SeekAddress(section, uint32(addr))
		return nil
	}

	builder.SeekSection(section)
	return nil
}

func appendBytes(builder *BinaryBuilder, data []byte) error {
	region := builder.Region()
	if region == nil {
		return &AssemblerError{Reason: ReasonMissingRegion}
	}
	region.data = append(region.data, data...)
	return nil
}

func doAlign(builder *BinaryBuilder, n uint) error {
	if n > 16 {
		return &AssemblerError{Reason: ReasonConstantOutOfRange, Detail: "align exceeds 16"}
	}

	region := builder.Region()
	if region == nil {
		return &AssemblerError{Reason: ReasonMissingRegion}
	}

	alignment := uint32(1) << n
	pc := PcForRegion(region)
	remainder := pc % alignment
	if remainder == 0 {
		return nil
	}
	gap := alignment - remainder

	return growRegion(builder, region, uint64(gap))
}

func doSpace(builder *BinaryBuilder, n uint64) error {
	region := builder.Region()
	if region == nil {
		return &AssemblerError{Reason: ReasonMissingRegion}
	}
	return growRegion(builder, region, n)
}

// growRegion pads with zero bytes, or — if the gap is large — opens a fresh
// region at the rounded address instead of materializing megabytes of zero.
func growRegion(builder *BinaryBuilder, region *rawRegion, gap uint64) error {
	if gap > maxZero {
		newAddr := region.address + uint32(len(region.data)) + uint32(gap)
		builder.SeekAddress(region.section, newAddr)
		return nil
	}

	region.data = append(region.data, make([]byte, gap)...)
	return nil
}

func doValueList(cursor *Cursor, builder *BinaryBuilder, width int, write func(*rawRegion, uint64)) error {
	for {
		value, err := getConstant(cursor)
		if err != nil {
			return err
		}

		repeat := uint64(1)
		if peeked, ok := cursor.Peek(); ok && peeked.Kind == KindColon {
			cursor.Next()
			r, err := getConstant(cursor)
			if err != nil {
				return err
			}
			if r < 0 || uint64(r) > repeatLimit {
				return &AssemblerError{Reason: ReasonConstantOutOfRange, Detail: "repeat count"}
			}
			repeat = uint64(r)
		}

		region := builder.Region()
		if region == nil {
			return &AssemblerError{Reason: ReasonMissingRegion}
		}

		for i := uint64(0); i < repeat; i++ {
			write(region, uint64(value))
		}
		_ = width

		if err := expectNewline(cursor); err == nil {
			peeked, ok := cursor.Peek()
			if !ok || (peeked.Kind != KindPlus && peeked.Kind != KindMinus && peeked.Kind != KindIntegerLiteral) {
				return nil
			}
			continue
		}

		if peeked, ok := cursor.Peek(); !ok || peeked.Kind != KindComma {
			return nil
		}
		cursor.Next()
	}
}

// doWordList is like doValueList but also accepts a label operand, emitting
// a FullWord relocation instead of an immediate constant.
func doWordList(cursor *Cursor, builder *BinaryBuilder) error {
	for {
		peeked, ok := cursor.Peek()
		if !ok {
			return &AssemblerError{Reason: ReasonEndOfFile}
		}

		region := builder.Region()
		if region == nil {
			return &AssemblerError{Reason: ReasonMissingRegion}
		}

		if peeked.Kind == KindSymbol {
			label, err := getLabel(cursor)
			if err != nil {
				return err
			}
			region.addRelocation(RelocFullWord, label)
			region.writeU32(0)
		} else {
			value, err := getConstant(cursor)
			if err != nil {
				return err
			}
			region.writeU32(uint32(value))
		}

		if next, ok := cursor.Peek(); ok && next.Kind == KindComma {
			cursor.Next()
			continue
		}

		if err := expectNewline(cursor); err != nil {
			return err
		}
		if next, ok := cursor.Peek(); !ok || (next.Kind != KindPlus && next.Kind != KindMinus && next.Kind != KindIntegerLiteral) {
			return nil
		}
	}
}
