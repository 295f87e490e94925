package asm

import (
	"encoding/binary"
	"fmt"
)

// Section identifies one of the four conventional memory areas.
type Section int

const (
	SectionText Section = iota
	SectionData
	SectionKernelText
	SectionKernelData
)

func (s Section) DefaultBase() uint32 {
	switch s {
	case SectionText:
		return 0x00400000
	case SectionData:
		return 0x10010000
	case SectionKernelText:
		return 0x80000000
	case SectionKernelData:
		return 0x90000000
	default:
		panic("unknown section")
	}
}

func (s Section) String() string {
	switch s {
	case SectionText:
		return "text"
	case SectionData:
		return "data"
	case SectionKernelText:
		return "ktext"
	case SectionKernelData:
		return "kdata"
	default:
		return "unknown"
	}
}

// RegionFlags records executable/readable/writable bits for an emitted
// region.
type RegionFlags struct {
	Executable bool
	Readable   bool
	Writable   bool
}

func flagsFor(section Section) RegionFlags {
	switch section {
	case SectionText, SectionKernelText:
		return RegionFlags{Executable: true, Readable: true, Writable: false}
	default:
		return RegionFlags{Executable: false, Readable: true, Writable: true}
	}
}

// RelocationKind enumerates the deferred-patch shapes applied in the
// relocation pass.
type RelocationKind int

const (
	RelocBranchRel RelocationKind = iota
	RelocJumpAbs26
	RelocHalfImmediateLow
	RelocHalfImmediateHigh
	RelocFullWord
)

// AddressLabel is either a bare constant, a label name, or a label with a
// signed byte offset.
type AddressLabel struct {
	IsConstant bool
	Constant   uint64
	Name       string
	Offset     int64
}

func ConstantLabel(v uint64) AddressLabel { return AddressLabel{IsConstant: true, Constant: v} }
func NamedLabel(name string) AddressLabel { return AddressLabel{Name: name} }

// Relocation records a deferred patch at a byte offset within a region.
type Relocation struct {
	Offset int
	Kind   RelocationKind
	Target AddressLabel
}

// rawRegion is the builder-side mutable region: bytes accumulated so far
// plus the relocations pending against it.
type rawRegion struct {
	section     Section
	address     uint32
	data        []byte
	relocations []Relocation
}

// BinaryRegion is one contiguous span in the finished artifact.
type BinaryRegion struct {
	Address uint32
	Data    []byte
	Flags   RegionFlags
}

// Binary is the assembled artifact: entry PC, ordered regions, and the
// symbol table.
type Binary struct {
	Entry   uint32
	Regions []BinaryRegion
	Labels  map[string]uint32
}

// AssemblerReason enumerates assemble/link-time failure kinds.
type AssemblerReason int

const (
	ReasonUnexpectedToken AssemblerReason = iota
	ReasonEndOfFile
	ReasonExpectedRegister
	ReasonExpectedConstant
	ReasonExpectedString
	ReasonExpectedLabel
	ReasonExpectedNewline
	ReasonExpectedLeftBrace
	ReasonExpectedRightBrace
	ReasonUnknownLabel
	ReasonUnknownDirective
	ReasonUnknownInstruction
	ReasonJumpOutOfRange
	ReasonConstantOutOfRange
	ReasonOverwriteEdge
	ReasonMissingRegion
	ReasonMissingInstruction
)

func (r AssemblerReason) String() string {
	names := [...]string{
		"unexpected token", "end of file", "expected register", "expected constant",
		"expected string", "expected label", "expected newline", "expected left brace",
		"expected right brace", "unknown label", "unknown directive", "unknown instruction",
		"jump out of range", "constant out of range", "overwrite edge", "missing region",
		"missing instruction",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown assembler error"
}

type AssemblerError struct {
	Offset int
	Reason AssemblerReason
	Detail string
}

func (e *AssemblerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at offset %d: %s", e.Reason, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
}

// BinaryBuilder accumulates regions across sections while the assembler
// driver walks the token stream.
type BinaryBuilder struct {
	currentSection Section
	activeRegion   map[Section]int
	regions        []*rawRegion
	Labels         map[string]uint32
	entryLabel     string
	hasEntry       bool
}

func NewBinaryBuilder() *BinaryBuilder {
	return &BinaryBuilder{
		currentSection: SectionText,
		activeRegion:   make(map[Section]int),
		Labels:         make(map[string]uint32),
	}
}

// SeekSection switches the active section without changing the region
// cursor (continuing to append to that section's most recent region).
func (b *BinaryBuilder) SeekSection(section Section) {
	b.currentSection = section
	if _, ok := b.activeRegion[section]; !ok {
		b.openRegion(section, section.DefaultBase())
	}
}

// SeekAddress opens a fresh region within the current (or given) section at
// an explicit address, as `.text 0x...` etc. do.
func (b *BinaryBuilder) SeekAddress(section Section, address uint32) {
	b.currentSection = section
	b.openRegion(section, address)
}

func (b *BinaryBuilder) openRegion(section Section, address uint32) {
	b.regions = append(b.regions, &rawRegion{section: section, address: address})
	b.activeRegion[section] = len(b.regions) - 1
}

// Region returns the active region for the current section, or nil if none
// has been opened yet (MissingRegion condition).
func (b *BinaryBuilder) Region() *rawRegion {
	idx, ok := b.activeRegion[b.currentSection]
	if !ok {
		return nil
	}
	return b.regions[idx]
}

func (b *BinaryBuilder) SetEntry(label string) {
	b.entryLabel = label
	b.hasEntry = true
}

// PcForRegion returns the address of the next byte to be written in the
// active region, i.e. the PC a label declared right now would receive.
func PcForRegion(r *rawRegion) uint32 {
	return r.address + uint32(len(r.data))
}

func (rr *rawRegion) writeByte(v uint8) {
	rr.data = append(rr.data, v)
}

func (rr *rawRegion) writeU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	rr.data = append(rr.data, buf[:]...)
}

func (rr *rawRegion) writeU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	rr.data = append(rr.data, buf[:]...)
}

func (rr *rawRegion) addRelocation(kind RelocationKind, target AddressLabel) {
	rr.relocations = append(rr.relocations, Relocation{Offset: len(rr.data), Kind: kind, Target: target})
}

// Build resolves every pending relocation against the label table and
// produces the final Binary artifact.
func (b *BinaryBuilder) Build() (*Binary, error) {
	resolve := func(target AddressLabel) (uint32, error) {
		if target.IsConstant {
			return uint32(int64(target.Constant) + target.Offset), nil
		}
		addr, ok := b.Labels[target.Name]
		if !ok {
			return 0, &AssemblerError{Reason: ReasonUnknownLabel, Detail: target.Name}
		}
		return uint32(int64(addr) + target.Offset), nil
	}

	for _, region := range b.regions {
		for _, reloc := range region.relocations {
			dest, err := resolve(reloc.Target)
			if err != nil {
				return nil, err
			}

			pc := region.address + uint32(reloc.Offset)
			word := binary.LittleEndian.Uint32(region.data[reloc.Offset : reloc.Offset+4])

			switch reloc.Kind {
			case RelocBranchRel:
				wordOffset := int64(dest>>2) - int64((pc+4)>>2)
				if wordOffset > 0x7FFF || wordOffset < -0x8000 {
					return nil, &AssemblerError{Reason: ReasonJumpOutOfRange, Detail: fmt.Sprintf("to=0x%x from=0x%x", dest, pc)}
				}
				word = (word &^ 0xFFFF) | (uint32(int32(wordOffset)) & 0xFFFF)

			case RelocJumpAbs26:
				if (dest & 0xF0000000) != ((pc + 4) & 0xF0000000) {
					return nil, &AssemblerError{Reason: ReasonJumpOutOfRange, Detail: fmt.Sprintf("to=0x%x from=0x%x", dest, pc)}
				}
				word = (word &^ 0x03FFFFFF) | ((dest >> 2) & 0x03FFFFFF)

			case RelocHalfImmediateLow:
				word = (word &^ 0xFFFF) | (dest & 0xFFFF)

			case RelocHalfImmediateHigh:
				word = (word &^ 0xFFFF) | ((dest >> 16) & 0xFFFF)

			case RelocFullWord:
				word = dest
			}

			binary.LittleEndian.PutUint32(region.data[reloc.Offset:reloc.Offset+4], word)
		}
	}

	bin := &Binary{Labels: b.Labels}

	for _, region := range b.regions {
		bin.Regions = append(bin.Regions, BinaryRegion{
			Address: region.address,
			Data:    region.data,
			Flags:   flagsFor(region.section),
		})
	}

	if b.hasEntry {
		addr, ok := b.Labels[b.entryLabel]
		if !ok {
			return nil, &AssemblerError{Reason: ReasonUnknownLabel, Detail: b.entryLabel}
		}
		bin.Entry = addr
	} else if addr, ok := b.Labels["main"]; ok {
		bin.Entry = addr
	} else if len(bin.Regions) > 0 {
		bin.Entry = bin.Regions[0].Address
	}

	return bin, nil
}
