// Package elf implements the minimal 32-bit little-endian ELF subset the
// assembler's emit path and the unit device's load path need: enough of
// the header and program-header tables to round-trip a titan Binary
// artifact through disk, nothing more (no sections, no symbol tables, no
// relocation entries — just what the executor needs to load a program
// image).
package elf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic is the four-byte ELF identifier, 0x7f 'E' 'L' 'F'.
const Magic uint32 = 0x464c457f

type BinaryType uint8

const (
	Binary32 BinaryType = 1
	Binary64 BinaryType = 2
)

type Endian uint8

const (
	LittleEndian Endian = 1
	BigEndian    Endian = 2
)

type InstructionSet uint16

const (
	Generic InstructionSet = 0x00
	Mips    InstructionSet = 0x08
)

// Header holds the identification, type, machine, version and entry fields
// of the ELF32 file header: the first 28 bytes, which a 20-byte
// headerDetails tail follows (48 bytes in all as written here).
type Header struct {
	BinaryType    BinaryType
	Endian        Endian
	HeaderVersion uint8
	ABI           uint8
	Package       uint16
	CPU           InstructionSet
	ElfVersion    uint32
	ProgramEntry  uint32
}

// headerDetails mirrors the e_phoff/e_shoff/... tail of the ELF header,
// the part landmark-filled during a write.
type headerDetails struct {
	ProgramTablePosition uint32
	SectionTablePoint    uint32
	Flags                uint32
	HeaderSize           uint16
	ProgramEntrySize     uint16
	ProgramEntryCount    uint16
	SectionEntrySize     uint16
	SectionEntryCount    uint16
	NamesPoint           uint16
}

const headerSize uint16 = 52
const programHeaderSize uint16 = 32

type ProgramHeaderType uint32

const (
	Null ProgramHeaderType = 0
	Load ProgramHeaderType = 1
)

type ProgramHeaderFlags uint32

const (
	Executable ProgramHeaderFlags = 1 << 0
	Writable   ProgramHeaderFlags = 1 << 1
	Readable   ProgramHeaderFlags = 1 << 2
)

func knownFlagMask() ProgramHeaderFlags { return 0b111 }

// ProgramHeader describes one loadable segment plus its backing bytes.
type ProgramHeader struct {
	HeaderType     ProgramHeaderType
	VirtualAddress uint32
	MemorySize     uint32
	Flags          ProgramHeaderFlags
	Alignment      uint32
	Data           []byte
}

// Elf is the in-memory model of a whole file: one header plus its program
// (segment) headers, each carrying its own backing bytes.
type Elf struct {
	Header         Header
	ProgramHeaders []ProgramHeader
}

type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Read parses an ELF32 file from r, which must also support seeking to the
// program header table (typically an *os.File or bytes.Reader).
func Read(r io.ReadSeeker) (*Elf, error) {
	header, details, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var headers []ProgramHeader
	position := int64(details.ProgramTablePosition)

	for i := uint16(0); i < details.ProgramEntryCount; i++ {
		if _, err := r.Seek(position, io.SeekStart); err != nil {
			return nil, &Error{Message: "seek to program header", Cause: err}
		}

		programHeader, err := readProgramHeader(r)
		if err == nil {
			headers = append(headers, *programHeader)
		}

		position += int64(details.ProgramEntrySize)
	}

	return &Elf{Header: *header, ProgramHeaders: headers}, nil
}

func readHeader(r io.Reader) (*Header, *headerDetails, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return nil, nil, &Error{Message: "read magic", Cause: err}
	}
	if magic := binary.LittleEndian.Uint32(buf[:4]); magic != Magic {
		return nil, nil, &Error{Message: fmt.Sprintf("invalid ELF file (magic is 0x%08x)", magic)}
	}

	var rest [4]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		return nil, nil, &Error{Message: "read header fixed fields", Cause: err}
	}

	binaryType := BinaryType(rest[0])
	endian := Endian(rest[1])
	headerVersion := rest[2]
	abi := rest[3]

	var padding [8]byte
	if _, err := io.ReadFull(r, padding[:]); err != nil {
		return nil, nil, &Error{Message: "read padding", Cause: err}
	}

	var tail [12]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, nil, &Error{Message: "read header tail", Cause: err}
	}

	pkg := binary.LittleEndian.Uint16(tail[0:2])
	cpu := binary.LittleEndian.Uint16(tail[2:4])
	elfVersion := binary.LittleEndian.Uint32(tail[4:8])
	programEntry := binary.LittleEndian.Uint32(tail[8:12])

	if binaryType != Binary32 {
		return nil, nil, &Error{Message: "32-bit ELF expected, but found other (64-bit ELF?)"}
	}

	header := &Header{
		BinaryType:    binaryType,
		Endian:        endian,
		HeaderVersion: headerVersion,
		ABI:           abi,
		Package:       pkg,
		CPU:           InstructionSet(cpu),
		ElfVersion:    elfVersion,
		ProgramEntry:  programEntry,
	}

	details, err := readHeaderDetails(r)
	if err != nil {
		return nil, nil, err
	}

	return header, details, nil
}

func readHeaderDetails(r io.Reader) (*headerDetails, error) {
	var buf [20]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, &Error{Message: "read header details", Cause: err}
	}

	return &headerDetails{
		ProgramTablePosition: binary.LittleEndian.Uint32(buf[0:4]),
		SectionTablePoint:    binary.LittleEndian.Uint32(buf[4:8]),
		Flags:                binary.LittleEndian.Uint32(buf[8:12]),
		HeaderSize:           binary.LittleEndian.Uint16(buf[12:14]),
		ProgramEntrySize:     binary.LittleEndian.Uint16(buf[14:16]),
		ProgramEntryCount:    binary.LittleEndian.Uint16(buf[16:18]),
		SectionEntrySize:     0,
		SectionEntryCount:    0,
		NamesPoint:           0,
	}, nil
}

func readProgramHeader(r io.ReadSeeker) (*ProgramHeader, error) {
	var buf [32]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, &Error{Message: "read program header", Cause: err}
	}

	headerType := ProgramHeaderType(binary.LittleEndian.Uint32(buf[0:4]))
	fileOffset := binary.LittleEndian.Uint32(buf[4:8])
	virtualAddress := binary.LittleEndian.Uint32(buf[8:12])
	fileSize := binary.LittleEndian.Uint32(buf[16:20])
	memorySize := binary.LittleEndian.Uint32(buf[20:24])
	flags := ProgramHeaderFlags(binary.LittleEndian.Uint32(buf[24:28])) & knownFlagMask()
	alignment := binary.LittleEndian.Uint32(buf[28:32])

	if _, err := r.Seek(int64(fileOffset), io.SeekStart); err != nil {
		return nil, &Error{Message: "seek to segment data", Cause: err}
	}

	data := make([]byte, fileSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, &Error{Message: "read segment data", Cause: err}
	}

	return &ProgramHeader{
		HeaderType:     headerType,
		VirtualAddress: virtualAddress,
		MemorySize:     memorySize,
		Flags:          flags,
		Alignment:      alignment,
		Data:           data,
	}, nil
}

// Write emits e as a two-pass ELF32 stream: fixed fields first, then the
// program header table, then each segment's bytes, landmark-filling the
// offsets that depend on later writes.
func Write(w io.WriteSeeker, e *Elf) error {
	landmarks := newLandmarks()
	landmarks.set(landmarkProgramCount, uint64(len(e.ProgramHeaders)))

	if err := writeHeaderFixed(w, e.Header); err != nil {
		return err
	}
	if err := writeHeaderDetails(w, landmarks); err != nil {
		return err
	}

	if err := landmarks.mark(landmarkProgramStart, w); err != nil {
		return err
	}
	for index, header := range e.ProgramHeaders {
		if err := writeProgramHeader(w, header, index, landmarks); err != nil {
			return err
		}
	}

	for index, header := range e.ProgramHeaders {
		if err := landmarks.mark(landmarkProgramData(index), w); err != nil {
			return err
		}
		if _, err := w.Write(header.Data); err != nil {
			return &Error{Message: "write segment data", Cause: err}
		}
	}

	return landmarks.fillRequests(w)
}

func writeHeaderFixed(w io.Writer, h Header) error {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	buf[4] = byte(Binary32)
	buf[5] = byte(LittleEndian)
	buf[6] = h.HeaderVersion
	buf[7] = h.ABI
	// buf[8:16] is the 8-byte padding field, left zero.
	binary.LittleEndian.PutUint16(buf[16:18], h.Package)
	binary.LittleEndian.PutUint16(buf[18:20], uint16(Mips))
	binary.LittleEndian.PutUint32(buf[20:24], h.ElfVersion)

	if _, err := w.Write(buf[:]); err != nil {
		return &Error{Message: "write header", Cause: err}
	}

	var entry [4]byte
	binary.LittleEndian.PutUint32(entry[:], h.ProgramEntry)
	if _, err := w.Write(entry[:]); err != nil {
		return &Error{Message: "write entry point", Cause: err}
	}

	return nil
}

func writeHeaderDetails(w io.WriteSeeker, landmarks *landmarks) error {
	if err := landmarks.request(pointerBit32, landmarkProgramStart, w); err != nil {
		return err
	}
	var programTablePosition [4]byte // filled in later by the landmark request above
	if _, err := w.Write(programTablePosition[:]); err != nil {
		return &Error{Message: "write header details", Cause: err}
	}

	var sectionTableAndSize [12]byte // section_table_point (0), flags (0), header_size, program_entry_size
	binary.LittleEndian.PutUint16(sectionTableAndSize[8:10], headerSize)
	binary.LittleEndian.PutUint16(sectionTableAndSize[10:12], programHeaderSize)
	if _, err := w.Write(sectionTableAndSize[:]); err != nil {
		return &Error{Message: "write header details", Cause: err}
	}

	if err := landmarks.request(pointerBit16, landmarkProgramCount, w); err != nil {
		return err
	}
	var programEntryCount [2]byte // filled in later by the landmark request above
	if _, err := w.Write(programEntryCount[:]); err != nil {
		return &Error{Message: "write header details", Cause: err}
	}

	var tail [2]byte // section_entry_size (0); section_entry_count/names_point are dropped from this subset
	if _, err := w.Write(tail[:]); err != nil {
		return &Error{Message: "write header details", Cause: err}
	}

	return nil
}

func writeProgramHeader(w io.WriteSeeker, h ProgramHeader, index int, landmarks *landmarks) error {
	var head [4]byte
	binary.LittleEndian.PutUint32(head[:], uint32(h.HeaderType))
	if _, err := w.Write(head[:]); err != nil {
		return &Error{Message: "write program header type", Cause: err}
	}

	if err := landmarks.request(pointerBit32, landmarkProgramData(index), w); err != nil {
		return err
	}
	var zero [4]byte
	if _, err := w.Write(zero[:]); err != nil {
		return &Error{Message: "write program header offset placeholder", Cause: err}
	}

	var rest [20]byte
	binary.LittleEndian.PutUint32(rest[0:4], h.VirtualAddress)
	// padding (p_paddr): always 0.
	binary.LittleEndian.PutUint32(rest[8:12], uint32(len(h.Data)))
	binary.LittleEndian.PutUint32(rest[12:16], h.MemorySize)
	binary.LittleEndian.PutUint32(rest[16:20], uint32(h.Flags))

	if _, err := w.Write(rest[:]); err != nil {
		return &Error{Message: "write program header fields", Cause: err}
	}

	var alignment [4]byte
	binary.LittleEndian.PutUint32(alignment[:], h.Alignment)
	if _, err := w.Write(alignment[:]); err != nil {
		return &Error{Message: "write program header alignment", Cause: err}
	}

	return nil
}
