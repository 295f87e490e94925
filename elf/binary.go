package elf

import "github.com/1whatleytay/titan/asm"

// FromBinary converts an assembled Binary artifact into the in-memory ELF
// model, one Load segment per region.
func FromBinary(binary *asm.Binary) *Elf {
	headers := make([]ProgramHeader, len(binary.Regions))

	for i, region := range binary.Regions {
		headers[i] = ProgramHeader{
			HeaderType:     Load,
			VirtualAddress: region.Address,
			MemorySize:     uint32(len(region.Data)),
			Flags:          regionFlags(region.Flags),
			Alignment:      1,
			Data:           region.Data,
		}
	}

	return &Elf{
		Header: Header{
			BinaryType:    Binary32,
			Endian:        LittleEndian,
			HeaderVersion: 1,
			ABI:           0,
			Package:       0,
			CPU:           Mips,
			ElfVersion:    0,
			ProgramEntry:  binary.Entry,
		},
		ProgramHeaders: headers,
	}
}

func regionFlags(flags asm.RegionFlags) ProgramHeaderFlags {
	var result ProgramHeaderFlags
	if flags.Executable {
		result |= Executable
	}
	if flags.Readable {
		result |= Readable
	}
	if flags.Writable {
		result |= Writable
	}
	return result
}

// ToBinary recovers a Binary artifact from an Elf's Load segments. The
// label table is lost across a round trip (ELF carries no symbol table in
// this subset), so callers that need labels must keep them separately.
func ToBinary(e *Elf) *asm.Binary {
	regions := make([]asm.BinaryRegion, 0, len(e.ProgramHeaders))

	for _, header := range e.ProgramHeaders {
		if header.HeaderType != Load {
			continue
		}

		regions = append(regions, asm.BinaryRegion{
			Address: header.VirtualAddress,
			Data:    header.Data,
			Flags: asm.RegionFlags{
				Executable: header.Flags&Executable != 0,
				Readable:   header.Flags&Readable != 0,
				Writable:   header.Flags&Writable != 0,
			},
		})
	}

	return &asm.Binary{
		Entry:   e.Header.ProgramEntry,
		Regions: regions,
		Labels:  map[string]uint32{},
	}
}
