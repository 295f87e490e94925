package elf_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/elf"
)

func tempElfFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "titan-*.elf")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestElfRoundTripSingleRegion(t *testing.T) {
	original := &elf.Elf{
		Header: elf.Header{
			BinaryType:    elf.Binary32,
			Endian:        elf.LittleEndian,
			HeaderVersion: 1,
			ABI:           0,
			CPU:           elf.Mips,
			ProgramEntry:  0x00400000,
		},
		ProgramHeaders: []elf.ProgramHeader{
			{
				HeaderType:     elf.Load,
				VirtualAddress: 0x00400000,
				MemorySize:     8,
				Flags:          elf.Executable | elf.Readable,
				Alignment:      1,
				Data:           []byte{1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
	}

	f := tempElfFile(t)
	require.NoError(t, elf.Write(f, original))

	_, err := f.Seek(0, 0)
	require.NoError(t, err)

	parsed, err := elf.Read(f)
	require.NoError(t, err)

	assert.Equal(t, original.Header.ProgramEntry, parsed.Header.ProgramEntry)
	assert.Equal(t, elf.Mips, parsed.Header.CPU)
	require.Len(t, parsed.ProgramHeaders, 1)
	assert.Equal(t, original.ProgramHeaders[0].VirtualAddress, parsed.ProgramHeaders[0].VirtualAddress)
	assert.Equal(t, original.ProgramHeaders[0].Data, parsed.ProgramHeaders[0].Data)
	assert.Equal(t, original.ProgramHeaders[0].Flags, parsed.ProgramHeaders[0].Flags)
}

func TestElfRoundTripMultipleRegions(t *testing.T) {
	original := &elf.Elf{
		Header: elf.Header{BinaryType: elf.Binary32, Endian: elf.LittleEndian, CPU: elf.Mips, ProgramEntry: 0x00400000},
		ProgramHeaders: []elf.ProgramHeader{
			{HeaderType: elf.Load, VirtualAddress: 0x00400000, MemorySize: 4, Flags: elf.Executable | elf.Readable, Alignment: 1, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
			{HeaderType: elf.Load, VirtualAddress: 0x10010000, MemorySize: 4, Flags: elf.Readable | elf.Writable, Alignment: 1, Data: []byte{1, 0, 0, 0}},
		},
	}

	f := tempElfFile(t)
	require.NoError(t, elf.Write(f, original))
	_, err := f.Seek(0, 0)
	require.NoError(t, err)

	parsed, err := elf.Read(f)
	require.NoError(t, err)
	require.Len(t, parsed.ProgramHeaders, 2)
	assert.Equal(t, uint32(0x10010000), parsed.ProgramHeaders[1].VirtualAddress)
	assert.Equal(t, original.ProgramHeaders[1].Data, parsed.ProgramHeaders[1].Data)
}

func TestFromBinaryToBinaryRoundTrip(t *testing.T) {
	source, err := asm.Assemble(`
.text
main:
	addi $t0, $zero, 1
	syscall
.data
value: .word 99
`)
	require.NoError(t, err)

	e := elf.FromBinary(source)
	assert.Equal(t, source.Entry, e.Header.ProgramEntry)
	require.Len(t, e.ProgramHeaders, 2)

	f := tempElfFile(t)
	require.NoError(t, elf.Write(f, e))
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	parsed, err := elf.Read(f)
	require.NoError(t, err)

	recovered := elf.ToBinary(parsed)
	require.Len(t, recovered.Regions, 2)
	assert.Equal(t, source.Entry, recovered.Entry)
	assert.Equal(t, source.Regions[0].Data, recovered.Regions[0].Data)
	assert.True(t, recovered.Regions[0].Flags.Executable)
	assert.True(t, recovered.Regions[1].Flags.Writable)
	assert.Empty(t, recovered.Labels, "ELF subset carries no symbol table")
}

func TestReadRejectsBadMagic(t *testing.T) {
	f := tempElfFile(t)
	_, err := f.Write([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	_, err = elf.Read(f)
	assert.Error(t, err)
}
