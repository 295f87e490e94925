// Package mem implements cpu.Memory: a region-list scanner, a page-table
// memory for sparse address spaces, and a watched wrapper that journals
// writes for the history tracker.
package mem

import (
	"encoding/binary"

	"github.com/1whatleytay/titan/cpu"
)

// composeU16/composeU32/decomposeSetU16/decomposeSetU32 give each
// implementation the same little-endian accessor bodies, while letting
// PageMemory override with its own alignment checks.
func composeU16(m cpu.Memory, address uint32) (uint16, error) {
	lo, err := m.Get(address)
	if err != nil {
		return 0, err
	}
	hi, err := m.Get(address + 1)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16([]byte{lo, hi}), nil
}

func composeU32(m cpu.Memory, address uint32) (uint32, error) {
	var buf [4]byte
	for i := range buf {
		b, err := m.Get(address + uint32(i))
		if err != nil {
			return 0, err
		}
		buf[i] = b
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func decomposeSetU16(m cpu.Memory, address uint32, value uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	if err := m.Set(address, buf[0]); err != nil {
		return err
	}
	return m.Set(address+1, buf[1])
}

func decomposeSetU32(m cpu.Memory, address uint32, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	for i, b := range buf {
		if err := m.Set(address+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}

// Region is a contiguous byte span mounted into a Memory.
type Region struct {
	Start uint32
	Data  []byte
}

// Mountable accepts mounted regions, materializing the bytes they carry.
type Mountable interface {
	Mount(region Region)
}
