package cmd

import (
	"strings"

	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/unit"
)

// readCString reads a NUL-terminated string out of guest memory starting
// at address, the MIPS convention syscalls 4 and 13 rely on.
func readCString(dev *unit.UnitDevice, address uint32) string {
	var builder strings.Builder

	dev.Executor.WithMemory(func(memory cpu.Memory) {
		for offset := uint32(0); ; offset++ {
			b, err := memory.Get(address + offset)
			if err != nil || b == 0 {
				return
			}
			builder.WriteByte(b)
		}
	})

	return builder.String()
}

// writeBoundedCString writes line (already containing its own trailing
// newline from ReadString) into guest memory at address, truncated to at
// most limit-1 bytes so a NUL terminator always fits, per syscall 8's
// read_string contract.
func writeBoundedCString(dev *unit.UnitDevice, address uint32, limit uint32, line string) {
	if limit == 0 {
		return
	}

	data := []byte(line)
	if uint32(len(data)) > limit-1 {
		data = data[:limit-1]
	}

	dev.Executor.WithMemory(func(memory cpu.Memory) {
		for i, b := range data {
			memory.Set(address+uint32(i), b)
		}
		memory.Set(address+uint32(len(data)), 0)
	})
}

// readFile/writeFile copy between a guest memory span and an open host
// file descriptor, returning the number of bytes transferred (or the
// all-ones sentinel on an invalid descriptor, matching a negative ssize_t
// return truncated to u32).
func readFile(dev *unit.UnitDevice, fd uint32, address uint32, length uint32) uint32 {
	file, ok := openFiles[fd]
	if !ok {
		return ^uint32(0)
	}

	buffer := make([]byte, length)
	n, _ := file.Read(buffer)

	dev.Executor.WithMemory(func(memory cpu.Memory) {
		for i := 0; i < n; i++ {
			memory.Set(address+uint32(i), buffer[i])
		}
	})

	return uint32(n)
}

func writeFile(dev *unit.UnitDevice, fd uint32, address uint32, length uint32) uint32 {
	file, ok := openFiles[fd]
	if !ok {
		return ^uint32(0)
	}

	buffer := make([]byte, length)

	dev.Executor.WithMemory(func(memory cpu.Memory) {
		for i := uint32(0); i < length; i++ {
			b, err := memory.Get(address + i)
			if err != nil {
				break
			}
			buffer[i] = b
		}
	})

	n, _ := file.Write(buffer)
	return uint32(n)
}
