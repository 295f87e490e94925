package cmd

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/1whatleytay/titan/unit"
)

// registerSyscalls wires the numeric syscall surface against dev's
// handle_syscall registry: console I/O, heap allocation, file access, and
// process exit, all dispatched directly off the syscall number in $v0.
func registerSyscalls(dev *unit.UnitDevice, stdin *bufio.Reader, stdout *bufio.Writer) {
	rng := rand.New(rand.NewSource(1))

	dev.HandleSyscall(1, func() { // print_int
		fmt.Fprint(stdout, int32(dev.Get(unit.Argument0)))
		stdout.Flush()
	})

	dev.HandleSyscall(2, func() { // print_float
		fmt.Fprint(stdout, math.Float32frombits(dev.Get(unit.Argument0)))
		stdout.Flush()
	})

	dev.HandleSyscall(3, func() { // print_double
		registers := dev.Registers()
		bits := uint64(registers.Fp[1])<<32 | uint64(registers.Fp[0])
		fmt.Fprint(stdout, math.Float64frombits(bits))
		stdout.Flush()
	})

	dev.HandleSyscall(4, func() { // print_string
		address := dev.Get(unit.Argument0)
		fmt.Fprint(stdout, readCString(dev, address))
		stdout.Flush()
	})

	dev.HandleSyscall(5, func() { // read_int
		var value int32
		fmt.Fscan(stdin, &value)
		dev.Set(unit.ValueZero, uint32(value))
	})

	dev.HandleSyscall(6, func() { // read_float
		var value float32
		fmt.Fscan(stdin, &value)
		registers := dev.Registers()
		registers.Fp[0] = math.Float32bits(value)
		dev.Restore(registers)
	})

	dev.HandleSyscall(7, func() { // read_double
		var value float64
		fmt.Fscan(stdin, &value)
		bits := math.Float64bits(value)
		registers := dev.Registers()
		registers.Fp[0] = uint32(bits)
		registers.Fp[1] = uint32(bits >> 32)
		dev.Restore(registers)
	})

	dev.HandleSyscall(8, func() { // read_string
		address := dev.Get(unit.Argument0)
		limit := dev.Get(unit.Argument1)
		line, _ := stdin.ReadString('\n')
		writeBoundedCString(dev, address, limit, line)
	})

	dev.HandleSyscall(9, func() { // heap allocation (sbrk)
		// No-op: the heap region is pre-sized; callers manage their own
		// bump pointer in $gp. Preserved as a registered handler so
		// programs that issue the syscall don't fault as "unhandled".
	})

	dev.HandleSyscall(10, func() { // terminate
		stdout.Flush()
		panic(unitExit{code: 0})
	})

	dev.HandleSyscall(11, func() { // print_char
		fmt.Fprintf(stdout, "%c", rune(dev.Get(unit.Argument0)))
		stdout.Flush()
	})

	dev.HandleSyscall(12, func() { // read_char
		r, _, _ := stdin.ReadRune()
		dev.Set(unit.ValueZero, uint32(r))
	})

	dev.HandleSyscall(13, func() { // open file
		path := readCString(dev, dev.Get(unit.Argument0))
		flags := dev.Get(unit.Argument1)
		fd, err := openFile(path, flags)
		if err != nil {
			dev.Set(unit.ValueZero, ^uint32(0))
			return
		}
		dev.Set(unit.ValueZero, fd)
	})

	dev.HandleSyscall(14, func() { // read file
		fd := dev.Get(unit.Argument0)
		address := dev.Get(unit.Argument1)
		length := dev.Get(unit.Argument2)
		n := readFile(dev, fd, address, length)
		dev.Set(unit.ValueZero, n)
	})

	dev.HandleSyscall(15, func() { // write file
		fd := dev.Get(unit.Argument0)
		address := dev.Get(unit.Argument1)
		length := dev.Get(unit.Argument2)
		n := writeFile(dev, fd, address, length)
		dev.Set(unit.ValueZero, n)
	})

	dev.HandleSyscall(16, func() { // close file
		closeFile(dev.Get(unit.Argument0))
	})

	dev.HandleSyscall(17, func() { // terminate_valued
		stdout.Flush()
		panic(unitExit{code: int32(dev.Get(unit.Argument0))})
	})

	dev.HandleSyscall(30, func() { // system time (milliseconds since epoch)
		millis := uint32(time.Now().UnixMilli())
		dev.Set(unit.ValueZero, millis)
	})

	dev.HandleSyscall(31, func() { // midi_out: not backed by a real device, no-op
	})

	dev.HandleSyscall(32, func() { // sleep (milliseconds)
		time.Sleep(time.Duration(dev.Get(unit.Argument0)) * time.Millisecond)
	})

	dev.HandleSyscall(33, func() { // midi_out_sync: not backed by a real device, no-op
	})

	dev.HandleSyscall(34, func() { // print_hex
		fmt.Fprintf(stdout, "0x%08x", dev.Get(unit.Argument0))
		stdout.Flush()
	})

	dev.HandleSyscall(35, func() { // print_binary
		fmt.Fprintf(stdout, "%032b", dev.Get(unit.Argument0))
		stdout.Flush()
	})

	dev.HandleSyscall(36, func() { // print_unsigned
		fmt.Fprint(stdout, dev.Get(unit.Argument0))
		stdout.Flush()
	})

	dev.HandleSyscall(40, func() { // seed
		rng = rand.New(rand.NewSource(int64(dev.Get(unit.Argument0))))
	})

	dev.HandleSyscall(41, func() { // random int
		dev.Set(unit.ValueZero, rng.Uint32())
	})

	dev.HandleSyscall(42, func() { // random int ranged [0, a0)
		bound := dev.Get(unit.Argument0)
		if bound == 0 {
			dev.Set(unit.ValueZero, 0)
			return
		}
		dev.Set(unit.ValueZero, rng.Uint32()%bound)
	})

	dev.HandleSyscall(43, func() { // random float [0, 1)
		registers := dev.Registers()
		registers.Fp[0] = math.Float32bits(rng.Float32())
		dev.Restore(registers)
	})

	dev.HandleSyscall(44, func() { // random double [0, 1)
		bits := math.Float64bits(rng.Float64())
		registers := dev.Registers()
		registers.Fp[0] = uint32(bits)
		registers.Fp[1] = uint32(bits >> 32)
		dev.Restore(registers)
	})
}

// unitExit unwinds the run loop on an explicit terminate syscall instead
// of calling os.Exit directly, so deferred cleanup (flushing stdout,
// closing open files) still runs.
type unitExit struct {
	code int32
}

// openFiles/readFile/writeFile/closeFile form a tiny file-descriptor table
// local to one run, starting numbering at 3 to leave stdin/stdout/stderr
// conventionally reserved.
var openFiles = map[uint32]*os.File{}
var nextFd uint32 = 3

func openFile(path string, flags uint32) (uint32, error) {
	mode := os.O_RDONLY
	switch flags {
	case 1:
		mode = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case 2:
		mode = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	file, err := os.OpenFile(path, mode, 0o644)
	if err != nil {
		return 0, err
	}

	fd := nextFd
	nextFd++
	openFiles[fd] = file
	return fd, nil
}

func closeFile(fd uint32) {
	if file, ok := openFiles[fd]; ok {
		file.Close()
		delete(openFiles, fd)
	}
}
