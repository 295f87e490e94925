package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/1whatleytay/titan/unit"
)

func debugCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "debug <file|binary>",
		Short: "Step a MIPS-I program interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			dev, err := loadDevice(args[0])
			if err != nil {
				printError(err)
				return err
			}

			stdin := bufio.NewReader(os.Stdin)
			stdout := bufio.NewWriter(os.Stdout)
			registerSyscalls(dev, stdin, stdout)
			defer stdout.Flush()

			if isTerminal(int(os.Stdout.Fd())) {
				return runDebugTUI(dev)
			}

			return runDebugLineRepl(dev, stdin, stdout)
		},
	}

	return command
}

// runDebugLineRepl is the n/r/b REPL: "next instruction", "run", and
// "break <pc>" commands over registers, addressed by titan's
// byte-addressed PC.
func runDebugLineRepl(dev *unit.UnitDevice, stdin *bufio.Reader, stdout *bufio.Writer) error {
	fmt.Println("Commands:\n\tn or next: execute next instruction\n\tr or run: run to completion or breakpoint\n\tb or break <address>: toggle a breakpoint\n\tq or quit: stop debugging")

	printState(dev)

	breakpoints := map[uint32]struct{}{}

	for {
		fmt.Print("\n->")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.ToLower(strings.TrimSpace(line))

		switch {
		case line == "n" || line == "next":
			if done := stepOnce(dev); done {
				return nil
			}
			printState(dev)
		case line == "r" || line == "run":
			addresses := make([]uint32, 0, len(breakpoints))
			for address := range breakpoints {
				addresses = append(addresses, address)
			}
			conditions := make([]unit.StopCondition, 0, len(addresses)+1)
			for _, address := range addresses {
				conditions = append(conditions, unit.Address(address))
			}
			conditions = append(conditions, unit.Complete())

			if err := dev.ExecuteUntil(conditions...); err != nil {
				printError(err)
				stdout.Flush()
				return nil
			}
			stdout.Flush()
			printState(dev)
		case line == "q" || line == "quit":
			return nil
		case strings.HasPrefix(line, "b"):
			arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "break"), "b"))
			address, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 32)
			if err != nil {
				fmt.Println("usage: break <hex address>")
				continue
			}
			if _, exists := breakpoints[uint32(address)]; exists {
				delete(breakpoints, uint32(address))
				fmt.Printf("removed breakpoint at 0x%08x\n", address)
			} else {
				breakpoints[uint32(address)] = struct{}{}
				fmt.Printf("set breakpoint at 0x%08x\n", address)
			}
		default:
			fmt.Println("unrecognized command")
		}
	}
}

func stepOnce(dev *unit.UnitDevice) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unitExit); ok {
				done = true
				return
			}
			panic(r)
		}
	}()

	if err := dev.Step(); err != nil {
		printError(err)
		return true
	}
	return false
}

func printState(dev *unit.UnitDevice) {
	registers := dev.Registers()
	fmt.Printf("  pc> 0x%08x\n", registers.PC)
	fmt.Printf("  registers> %v\n", registers.Line)
}
