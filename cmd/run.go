package cmd

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/1whatleytay/titan/elf"
	"github.com/1whatleytay/titan/unit"
)

// loadDevice opens path as either a precompiled ELF binary (by extension)
// or MIPS-I source text, assembling it if needed, and wires up a
// UnitDevice around the result.
func loadDevice(path string) (*unit.UnitDevice, error) {
	if strings.HasSuffix(path, ".elf") {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		parsed, err := elf.Read(file)
		if err != nil {
			return nil, err
		}

		return unit.MakeFromBinary(elf.ToBinary(parsed))
	}

	return unit.Make(path)
}

func runCommand() *cobra.Command {
	var timeout time.Duration

	command := &cobra.Command{
		Use:   "run <file|binary>",
		Short: "Assemble (if needed) and run a MIPS-I program to completion",
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

			exitCode := runToCompletion(dev, timeout)
			stdout.Flush()

			if exitCode != 0 {
				os.Exit(int(exitCode))
			}
			return nil
		},
	}

	command.Flags().DurationVar(&timeout, "timeout", 0, "execution timeout (0 = unbounded)")

	return command
}

// runToCompletion drives dev to its Complete stop condition, recovering
// the unitExit panic a terminate/terminate_valued syscall raises and
// reporting any genuine execution failure.
func runToCompletion(dev *unit.UnitDevice, timeout time.Duration) (exitCode int32) {
	defer func() {
		if r := recover(); r != nil {
			if exit, ok := r.(unitExit); ok {
				exitCode = exit.code
				return
			}
			panic(r)
		}
	}()

	conditions := []unit.StopCondition{unit.Complete()}
	if timeout > 0 {
		conditions = append(conditions, unit.Timeout(timeout))
	}

	if err := dev.ExecuteUntil(conditions...); err != nil {
		printError(err)
		return 1
	}

	return 0
}
