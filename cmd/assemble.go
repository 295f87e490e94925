package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1whatleytay/titan/asm"
	"github.com/1whatleytay/titan/elf"
)

func assembleCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "assemble <file>",
		Short: "Assemble a MIPS-I source file into an ELF binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				printError(err)
				return err
			}

			binary, err := asm.Assemble(string(source))
			if err != nil {
				printError(err)
				return err
			}

			if output == "" {
				output = args[0] + ".elf"
			}

			file, err := os.Create(output)
			if err != nil {
				printError(err)
				return err
			}
			defer file.Close()

			if err := elf.Write(file, elf.FromBinary(binary)); err != nil {
				printError(err)
				return err
			}

			fmt.Printf("wrote %s (%d regions, entry 0x%08x)\n", output, len(binary.Regions), binary.Entry)
			return nil
		},
	}

	command.Flags().StringVarP(&output, "output", "o", "", "output ELF path (defaults to <file>.elf)")

	return command
}
