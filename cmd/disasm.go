package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1whatleytay/titan/cpu"
	"github.com/1whatleytay/titan/elf"
)

func disasmCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "disasm <binary>",
		Short: "Decode a binary's Text regions back to mnemonic lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				printError(err)
				return err
			}
			defer file.Close()

			parsed, err := elf.Read(file)
			if err != nil {
				printError(err)
				return err
			}

			binary := elf.ToBinary(parsed)
			labels := cpu.HexLabelProvider{}

			for _, region := range binary.Regions {
				if !region.Flags.Executable {
					continue
				}

				for offset := 0; offset+4 <= len(region.Data); offset += 4 {
					address := region.Address + uint32(offset)
					word := binaryEndian.Uint32(region.Data[offset : offset+4])
					fmt.Printf("0x%08x: %s\n", address, cpu.Disassemble(address, word, labels))
				}
			}

			return nil
		},
	}

	return command
}

var binaryEndian = binary.LittleEndian
