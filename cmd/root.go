// Package cmd is the cobra command tree: assemble, run, debug, disasm.
// main.go only calls cmd.Root().Execute(); all logic lives in this
// package's subcommands.
package cmd

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1whatleytay/titan/config"
	"github.com/1whatleytay/titan/logging"
)

var cfg *config.Config
var logger *slog.Logger

// Root builds the titan command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "titan",
		Short: "Assemble and run MIPS-I programs",
		PersistentPreRunE: func(command *cobra.Command, args []string) error {
			loaded, err := config.Load(command.Flags())
			if err != nil {
				return err
			}
			cfg = loaded

			l, _, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return err
			}
			logger = l

			return nil
		},
	}

	config.BindCommonFlags(root.PersistentFlags())

	root.AddCommand(assembleCommand())
	root.AddCommand(runCommand())
	root.AddCommand(debugCommand())
	root.AddCommand(disasmCommand())

	return root
}

func printError(err error) {
	color.Red("error: %v", err)
}

func printWarning(message string) {
	color.Yellow("warning: %s", message)
}
