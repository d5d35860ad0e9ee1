package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/cmd/cli/cmd/functions"
	"github.com/vestafn/vesta/cmd/cli/cmd/heartbeat"
	"github.com/vestafn/vesta/cmd/cli/cmd/invoke"
	"github.com/vestafn/vesta/cmd/cli/cmd/scan"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.cli")

var rootCommand = &cobra.Command{
	Use:   "vesta",
	Short: "CLI for managing vesta",
	Long:  "Command Line Interface for managing the vesta function execution platform",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

var logFlags = logger.ParseFlags()

func initFlags() {
	rootCommand.PersistentFlags().AddFlagSet(logFlags.FlagSet())
}

func init() {
	initFlags()

	rootCommand.AddCommand(functions.Command)
	rootCommand.AddCommand(scan.Command)
	rootCommand.AddCommand(invoke.Command)
	rootCommand.AddCommand(heartbeat.Command)
}

func Run() {
	if err := rootCommand.Execute(); err != nil {
		log.Fatal(err)
	}
}
