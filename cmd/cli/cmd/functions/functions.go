package functions

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/cmd/cli/cmd/functions/list"
	"github.com/vestafn/vesta/cmd/cli/cmd/functions/remove"
)

var Command = &cobra.Command{
	Use:   "functions",
	Short: "Manage indexed functions",
	Long:  "",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func init() {
	Command.AddCommand(list.Command)
	Command.AddCommand(remove.Command)
}
