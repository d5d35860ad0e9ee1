package remove

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/internal/pkg/apiclient"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.cli.functions.remove")

var Command = &cobra.Command{
	Use:   "remove",
	Short: "Remove a function from the index",
	Long:  "",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagRequired("function-id")
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand(cobraCommand.Context()))
}

func processCommand(ctx context.Context) int {
	address := cmdFlags.CommandFlags().Address
	if os.Getenv("VESTA_ORCHESTRATOR_ADDRESS") != "" {
		address = os.Getenv("VESTA_ORCHESTRATOR_ADDRESS")
	}

	client := apiclient.NewClient(address)
	result, err := client.DeleteFunction(ctx, cmdFlags.CommandFlags().FunctionId)
	if err != nil {
		log.Fatalf("failed to remove function: %v", err)
	}
	if !result.Deleted {
		log.Warnf("function not found: %s", cmdFlags.CommandFlags().FunctionId)
		return 1
	}

	log.Infof("function removed successfully: %s", cmdFlags.CommandFlags().FunctionId)
	return 0
}
