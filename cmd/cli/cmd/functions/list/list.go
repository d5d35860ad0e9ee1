package list

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/internal/pkg/apiclient"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.cli.functions.list")

var Command = &cobra.Command{
	Use:   "list",
	Short: "List all indexed functions grouped by location",
	Long:  "",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
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
	groups, err := client.ListFunctions(ctx)
	if err != nil {
		log.Fatalf("failed to list functions: %v", err)
	}

	if len(groups) == 0 {
		log.Info("no functions indexed")
		return 0
	}
	for _, group := range groups {
		log.Infof("location: %s", group.Key)
		for _, function := range group.Functions {
			running := "not running"
			if function.HostIsRunning {
				running = "running"
			}
			log.Infof("  %s  %s  [%s]  host %s", function.Id, function.ShortName, function.Kind, running)
		}
	}
	return 0
}
