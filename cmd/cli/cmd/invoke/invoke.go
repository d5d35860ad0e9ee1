package invoke

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/vestafn/vesta/internal/pkg/apiclient"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.cli.invoke")

var Command = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke an indexed function",
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

	var input json.RawMessage
	if err := json.Unmarshal([]byte(cmdFlags.CommandFlags().Input), &input); err != nil {
		log.Fatalf("input is not valid json: %v", err)
	}

	client := apiclient.NewClient(address)
	outcome, err := client.InvokeFunction(ctx, cmdFlags.CommandFlags().FunctionId, map[string]interface{}{
		"correlationId": cmdFlags.CommandFlags().CorrelationId,
		"reset":         cmdFlags.CommandFlags().Reset,
		"input":         input,
	})
	if err != nil {
		log.Fatalf("failed to invoke function: %v", err)
	}

	log.Infof("invocation %s completed after %d attempt(s)", outcome.Result.CorrelationId, outcome.Result.Attempts)
	if len(outcome.Result.Output) > 0 {
		log.Infof("output: %s", string(outcome.Result.Output))
	}
	if !outcome.HostIsRunning {
		log.Warn("owning host is currently not reporting heartbeats")
	}
	return 0
}
