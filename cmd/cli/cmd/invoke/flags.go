package invoke

import "github.com/spf13/pflag"

type commandFlags struct {
	Address       string
	FunctionId    string
	CorrelationId string
	Input         string
	Reset         bool
}

type parsedFlags struct {
	cmdFlags *commandFlags
	flagSet  *pflag.FlagSet
}

func ParseFlags() *parsedFlags {
	var f commandFlags

	fs := pflag.NewFlagSet("invoke", pflag.ExitOnError)
	fs.SortFlags = true

	fs.StringVar(&f.Address, "address", "http://localhost:80", "Address of the orchestrator api - optional with VESTA_ORCHESTRATOR_ADDRESS set")
	fs.StringVar(&f.FunctionId, "function-id", "", "Identifier of the function to invoke")
	fs.StringVar(&f.CorrelationId, "correlation-id", "", "Correlation id of the logical invocation - a new one is generated when empty")
	fs.StringVar(&f.Input, "input", "{}", "Invocation input as a json document")
	fs.BoolVar(&f.Reset, "reset", false, "Reset the attempt counter and start a fresh logical invocation")

	return &parsedFlags{
		cmdFlags: &f,
		flagSet:  fs,
	}
}

func (p *parsedFlags) CommandFlags() *commandFlags {
	return p.cmdFlags
}

func (p *parsedFlags) FlagSet() *pflag.FlagSet {
	return p.flagSet
}
