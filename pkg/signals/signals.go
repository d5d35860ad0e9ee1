package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vestafn/vesta/pkg/logger"
)

var (
	log = logger.NewLogger("vesta.signals")

	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	onlyOneSignalHandler = make(chan struct{})
)

// Context returns a context which will be canceled when either the SIGINT
// or SIGTERM signal is caught. If either signal is caught a second time,
// the program is terminated immediately with exit code 1.
func Context() context.Context {
	// panics when called twice
	close(onlyOneSignalHandler)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	go func() {
		defer close(sigCh) // ensure channel is closed to avoid goroutine leak

		sig := <-sigCh
		log.Infof(`Received signal '%s'; beginning shutdown`, sig)
		cancel()
		sig = <-sigCh
		log.Fatalf(
			`Received signal '%s' during shutdown; exiting immediately`,
			sig,
		)
	}()

	return ctx
}
