package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/david-TxRxSystems/scripts/cmd/sysbackup"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/ui/output/styles"
)

func main() {
	// An interrupt cancels the context; the step runner stops between
	// steps and the in-flight child is killed. Partially written state
	// stays where it is.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := sysbackup.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorStyle := styles.GetStyle("Error")

		if errors.IsErrorCode(err, errors.ErrInterrupted) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Interrupted: stopping without rollback; partially written state was left in place"))
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Flag and argument mistakes come out of cobra as plain errors;
		// show the usage so the user sees what was expected.
		var domainErr *errors.Error
		if !stderrors.As(err, &domainErr) {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Usage()
		}

		os.Exit(1)
	}
}
