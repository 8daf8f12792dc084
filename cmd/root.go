package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inventory-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitInterrupted is the status used when the run was interrupted.
const exitInterrupted = 130

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "inventory-sync",
	Short: "Device inventory synchronisation",
	Long: `inventory-sync imports devices from wireless controllers, spreadsheets and
Catalyst Center into the infrastructure registry.

Observed model strings are reconciled against the registry's device type
catalog and the answers are remembered in a mapping store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	interrupted := ctx.Err() != nil || errors.Is(err, context.Canceled)
	stop()

	if err == nil {
		return
	}

	// Use the application's standard logger for error reporting
	// We default to console format to match user expectations (CLI tool)
	cfg := &logger.Config{
		Level:  "debug",
		Format: "console",
	}

	l, logErr := logger.New(cfg)
	if logErr == nil {
		if interrupted {
			l.Warn("interrupted, nothing was saved", zap.Error(err))
		} else {
			l.Error("command failed", zap.Error(err))
		}
		_ = l.Sync()
	} else {
		// Absolute fallback if logger creation fails (rare)
		fmt.Fprintln(os.Stderr, err)
	}

	if interrupted {
		os.Exit(exitInterrupted)
	}
	os.Exit(1)
}
