package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

// SweepRunner runs one guarded sync sweep.
type SweepRunner interface {
	Sweep(ctx context.Context) (*syncqueue.ProcessResult, error)
}

// SyncOnceCommand drains due sync queue items once and prints the result.
type SyncOnceCommand struct {
	Timeout time.Duration
	Compact bool

	Out io.Writer
}

// NewSyncOnceCommand creates a new SyncOnceCommand
func NewSyncOnceCommand() *SyncOnceCommand {
	return &SyncOnceCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *SyncOnceCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync-once", flag.ContinueOnError)

	fs.DurationVar(&cmd.Timeout, "timeout", 5*time.Minute, "Abort the sweep after this long")
	fs.BoolVar(&cmd.Compact, "compact", false, "Print the result on a single line")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync-once [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Process due sync queue items once against the configured database and AIMS account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes one sweep and writes the result as JSON.
func (cmd *SyncOnceCommand) Run(ctx context.Context, runner SweepRunner) error {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	result, err := runner.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sync sweep failed: %w", err)
	}

	enc := json.NewEncoder(cmd.Out)
	if !cmd.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
