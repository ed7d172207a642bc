package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// ItemReprocessor reprocesses one sync queue item.
type ItemReprocessor interface {
	ProcessItemByID(ctx context.Context, id string) error
}

// ReprocessCommand retries a single sync queue item regardless of its schedule.
type ReprocessCommand struct {
	ItemID  string
	Timeout time.Duration

	Out io.Writer
}

// NewReprocessCommand creates a new ReprocessCommand
func NewReprocessCommand() *ReprocessCommand {
	return &ReprocessCommand{Out: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *ReprocessCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reprocess", flag.ContinueOnError)

	fs.StringVar(&cmd.ItemID, "id", "", "Sync queue item ID (required)")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Abort after this long")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reprocess -id <item-id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reprocess one sync queue item now. Failures still count against its retry budget.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.ItemID == "" {
		return errors.New("-id is required")
	}
	return nil
}

// Run reprocesses the item.
func (cmd *ReprocessCommand) Run(ctx context.Context, reprocessor ItemReprocessor) error {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	if err := reprocessor.ProcessItemByID(ctx, cmd.ItemID); err != nil {
		return fmt.Errorf("reprocess %s: %w", cmd.ItemID, err)
	}

	fmt.Fprintf(cmd.Out, "Item %s processed\n", cmd.ItemID)
	return nil
}
