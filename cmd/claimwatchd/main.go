package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mythribanda/ClaimWatch/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "claimwatchd: %v\n", err)
		cancel()
		os.Exit(1)
	}
	cancel()
}
