// Command cmdlineargs parses command lines against a declared option
// manifest.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/cmdlineargs-go/cmd"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err := cmd.Run(ctx, os.Args[1:])
	code := cmd.ExitCode(err)
	if code == 0 {
		return
	}
	if ctx.Err() != nil {
		fmt.Fprintf(os.Stderr, "\nInterrupted\n")
		os.Exit(130)
	}
	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) || exitErr.Message != "" {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
