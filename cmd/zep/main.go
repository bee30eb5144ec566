// Command zep is the reference CLI driver for encrypting and
// decrypting files with package aead, built on the streaming
// container format in package container.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "zep:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing subcommand")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "encrypt":
		return runEncrypt(ctx, args[1:])
	case "decrypt":
		return runDecrypt(ctx, args[1:])
	case "params":
		return runParams(args[1:])
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  zep encrypt -in PLAINTEXT -out CONTAINER.zep [-s-cost N] [-t-cost N] [-step-delta N]
  zep decrypt -in CONTAINER.zep -out PLAINTEXT
  zep params [-s-cost N] [-t-cost N] [-step-delta N]

Password is always read from the ZEP_PASSWORD environment variable, or
as one line from standard input if unset (typed input is echoed).`)
}
