package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lostinentropy/zeppelin/aead"
	"github.com/lostinentropy/zeppelin/container"
	"github.com/lostinentropy/zeppelin/internal/zeroize"
	"github.com/lostinentropy/zeppelin/internal/zlog"
	"github.com/lostinentropy/zeppelin/streamio"
)

func runEncrypt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	in := fs.String("in", "", "path to plaintext input file")
	out := fs.String("out", "", "path to write the .zep container")
	sCost := fs.Uint("s-cost", 0, "override configured s_cost (blocks)")
	tCost := fs.Uint("t-cost", 0, "override configured t_cost (mix rounds)")
	stepDelta := fs.Uint("step-delta", 0, "override configured step_delta")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("encrypt: -in and -out are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *sCost != 0 {
		cfg.SCost = uint32(*sCost)
	}
	if *tCost != 0 {
		cfg.TCost = uint32(*tCost)
	}
	if *stepDelta != 0 {
		cfg.StepDelta = uint32(*stepDelta)
	}
	settings, err := cfg.settings()
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	defer zeroize.Bytes(password)

	src, err := streamio.OpenFileSource(*in)
	if err != nil {
		return err
	}
	defer src.Close()

	fileSink, err := streamio.CreateFileSink(*out)
	if err != nil {
		return err
	}

	zipWriter, err := container.Create(fileSink)
	if err != nil {
		return err
	}

	log := zlog.New(cfg.LogLevel)
	salt, paramsDoc, err := aead.Encrypt(ctx, password, src, zipWriter, settings,
		aead.WithLogger(log),
		aead.WithProgress(stderrProgress{w: os.Stderr}),
		aead.WithResourceLimit(cfg.ResourceLimit),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return err
	}

	if err := zipWriter.Finalize(salt, paramsDoc); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)
	fmt.Printf("wrote %s\n", *out)
	return nil
}
