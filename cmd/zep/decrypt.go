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

func runDecrypt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "path to the .zep container")
	out := fs.String("out", "", "path to write the recovered plaintext")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("decrypt: -in and -out are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	defer zeroize.Bytes(password)

	zipReader, err := container.Open(*in)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	sink, err := streamio.CreateFileSink(*out)
	if err != nil {
		return err
	}

	log := zlog.New(cfg.LogLevel)
	err = aead.Decrypt(ctx, password, zipReader.Salt, zipReader.ParamsDoc, zipReader, sink,
		aead.WithLogger(log),
		aead.WithProgress(stderrProgress{w: os.Stderr}),
		aead.WithResourceLimit(cfg.ResourceLimit),
	)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", *out)
	return nil
}
