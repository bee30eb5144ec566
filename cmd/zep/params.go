package main

import (
	"flag"
	"fmt"

	"github.com/goccy/go-json"
)

func runParams(args []string) error {
	fs := flag.NewFlagSet("params", flag.ExitOnError)
	sCost := fs.Uint("s-cost", 0, "override configured s_cost (blocks)")
	tCost := fs.Uint("t-cost", 0, "override configured t_cost (mix rounds)")
	stepDelta := fs.Uint("step-delta", 0, "override configured step_delta")
	if err := fs.Parse(args); err != nil {
		return err
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

	doc, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("zep: marshaling settings: %w", err)
	}
	fmt.Println(string(doc))
	return nil
}
