package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/simulation"
)

func simulateCmd(cfg *config.Config) *commander.Command {
	cmd := &commander.Command{
		Run:       func(cmd *commander.Command, args []string) error { return runSimulate(*cfg) },
		UsageLine: "simulate [options]",
		Short:     "replays the dataset as a client of the grading server",
		Long: `
replays every training record through the predictor; with -proofs each
prediction is proven by the server and verified by the client

	$ zkgrade simulate -proofs -latency 100ms

`,
		Flag: *flag.NewFlagSet("simulate", flag.ExitOnError),
	}
	commonFlags(cmd, cfg)
	proofFlags(cmd, cfg)
	cmd.Flag.DurationVar(&cfg.Latency, "latency", cfg.Latency, "Simulated network latency")
	return cmd
}

func runSimulate(cfg config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	keys, err := a.keys()
	if err != nil {
		return err
	}
	sim, err := simulation.NewNetworkSimulation(a.records, a.predictor, keys, cfg.Latency, a.log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := sim.RunDistributed(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Total samples: %d\n", report.Total)
	fmt.Printf("Grade matches: %d\n", report.Matches)
	fmt.Printf("Accuracy: %.2f%%\n", report.Accuracy()*100)
	if keys != nil {
		fmt.Printf("Proofs generated: %d\n", report.Proved)
		fmt.Printf("Successfully verified: %d\n", report.Verified)
	}
	fmt.Printf("Elapsed: %v\n", report.Elapsed)
	return nil
}
