package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/server"
)

func serveCmd(cfg *config.Config) *commander.Command {
	cmd := &commander.Command{
		Run:       func(cmd *commander.Command, args []string) error { return runServe(*cfg) },
		UsageLine: "serve [options]",
		Short:     "serves predictions over HTTP",
		Long: `
fits the model once and serves JSON predictions

	$ zkgrade serve -d data/student_performance_data.csv -addr :8080 [-proofs]

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	commonFlags(cmd, cfg)
	proofFlags(cmd, cfg)
	cmd.Flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	return cmd
}

func runServe(cfg config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	keys, err := a.keys()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(a.predictor, keys, a.report, a.log).Run(ctx, cfg.Addr)
}
