package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/lib"
)

func main() {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}

	cmd := &commander.Command{
		UsageLine: os.Args[0],
		Short:     lib.Name + " predicts student grades from a linear model",
		Subcommands: []*commander.Command{
			serveCmd(&cfg),
			predictCmd(&cfg),
			inspectCmd(&cfg),
			simulateCmd(&cfg),
		},
		Flag: *flag.NewFlagSet("zkgrade", flag.ExitOnError),
	}

	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}
}
