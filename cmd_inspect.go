package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/lib"
)

func inspectCmd(cfg *config.Config) *commander.Command {
	cmd := &commander.Command{
		Run:       func(cmd *commander.Command, args []string) error { return runInspect(*cfg) },
		UsageLine: "inspect [options]",
		Short:     "prints the fitted coefficients and training fit",
		Flag:      *flag.NewFlagSet("inspect", flag.ExitOnError),
	}
	commonFlags(cmd, cfg)
	return cmd
}

func runInspect(cfg config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	m, err := a.predictor.Model()
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n\n", lib.Name, lib.Version)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, c := range m.Coef() {
		fmt.Fprintf(w, "%s\t%+.6f\n", grade.FeatureNames[i], c)
	}
	fmt.Fprintf(w, "Intercept\t%+.6f\n", m.Intercept())
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nTraining records: %d\n", a.report.Total)
	fmt.Printf("Exact grade matches: %d (%.2f%%)\n", a.report.Matches, a.report.Accuracy*100)
	fmt.Printf("R²: %.4f\n", a.report.RSquared)
	return nil
}
