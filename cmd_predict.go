package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/model"
)

func predictCmd(cfg *config.Config) *commander.Command {
	var input *grade.Features
	cmd := &commander.Command{
		Run:       func(cmd *commander.Command, args []string) error { return runPredict(*cfg, *input) },
		UsageLine: "predict [options]",
		Short:     "predicts the grade of one student",
		Long: `
predicts a grade from five inputs; scores are clamped to [0,100] and study
hours to [0,5]

	$ zkgrade predict -assignment 78 -exam 64 -attendance 92 -project 70 -hours 3 [-proofs]

`,
		Flag: *flag.NewFlagSet("predict", flag.ExitOnError),
	}
	commonFlags(cmd, cfg)
	proofFlags(cmd, cfg)
	input = featureFlags(&cmd.Flag)
	return cmd
}

// featureFlags binds the five inputs to fs.
func featureFlags(fs *flag.FlagSet) *grade.Features {
	var f grade.Features
	fs.Float64Var(&f[grade.Assignment], "assignment", 0, "Assignment marks (0-100)")
	fs.Float64Var(&f[grade.Exam], "exam", 0, "Exam marks (0-100)")
	fs.Float64Var(&f[grade.Attendance], "attendance", 0, "Attendance percentage (0-100)")
	fs.Float64Var(&f[grade.Project], "project", 0, "Project score (0-100)")
	fs.Float64Var(&f[grade.StudyHours], "hours", 2, "Study hours per day (0-5)")
	return &f
}

func runPredict(cfg config.Config, f grade.Features) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	f = f.Bounded()
	keys, err := a.keys()
	if err != nil {
		return err
	}
	if keys != nil {
		m, err := a.predictor.Model()
		if err != nil {
			return err
		}
		att, err := keys.Prove(m, f)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(att)
	}

	score, err := a.predictor.Score(f)
	if err != nil {
		return err
	}
	fmt.Printf("Predicted Grade: %v (score %.3f)\n", model.Discretize(score), score)
	return nil
}
