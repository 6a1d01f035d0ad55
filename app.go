package main

import (
	"github.com/gonuts/commander"
	"github.com/rs/zerolog"
	"github.com/santhoshcheemala/ZKGrade/circuit"
	"github.com/santhoshcheemala/ZKGrade/config"
	"github.com/santhoshcheemala/ZKGrade/lib"
	"github.com/santhoshcheemala/ZKGrade/model"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

// app is the state every command starts from: the dataset loaded once and
// a predictor fitted once on it.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	records   []utils.Record
	predictor *model.Predictor
	report    model.Report
}

// commonFlags registers the settings shared by every command.
func commonFlags(cmd *commander.Command, cfg *config.Config) {
	cmd.Flag.StringVar(&cfg.Dataset, "d", cfg.Dataset, "Training dataset (.csv or .xlsx)")
	cmd.Flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flag.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "Human readable console logs")
}

func proofFlags(cmd *commander.Command, cfg *config.Config) {
	cmd.Flag.BoolVar(&cfg.Proofs, "proofs", cfg.Proofs, "Generate PLONK proofs for predictions")
	cmd.Flag.StringVar(&cfg.CircuitCache, "cache", cfg.CircuitCache, "Circuit and key cache file; empty disables caching")
}

func newApp(cfg config.Config) (*app, error) {
	log := lib.NewLogger(nil, cfg.LogLevel, cfg.LogPretty)

	records, err := utils.LoadDataset(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dataset", cfg.Dataset).Int("records", len(records)).Msg("dataset loaded")

	p := model.NewPredictor()
	if err := p.Fit(records); err != nil {
		return nil, err
	}
	m, err := p.Model()
	if err != nil {
		return nil, err
	}
	report := model.Evaluate(m, records)
	coef := m.Coef()
	log.Info().
		Floats64("coef", coef[:]).
		Float64("intercept", m.Intercept()).
		Float64("accuracy", report.Accuracy).
		Float64("r2", report.RSquared).
		Msg("model fitted")

	return &app{cfg: cfg, log: log, records: records, predictor: p, report: report}, nil
}

// keys returns nil when proofs are off.
func (a *app) keys() (*circuit.Keys, error) {
	if !a.cfg.Proofs {
		return nil, nil
	}
	return circuit.Setup(a.cfg.CircuitCache, a.log)
}
