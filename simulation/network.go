// Package simulation replays a labelled dataset through the predictor as a
// client talking to a grading server, optionally with proofs.
package simulation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/consensys/gnark/backend/plonk"
	"github.com/rs/zerolog"
	"github.com/santhoshcheemala/ZKGrade/circuit"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/model"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

// Report counts how many replayed records got their own grade back and
// how many proofs checked out.
type Report struct {
	Total    int           `json:"total"`
	Matches  int           `json:"matches"`
	Proved   int           `json:"proved"`
	Verified int           `json:"verified"`
	Elapsed  time.Duration `json:"elapsed"`
}

func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Total)
}

type NetworkSimulation struct {
	records   []utils.Record
	predictor *model.Predictor
	keys      *circuit.Keys
	latency   time.Duration
	log       zerolog.Logger
}

// NewNetworkSimulation needs a trained predictor. keys may be nil, in which
// case no proofs are produced.
func NewNetworkSimulation(records []utils.Record, predictor *model.Predictor, keys *circuit.Keys,
	latency time.Duration, log zerolog.Logger) (*NetworkSimulation, error) {
	if !predictor.Trained() {
		return nil, model.ErrModelNotReady
	}
	log.Info().Int("samples", len(records)).Msg("client loaded dataset")
	return &NetworkSimulation{
		records:   records,
		predictor: predictor,
		keys:      keys,
		latency:   latency,
		log:       log,
	}, nil
}

func (ns *NetworkSimulation) RunDistributed(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{Total: len(ns.records)}
	ns.log.Info().
		Int("samples", len(ns.records)).
		Dur("latency", ns.latency).
		Bool("proofs", ns.keys != nil).
		Msg("starting simulation")

	var vk plonk.VerifyingKey
	if ns.keys != nil {
		ns.log.Debug().Msg("server -> client: sending verifying key")
		var buf bytes.Buffer
		if err := ns.keys.WriteVerifyingKey(&buf); err != nil {
			return report, err
		}
		if err := ns.wait(ctx, ns.latency); err != nil {
			return report, err
		}
		var err error
		if vk, err = circuit.ReadVerifyingKey(&buf); err != nil {
			return report, err
		}
	}

	m, err := ns.predictor.Model()
	if err != nil {
		return report, err
	}
	for i, rec := range ns.records {
		if err := ns.wait(ctx, ns.latency/10); err != nil {
			return report, err
		}
		got, err := ns.serve(m, rec.Features, vk, &report)
		if err != nil {
			return report, fmt.Errorf("sample %d: %w", i+1, err)
		}
		if got == rec.Grade {
			report.Matches++
		}
		ns.log.Debug().
			Int("sample", i+1).
			Stringer("label", rec.Grade).
			Stringer("predicted", got).
			Msg("sample done")
		if (i+1)%25 == 0 {
			ns.log.Info().Msgf("processed %d/%d samples", i+1, len(ns.records))
		}
	}

	report.Elapsed = time.Since(start)
	ns.log.Info().
		Int("matches", report.Matches).
		Int("total", report.Total).
		Float64("accuracy", report.Accuracy()).
		Int("verified", report.Verified).
		Dur("elapsed", report.Elapsed).
		Msg("simulation complete")
	return report, nil
}

// serve is one round trip. A proof that fails to verify is logged and
// counted, not fatal.
func (ns *NetworkSimulation) serve(m *model.Model, f grade.Features, vk plonk.VerifyingKey, report *Report) (grade.Grade, error) {
	if ns.keys == nil {
		return m.Predict(f)
	}
	att, err := ns.keys.Prove(m, f)
	if err != nil {
		return 0, err
	}
	report.Proved++
	if err := circuit.Verify(vk, att); err != nil {
		ns.log.Warn().Err(err).Msg("verification failed")
		return att.Grade, nil
	}
	report.Verified++
	return att.Grade, nil
}

func (ns *NetworkSimulation) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
