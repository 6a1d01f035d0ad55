package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/santhoshcheemala/ZKGrade/circuit"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/model"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

var records = []utils.Record{
	{Features: grade.Features{20, 20, 20, 20, 20}, Grade: grade.F},
	{Features: grade.Features{60, 20, 40, 40, 40}, Grade: grade.E},
	{Features: grade.Features{60, 70, 60, 50, 60}, Grade: grade.D},
	{Features: grade.Features{80, 80, 90, 70, 80}, Grade: grade.C},
	{Features: grade.Features{100, 100, 100, 100, 100}, Grade: grade.B},
	{Features: grade.Features{100, 100, 100, 100, 200}, Grade: grade.A},
}

func trained(t *testing.T) *model.Predictor {
	t.Helper()
	p := model.NewPredictor()
	if err := p.Fit(records); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewRequiresTrainedPredictor(t *testing.T) {
	_, err := NewNetworkSimulation(records, model.NewPredictor(), nil, 0, zerolog.Nop())
	if !errors.Is(err, model.ErrModelNotReady) {
		t.Fatalf("err = %v, want ErrModelNotReady", err)
	}
}

func TestRunWithoutProofs(t *testing.T) {
	sim, err := NewNetworkSimulation(records, trained(t), nil, 0, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	r, err := sim.RunDistributed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Total != 6 || r.Matches != 6 || r.Accuracy() != 1 {
		t.Errorf("report = %+v", r)
	}
	if r.Proved != 0 || r.Verified != 0 {
		t.Errorf("proofs counted without keys: %+v", r)
	}
}

func TestRunCancelled(t *testing.T) {
	sim, err := NewNetworkSimulation(records, trained(t), nil, time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := sim.RunDistributed(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}

func TestRunWithProofs(t *testing.T) {
	if testing.Short() {
		t.Skip("plonk setup in short mode")
	}
	keys, err := circuit.Setup("", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sim, err := NewNetworkSimulation(records, trained(t), keys, 0, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	r, err := sim.RunDistributed(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Proved != 6 || r.Verified != 6 {
		t.Errorf("report = %+v", r)
	}
	if r.Matches != 6 {
		t.Errorf("matches = %d, want 6", r.Matches)
	}
}

func TestReportAccuracyEmpty(t *testing.T) {
	if (Report{}).Accuracy() != 0 {
		t.Error("empty report accuracy not zero")
	}
}
